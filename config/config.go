package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	MySQL struct {
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Hostname string `mapstructure:"hostname"`
		DBName   string `mapstructure:"dbname"`
	} `mapstructure:"mysql"`

	JWT struct {
		Secret      string `mapstructure:"secret"`
		ExpireHours int    `mapstructure:"expire_hours"`
	} `mapstructure:"jwt"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

// Load 读取配置文件，环境变量 APP_* 可覆盖同名配置项。
// 配置文件允许缺失，此时全部走默认值和环境变量。
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.password", "root")
	v.SetDefault("mysql.hostname", "127.0.0.1:3306")
	v.SetDefault("mysql.dbname", "shuifeibao")
	v.SetDefault("jwt.secret", "shuifeibao_secret_key")
	v.SetDefault("jwt.expire_hours", 168)
	v.SetDefault("metrics.enabled", true)

	var c Config
	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
