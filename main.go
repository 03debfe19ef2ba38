package main

import (
	"log"

	"go-shuifeibao/config"
	"go-shuifeibao/middleware"
	"go-shuifeibao/routes"
)

func main() {
	// 读取配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	middleware.SetJWTSecret(cfg.JWT.Secret)

	// 初始化数据库连接
	config.InitDB(cfg)

	// 设置路由
	r := routes.SetupRouter(config.DB, cfg)

	// 启动服务器
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
