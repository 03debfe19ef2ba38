package config

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

var (
	DB   *sql.DB
	once sync.Once
)

// ConnectDB 连接数据库
func ConnectDB(c Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4",
		c.MySQL.Username, c.MySQL.Password, c.MySQL.Hostname, c.MySQL.DBName)
	return sql.Open("mysql", dsn)
}

// InitDB 初始化数据库连接
func InitDB(c Config) {
	once.Do(func() {
		var err error
		DB, err = ConnectDB(c)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err = DB.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		// 自动迁移数据库
		if err = autoMigrate(DB); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		log.Println("Database connected and migrated successfully")
	})
}

// autoMigrate 自动迁移数据库
func autoMigrate(db *sql.DB) error {
	// 创建 migrations 表用于跟踪迁移状态
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %v", err)
	}

	// 运行所有迁移
	migrations := getMigrations()
	for _, migration := range migrations {
		if err := runMigrationIfNotExists(db, migration); err != nil {
			return fmt.Errorf("failed to run migration %s: %v", migration.Name, err)
		}
	}

	return nil
}

// Migration 迁移结构
type Migration struct {
	Name string
	SQL  string
}

// createMigrationsTable 创建迁移表
func createMigrationsTable(db *sql.DB) error {
	createSQL := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`
	_, err := db.Exec(createSQL)
	return err
}

// getMigrations 获取所有迁移
func getMigrations() []Migration {
	return []Migration{
		{
			Name: "001_create_users_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id INT AUTO_INCREMENT PRIMARY KEY,
				username VARCHAR(255) UNIQUE,
				password VARCHAR(255),
				phone VARCHAR(20),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				INDEX idx_username (username)
			)
			`,
		},
		{
			Name: "002_create_fertilizers_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS fertilizers (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				user_id INT NOT NULL,
				name VARCHAR(255) NOT NULL,
				bag_size_kg DOUBLE,
				price_per_bag DOUBLE,
				n DOUBLE,
				p2o5 DOUBLE,
				k2o DOUBLE,
				ca DOUBLE,
				mg DOUBLE,
				s DOUBLE,
				fe DOUBLE,
				mn DOUBLE,
				zn DOUBLE,
				cu DOUBLE,
				b DOUBLE,
				mo DOUBLE,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				INDEX idx_user_id (user_id),
				INDEX idx_name (name)
			)
			`,
		},
		{
			Name: "003_create_recipes_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS recipes (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				user_id INT NOT NULL,
				batch_no VARCHAR(64) NOT NULL,
				name VARCHAR(255),
				notes TEXT,
				topology VARCHAR(32),
				dosing_mode VARCHAR(32),
				weight_unit VARCHAR(8),
				vessel_volume_l DOUBLE,
				injector_ratio DOUBLE,
				ec_scale DOUBLE,
				ppm TEXT,
				ec_estimate DOUBLE,
				cost_per_batch DOUBLE,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				INDEX idx_user_id (user_id),
				INDEX idx_batch_no (batch_no)
			)
			`,
		},
		{
			Name: "004_create_recipe_lines_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS recipe_lines (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				recipe_id BIGINT NOT NULL,
				fertilizer_id BIGINT,
				fertilizer_name VARCHAR(255),
				amount DOUBLE,
				total_grams DOUBLE,
				delivered_g_per_l DOUBLE,
				cost DOUBLE,
				INDEX idx_recipe_id (recipe_id),
				FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE
			)
			`,
		},
	}
}

// runMigrationIfNotExists 如果迁移不存在则运行
func runMigrationIfNotExists(db *sql.DB, migration Migration) error {
	// 检查迁移是否已执行
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", migration.Name).Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Printf("Migration %s already executed, skipping", migration.Name)
		return nil
	}

	// 执行迁移
	log.Printf("Running migration: %s", migration.Name)
	if _, err := db.Exec(migration.SQL); err != nil {
		return err
	}

	// 记录迁移已执行
	_, err = db.Exec("INSERT INTO migrations (name) VALUES (?)", migration.Name)
	return err
}
