package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
)

// Init 建立进程级连接池并执行迁移
// 返回句柄由调用方注入到各 store，连接失败时由调用方决定退出
func Init(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Auto Migrate
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Poll{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return gdb, nil
}
