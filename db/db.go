package db

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// InitDb 根据DSN生成gorm连接
// dsn示例: root:root@tcp(localhost:3306)/mediflow?charset=utf8mb4&parseTime=True&loc=Local&timeout=1000ms
func InitDb(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("数据库DSN为空,请检查配置")
	}
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Second * 28800) // SHOW VARIABLES LIKE '%timeout%';

	// 生成gorm连接
	gdb, err := gorm.Open(
		mysql.New(mysql.Config{Conn: sqlDB}),
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{SingularTable: true},
			Logger:         logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return gdb, nil
}
