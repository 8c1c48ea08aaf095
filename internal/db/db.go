package db

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接，执行自动迁移并写入基础数据。
// driver 支持 postgres 和 sqlite，dsn 为对应驱动的连接串。
func Init(driver, dsn string) error {
	dial, err := dialectorFor(driver, dsn)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	return Seed(DB)
}

// Migrate 为核心模型创建表结构
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&Category{},
		&Tanka{},
		&ExchangeHistory{},
	)
}

// ConfigurePool 设置底层连接池参数
func ConfigurePool(gdb *gorm.DB, maxOpen, maxIdle int, maxLifetime time.Duration) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)
	return nil
}

// WaitReady 启动时等待数据库可用。容器环境下数据库往往晚于应用就绪，
// 这里用指数退避反复探测直到超时。
func WaitReady(driver, dsn string, maxWait time.Duration) error {
	dial, err := dialectorFor(driver, dsn)
	if err != nil {
		return err
	}

	probe := func() error {
		gdb, err := gorm.Open(dial, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return sqlDB.Ping()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 1 * time.Second
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	if err := backoff.Retry(probe, b); err != nil {
		return fmt.Errorf("database not reachable after %s: %w", maxWait, err)
	}
	return nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
