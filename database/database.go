package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"financas/config"
	"financas/logger"
	"financas/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// MySQLDSN 构建 MySQL DSN 连接字符串，日期按 UTC 读写
func MySQLDSN(db config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=UTC",
		db.Username,
		db.Password,
		db.Host,
		db.Port,
		db.DBName,
		db.Charset,
	)
}

// PostgresDSN 构建 lib/pq 连接字符串
func PostgresDSN(db config.DatabaseConfig) string {
	sslmode := db.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		db.Host,
		db.Port,
		db.Username,
		db.Password,
		db.DBName,
		sslmode,
	)
}

// dialector 按驱动选择方言；postgres 使用 lib/pq 打开的连接
func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		return mysql.Open(MySQLDSN(cfg.Database)), nil
	case config.DriverPostgres:
		sqlDB, err := sql.Open("postgres", PostgresDSN(cfg.Database))
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// gormLogger SQL 日志输出到应用日志，debug 模式下记录全部语句
func gormLogger(cfg *config.Config, log *logger.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if cfg.IsDebug() {
		level = gormlogger.Info
	}
	storage := log.WithComponent(logger.ComponentStorage)
	return gormlogger.New(slog.NewLogLogger(storage.Handler(), slog.LevelInfo), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Open 连接数据库，完成迁移并写入类别
func Open(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger:         gormLogger(cfg, log),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := SeedCategories(db); err != nil {
		return nil, fmt.Errorf("seed categories: %w", err)
	}
	return db, nil
}

// Migrate 自动迁移数据库表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Entry{},
		&models.RecurringExpense{},
		&models.Expense{},
		&models.Installment{},
	)
}

// SeedCategories 写入固定类别，已存在的跳过
func SeedCategories(db *gorm.DB) error {
	cats := models.GetCategories()
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cats).Error
}
