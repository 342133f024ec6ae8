// Package store はSQLiteへのデータアクセスを提供する。
package store

import (
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// Database はGORM接続をラップする。
type Database struct {
	db *gorm.DB
}

// Open はSQLiteデータベースを開く。
// WALジャーナルと書き込み待ちタイムアウトを有効化する。
func Open(path string) (*Database, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Database{db: db}, nil
}

// Migrate はスキーマを冪等に適用する。
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(
		&model.User{},
		&model.Nas{},
		&model.Profile{},
		&model.Session{},
		&model.AccountingRecord{},
		&model.Admin{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// Seed は初回起動時の既定データを投入する。
// 管理者アカウント（adminsテーブルが空の場合のみ）とdefaultプロファイル。
func (d *Database) Seed(adminUsername, adminPassword string) error {
	var adminCount int64
	if err := d.db.Model(&model.Admin{}).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := &model.Admin{
			Username:     adminUsername,
			PasswordHash: string(hash),
			Role:         "admin",
		}
		if err := d.db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin: %w", err)
		}
		slog.Info("管理者アカウントをシード",
			"event_id", "SEED_ADMIN",
			"username", adminUsername,
		)
	}

	var profileCount int64
	if err := d.db.Model(&model.Profile{}).
		Where("name = ?", model.DefaultProfileName).
		Count(&profileCount).Error; err != nil {
		return fmt.Errorf("failed to count profiles: %w", err)
	}
	if profileCount == 0 {
		if err := d.db.Create(&model.Profile{Name: model.DefaultProfileName}).Error; err != nil {
			return fmt.Errorf("failed to seed default profile: %w", err)
		}
	}

	return nil
}

// Close は接続を閉じる。
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB は内部のgorm.DBを返す。
func (d *Database) DB() *gorm.DB {
	return d.db
}
