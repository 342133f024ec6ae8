// Package config は環境変数ベースのアプリケーション設定を提供する。
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config はアプリケーション設定を保持する
type Config struct {
	// RADIUS設定
	RadiusAuthPort int `envconfig:"RADIUS_AUTH_PORT" default:"1812"`
	RadiusAcctPort int `envconfig:"RADIUS_ACCT_PORT" default:"1813"`

	// 管理API設定
	DashboardPort int    `envconfig:"DASHBOARD_PORT" default:"8080"`
	JWTSecret     string `envconfig:"JWT_SECRET"`

	// ストア設定
	DatabasePath string `envconfig:"DATABASE_PATH" default:"radius.db"`

	// NAS未登録時のフォールバックSecret（空ならフォールバック無効）
	DefaultSecret string `envconfig:"DEFAULT_SECRET"`

	// 初回シード用の管理者アカウント
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	// ログ設定
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// AuthAddr はAuthentication UDPリスナーのバインドアドレスを返す
func (c *Config) AuthAddr() string {
	return fmt.Sprintf(":%d", c.RadiusAuthPort)
}

// AcctAddr はAccounting UDPリスナーのバインドアドレスを返す
func (c *Config) AcctAddr() string {
	return fmt.Sprintf(":%d", c.RadiusAcctPort)
}

// DashboardAddr は管理APIのバインドアドレスを返す
func (c *Config) DashboardAddr() string {
	return fmt.Sprintf(":%d", c.DashboardPort)
}
