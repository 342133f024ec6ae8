package config

import "time"

// サーバーシャットダウン設定
const (
	ShutdownTimeout = 5 * time.Second
)

// 管理APIトークン設定
const (
	TokenTTL = 24 * time.Hour
)

// Version はサーバーバージョン（/api/health等で返却）
const Version = "0.3.0"
