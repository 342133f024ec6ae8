// Package logging はログ初期化とマスキングのユーティリティを提供する。
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup はJSON形式のslogロガーを初期化し、デフォルトに設定する。
// levelは"debug"/"info"/"warn"/"error"（不明値はinfo扱い）。
func Setup(level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})).With("app", "radius-server")
	slog.SetDefault(logger)
	return logger
}

// ParseLevel はLOG_LEVEL文字列をslog.Levelに変換する
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
