package server

import (
	"context"
	"log/slog"
	"net"

	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// NasSecretSource はNAS登録情報に基づくRADIUS Secret解決を行う。
// layeh.com/radius.SecretSourceインターフェースの実装。
// Secretが解決できないパケットはライブラリ側で破棄される
// （未知の送信元にAccess-Rejectを返さない）。
type NasSecretSource struct {
	nasStore       store.NasStore
	fallbackSecret []byte
}

// NewNasSecretSource は新しいNasSecretSourceを生成する。
// fallbackSecretが空文字列の場合、フォールバックは無効。
func NewNasSecretSource(ns store.NasStore, fallbackSecret string) *NasSecretSource {
	var fb []byte
	if fallbackSecret != "" {
		fb = []byte(fallbackSecret)
	}
	return &NasSecretSource{
		nasStore:       ns,
		fallbackSecret: fb,
	}
}

// RADIUSSecret はリモートアドレスに対応するShared Secretを返す。
// 有効なNAS登録 → フォールバック → nil（破棄）の優先順で解決する。
func (s *NasSecretSource) RADIUSSecret(ctx context.Context, remoteAddr net.Addr) ([]byte, error) {
	ip := extractIP(remoteAddr)
	if ip == "" {
		var addrStr string
		if remoteAddr != nil {
			addrStr = remoteAddr.String()
		}
		slog.Warn("IPアドレス抽出失敗",
			"event_id", "RADIUS_IP_EXTRACT_ERR",
			"remote_addr", addrStr,
		)
		return nil, nil
	}

	nas, err := s.nasStore.FindActiveByIP(ctx, ip)
	if err != nil {
		if err != store.ErrNotFound {
			slog.Error("NAS検索エラー",
				"event_id", "DB_READ_ERR",
				"src_ip", ip,
				"error", err.Error(),
			)
		}
		if len(s.fallbackSecret) > 0 {
			return s.fallbackSecret, nil
		}
		if err == store.ErrNotFound {
			slog.Warn("未知のNASからのパケットを破棄",
				"event_id", "RADIUS_UNKNOWN_NAS",
				"src_ip", ip,
			)
		}
		return nil, nil
	}

	return []byte(nas.Secret), nil
}
