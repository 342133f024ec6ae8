// Package main は軽量RADIUSサーバー（PAP/CHAP/MS-CHAP/MS-CHAPv2認証、
// RFC 2866アカウンティング、管理HTTP API）のエントリーポイント。
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/oyaguma3/ppp-radius-server/internal/acct"
	"github.com/oyaguma3/ppp-radius-server/internal/api"
	"github.com/oyaguma3/ppp-radius-server/internal/auth"
	"github.com/oyaguma3/ppp-radius-server/internal/config"
	"github.com/oyaguma3/ppp-radius-server/internal/logging"
	"github.com/oyaguma3/ppp-radius-server/internal/server"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

func main() {
	// 1. 環境変数読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("設定読み込み失敗", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化（JSON形式）
	logging.Setup(cfg.LogLevel)

	slog.Info("radius-server起動開始",
		"version", config.Version,
		"auth_addr", cfg.AuthAddr(),
		"acct_addr", cfg.AcctAddr(),
		"dashboard_addr", cfg.DashboardAddr(),
		"database_path", cfg.DatabasePath,
	)

	// 3. ストア初期化（オープン→マイグレーション→シード）
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("データベースオープン失敗",
			"event_id", "DB_OPEN_ERR",
			"error", err,
		)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		slog.Error("マイグレーション失敗",
			"event_id", "DB_MIGRATE_ERR",
			"error", err,
		)
		os.Exit(1)
	}
	if err := db.Seed(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("シード失敗",
			"event_id", "DB_MIGRATE_ERR",
			"error", err,
		)
		os.Exit(1)
	}

	// 4. ストア層生成
	userStore := store.NewUserStore(db)
	nasStore := store.NewNasStore(db)
	profileStore := store.NewProfileStore(db)
	sessionStore := store.NewSessionStore(db)
	acctStore := store.NewAccountingStore(db)
	adminStore := store.NewAdminStore(db)

	// 5. 認証・アカウンティング処理
	authenticator := auth.NewAuthenticator(userStore, profileStore)
	acctProcessor := acct.NewProcessor(userStore, sessionStore, acctStore)

	// 6. RADIUS Secret解決（未知・無効NASは破棄）
	secretSource := server.NewNasSecretSource(nasStore, cfg.DefaultSecret)

	// 7. UDPサーバー（Authentication / Accounting）
	authServer := server.NewServer(cfg.AuthAddr(), server.NewAuthHandler(authenticator), secretSource)
	acctServer := server.NewServer(cfg.AcctAddr(), server.NewAcctHandler(acctProcessor), secretSource)

	// 8. 管理APIサーバー
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// 未指定時は起動ごとのランダムSecret（再起動でトークン失効）
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			slog.Error("JWT Secret生成失敗", "error", err)
			os.Exit(1)
		}
		jwtSecret = hex.EncodeToString(buf)
		slog.Warn("JWT_SECRET未指定のためランダム値を使用（再起動でトークンが無効になる）")
	}
	tokens := api.NewTokenManager([]byte(jwtSecret), config.TokenTTL)
	apiHandler := api.NewHandler(adminStore, userStore, nasStore, profileStore, sessionStore, acctStore, tokens)
	apiServer := api.NewServer(cfg.DashboardAddr(), apiHandler)

	// 9. サーバー起動（goroutine）
	go func() {
		slog.Info("Authenticationリスナー起動", "addr", cfg.AuthAddr())
		if err := authServer.ListenAndServe(); err != nil {
			slog.Error("Authenticationサーバーエラー", "error", err)
			os.Exit(1)
		}
	}()
	go func() {
		slog.Info("Accountingリスナー起動", "addr", cfg.AcctAddr())
		if err := acctServer.ListenAndServe(); err != nil {
			slog.Error("Accountingサーバーエラー", "error", err)
			os.Exit(1)
		}
	}()
	go func() {
		if err := apiServer.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("管理APIサーバーエラー", "error", err)
			os.Exit(1)
		}
	}()

	// 10. シグナル待機 → Graceful Shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	slog.Info("シグナル受信、シャットダウン開始", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, shutdown := range []func(context.Context) error{
		authServer.Shutdown,
		acctServer.Shutdown,
		apiServer.Shutdown,
	} {
		wg.Add(1)
		go func(fn func(context.Context) error) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				slog.Warn("シャットダウンエラー", "error", err)
			}
		}(shutdown)
	}
	wg.Wait()

	slog.Info("radius-server停止完了")
}
