package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// Handler は管理APIの全ハンドラーを保持する。
type Handler struct {
	admins    store.AdminStore
	users     store.UserStore
	nas       store.NasStore
	profiles  store.ProfileStore
	sessions  store.SessionStore
	records   store.AccountingStore
	tokens    *TokenManager
	startTime time.Time
}

// NewHandler は新しいHandlerを生成する。
func NewHandler(
	admins store.AdminStore,
	users store.UserStore,
	nas store.NasStore,
	profiles store.ProfileStore,
	sessions store.SessionStore,
	records store.AccountingStore,
	tokens *TokenManager,
) *Handler {
	return &Handler{
		admins:    admins,
		users:     users,
		nas:       nas,
		profiles:  profiles,
		sessions:  sessions,
		records:   records,
		tokens:    tokens,
		startTime: time.Now(),
	}
}

// Server は管理API HTTPサーバーを管理する。
type Server struct {
	engine *gin.Engine
	server *http.Server
}

// NewServer は新しいServerを生成する。
func NewServer(addr string, h *Handler) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// ミドルウェア登録
	engine.Use(TraceIDMiddleware())
	engine.Use(LoggingMiddleware())
	engine.Use(RecoveryMiddleware())

	// ルーティング
	SetupRouter(engine, h)

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:    addr,
			Handler: engine,
		},
	}
}

// SetupRouter はルーティングを設定する。
// /api/auth/loginと/api/health以外はBearerトークン必須。
func SetupRouter(engine *gin.Engine, h *Handler) {
	api := engine.Group("/api")

	api.GET("/health", h.HandleHealth)
	api.POST("/auth/login", h.HandleLogin)

	authed := api.Group("", AuthRequired(h.tokens))
	{
		authed.GET("/auth/me", h.HandleMe)
		authed.GET("/dashboard/stats", h.HandleStats)

		authed.GET("/users", h.HandleListUsers)
		authed.POST("/users", h.HandleCreateUser)
		authed.GET("/users/:id", h.HandleGetUser)
		authed.PUT("/users/:id", h.HandleUpdateUser)
		authed.DELETE("/users/:id", h.HandleDeleteUser)

		authed.GET("/nas", h.HandleListNas)
		authed.POST("/nas", h.HandleCreateNas)
		authed.GET("/nas/:id", h.HandleGetNas)
		authed.PUT("/nas/:id", h.HandleUpdateNas)
		authed.DELETE("/nas/:id", h.HandleDeleteNas)

		authed.GET("/profiles", h.HandleListProfiles)
		authed.POST("/profiles", h.HandleCreateProfile)

		authed.GET("/sessions", h.HandleListSessions)
		authed.GET("/accounting", h.HandleListAccounting)
	}
}

// Run はサーバーを起動する。
func (s *Server) Run() error {
	slog.Info("starting dashboard server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown はサーバーをシャットダウンする。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
