package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/ppp-radius-server/internal/config"
	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// profileRequest はプロファイル作成のボディ
type profileRequest struct {
	Name           string `json:"name" binding:"required"`
	RateLimit      string `json:"rate_limit"`
	SessionTimeout int    `json:"session_timeout"`
	IdleTimeout    int    `json:"idle_timeout"`
}

// HandleListProfiles はGET /api/profiles のハンドラー。
func (h *Handler) HandleListProfiles(c *gin.Context) {
	list, err := h.profiles.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": list})
}

// HandleCreateProfile はPOST /api/profiles のハンドラー。
func (h *Handler) HandleCreateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "name is required")
		return
	}

	profile := &model.Profile{
		Name:           req.Name,
		RateLimit:      req.RateLimit,
		SessionTimeout: req.SessionTimeout,
		IdleTimeout:    req.IdleTimeout,
	}
	if err := h.profiles.Create(c.Request.Context(), profile); err != nil {
		if err == store.ErrDuplicate {
			writeError(c, http.StatusBadRequest, "profile name already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusCreated, profile)
}

// HandleListSessions はGET /api/sessions のハンドラー。
// アクティブセッション（stop_time未設定）のみ返す。
func (h *Handler) HandleListSessions(c *gin.Context) {
	sessions, err := h.sessions.ListActive(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// HandleListAccounting はGET /api/accounting のハンドラー。
func (h *Handler) HandleListAccounting(c *gin.Context) {
	page, limit, offset := pagination(c)

	records, total, err := h.records.List(c.Request.Context(), offset, limit)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// HandleStats はGET /api/dashboard/stats のハンドラー。
func (h *Handler) HandleStats(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, activeUsers, err := h.users.Count(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	totalNas, err := h.nas.Count(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	activeSessions, err := h.sessions.CountActive(ctx)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	// 当日分の集計はローカル日付の0時を境界とする
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayIn, todayOut, err := h.records.SumOctetsSince(ctx, midnight)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	stats := model.DashboardStats{
		TotalUsers:        totalUsers,
		ActiveUsers:       activeUsers,
		TotalNas:          totalNas,
		ActiveSessions:    activeSessions,
		TodayInputOctets:  todayIn,
		TodayOutputOctets: todayOut,
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"server_status": gin.H{
			"uptime_sec": int64(time.Since(h.startTime).Seconds()),
			"version":    config.Version,
		},
	})
}

// healthResponse はヘルスチェックレスポンスを表す。
type healthResponse struct {
	Status    string `json:"status"`
	UptimeSec int64  `json:"uptime_sec"`
	Version   string `json:"version"`
}

// HandleHealth はGET /api/health のハンドラー（認証不要）。
func (h *Handler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:    "ok",
		UptimeSec: int64(time.Since(h.startTime).Seconds()),
		Version:   config.Version,
	})
}
