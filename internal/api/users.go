package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// ページング既定値
const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// pagination はpage/limitクエリをオフセットに変換する
func pagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// parseIDParam は:idパスパラメータを取り出す
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		writeError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// userRequest はユーザー作成・更新のボディ
type userRequest struct {
	Username  string     `json:"username"`
	Password  string     `json:"password"`
	Profile   string     `json:"profile"`
	IsActive  *bool      `json:"is_active"`
	ExpiredAt *time.Time `json:"expired_at"`
}

// HandleListUsers はGET /api/users のハンドラー。
func (h *Handler) HandleListUsers(c *gin.Context) {
	page, limit, offset := pagination(c)
	search := c.Query("search")

	users, total, err := h.users.List(c.Request.Context(), offset, limit, search)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// HandleCreateUser はPOST /api/users のハンドラー。
func (h *Handler) HandleCreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user := &model.User{
		Username:  req.Username,
		Password:  req.Password,
		Profile:   model.DefaultProfileName,
		IsActive:  true,
		ExpiredAt: req.ExpiredAt,
	}
	if req.Profile != "" {
		user.Profile = req.Profile
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if err == store.ErrDuplicate {
			writeError(c, http.StatusBadRequest, "username already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// HandleGetUser はGET /api/users/:id のハンドラー。
func (h *Handler) HandleGetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, user)
}

// HandleUpdateUser はPUT /api/users/:id のハンドラー。
// 指定されたフィールドのみ上書きする。
func (h *Handler) HandleUpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Password != "" {
		user.Password = req.Password
	}
	if req.Profile != "" {
		user.Profile = req.Profile
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.ExpiredAt != nil {
		user.ExpiredAt = req.ExpiredAt
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		if err == store.ErrDuplicate {
			writeError(c, http.StatusBadRequest, "username already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, user)
}

// HandleDeleteUser はDELETE /api/users/:id のハンドラー。
func (h *Handler) HandleDeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "user not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.Status(http.StatusNoContent)
}
