package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// loginRequest はPOST /api/auth/loginのボディ
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin はPOST /api/auth/login のハンドラー。
// 資格情報を検証しBearerトークンを発行する。
func (h *Handler) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	admin, err := h.admins.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		writeError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(admin)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  admin,
	})
}

// HandleMe はGET /api/auth/me のハンドラー。
func (h *Handler) HandleMe(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		writeError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	admin, err := h.admins.GetByID(c.Request.Context(), claims.AdminID)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "admin not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, admin)
}
