package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/ppp-radius-server/internal/logging"
	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// nasRequest はNAS作成・更新のボディ
type nasRequest struct {
	IPAddress  string `json:"ip_address"`
	Secret     string `json:"secret"`
	Name       string `json:"name"`
	VendorType string `json:"vendor_type"`
	IsActive   *bool  `json:"is_active"`
}

// HandleListNas はGET /api/nas のハンドラー。
func (h *Handler) HandleListNas(c *gin.Context) {
	list, err := h.nas.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"nas": list})
}

// HandleCreateNas はPOST /api/nas のハンドラー。
func (h *Handler) HandleCreateNas(c *gin.Context) {
	var req nasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.IPAddress == "" || req.Secret == "" {
		writeError(c, http.StatusBadRequest, "ip_address and secret are required")
		return
	}

	nas := &model.Nas{
		IPAddress:  req.IPAddress,
		Secret:     req.Secret,
		Name:       req.Name,
		VendorType: "mikrotik",
		IsActive:   true,
	}
	if req.VendorType != "" {
		nas.VendorType = req.VendorType
	}
	if req.IsActive != nil {
		nas.IsActive = *req.IsActive
	}

	if err := h.nas.Create(c.Request.Context(), nas); err != nil {
		if err == store.ErrDuplicate {
			writeError(c, http.StatusBadRequest, "ip_address already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("NAS登録",
		"event_id", "NAS_CREATED",
		"ip_address", nas.IPAddress,
		"secret", logging.MaskSecret(nas.Secret),
	)
	c.JSON(http.StatusCreated, nas)
}

// HandleGetNas はGET /api/nas/:id のハンドラー。
func (h *Handler) HandleGetNas(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	nas, err := h.nas.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "nas not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, nas)
}

// HandleUpdateNas はPUT /api/nas/:id のハンドラー。
func (h *Handler) HandleUpdateNas(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req nasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	nas, err := h.nas.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "nas not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if req.IPAddress != "" {
		nas.IPAddress = req.IPAddress
	}
	if req.Secret != "" {
		nas.Secret = req.Secret
	}
	if req.Name != "" {
		nas.Name = req.Name
	}
	if req.VendorType != "" {
		nas.VendorType = req.VendorType
	}
	if req.IsActive != nil {
		nas.IsActive = *req.IsActive
	}

	if err := h.nas.Update(c.Request.Context(), nas); err != nil {
		if err == store.ErrDuplicate {
			writeError(c, http.StatusBadRequest, "ip_address already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, nas)
}

// HandleDeleteNas はDELETE /api/nas/:id のハンドラー。
func (h *Handler) HandleDeleteNas(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.nas.Delete(c.Request.Context(), id); err != nil {
		if err == store.ErrNotFound {
			writeError(c, http.StatusNotFound, "nas not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.Status(http.StatusNoContent)
}
