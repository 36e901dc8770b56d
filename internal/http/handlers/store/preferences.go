package store

import (
	"strconv"

	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ThemeRequest 主题偏好请求
type ThemeRequest struct {
	DarkMode *bool `json:"darkMode" binding:"required"`
}

// GetTheme 读取深色模式偏好（默认浅色）
func (h *Handler) GetTheme(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}

	value, found, err := h.PreferenceRepo.Get(c.Request.Context(), visitorID, constants.DarkModeStorageKey)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	darkMode := false
	if found {
		darkMode, _ = strconv.ParseBool(value)
	}
	response.Success(c, gin.H{"darkMode": darkMode})
}

// SetTheme 写入深色模式偏好
func (h *Handler) SetTheme(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DarkMode == nil {
		respondError(c, response.CodeBadRequest, "error.preference_invalid", err)
		return
	}

	if err := h.PreferenceRepo.Set(c.Request.Context(), visitorID, constants.DarkModeStorageKey, strconv.FormatBool(*req.DarkMode)); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"darkMode": *req.DarkMode})
}
