package store

import (
	"github.com/himart-next/internal/cart"
	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
// Quantity 用指针区分「未传」与「显式 0」。
type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// cartNotice 随购物车返回的非阻断提示
type cartNotice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// GetCart 获取结算视图
func (h *Handler) GetCart(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}

	resolved, recovered, err := h.CartResolver.Resolve(c.Request.Context(), cookieHeader(c), visitorID)
	if err != nil {
		respondUpstreamError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"cart":    resolved,
		"notices": buildCartNotices(c, resolved, recovered),
	})
}

// AddCartItem 添加商品
func (h *Handler) AddCartItem(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	// 未传数量默认加 1，显式 0 交由解析器拒绝
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	resolved, err := h.CartResolver.Add(c.Request.Context(), cookieHeader(c), visitorID, req.ProductID, quantity)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": resolved})
}

// UpdateCartItem 覆盖某行数量（0 等同删除）
func (h *Handler) UpdateCartItem(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if req.Quantity == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	resolved, err := h.CartResolver.UpdateQuantity(c.Request.Context(), cookieHeader(c), visitorID, req.ProductID, *req.Quantity)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": resolved})
}

// DeleteCartItem 删除某行
func (h *Handler) DeleteCartItem(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}
	productID := c.Param("product_id")
	if productID == "" {
		respondError(c, response.CodeBadRequest, "error.cart_item_invalid", nil)
		return
	}

	resolved, err := h.CartResolver.Remove(c.Request.Context(), cookieHeader(c), visitorID, productID)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": resolved})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}

	resolved, err := h.CartResolver.Clear(c.Request.Context(), cookieHeader(c), visitorID)
	if err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"cart": resolved})
}

// CartCount 统计购物车总件数（导航角标）
func (h *Handler) CartCount(c *gin.Context) {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return
	}

	count, err := h.CartResolver.Count(c.Request.Context(), cookieHeader(c), visitorID)
	if err != nil {
		respondUpstreamError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, gin.H{"count": count})
}

func buildCartNotices(c *gin.Context, resolved *cart.ResolvedCart, recovered bool) []cartNotice {
	locale := i18n.ResolveLocale(c)
	notices := make([]cartNotice, 0, 2)
	if recovered {
		notices = append(notices, cartNotice{
			Level:   constants.NoticeLevelWarning,
			Message: i18n.T(locale, "notice.guest_cart_corrupt"),
		})
	}
	if resolved != nil && resolved.DroppedLines > 0 {
		notices = append(notices, cartNotice{
			Level:   constants.NoticeLevelWarning,
			Message: i18n.T(locale, "notice.cart_lines_dropped"),
		})
	}
	if resolved != nil && resolved.Degraded {
		key := "notice.cart_unavailable"
		if resolved.Source == cart.SourceGuest {
			key = "notice.guest_cart_storage"
		}
		notices = append(notices, cartNotice{
			Level:   constants.NoticeLevelError,
			Message: i18n.T(locale, key),
		})
	}
	return notices
}
