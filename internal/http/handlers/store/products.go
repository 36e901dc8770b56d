package store

import (
	"strconv"
	"strings"

	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/models"
	"github.com/himart-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	product, err := h.Upstream.GetProduct(c.Request.Context(), id)
	if err != nil {
		if upstream.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondUpstreamError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, product)
}

// ListShelf 获取固定货架商品列表
func (h *Handler) ListShelf(c *gin.Context) {
	filter := models.ProductFilter{
		Shelf:    c.Param("shelf"),
		Category: c.Query("category"),
		Limit:    parseIntQuery(c, "limit"),
		Page:     parseIntQuery(c, "page"),
	}
	h.listProducts(c, filter)
}

// SearchProducts 商品小搜索（搜索栏联想）
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		response.Success(c, []models.ProductSummary{})
		return
	}
	h.listProducts(c, models.ProductFilter{
		Query: query,
		Limit: parseIntQuery(c, "limit"),
	})
}

func (h *Handler) listProducts(c *gin.Context, filter models.ProductFilter) {
	products, err := h.Upstream.ListProducts(c.Request.Context(), filter)
	if err != nil {
		if upstream.IsNotFound(err) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondUpstreamError(c, err, "error.product_fetch_failed")
		return
	}
	response.Success(c, products)
}

func parseIntQuery(c *gin.Context, key string) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
