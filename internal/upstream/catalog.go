package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/models"
)

// GetProduct 获取单个商品详情
func (c *Client) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return nil, newError("get_product", KindNotFound, 0, fmt.Errorf("商品 ID 为空"))
	}
	query := url.Values{}
	query.Set("id", id)

	var product models.Product
	err := c.do(ctx, request{
		op:     "get_product",
		method: http.MethodGet,
		path:   "/product",
		query:  query,
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts 按过滤条件获取商品列表
// Shelf 对应远端的固定货架接口，Query 走小搜索接口，二者互斥时货架优先。
func (c *Client) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.ProductSummary, error) {
	path := "/products/" + constants.ProductShelfTrending
	query := url.Values{}

	switch {
	case filter.Shelf != "":
		if !constants.ValidProductShelf(filter.Shelf) {
			return nil, newError("list_products", KindNotFound, 0, fmt.Errorf("未知货架: %s", filter.Shelf))
		}
		path = "/products/" + filter.Shelf
	case filter.Query != "":
		path = "/products/" + constants.ProductShelfMiniSearch
		query.Set("q", filter.Query)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}

	var products []models.ProductSummary
	err := c.do(ctx, request{
		op:     "list_products",
		method: http.MethodGet,
		path:   path,
		query:  query,
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}
