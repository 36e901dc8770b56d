package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/himart-next/internal/models"
)

// CartEntry 远端购物车行（商品字段 + 数量）
type CartEntry struct {
	models.Product
	Quantity int `json:"quantity"`
}

// cartMutation 数量 0 对远端语义为删行，不能 omitempty。
type cartMutation struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart 获取服务端购物车
func (c *Client) GetCart(ctx context.Context, cookie string) ([]CartEntry, error) {
	var entries []CartEntry
	err := c.do(ctx, request{
		op:     "get_cart",
		method: http.MethodGet,
		path:   "/cart",
		cookie: cookie,
	}, &entries)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AddCartItem 向服务端购物车追加商品
func (c *Client) AddCartItem(ctx context.Context, cookie, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return newError("add_cart_item", KindNotFound, 0, fmt.Errorf("商品 ID 为空"))
	}
	return c.do(ctx, request{
		op:     "add_cart_item",
		method: http.MethodPost,
		path:   "/cart",
		cookie: cookie,
		body:   cartMutation{ProductID: productID, Quantity: quantity},
	}, nil)
}

// UpdateCartItem 覆盖服务端购物车某行数量
func (c *Client) UpdateCartItem(ctx context.Context, cookie, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return newError("update_cart_item", KindNotFound, 0, fmt.Errorf("商品 ID 为空"))
	}
	return c.do(ctx, request{
		op:     "update_cart_item",
		method: http.MethodPut,
		path:   "/cart",
		cookie: cookie,
		body:   cartMutation{ProductID: productID, Quantity: quantity},
	}, nil)
}

// DeleteCartItem 删除服务端购物车某行
func (c *Client) DeleteCartItem(ctx context.Context, cookie, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return newError("delete_cart_item", KindNotFound, 0, fmt.Errorf("商品 ID 为空"))
	}
	query := url.Values{}
	query.Set("productId", productID)
	return c.do(ctx, request{
		op:     "delete_cart_item",
		method: http.MethodDelete,
		path:   "/cart",
		query:  query,
		cookie: cookie,
	}, nil)
}

// ClearCart 清空服务端购物车
func (c *Client) ClearCart(ctx context.Context, cookie string) error {
	return c.do(ctx, request{
		op:     "clear_cart",
		method: http.MethodDelete,
		path:   "/cart",
		cookie: cookie,
	}, nil)
}

// CartCount 获取服务端购物车总件数
func (c *Client) CartCount(ctx context.Context, cookie string) (int, error) {
	var payload struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, request{
		op:     "cart_count",
		method: http.MethodGet,
		path:   "/cart/count",
		cookie: cookie,
	}, &payload)
	if err != nil {
		return 0, err
	}
	return payload.Count, nil
}
