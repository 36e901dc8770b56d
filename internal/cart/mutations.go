package cart

import (
	"context"

	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/guestcart"
	"github.com/himart-next/internal/upstream"
)

// Add 添加商品
// 先提交远端购物车，未登录时回放到游客购物车，返回最新结算视图。
func (r *Resolver) Add(ctx context.Context, cookie, visitorID, productID string, quantity int) (*ResolvedCart, error) {
	if quantity < 1 {
		return nil, guestcart.ErrQuantityInvalid
	}
	err := r.upstream.AddCartItem(ctx, cookie, productID, quantity)
	if err == nil {
		resolved, _, rerr := r.Resolve(ctx, cookie, visitorID)
		return resolved, rerr
	}
	if !upstream.IsUnauthorized(err) {
		return nil, err
	}
	return r.guestMutate(ctx, visitorID, productID, quantity, constants.QuantityModeAdd)
}

// UpdateQuantity 覆盖某行数量
func (r *Resolver) UpdateQuantity(ctx context.Context, cookie, visitorID, productID string, quantity int) (*ResolvedCart, error) {
	if quantity < 0 {
		return nil, guestcart.ErrQuantityInvalid
	}
	err := r.upstream.UpdateCartItem(ctx, cookie, productID, quantity)
	if err == nil {
		resolved, _, rerr := r.Resolve(ctx, cookie, visitorID)
		return resolved, rerr
	}
	if !upstream.IsUnauthorized(err) {
		return nil, err
	}
	return r.guestMutate(ctx, visitorID, productID, quantity, constants.QuantityModeSet)
}

// Remove 删除某行
func (r *Resolver) Remove(ctx context.Context, cookie, visitorID, productID string) (*ResolvedCart, error) {
	err := r.upstream.DeleteCartItem(ctx, cookie, productID)
	if err == nil {
		resolved, _, rerr := r.Resolve(ctx, cookie, visitorID)
		return resolved, rerr
	}
	if !upstream.IsUnauthorized(err) {
		return nil, err
	}
	if _, err := r.guest.Remove(ctx, visitorID, productID); err != nil {
		return nil, err
	}
	resolved, _, rerr := r.resolveGuest(ctx, visitorID)
	return resolved, rerr
}

// Clear 清空购物车
func (r *Resolver) Clear(ctx context.Context, cookie, visitorID string) (*ResolvedCart, error) {
	err := r.upstream.ClearCart(ctx, cookie)
	if err == nil {
		resolved, _, rerr := r.Resolve(ctx, cookie, visitorID)
		return resolved, rerr
	}
	if !upstream.IsUnauthorized(err) {
		return nil, err
	}
	if err := r.guest.Clear(ctx, visitorID); err != nil {
		return nil, err
	}
	resolved, _, rerr := r.resolveGuest(ctx, visitorID)
	return resolved, rerr
}

// Count 统计购物车总件数
func (r *Resolver) Count(ctx context.Context, cookie, visitorID string) (int, error) {
	count, err := r.upstream.CartCount(ctx, cookie)
	if err == nil {
		return count, nil
	}
	if !upstream.IsUnauthorized(err) {
		return 0, err
	}
	return r.guest.Count(ctx, visitorID)
}

// guestMutate 校验商品存在后写入游客购物车
func (r *Resolver) guestMutate(ctx context.Context, visitorID, productID string, quantity int, mode string) (*ResolvedCart, error) {
	stock := 0
	if mode != constants.QuantityModeSet || quantity > 0 {
		product, err := r.upstream.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if quantity > 0 && product.Stock < 1 {
			return nil, guestcart.ErrOutOfStock
		}
		stock = product.Stock
	}
	if _, err := r.guest.Upsert(ctx, visitorID, productID, quantity, mode, stock); err != nil {
		return nil, err
	}
	resolved, _, err := r.resolveGuest(ctx, visitorID)
	return resolved, err
}
