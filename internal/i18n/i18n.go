package i18n

import (
	"fmt"
	"strings"

	"github.com/himart-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// ResolveLocale 从请求解析站点语言（?lang 优先，其次 Accept-Language）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleEnUS
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		if normalized, ok := matchLocale(lang); ok {
			return normalized
		}
	}
	accept := c.GetHeader("Accept-Language")
	for _, part := range strings.Split(accept, ",") {
		lang := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if lang == "" {
			continue
		}
		if normalized, ok := matchLocale(lang); ok {
			return normalized
		}
	}
	return constants.LocaleEnUS
}

// T 返回指定语言的文案，缺失时逐级回退
func T(locale, key string) string {
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleEnUS][key]; ok {
		return msg
	}
	return key
}

// Sprintf 返回带参数的文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func matchLocale(lang string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(lang))
	for _, supported := range constants.SupportedLocales {
		if strings.EqualFold(supported, normalized) {
			return supported, true
		}
	}
	switch {
	case strings.HasPrefix(normalized, "zh"):
		return constants.LocaleZhCN, true
	case strings.HasPrefix(normalized, "en"):
		return constants.LocaleEnUS, true
	}
	return "", false
}

var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.bad_request":            "Invalid request",
		"error.unauthorized":           "Authentication required",
		"error.forbidden":              "You do not have access to this resource",
		"error.not_found":              "Resource not found",
		"error.internal":               "Internal error, please try again later",
		"error.upstream_unreachable":   "The store service is currently unreachable",
		"error.session_fetch_failed":   "Failed to resolve your session",
		"error.login_failed":           "Login failed",
		"error.register_failed":        "Registration failed",
		"error.logout_failed":          "Logout failed",
		"error.login_too_many":         "Too many login attempts, retry in %d seconds",
		"error.rate_limited":           "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "Rate limiter unavailable",
		"error.product_not_found":      "Product not found",
		"error.product_fetch_failed":   "Failed to fetch products",
		"error.cart_fetch_failed":      "Failed to fetch cart items",
		"error.cart_update_failed":     "Failed to update cart",
		"error.cart_item_invalid":      "Invalid cart item",
		"error.quantity_invalid":       "Quantity must be at least 1",
		"error.out_of_stock":           "This product is out of stock",
		"error.seller_required":        "Seller account required",
		"error.seller_register_failed": "Seller registration failed",
		"error.preference_invalid":     "Invalid preference value",
		"error.visitor_id_invalid":     "Visitor identity missing",
		"notice.guest_cart_corrupt":    "Your saved cart could not be read and was reset",
		"notice.guest_cart_storage":    "Your cart could not be saved on this device",
		"notice.cart_unavailable":      "Your cart could not be loaded, please try again later",
		"notice.cart_lines_dropped":    "Some items could not be loaded and were hidden",
	},
	constants.LocaleZhCN: {
		"error.bad_request":            "请求参数有误",
		"error.unauthorized":           "请先登录",
		"error.forbidden":              "没有访问权限",
		"error.not_found":              "资源不存在",
		"error.internal":               "服务繁忙，请稍后再试",
		"error.upstream_unreachable":   "商城服务暂时不可用",
		"error.session_fetch_failed":   "会话解析失败",
		"error.login_failed":           "登录失败",
		"error.register_failed":        "注册失败",
		"error.logout_failed":          "退出登录失败",
		"error.login_too_many":         "登录尝试过于频繁，请 %d 秒后重试",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.product_not_found":      "商品不存在",
		"error.product_fetch_failed":   "获取商品失败",
		"error.cart_fetch_failed":      "获取购物车失败",
		"error.cart_update_failed":     "更新购物车失败",
		"error.cart_item_invalid":      "购物车商品无效",
		"error.quantity_invalid":       "数量至少为 1",
		"error.out_of_stock":           "商品已售罄",
		"error.seller_required":        "需要卖家账号",
		"error.seller_register_failed": "卖家注册失败",
		"error.preference_invalid":     "偏好设置值无效",
		"error.visitor_id_invalid":     "访客身份缺失",
		"notice.guest_cart_corrupt":    "本地购物车数据损坏，已重置",
		"notice.guest_cart_storage":    "购物车暂时无法保存到本设备",
		"notice.cart_unavailable":      "购物车暂时无法加载，请稍后再试",
		"notice.cart_lines_dropped":    "部分商品加载失败，已暂时隐藏",
	},
}
