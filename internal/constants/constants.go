package constants

// 会话状态常量
const (
	SessionStateLoading       = "loading"
	SessionStateGuest         = "guest"
	SessionStateAuthenticated = "authenticated"
)

// 页面状态常量（路由守卫判定结果）
const (
	PageStateConnectionError = "connection_error"
	PageStateLoading         = "loading"
	PageStateUnauthorized    = "unauthorized"
	PageStateReady           = "ready"
)

// 路由分类常量
const (
	RouteClassPublic     = "public"
	RouteClassProtected  = "protected"
	RouteClassSellerOnly = "seller_only"
)

// 未授权跳转目标（替换历史记录，避免回退循环）
const UnauthorizedRedirectPath = "/unauthorized"

// 受保护路由（精确匹配）
var ProtectedRoutes = []string{"/profile", "/auth/logout"}

// 卖家专属路由（前缀匹配）
var SellerOnlyRoutes = []string{"/seller"}

// 游客购物车存储键（与前端 localStorage 键保持一致）
const GuestCartStorageKey = "guest_cart"

// 深色模式偏好存储键
const DarkModeStorageKey = "darkMode"

// 购物车数量更新方式常量
const (
	QuantityModeAdd = "add"
	QuantityModeSet = "set"
)

// 购物车定价默认值
const (
	DefaultMaxQuantityPerLine    = 10
	DefaultFreeShippingThreshold = "500"
	DefaultShippingFlatFee       = "29.99"
	DefaultTaxRate               = "0.08"
)

// 商品货架常量（列表页固定分组）
const (
	ProductShelfTrending    = "trending"
	ProductShelfLatest      = "latest"
	ProductShelfDiscounts   = "discounts"
	ProductShelfUserChoices = "user-choices"
	ProductShelfMiniSearch  = "minisearch"
)

// ValidProductShelf 判断货架名是否合法
func ValidProductShelf(shelf string) bool {
	switch shelf {
	case ProductShelfTrending, ProductShelfLatest, ProductShelfDiscounts, ProductShelfUserChoices:
		return true
	}
	return false
}

// 通知级别常量（随响应返回的非阻断提示）
const (
	NoticeLevelWarning = "warning"
	NoticeLevelError   = "error"
)

// 队列常量
const (
	QueueDefault       = "default"
	TaskGuestCartPurge = "guest_cart:purge_stale"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "hm"
)

// 游客身份 Cookie 常量
const (
	VisitorCookieName = "hm_visitor"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleZhCN = "zh-CN"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
