package guard

import (
	"strings"

	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/models"
)

// Decision 路由守卫判定结果
type Decision struct {
	RouteClass     string `json:"routeClass"`
	PageState      string `json:"pageState"`
	RedirectTo     string `json:"redirectTo,omitempty"`
	ReplaceHistory bool   `json:"replaceHistory,omitempty"` // 跳转时替换历史记录，避免回退循环
}

// Classify 判定路由类别
// 卖家前缀优先于受保护精确匹配。
func Classify(path string) string {
	normalized := normalizePath(path)
	for _, prefix := range constants.SellerOnlyRoutes {
		if normalized == prefix || strings.HasPrefix(normalized, prefix+"/") {
			return constants.RouteClassSellerOnly
		}
	}
	for _, route := range constants.ProtectedRoutes {
		if normalized == route {
			return constants.RouteClassProtected
		}
	}
	return constants.RouteClassPublic
}

// Evaluate 按优先级判定页面状态
// 连接失败 > 会话解析中 > 未授权 > 可渲染。
func Evaluate(connected bool, snapshot models.SessionSnapshot, path string) Decision {
	class := Classify(path)
	decision := Decision{RouteClass: class}

	if !connected {
		decision.PageState = constants.PageStateConnectionError
		return decision
	}
	if class == constants.RouteClassPublic {
		decision.PageState = constants.PageStateReady
		return decision
	}
	if snapshot.Loading() {
		decision.PageState = constants.PageStateLoading
		return decision
	}

	allowed := snapshot.Authenticated()
	if class == constants.RouteClassSellerOnly {
		allowed = allowed && snapshot.Session.IsSeller()
	}
	if !allowed {
		decision.PageState = constants.PageStateUnauthorized
		decision.RedirectTo = constants.UnauthorizedRedirectPath
		decision.ReplaceHistory = true
		return decision
	}

	decision.PageState = constants.PageStateReady
	return decision
}

func normalizePath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "/"
	}
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	if len(trimmed) > 1 {
		trimmed = strings.TrimRight(trimmed, "/")
	}
	return trimmed
}
