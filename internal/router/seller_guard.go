package router

import (
	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/i18n"
	"github.com/himart-next/internal/provider"
	"github.com/himart-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// SellerGuardMiddleware 卖家路由守卫
// 远端不可达 > 未登录 > 非卖家，与页面状态判定保持同一优先级。
func SellerGuardMiddleware(c *provider.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		snapshot, err := c.SessionManager.SellerSnapshot(ctx.Request.Context(), ctx.GetHeader("Cookie"))
		if err != nil {
			locale := i18n.ResolveLocale(ctx)
			if upstream.IsUnreachable(err) {
				response.BadGateway(ctx, i18n.T(locale, "error.upstream_unreachable"))
			} else {
				response.Error(ctx, response.CodeInternal, i18n.T(locale, "error.session_fetch_failed"))
			}
			ctx.Abort()
			return
		}
		if !snapshot.Authenticated() {
			response.Unauthorized(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.unauthorized"))
			ctx.Abort()
			return
		}
		if !snapshot.Session.IsSeller() {
			response.Forbidden(ctx, i18n.T(i18n.ResolveLocale(ctx), "error.seller_required"))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
