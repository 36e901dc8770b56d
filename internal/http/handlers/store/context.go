package store

import (
	handlershared "github.com/himart-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getVisitorID(c *gin.Context) (string, bool) {
	return handlershared.GetContextStringWithKeys(c, "visitor_id", "error.visitor_id_invalid")
}

// cookieHeader 取浏览器原始 Cookie 头，原样转发远端
func cookieHeader(c *gin.Context) string {
	return c.GetHeader("Cookie")
}

// relaySetCookies 将远端 Set-Cookie 回写给浏览器
func relaySetCookies(c *gin.Context, cookies []string) {
	for _, cookie := range cookies {
		c.Writer.Header().Add("Set-Cookie", cookie)
	}
}
