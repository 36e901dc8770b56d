package store

import (
	"errors"

	"github.com/himart-next/internal/guestcart"
	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondUpstreamError(c, err, fallbackKey)
}

// respondUpstreamError 按上游错误分类返回响应
func respondUpstreamError(c *gin.Context, err error, fallbackKey string) {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		switch ue.Kind {
		case upstream.KindUnauthorized:
			respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		case upstream.KindUnreachable:
			respondError(c, response.CodeBadGateway, "error.upstream_unreachable", err)
		case upstream.KindNotFound:
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		default:
			respondError(c, response.CodeInternal, fallbackKey, err)
		}
		return
	}
	respondError(c, response.CodeInternal, fallbackKey, err)
}

var cartMutationErrorRules = []mappedHandlerError{
	{target: guestcart.ErrProductRequired, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
	{target: guestcart.ErrQuantityInvalid, code: response.CodeBadRequest, key: "error.quantity_invalid"},
	{target: guestcart.ErrOutOfStock, code: response.CodeBadRequest, key: "error.out_of_stock"},
	{target: guestcart.ErrVisitorRequired, code: response.CodeBadRequest, key: "error.bad_request"},
}

func respondCartMutationError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartMutationErrorRules, "error.cart_update_failed")
}
