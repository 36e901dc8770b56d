package router

import (
	"fmt"
	"strings"

	"github.com/himart-next/internal/cache"
	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/constants"
	storehandlers "github.com/himart-next/internal/http/handlers/store"
	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/i18n"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	storeHandler := storehandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(VisitorIdentityMiddleware(cfg.Visitor))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, i18n.T(i18n.ResolveLocale(c), "error.not_found"))
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/health", storeHandler.Health)
		apiV1.GET("/session", storeHandler.GetSession)
		apiV1.GET("/page-state", storeHandler.GetPageState)

		// 认证透传接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), storeHandler.Login)
			auth.POST("/register", storeHandler.Register)
			auth.POST("/logout", storeHandler.Logout)
		}

		// 商品接口
		apiV1.GET("/product", storeHandler.GetProduct)
		products := apiV1.Group("/products")
		{
			products.GET("/search", storeHandler.SearchProducts)
			products.GET("/:shelf", storeHandler.ListShelf)
		}

		// 购物车接口
		cart := apiV1.Group("/cart")
		{
			cart.GET("", storeHandler.GetCart)
			cart.GET("/count", storeHandler.CartCount)
			cart.POST("/items", storeHandler.AddCartItem)
			cart.PUT("/items", storeHandler.UpdateCartItem)
			cart.DELETE("/items/:product_id", storeHandler.DeleteCartItem)
			cart.DELETE("", storeHandler.ClearCart)
		}

		// 访客偏好接口
		preferences := apiV1.Group("/preferences")
		{
			preferences.GET("/theme", storeHandler.GetTheme)
			preferences.PUT("/theme", storeHandler.SetTheme)
		}

		// 卖家接口（session/register 对游客开放，面板需卖家会话）
		seller := apiV1.Group("/seller")
		{
			seller.GET("/session", storeHandler.GetSellerSession)
			seller.POST("/register", storeHandler.RegisterSeller)
			seller.GET("/dashboard", SellerGuardMiddleware(c), storeHandler.GetSellerDashboard)
		}
	}

	return r
}
