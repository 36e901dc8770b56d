package provider

import (
	"time"

	"github.com/himart-next/internal/cache"
	"github.com/himart-next/internal/cart"
	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/guestcart"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"
	"github.com/himart-next/internal/queue"
	"github.com/himart-next/internal/repository"
	"github.com/himart-next/internal/session"
	"github.com/himart-next/internal/upstream"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	PreferenceRepo repository.PreferenceRepository

	// Services
	Upstream       *upstream.Client
	GuestCart      *guestcart.Service
	CartResolver   *cart.Resolver
	SessionManager *session.Manager
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	c.PreferenceRepo = repository.NewPreferenceRepository(models.DB)
}

func (c *Container) initServices() {
	client, err := upstream.NewClient(&c.Config.Upstream)
	if err != nil {
		logger.Errorw("provider_init_upstream_failed", "error", err)
		panic(err)
	}
	c.Upstream = client

	c.GuestCart = guestcart.NewService(c.newGuestCartStore(), c.Config.Cart.MaxPerLine)

	resolver, err := cart.NewResolver(c.Upstream, c.GuestCart, c.Config.Cart)
	if err != nil {
		logger.Errorw("provider_init_cart_resolver_failed", "error", err)
		panic(err)
	}
	c.CartResolver = resolver

	c.SessionManager = session.NewManager(c.Upstream, c.Config.Session)
}

// newGuestCartStore 选择游客购物车后端
// Redis 可用时走 Redis（TTL 自动过期），否则落库由清理任务兜底。
func (c *Container) newGuestCartStore() guestcart.Store {
	if cache.Enabled() {
		retention := time.Duration(c.Config.Cart.GuestRetentionDays) * 24 * time.Hour
		return guestcart.NewRedisStore(retention)
	}
	return guestcart.NewGormStore(models.DB)
}
