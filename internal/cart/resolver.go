package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/guestcart"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"
	"github.com/himart-next/internal/upstream"

	"github.com/shopspring/decimal"
)

// 购物车来源常量
const (
	SourceServer = "server"
	SourceGuest  = "guest"
)

// ResolvedLine 结算视图中的单行
type ResolvedLine struct {
	ProductID string       `json:"productId"`
	Title     string       `json:"title"`
	Image     string       `json:"image"`
	UnitPrice models.Money `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	LineTotal models.Money `json:"lineTotal"`
	Stock     int          `json:"stock"`
}

// Pricing 订单金额拆分
type Pricing struct {
	Subtotal     models.Money `json:"subtotal"`
	Shipping     models.Money `json:"shipping"`
	Tax          models.Money `json:"tax"`
	Total        models.Money `json:"total"`
	FreeShipping bool         `json:"freeShipping"`
}

// ResolvedCart 购物车结算视图
type ResolvedCart struct {
	Source       string         `json:"source"` // server / guest
	Lines        []ResolvedLine `json:"lines"`
	Pricing      Pricing        `json:"pricing"`
	ItemCount    int            `json:"itemCount"`
	DroppedLines int            `json:"droppedLines"`       // 商品补全失败被隐藏的行数
	Degraded     bool           `json:"degraded,omitempty"` // 购物车来源读取失败，以空车降级展示
}

// Resolver 购物车解析器
// 已登录走远端购物车，未登录回退到游客购物车并做商品补全。
type Resolver struct {
	upstream      *upstream.Client
	guest         *guestcart.Service
	freeThreshold decimal.Decimal
	shippingFee   decimal.Decimal
	taxRate       decimal.Decimal
	enrichTimeout time.Duration
}

// NewResolver 创建购物车解析器
func NewResolver(client *upstream.Client, guest *guestcart.Service, cfg config.CartConfig) (*Resolver, error) {
	freeThreshold, err := decimal.NewFromString(orDefault(cfg.FreeShippingThreshold, constants.DefaultFreeShippingThreshold))
	if err != nil {
		return nil, fmt.Errorf("cart.free_shipping_threshold 非法: %w", err)
	}
	shippingFee, err := decimal.NewFromString(orDefault(cfg.ShippingFlatFee, constants.DefaultShippingFlatFee))
	if err != nil {
		return nil, fmt.Errorf("cart.shipping_flat_fee 非法: %w", err)
	}
	taxRate, err := decimal.NewFromString(orDefault(cfg.TaxRate, constants.DefaultTaxRate))
	if err != nil {
		return nil, fmt.Errorf("cart.tax_rate 非法: %w", err)
	}
	enrichTimeout := time.Duration(cfg.EnrichTimeoutMS) * time.Millisecond
	if enrichTimeout <= 0 {
		enrichTimeout = 3 * time.Second
	}
	return &Resolver{
		upstream:      client,
		guest:         guest,
		freeThreshold: freeThreshold,
		shippingFee:   shippingFee,
		taxRate:       taxRate,
		enrichTimeout: enrichTimeout,
	}, nil
}

// Guest 返回游客购物车服务
func (r *Resolver) Guest() *guestcart.Service {
	return r.guest
}

// Resolve 构建结算视图
// recovered 表示游客负载损坏后被重置，调用方据此提示。
func (r *Resolver) Resolve(ctx context.Context, cookie, visitorID string) (*ResolvedCart, bool, error) {
	entries, err := r.upstream.GetCart(ctx, cookie)
	if err == nil {
		return r.buildServerCart(entries), false, nil
	}
	if upstream.IsUnauthorized(err) {
		return r.resolveGuest(ctx, visitorID)
	}
	if upstream.IsUnreachable(err) {
		return nil, false, err
	}
	// 远端瞬时故障不挡结算页，降级为空车并提示
	logger.Errorw("server_cart_fetch_failed", "error", err)
	degraded := r.assemble(SourceServer, nil, 0)
	degraded.Degraded = true
	return degraded, false, nil
}

func (r *Resolver) buildServerCart(entries []upstream.CartEntry) *ResolvedCart {
	lines := make([]ResolvedLine, 0, len(entries))
	for _, entry := range entries {
		if entry.Quantity < 1 {
			continue
		}
		lines = append(lines, buildLine(&entry.Product, entry.Quantity))
	}
	return r.assemble(SourceServer, lines, 0)
}

func (r *Resolver) resolveGuest(ctx context.Context, visitorID string) (*ResolvedCart, bool, error) {
	guestLines, recovered, err := r.guest.Load(ctx, visitorID)
	if err != nil {
		// 存储读取失败不挡结算页，降级为空车并提示
		logger.Errorw("guest_cart_load_failed",
			"visitor_id", visitorID,
			"error", err,
		)
		degraded := r.assemble(SourceGuest, nil, 0)
		degraded.Degraded = true
		return degraded, false, nil
	}

	// 并行补全商品信息，保持原有行序，失败的行整行隐藏
	results := make([]*models.Product, len(guestLines))
	var wg sync.WaitGroup
	for i, line := range guestLines {
		wg.Add(1)
		go func(idx int, productID string) {
			defer wg.Done()
			lineCtx, cancel := context.WithTimeout(ctx, r.enrichTimeout)
			defer cancel()
			product, err := r.upstream.GetProduct(lineCtx, productID)
			if err != nil {
				logger.Warnw("guest_cart_enrich_failed",
					"product_id", productID,
					"error", err,
				)
				return
			}
			results[idx] = product
		}(i, line.ProductID)
	}
	wg.Wait()

	lines := make([]ResolvedLine, 0, len(guestLines))
	dropped := 0
	for i, guestLine := range guestLines {
		product := results[i]
		if product == nil {
			dropped++
			continue
		}
		// 写入后库存可能变化，按最新库存与单行上限重新收敛
		quantity := clampOnRead(guestLine.Quantity, product.Stock, r.guest.MaxPerLine())
		if quantity < 1 {
			dropped++
			continue
		}
		lines = append(lines, buildLine(product, quantity))
	}
	return r.assemble(SourceGuest, lines, dropped), recovered, nil
}

// clampOnRead 收敛已存数量，返回 0 表示该行应整行隐藏（已无库存）
func clampOnRead(quantity, stock, maxPerLine int) int {
	limit := maxPerLine
	if stock < limit {
		limit = stock
	}
	if quantity > limit {
		return limit
	}
	return quantity
}

func buildLine(product *models.Product, quantity int) ResolvedLine {
	unit := product.EffectivePrice()
	total := unit.Decimal.Mul(decimal.NewFromInt(int64(quantity)))
	return ResolvedLine{
		ProductID: product.ID,
		Title:     product.Title,
		Image:     product.Image,
		UnitPrice: unit,
		Quantity:  quantity,
		LineTotal: models.NewMoneyFromDecimal(total),
		Stock:     product.Stock,
	}
}

func (r *Resolver) assemble(source string, lines []ResolvedLine, dropped int) *ResolvedCart {
	subtotal := decimal.Zero
	itemCount := 0
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal.Decimal)
		itemCount += line.Quantity
	}

	shipping := r.shippingFee
	freeShipping := subtotal.GreaterThan(r.freeThreshold)
	if freeShipping || len(lines) == 0 {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(r.taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax)

	return &ResolvedCart{
		Source: source,
		Lines:  lines,
		Pricing: Pricing{
			Subtotal:     models.NewMoneyFromDecimal(subtotal),
			Shipping:     models.NewMoneyFromDecimal(shipping),
			Tax:          models.NewMoneyFromDecimal(tax),
			Total:        models.NewMoneyFromDecimal(total),
			FreeShipping: freeShipping,
		},
		ItemCount:    itemCount,
		DroppedLines: dropped,
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
