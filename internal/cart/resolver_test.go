package cart

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/guestcart"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"
	"github.com/himart-next/internal/upstream"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func init() {
	logger.Init("debug", logger.Options{})
}

var testDBSeq int

func newGuestService(t *testing.T) *guestcart.Service {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:cart_resolver_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.GuestCartRecord{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return guestcart.NewService(guestcart.NewGormStore(db), constants.DefaultMaxQuantityPerLine)
}

func newResolver(t *testing.T, handler http.Handler) (*Resolver, *guestcart.Service) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&config.UpstreamConfig{
		BaseURL:       server.URL,
		TimeoutMS:     2000,
		PingTimeoutMS: 1000,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	guest := newGuestService(t)
	resolver, err := NewResolver(client, guest, config.CartConfig{
		MaxPerLine:            constants.DefaultMaxQuantityPerLine,
		FreeShippingThreshold: constants.DefaultFreeShippingThreshold,
		ShippingFlatFee:       constants.DefaultShippingFlatFee,
		TaxRate:               constants.DefaultTaxRate,
		EnrichTimeoutMS:       2000,
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return resolver, guest
}

// guestBackend 模拟未登录远端：购物车接口 401，商品接口可用
func guestBackend(products map[string]string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/cart/count", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/product", func(w http.ResponseWriter, r *http.Request) {
		body, ok := products[r.URL.Query().Get("id")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if body == "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(body))
	})
	return mux
}

func TestResolveGuestPricing(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(map[string]string{
		"p1": `{"id":"p1","title":"Mug","price":"10.00","stock":5}`,
		"p2": `{"id":"p2","title":"Lamp","price":"30.00","discountPrice":"25.50","stock":5}`,
	}))
	ctx := context.Background()

	if _, err := guest.Upsert(ctx, "v1", "p1", 2, constants.QuantityModeAdd, 0); err != nil {
		t.Fatalf("seed p1: %v", err)
	}
	if _, err := guest.Upsert(ctx, "v1", "p2", 1, constants.QuantityModeAdd, 0); err != nil {
		t.Fatalf("seed p2: %v", err)
	}

	resolved, recovered, err := resolver.Resolve(ctx, "", "v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if recovered {
		t.Error("unexpected recovered flag")
	}
	if resolved.Source != SourceGuest {
		t.Errorf("source = %s, want guest", resolved.Source)
	}
	if len(resolved.Lines) != 2 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}
	// 折扣价生效
	if got := resolved.Lines[1].UnitPrice.String(); got != "25.50" {
		t.Errorf("unit price = %s, want 25.50", got)
	}
	if got := resolved.Pricing.Subtotal.String(); got != "45.50" {
		t.Errorf("subtotal = %s, want 45.50", got)
	}
	if got := resolved.Pricing.Shipping.String(); got != "29.99" {
		t.Errorf("shipping = %s, want 29.99", got)
	}
	if got := resolved.Pricing.Tax.String(); got != "3.64" {
		t.Errorf("tax = %s, want 3.64", got)
	}
	if got := resolved.Pricing.Total.String(); got != "79.13" {
		t.Errorf("total = %s, want 79.13", got)
	}
	if resolved.ItemCount != 3 {
		t.Errorf("item count = %d, want 3", resolved.ItemCount)
	}
}

func TestResolveGuestDropsFailedLines(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(map[string]string{
		"a": `{"id":"a","title":"A","price":"1.00","stock":5}`,
		"b": "", // 商品接口 500
		"c": `{"id":"c","title":"C","price":"3.00","stock":5}`,
	}))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := guest.Upsert(ctx, "v1", id, 1, constants.QuantityModeAdd, 0); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}

	resolved, _, err := resolver.Resolve(ctx, "", "v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Lines) != 2 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}
	// 失败行被隐藏，其余保持原序
	if resolved.Lines[0].ProductID != "a" || resolved.Lines[1].ProductID != "c" {
		t.Errorf("line order = %s, %s", resolved.Lines[0].ProductID, resolved.Lines[1].ProductID)
	}
	if resolved.DroppedLines != 1 {
		t.Errorf("dropped = %d, want 1", resolved.DroppedLines)
	}
}

func TestResolveServerCart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"p1","title":"Mug","price":"600.00","stock":5,"quantity":1}]`))
	})
	resolver, _ := newResolver(t, mux)

	resolved, _, err := resolver.Resolve(context.Background(), "sid=abc", "v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Source != SourceServer {
		t.Errorf("source = %s, want server", resolved.Source)
	}
	// 超过包邮阈值
	if !resolved.Pricing.FreeShipping {
		t.Error("expected free shipping")
	}
	if got := resolved.Pricing.Shipping.String(); got != "0.00" {
		t.Errorf("shipping = %s, want 0.00", got)
	}
}

func TestResolveEmptyCartSkipsShipping(t *testing.T) {
	resolver, _ := newResolver(t, guestBackend(nil))

	resolved, _, err := resolver.Resolve(context.Background(), "", "v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Lines) != 0 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}
	if got := resolved.Pricing.Total.String(); got != "0.00" {
		t.Errorf("total = %s, want 0.00", got)
	}
}

func TestResolveServerCartErrorDegradesToEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	resolver, _ := newResolver(t, mux)

	resolved, recovered, err := resolver.Resolve(context.Background(), "sid=abc", "v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if recovered {
		t.Error("unexpected recovered flag")
	}
	if resolved.Source != SourceServer {
		t.Errorf("source = %s, want server", resolved.Source)
	}
	// 远端读失败降级为空车，不报错
	if !resolved.Degraded {
		t.Error("expected degraded cart")
	}
	if len(resolved.Lines) != 0 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}
	if got := resolved.Pricing.Total.String(); got != "0.00" {
		t.Errorf("total = %s, want 0.00", got)
	}
}

func TestResolveReclampsStoredGuestQuantity(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(map[string]string{
		"p1": `{"id":"p1","title":"Mug","price":"10.00","stock":5}`,
		"p2": `{"id":"p2","title":"Lamp","price":"20.00","stock":0}`,
	}))
	ctx := context.Background()

	// 越过 Upsert 的收敛直接落库，模拟写入后库存下降的陈旧负载
	if err := guest.Save(ctx, "v1", []guestcart.Line{
		{ProductID: "p1", Quantity: 99},
		{ProductID: "p2", Quantity: 3},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resolved, _, err := resolver.Resolve(ctx, "", "v1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Lines) != 1 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}
	// 读取时按 min(stock, 单行上限) 重新收敛
	if got := resolved.Lines[0].Quantity; got != 5 {
		t.Errorf("quantity = %d, want 5", got)
	}
	if got := resolved.Pricing.Subtotal.String(); got != "50.00" {
		t.Errorf("subtotal = %s, want 50.00", got)
	}
	// 已无库存的行整行隐藏并计数
	if resolved.DroppedLines != 1 {
		t.Errorf("dropped = %d, want 1", resolved.DroppedLines)
	}
}

func TestAddOutOfStockProductRejected(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(map[string]string{
		"p1": `{"id":"p1","title":"Mug","price":"10.00","stock":0}`,
	}))
	ctx := context.Background()

	if _, err := resolver.Add(ctx, "", "v1", "p1", 1); err != guestcart.ErrOutOfStock {
		t.Errorf("add error = %v, want ErrOutOfStock", err)
	}
	lines, _, err := guest.Load(ctx, "v1")
	if err != nil || len(lines) != 0 {
		t.Fatalf("guest lines = %+v err = %v, want empty", lines, err)
	}
}

func TestResolveUnreachableUpstream(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := upstream.NewClient(&config.UpstreamConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	resolver, err := NewResolver(client, newGuestService(t), config.CartConfig{})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	if _, _, err := resolver.Resolve(context.Background(), "", "v1"); !upstream.IsUnreachable(err) {
		t.Errorf("error = %v, want unreachable", err)
	}
}

func TestAddFallsBackToGuestCart(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(map[string]string{
		"p1": `{"id":"p1","title":"Mug","price":"10.00","stock":5}`,
	}))
	ctx := context.Background()

	resolved, err := resolver.Add(ctx, "", "v1", "p1", 2)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if resolved.Source != SourceGuest {
		t.Errorf("source = %s, want guest", resolved.Source)
	}
	if len(resolved.Lines) != 1 || resolved.Lines[0].Quantity != 2 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}

	lines, _, err := guest.Load(ctx, "v1")
	if err != nil || len(lines) != 1 {
		t.Fatalf("guest lines = %+v err = %v", lines, err)
	}

	// 不存在的商品拒绝入车
	if _, err := resolver.Add(ctx, "", "v1", "missing", 1); !upstream.IsNotFound(err) {
		t.Errorf("add missing error = %v, want not_found", err)
	}
	// 数量非法本地拒绝
	if _, err := resolver.Add(ctx, "", "v1", "p1", 0); err != guestcart.ErrQuantityInvalid {
		t.Errorf("add zero error = %v, want ErrQuantityInvalid", err)
	}
}

func TestUpdateQuantityZeroRemovesGuestLine(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(map[string]string{
		"p1": `{"id":"p1","title":"Mug","price":"10.00","stock":5}`,
	}))
	ctx := context.Background()

	if _, err := guest.Upsert(ctx, "v1", "p1", 2, constants.QuantityModeAdd, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	resolved, err := resolver.UpdateQuantity(ctx, "", "v1", "p1", 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(resolved.Lines) != 0 {
		t.Fatalf("lines = %+v", resolved.Lines)
	}
}

func TestCountFallsBackToGuest(t *testing.T) {
	resolver, guest := newResolver(t, guestBackend(nil))
	ctx := context.Background()

	if _, err := guest.Upsert(ctx, "v1", "p1", 4, constants.QuantityModeAdd, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}
	count, err := resolver.Count(ctx, "", "v1")
	if err != nil || count != 4 {
		t.Fatalf("count = %d err = %v, want 4", count, err)
	}
}
