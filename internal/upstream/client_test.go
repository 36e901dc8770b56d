package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"
)

func init() {
	logger.Init("debug", logger.Options{})
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.UpstreamConfig{
		BaseURL:       server.URL,
		TimeoutMS:     2000,
		PingTimeoutMS: 1000,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

func TestGetSessionForwardsCookie(t *testing.T) {
	var gotCookie string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/session" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotCookie = r.Header.Get("Cookie")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","isSeller":true}}`))
	}))

	session, err := client.GetSession(context.Background(), "sid=abc123")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if gotCookie != "sid=abc123" {
		t.Errorf("cookie not forwarded, got %q", gotCookie)
	}
	if session.User == nil || session.User.ID != "u1" {
		t.Fatalf("unexpected session %+v", session)
	}
	if !session.IsSeller() {
		t.Error("expected seller session")
	}
}

func TestErrorKindMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   ErrorKind
	}{
		{"unauthorized", http.StatusUnauthorized, KindUnauthorized},
		{"not_found", http.StatusNotFound, KindNotFound},
		{"server_error", http.StatusInternalServerError, KindTransient},
		{"bad_request", http.StatusBadRequest, KindTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			_, err := client.GetSession(context.Background(), "")
			if err == nil {
				t.Fatal("expected error")
			}
			kind, ok := kindOf(err)
			if !ok || kind != tc.want {
				t.Errorf("kind = %v, want %v", kind, tc.want)
			}
		})
	}
}

func TestUnreachableServer(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // 立即关闭，制造连接失败

	client, err := NewClient(&config.UpstreamConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Ping(context.Background()); !IsUnreachable(err) {
		t.Errorf("Ping error = %v, want unreachable", err)
	}
	if _, err := client.GetCart(context.Background(), ""); !IsUnreachable(err) {
		t.Errorf("GetCart error = %v, want unreachable", err)
	}
}

func TestPingTreatsAnyStatusAsReachable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v, want nil", err)
	}
}

func TestDecodeFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not-json"))
	}))
	_, err := client.GetProduct(context.Background(), "p1")
	kind, ok := kindOf(err)
	if !ok || kind != KindDecode {
		t.Errorf("kind = %v, want decode", kind)
	}
}

func TestListProductsRouting(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[{"id":"p1","title":"Widget","price":"9.99","stock":3}]`))
	}))

	products, err := client.ListProducts(context.Background(), models.ProductFilter{Shelf: "discounts", Limit: 8})
	if err != nil {
		t.Fatalf("ListProducts shelf: %v", err)
	}
	if gotPath != "/products/discounts" {
		t.Errorf("path = %s", gotPath)
	}
	if gotQuery != "limit=8" {
		t.Errorf("query = %s", gotQuery)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", products)
	}

	if _, err := client.ListProducts(context.Background(), models.ProductFilter{Query: "lamp"}); err != nil {
		t.Fatalf("ListProducts search: %v", err)
	}
	if gotPath != "/products/minisearch" {
		t.Errorf("search path = %s", gotPath)
	}
	if gotQuery != "q=lamp" {
		t.Errorf("search query = %s", gotQuery)
	}

	if _, err := client.ListProducts(context.Background(), models.ProductFilter{Shelf: "bogus"}); !IsNotFound(err) {
		t.Errorf("unknown shelf error = %v, want not_found", err)
	}
}

func TestLoginRelaysSetCookie(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "fresh"})
		w.Write([]byte(`{"ok":true}`))
	}))

	result, err := client.Login(context.Background(), "", map[string]string{"email": "a@b.c", "password": "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(result.SetCookies) != 1 {
		t.Fatalf("SetCookies = %v", result.SetCookies)
	}
}
