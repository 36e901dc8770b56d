package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/provider"
	"github.com/himart-next/internal/session"
	"github.com/himart-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

func newSellerGuardRouter(t *testing.T, upstreamHandler http.Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstreamHandler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&config.UpstreamConfig{
		BaseURL:   server.URL,
		TimeoutMS: 2000,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	container := &provider.Container{
		SessionManager: session.NewManager(client, config.SessionConfig{}),
	}

	r := gin.New()
	r.GET("/dashboard", SellerGuardMiddleware(container), func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})
	return r
}

func sellerGuardStatusCode(t *testing.T, r *gin.Engine) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.ServeHTTP(w, req)

	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestSellerGuardAllowsSeller(t *testing.T) {
	r := newSellerGuardRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"user":{"id":"s1","email":"s@b.c","isSeller":true}}`))
	}))
	if code := sellerGuardStatusCode(t, r); code != response.CodeOK {
		t.Errorf("status_code = %d, want %d", code, response.CodeOK)
	}
}

func TestSellerGuardRejectsBuyer(t *testing.T) {
	r := newSellerGuardRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","isSeller":false}}`))
	}))
	if code := sellerGuardStatusCode(t, r); code != response.CodeForbidden {
		t.Errorf("status_code = %d, want %d", code, response.CodeForbidden)
	}
}

func TestSellerGuardRejectsGuest(t *testing.T) {
	r := newSellerGuardRouter(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	if code := sellerGuardStatusCode(t, r); code != response.CodeUnauthorized {
		t.Errorf("status_code = %d, want %d", code, response.CodeUnauthorized)
	}
}

func TestSellerGuardReportsUnreachable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := upstream.NewClient(&config.UpstreamConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	container := &provider.Container{
		SessionManager: session.NewManager(client, config.SessionConfig{}),
	}
	r := gin.New()
	r.GET("/dashboard", SellerGuardMiddleware(container), func(c *gin.Context) {
		response.Success(c, gin.H{"ok": true})
	})

	if code := sellerGuardStatusCode(t, r); code != response.CodeBadGateway {
		t.Errorf("status_code = %d, want %d", code, response.CodeBadGateway)
	}
}
