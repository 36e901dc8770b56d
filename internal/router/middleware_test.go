package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/himart-next/internal/config"

	"github.com/gin-gonic/gin"
)

func TestResolveAllowedOrigin(t *testing.T) {
	got := resolveAllowedOrigin("https://example.com", []string{"*"}, false)
	if got != "*" {
		t.Fatalf("wildcard without credentials should return *, got %s", got)
	}

	got = resolveAllowedOrigin("https://example.com", []string{"*"}, true)
	if got != "https://example.com" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://a.example.com", []string{"https://a.example.com", "https://b.example.com"}, false)
	if got != "https://a.example.com" {
		t.Fatalf("allow-list should return matched origin, got %s", got)
	}

	got = resolveAllowedOrigin("https://x.example.com", []string{"https://a.example.com"}, false)
	if got != "" {
		t.Fatalf("unmatched origin should be empty, got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(requestIDHeader, "req-123")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) != "req-123" {
		t.Fatalf("response request id want req-123 got %s", w.Header().Get(requestIDHeader))
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "req-123" {
		t.Fatalf("context request id want req-123 got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w2, req2)
	generated := w2.Header().Get(requestIDHeader)
	if generated == "" {
		t.Fatalf("generated request id should not be empty")
	}
	if resp := strings.TrimSpace(generated); resp == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestVisitorIdentityMiddlewareMintsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.VisitorConfig{Secret: "test-secret", ExpireHours: 1}
	r := gin.New()
	r.Use(VisitorIdentityMiddleware(cfg))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"visitor_id": c.GetString(visitorIDKey)})
	})

	// 首次访问签发 Cookie
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	cookies := w.Result().Cookies()
	var issued *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == "hm_visitor" {
			issued = cookie
		}
	}
	if issued == nil || issued.Value == "" {
		t.Fatalf("visitor cookie not issued, cookies = %v", cookies)
	}
	var first map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if first["visitor_id"] == "" {
		t.Fatal("visitor id missing in context")
	}

	// 携带 Cookie 再访问，身份保持稳定，不重复发放
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req2.AddCookie(issued)
	r.ServeHTTP(w2, req2)

	var second map[string]string
	if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
		t.Fatalf("unmarshal second response failed: %v", err)
	}
	if second["visitor_id"] != first["visitor_id"] {
		t.Fatalf("visitor id changed: %s -> %s", first["visitor_id"], second["visitor_id"])
	}
	for _, cookie := range w2.Result().Cookies() {
		if cookie.Name == "hm_visitor" {
			t.Fatal("cookie should not be re-issued for a valid visitor")
		}
	}
}

func TestVisitorIdentityMiddlewareRejectsTamperedCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(VisitorIdentityMiddleware(config.VisitorConfig{Secret: "test-secret", ExpireHours: 1}))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"visitor_id": c.GetString(visitorIDKey)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: "hm_visitor", Value: "not-a-token"})
	r.ServeHTTP(w, req)

	reissued := false
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "hm_visitor" && cookie.Value != "not-a-token" {
			reissued = true
		}
	}
	if !reissued {
		t.Fatal("tampered cookie should be replaced")
	}
}
