package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/upstream"
)

func init() {
	logger.Init("debug", logger.Options{})
}

func newManager(t *testing.T, handler http.Handler) *Manager {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := upstream.NewClient(&config.UpstreamConfig{
		BaseURL:   server.URL,
		TimeoutMS: 2000,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewManager(client, config.SessionConfig{
		RefreshIntervalSeconds: 60,
		CacheTTLSeconds:        30,
	})
}

func TestSnapshotAuthenticated(t *testing.T) {
	manager := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/session" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"user":{"id":"u1","email":"a@b.c","isSeller":false}}`))
	}))

	snapshot, err := manager.Snapshot(context.Background(), "sid=abc")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !snapshot.Authenticated() {
		t.Fatalf("snapshot = %+v, want authenticated", snapshot)
	}
	if snapshot.Session.User.ID != "u1" {
		t.Errorf("user id = %s", snapshot.Session.User.ID)
	}
}

func TestSnapshotGuestOn401(t *testing.T) {
	manager := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	snapshot, err := manager.Snapshot(context.Background(), "")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.State != constants.SessionStateGuest {
		t.Errorf("state = %s, want guest", snapshot.State)
	}
}

func TestSnapshotLoadingWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := upstream.NewClient(&config.UpstreamConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	manager := NewManager(client, config.SessionConfig{})

	snapshot, err := manager.Snapshot(context.Background(), "sid=abc")
	if !upstream.IsUnreachable(err) {
		t.Fatalf("error = %v, want unreachable", err)
	}
	if !snapshot.Loading() {
		t.Errorf("state = %s, want loading", snapshot.State)
	}
}

func TestSellerSnapshot(t *testing.T) {
	manager := newManager(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/seller/session" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"user":{"id":"s1","email":"s@b.c","isSeller":true}}`))
	}))

	snapshot, err := manager.SellerSnapshot(context.Background(), "sid=abc")
	if err != nil {
		t.Fatalf("SellerSnapshot: %v", err)
	}
	if !snapshot.Authenticated() || !snapshot.Session.IsSeller() {
		t.Fatalf("snapshot = %+v, want seller", snapshot)
	}
}
