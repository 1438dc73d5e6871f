package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/habitloop/client-go/errs"
)

func newTestClient(t *testing.T, handler http.Handler, storage TokenStorage) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	if storage == nil {
		storage = &MemoryStorage{}
	}
	c, err := New(Config{BaseURL: srv.URL, Storage: storage})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RequiresStorageAndBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Storage: &MemoryStorage{}}); err == nil {
		t.Fatalf("want error without base URL")
	}
	if _, err := New(Config{BaseURL: "http://localhost"}); err == nil {
		t.Fatalf("want error without token storage")
	}
}

func TestBearerAttachment(t *testing.T) {
	t.Parallel()

	var got atomic.Value
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}), nil)

	if _, err := c.Get(context.Background(), "/habits/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Load().(string) != "" {
		t.Fatalf("anonymous request carried Authorization %q", got.Load())
	}

	if err := c.SetTokens("T1", ""); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if _, err := c.Get(context.Background(), "/habits/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Load().(string) != "Bearer T1" {
		t.Fatalf("want Bearer T1, got %q", got.Load())
	}

	if err := c.ClearTokens(); err != nil {
		t.Fatalf("ClearTokens: %v", err)
	}
	if _, err := c.Get(context.Background(), "/habits/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Load().(string) != "" {
		t.Fatalf("request after ClearTokens still authenticated: %q", got.Load())
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	t.Parallel()

	storage := &MemoryStorage{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), storage)

	if err := c.SetTokens("T1", "R1"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	_, err := c.Get(context.Background(), "/habits/")
	if !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if c.Session().Authenticated {
		t.Fatalf("access token survived 401")
	}
	if refresh, _ := storage.Load(); refresh != "" {
		t.Fatalf("stored refresh token survived 401: %q", refresh)
	}
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing/":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"nope"}`))
		}
	}), nil)

	_, err := c.Get(context.Background(), "/missing/")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	_, err = c.Post(context.Background(), "/bad/", map[string]string{})
	var serr *StatusError
	if !errors.As(err, &serr) || serr.Status != http.StatusBadRequest {
		t.Fatalf("want StatusError 400, got %v", err)
	}
	if errors.Is(err, errs.ErrUnauthorized) || errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("400 must not match auth/not-found sentinels")
	}
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Storage: &MemoryStorage{}, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Get(context.Background(), "/slow/"); !errors.Is(err, errs.ErrTimeout) {
		t.Fatalf("want ErrTimeout, got %v", err)
	}
}

func TestRefreshAccessToken_NoStoredToken(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}), nil)

	if tok, ok := c.RefreshAccessToken(context.Background()); ok || tok != "" {
		t.Fatalf("want no result without stored refresh token")
	}
	if calls.Load() != 0 {
		t.Fatalf("refresh without stored token hit the network %d times", calls.Load())
	}
}

func TestRefreshAccessToken_Success(t *testing.T) {
	t.Parallel()

	var auth atomic.Value
	auth.Store("")
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case refreshPath:
			w.Write([]byte(`{"access":"T2"}`))
		default:
			auth.Store(r.Header.Get("Authorization"))
			w.Write([]byte(`{}`))
		}
	}), nil)

	if err := c.SetTokens("", "R1"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	tok, ok := c.RefreshAccessToken(context.Background())
	if !ok || tok != "T2" {
		t.Fatalf("refresh failed: tok=%q ok=%v", tok, ok)
	}
	if _, err := c.Get(context.Background(), "/habits/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if auth.Load().(string) != "Bearer T2" {
		t.Fatalf("refreshed token not attached: %q", auth.Load())
	}
}

func TestRefreshAccessToken_FailureEndsSession(t *testing.T) {
	t.Parallel()

	storage := &MemoryStorage{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), storage)

	if err := c.SetTokens("T1", "R1"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if _, ok := c.RefreshAccessToken(context.Background()); ok {
		t.Fatalf("want swallowed failure, got success")
	}
	if c.Session().Authenticated {
		t.Fatalf("access token survived failed refresh")
	}
	if refresh, _ := storage.Load(); refresh != "" {
		t.Fatalf("refresh token survived failed refresh")
	}
}

func TestHooks_OrderAndRequestID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("missing X-Request-ID")
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	var order []string
	c, err := New(Config{
		BaseURL: srv.URL,
		Storage: &MemoryStorage{},
		RequestHooks: []RequestHook{func(r *http.Request) error {
			order = append(order, "req")
			if r.Header.Get("Authorization") == "" {
				t.Errorf("custom hook ran before built-in bearer attach")
			}
			return nil
		}},
		ResponseHooks: []ResponseHook{func(r *http.Response) error {
			order = append(order, "resp")
			return nil
		}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.SetTokens("T1", ""); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if _, err := c.Get(context.Background(), "/x/"); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(order) != 2 || order[0] != "req" || order[1] != "resp" {
		t.Fatalf("hook order wrong: %v", order)
	}
}

func TestSession_JWTExpiry(t *testing.T) {
	t.Parallel()

	c, err := New(Config{BaseURL: "http://localhost", Storage: &MemoryStorage{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// {"alg":"HS256","typ":"JWT"}.{"exp":4102444800} — opaque signature.
	jwtTok := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJleHAiOjQxMDI0NDQ4MDB9.sig"
	if err := c.SetTokens(jwtTok, ""); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	info := c.Session()
	if !info.Authenticated {
		t.Fatalf("want authenticated session")
	}
	if info.ExpiresAt.Unix() != 4102444800 {
		t.Fatalf("exp claim not extracted: %v", info.ExpiresAt)
	}

	if err := c.SetTokens("opaque-token", ""); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if info := c.Session(); !info.Authenticated || !info.ExpiresAt.IsZero() {
		t.Fatalf("opaque token should report zero expiry: %+v", info)
	}
}
