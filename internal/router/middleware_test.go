package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petshop-next/internal/cache"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/service"

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

type stubTokenParser struct {
	claims *service.UserJWTClaims
	state  *cache.UserAuthState
}

func (p stubTokenParser) ParseUserJWT(tokenString string) (*service.UserJWTClaims, error) {
	if tokenString != "good-token" {
		return nil, errors.New("bad token")
	}
	return p.claims, nil
}

func (p stubTokenParser) ResolveAuthState(_ context.Context, _ uint) (*cache.UserAuthState, error) {
	return p.state, nil
}

type stubChecker map[string]bool

func (s stubChecker) Can(_ uint, capability string) (bool, error) {
	return s[capability], nil
}

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func newAuthRouter(parser TokenParser, checker CapabilityChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/orders",
		UserJWTAuthMiddleware(parser),
		RequireCapability(checker, constants.CapabilityManageOrders),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status_code": 0, "user_id": c.GetUint("user_id")})
		},
	)
	return r
}

func TestUserJWTAuthMiddlewareRejectsMissingParser(t *testing.T) {
	r := newAuthRouter(nil, stubChecker{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if code := decodeStatusCode(t, w); code != 401 {
		t.Fatalf("status_code want 401 got %d", code)
	}
}

func TestUserJWTAuthMiddlewareRejectsBadTokenAndDisabledUser(t *testing.T) {
	parser := stubTokenParser{
		claims: &service.UserJWTClaims{UserID: 7, Email: "buyer@example.com"},
		state:  &cache.UserAuthState{UserID: 7, Status: constants.UserStatusActive},
	}
	r := newAuthRouter(parser, stubChecker{constants.CapabilityManageOrders: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	r.ServeHTTP(w, req)
	if code := decodeStatusCode(t, w); code != 401 {
		t.Fatalf("bad token status_code want 401 got %d", code)
	}

	parser.state = &cache.UserAuthState{UserID: 7, Status: "disabled"}
	r = newAuthRouter(parser, stubChecker{constants.CapabilityManageOrders: true})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)
	if code := decodeStatusCode(t, w); code != 401 {
		t.Fatalf("disabled user status_code want 401 got %d", code)
	}
}

func TestRequireCapability(t *testing.T) {
	parser := stubTokenParser{
		claims: &service.UserJWTClaims{UserID: 7, Email: "staff@example.com"},
		state:  &cache.UserAuthState{UserID: 7, Status: constants.UserStatusActive},
	}

	denied := newAuthRouter(parser, stubChecker{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	denied.ServeHTTP(w, req)
	if code := decodeStatusCode(t, w); code != 403 {
		t.Fatalf("missing capability status_code want 403 got %d", code)
	}

	allowed := newAuthRouter(parser, stubChecker{constants.CapabilityManageOrders: true})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	allowed.ServeHTTP(w, req)
	if code := decodeStatusCode(t, w); code != 0 {
		t.Fatalf("granted capability status_code want 0 got %d", code)
	}
	if !strings.Contains(w.Body.String(), `"user_id":7`) {
		t.Fatalf("user id should be set in context, body %s", w.Body.String())
	}
}
