package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/auth"
	"github.com/suPer8Hu/wholesale-platform/internal/config"
	"github.com/suPer8Hu/wholesale-platform/internal/faq"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/handlers"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/middleware"
	"github.com/suPer8Hu/wholesale-platform/internal/models"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string, int, time.Duration) (bool, error) { return false, nil }

func newTestRouter(t *testing.T, limiter middleware.Limiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(gormsqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &faq.Category{}, &faq.Item{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Config{JWTSecret: testSecret, TokenTTL: time.Hour, RateLimitPerMin: 10}
	deps := handlers.Deps{FAQ: faq.NewService(faq.NewRepo(db))}
	return NewRouter(db, cfg, deps, limiter)
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode envelope: %v body=%s", method, path, err, w.Body.String())
	}
	return w, env
}

func TestEnvelopeForUnknownRoutes(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("ping: status=%d code=%d", w.Code, env.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	w, env = do(t, r, http.MethodGet, "/nope", "", nil)
	if w.Code != http.StatusNotFound || env.Code != 40400 {
		t.Fatalf("unknown route: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodDelete, "/ping", "", nil)
	if w.Code != http.StatusMethodNotAllowed || env.Code != 40500 {
		t.Fatalf("wrong method: status=%d code=%d", w.Code, env.Code)
	}
}

func TestAuthAndAdminGuards(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/api/cart", "", nil)
	if w.Code != http.StatusUnauthorized || env.Code != 40101 {
		t.Fatalf("no token: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/cart", "garbage", nil)
	if w.Code != http.StatusUnauthorized || env.Code != 40101 {
		t.Fatalf("bad token: status=%d code=%d", w.Code, env.Code)
	}

	buyer, err := auth.SignJWT(7, string(models.RoleBuyer), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w, env = do(t, r, http.MethodPost, "/api/faq/categories", buyer, gin.H{"name": "Shipping"})
	if w.Code != http.StatusForbidden || env.Code != 40301 {
		t.Fatalf("buyer on admin route: status=%d code=%d", w.Code, env.Code)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodPost, "/users", "", gin.H{"email": "Buyer@Example.com", "password": "short"})
	if w.Code != http.StatusBadRequest || env.Code != 10002 {
		t.Fatalf("short password: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodPost, "/users", "", gin.H{"email": "Buyer@Example.com", "password": "longenough", "name": "Ada"})
	if w.Code != http.StatusOK || env.Code != 0 {
		t.Fatalf("register: status=%d code=%d msg=%s", w.Code, env.Code, env.Message)
	}

	w, env = do(t, r, http.MethodPost, "/users", "", gin.H{"email": "buyer@example.com", "password": "longenough"})
	if w.Code != http.StatusConflict || env.Code != 40901 {
		t.Fatalf("duplicate email: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodPost, "/login", "", gin.H{"email": "buyer@example.com", "password": "wrong-password"})
	if w.Code != http.StatusUnauthorized || env.Code != 40101 {
		t.Fatalf("bad password: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodPost, "/login", "", gin.H{"email": "buyer@example.com", "password": "longenough"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status=%d code=%d", w.Code, env.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil || login.Token == "" {
		t.Fatalf("login token missing: %v %s", err, env.Data)
	}

	w, env = do(t, r, http.MethodGet, "/me", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status=%d code=%d", w.Code, env.Code)
	}
	var me models.User
	if err := json.Unmarshal(env.Data, &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "buyer@example.com" || me.Role != models.RoleBuyer || me.Name != "Ada" {
		t.Fatalf("unexpected user %+v", me)
	}
}

func TestTariffEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/api/tariffs/calculate?value=100000&country=US", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("calculate: status=%d code=%d", w.Code, env.Code)
	}
	var calc struct {
		DutyAmount int64  `json:"duty_amount"`
		Currency   string `json:"currency"`
	}
	if err := json.Unmarshal(env.Data, &calc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if calc.DutyAmount != 5500 || calc.Currency != "USD" {
		t.Fatalf("unexpected calculation %+v", calc)
	}

	w, env = do(t, r, http.MethodGet, "/api/tariffs/calculate?value=100000&country=ZZ", "", nil)
	if w.Code != http.StatusBadRequest || env.Code != 10002 {
		t.Fatalf("unknown country: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/tariffs/calculate?value=-1&country=US", "", nil)
	if w.Code != http.StatusBadRequest || env.Code != 10002 {
		t.Fatalf("negative value: status=%d code=%d", w.Code, env.Code)
	}
}

func TestFAQThroughHTTP(t *testing.T) {
	r := newTestRouter(t, nil)
	admin, err := auth.SignJWT(1, string(models.RoleAdmin), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	w, env := do(t, r, http.MethodPost, "/api/faq/categories", admin, gin.H{"name": "Shipping & Delivery"})
	if w.Code != http.StatusOK {
		t.Fatalf("create category: status=%d code=%d msg=%s", w.Code, env.Code, env.Message)
	}
	var cat faq.Category
	if err := json.Unmarshal(env.Data, &cat); err != nil {
		t.Fatalf("decode category: %v", err)
	}

	w, env = do(t, r, http.MethodPost, "/api/faq/items", admin, gin.H{
		"category_id": cat.ID,
		"question":    "How long does shipping take?",
		"answer":      "Usually 5-10 business days.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create item: status=%d code=%d msg=%s", w.Code, env.Code, env.Message)
	}
	var item faq.Item
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}

	w, env = do(t, r, http.MethodPost, fmt.Sprintf("/api/faq/items/%d/helpful", item.ID), "", gin.H{"helpful": true})
	if w.Code != http.StatusOK {
		t.Fatalf("mark helpful: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/faq/items/%d", item.ID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get item: status=%d code=%d", w.Code, env.Code)
	}
	if err := json.Unmarshal(env.Data, &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.HelpfulCount != 1 || item.Views != 1 {
		t.Fatalf("unexpected counters helpful=%d views=%d", item.HelpfulCount, item.Views)
	}

	w, env = do(t, r, http.MethodGet, "/api/faq/items/9999", "", nil)
	if w.Code != http.StatusNotFound || env.Code != 40401 {
		t.Fatalf("missing item: status=%d code=%d", w.Code, env.Code)
	}

	w, env = do(t, r, http.MethodGet, "/api/faq/search?q=a", "", nil)
	if w.Code != http.StatusBadRequest || env.Code != 10002 {
		t.Fatalf("short search: status=%d code=%d", w.Code, env.Code)
	}
}

func TestRateLimited(t *testing.T) {
	r := newTestRouter(t, denyAll{})

	w, env := do(t, r, http.MethodPost, "/login", "", gin.H{"email": "a@b.c", "password": "x"})
	if w.Code != http.StatusTooManyRequests || env.Code != 42901 {
		t.Fatalf("rate limit: status=%d code=%d", w.Code, env.Code)
	}
}
