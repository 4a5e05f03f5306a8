package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/vunguyen00/Netflix/internal/models"
	"github.com/vunguyen00/Netflix/pkg/browser/browsertest"
	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/handlers"
	"github.com/vunguyen00/Netflix/pkg/lock"
	"github.com/vunguyen00/Netflix/pkg/middleware"
	apimodels "github.com/vunguyen00/Netflix/pkg/models"
	"github.com/vunguyen00/Netflix/pkg/prober"
	"github.com/vunguyen00/Netflix/pkg/scheduler"
	"github.com/vunguyen00/Netflix/pkg/server"
	"github.com/vunguyen00/Netflix/pkg/store"
	"github.com/vunguyen00/Netflix/pkg/store/storetest"
	"github.com/vunguyen00/Netflix/pkg/warranty"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	cfg    *config.Config
	store  *store.Store
	site   *browsertest.Site
	layout browsertest.Layout
	svc    *handlers.HandlerService
	router http.Handler
}

func testConfig() *config.Config {
	wc := config.NewWarrantyConfig()
	wc.ButtonGraceMS = 20
	wc.FirstRaceMS = 30
	wc.InputRaceMS = 30
	wc.ShortRecheckMS = 10
	wc.FinalRecheckMS = 10
	wc.FinalWaitMS = 30
	wc.GraceMS = 20
	wc.RunTimeoutSeconds = 10

	return &config.Config{
		Server:    &config.ServerConfig{Port: 8080, Address: "127.0.0.1"},
		App:       &config.AppConfig{Environment: "test"},
		Target:    config.NewTargetConfig(),
		Warranty:  wc,
		Auth:      &config.AuthConfig{JWTSecret: "test-secret"},
		RateLimit: &config.RateLimitConfig{Enabled: false},
	}
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	cfg := testConfig()
	clk := clock.NewFixed(storetest.Epoch.Add(time.Hour))
	f := &apiFixture{
		cfg:    cfg,
		store:  storetest.New(t, clk),
		site:   browsertest.NewSite(),
		layout: browsertest.DefaultLayout(),
	}

	opts, err := prober.OptionsFromConfig(cfg.Target, cfg.Warranty)
	require.NoError(t, err)
	orch := warranty.New(f.site, prober.New(opts), f.store.Credentials, f.store.Orders, lock.NewMemoryLocker(clk),
		warranty.WithRuns(f.store.Runs),
		warranty.WithClock(clk),
	)

	f.svc = handlers.NewHandlerService(cfg, f.store, orch)
	f.router = server.NewHTTPServer(cfg, f.svc).Handler()
	return f
}

func (f *apiFixture) token(t *testing.T, customerID, role string) string {
	t.Helper()
	tok, err := middleware.IssueToken(f.cfg.Auth, customerID, role, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type sseEvent struct {
	name string
	data string
}

func parseEvents(body string) []sseEvent {
	var events []sseEvent
	for _, block := range strings.Split(body, "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			case strings.HasPrefix(line, "data:"):
				ev.data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			}
		}
		if ev.name != "" {
			events = append(events, ev)
		}
	}
	return events
}

func TestHealthCheck(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	health := decode[apimodels.HealthResponse](t, w)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["database"])
	assert.Equal(t, "unavailable", health.Checks["scheduler"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthentication(t *testing.T) {
	f := newAPIFixture(t)
	customer, _ := storetest.SeedOrder(t, f.store, "old")

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing token", "/api/v1/orders", "", http.StatusUnauthorized},
		{"garbage token", "/api/v1/orders", "not-a-jwt", http.StatusUnauthorized},
		{"customer on admin route", "/api/v1/admin/accounts", f.token(t, customer.ID, middleware.RoleCustomer), http.StatusForbidden},
		{"customer", "/api/v1/orders", f.token(t, customer.ID, middleware.RoleCustomer), http.StatusOK},
		{"admin", "/api/v1/admin/accounts", f.token(t, "ops", middleware.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	f := newAPIFixture(t)

	tok, err := middleware.IssueToken(&config.AuthConfig{JWTSecret: "other"}, "c1", middleware.RoleAdmin, time.Hour)
	require.NoError(t, err)

	w := f.do(t, http.MethodGet, "/api/v1/orders", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBuyOrder(t *testing.T) {
	f := newAPIFixture(t)
	customer := &models.Customer{Phone: "0901", Name: "buyer", Balance: 60000}
	require.NoError(t, f.store.Customers.Create(context.Background(), customer))
	storetest.SeedPool(t, f.store, "first", "second")
	tok := f.token(t, customer.ID, middleware.RoleCustomer)

	w := f.do(t, http.MethodPost, "/api/v1/orders/buy", tok, apimodels.BuyRequest{PlanDays: 30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	order := decode[apimodels.OrderResponse](t, w)
	assert.Equal(t, "first", order.AccountEmail)
	assert.Equal(t, "PAID", order.Status)
	assert.Equal(t, int64(50000), order.Amount)

	w = f.do(t, http.MethodPost, "/api/v1/orders/buy", tok, apimodels.BuyRequest{PlanDays: 30})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/orders/buy", tok, apimodels.BuyRequest{PlanDays: 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	n, err := f.store.Credentials.CountAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBuyOrderPoolEmpty(t *testing.T) {
	f := newAPIFixture(t)
	customer := &models.Customer{Phone: "0901", Name: "buyer", Balance: 1_000_000}
	require.NoError(t, f.store.Customers.Create(context.Background(), customer))

	w := f.do(t, http.MethodPost, "/api/v1/orders/buy", f.token(t, customer.ID, ""), apimodels.BuyRequest{PlanDays: 30})
	assert.Equal(t, http.StatusConflict, w.Code)

	got, err := f.store.Customers.Get(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), got.Balance)
}

func TestGetOrderOwnership(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	other, _ := storetest.SeedOrder(t, f.store, "someone")

	w := f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "old", decode[apimodels.OrderResponse](t, w).AccountEmail)

	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, f.token(t, other.ID, ""), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/orders/missing", f.token(t, owner.ID, ""), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, f.token(t, "ops", middleware.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListOrders(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedOrder(t, f.store, "someone")

	w := f.do(t, http.MethodGet, "/api/v1/orders", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)

	orders := decode[[]apimodels.OrderResponse](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestExtendOrder(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")

	w := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/extend", f.token(t, owner.ID, ""), apimodels.ExtendRequest{PlanDays: 90})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[apimodels.OrderResponse](t, w)
	assert.Equal(t, order.ExpiresAt.AddDate(0, 0, 90).Unix(), resp.ExpiresAt.Unix())
	assert.Equal(t, 120, resp.Duration)

	got, err := f.store.Customers.Get(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000-140000), got.Balance)
}

func TestRunWarranty(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1", "c2")
	f.site.Account("old", f.layout.Dead())
	f.site.Account("c1", f.layout.Dead())
	f.site.Account("c2", f.layout.Wizard("pw-c2"))

	w := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/warranty", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[apimodels.WarrantyResponse](t, w)
	assert.Equal(t, "replaced", resp.Outcome)
	assert.Equal(t, "c2", resp.NewUsername)
	require.NotEmpty(t, resp.Steps)
	assert.Equal(t, "checking old account", resp.Steps[0])
	assert.Equal(t, "found valid account", resp.Steps[len(resp.Steps)-1])

	got, err := f.store.Orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "c2", got.AccountEmail)
}

func TestRunWarrantyOtherCustomer(t *testing.T) {
	f := newAPIFixture(t)
	_, order := storetest.SeedOrder(t, f.store, "old")
	other, _ := storetest.SeedOrder(t, f.store, "someone")

	w := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/warranty", f.token(t, other.ID, ""), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Zero(t, f.site.Launches())
}

func TestRunWarrantyInactiveOrder(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.Account("c1", f.layout.Unlocked())
	require.NoError(t, f.store.DB().Model(&models.Order{}).
		Where("id = ?", order.ID).Update("status", models.OrderExpired).Error)

	w := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/warranty", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Order is not active")

	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID+"/warranty", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := parseEvents(w.Body.String())
	require.Len(t, events, 1)
	var done apimodels.WarrantyResponse
	require.NoError(t, json.Unmarshal([]byte(events[0].data), &done))
	assert.Equal(t, "error", done.Outcome)
	assert.Contains(t, done.Message, "not active")

	assert.Zero(t, f.site.Launches())
	n, err := f.store.Credentials.CountAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStreamWarranty(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	f.site.Account("old", f.layout.Wizard("pw-old"))

	// EventSource clients pass the token in the query string
	path := "/api/v1/orders/" + order.ID + "/warranty?token=" + f.token(t, owner.ID, "")
	w := f.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	events := parseEvents(w.Body.String())
	require.GreaterOrEqual(t, len(events), 2, w.Body.String())

	var progress []string
	for _, ev := range events[:len(events)-1] {
		require.Equal(t, "progress", ev.name)
		var p apimodels.ProgressEvent
		require.NoError(t, json.Unmarshal([]byte(ev.data), &p))
		progress = append(progress, p.Message)
	}
	assert.Equal(t, []string{"checking old account", "checking password"}, progress)

	last := events[len(events)-1]
	require.Equal(t, "done", last.name)
	var done apimodels.WarrantyResponse
	require.NoError(t, json.Unmarshal([]byte(last.data), &done))
	assert.Equal(t, "still_valid", done.Outcome)
	assert.Empty(t, done.NewUsername)
}

func TestStreamWarrantyExhausted(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.Account("old", f.layout.Dead())
	f.site.Account("c1", f.layout.Dead())

	w := f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID+"/warranty", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)

	events := parseEvents(w.Body.String())
	require.NotEmpty(t, events)
	assert.Equal(t, `{"message":"exhausted pool"}`, events[len(events)-2].data)

	var done apimodels.WarrantyResponse
	require.NoError(t, json.Unmarshal([]byte(events[len(events)-1].data), &done))
	assert.Equal(t, "exhausted", done.Outcome)
	assert.NotContains(t, done.Message, "c1")
}

func TestSwitchAccount(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	storetest.SeedPool(t, f.store, "c1")
	f.site.Account("old", f.layout.Wizard("pw-old"))
	f.site.Account("c1", f.layout.Wizard("pw-c1"))

	w := f.do(t, http.MethodPost, "/api/v1/admin/orders/"+order.ID+"/switch", f.token(t, owner.ID, ""), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/admin/orders/"+order.ID+"/switch", f.token(t, "ops", middleware.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	events := parseEvents(w.Body.String())
	require.NotEmpty(t, events)
	var done apimodels.WarrantyResponse
	require.NoError(t, json.Unmarshal([]byte(events[len(events)-1].data), &done))
	assert.Equal(t, "replaced", done.Outcome)
	assert.Equal(t, "c1", done.NewUsername)
	for _, ev := range events {
		assert.NotContains(t, ev.data, "checking old account")
	}
}

func TestAdminAccounts(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, "ops", middleware.RoleAdmin)

	w := f.do(t, http.MethodPost, "/api/v1/admin/accounts", admin, apimodels.AccountRequest{
		Username: "new@example.com",
		Password: "secret",
		Cookies:  "NetflixId=a; SecureNetflixId=b",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[apimodels.AccountResponse](t, w)
	assert.Equal(t, "available", created.Status)
	assert.NotContains(t, w.Body.String(), "secret")

	w = f.do(t, http.MethodPost, "/api/v1/admin/accounts", admin, apimodels.AccountRequest{
		Username: "new@example.com",
		Cookies:  "NetflixId=c",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/admin/accounts", admin, apimodels.AccountRequest{Username: "no-cookies"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/admin/accounts/bulk", admin, apimodels.BulkImportRequest{
		Accounts: []apimodels.AccountRequest{
			{Username: "new@example.com", Cookies: "NetflixId=d"},
			{Username: "a@example.com", Cookies: "NetflixId=e"},
			{Username: "b@example.com", Cookies: "NetflixId=f"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, apimodels.BulkImportResponse{Created: 2, Skipped: 1}, decode[apimodels.BulkImportResponse](t, w))

	w = f.do(t, http.MethodGet, "/api/v1/admin/accounts?limit=2", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[apimodels.AccountListResponse](t, w)
	assert.Equal(t, int64(3), list.Available)
	assert.Len(t, list.Accounts, 2)

	w = f.do(t, http.MethodDelete, "/api/v1/admin/accounts/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/admin/accounts/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/admin/accounts?limit=abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAccountDetailAndUpdate(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, "ops", middleware.RoleAdmin)
	pool := storetest.SeedPool(t, f.store, "c1", "c2")
	path := "/api/v1/admin/accounts/" + pool[0].ID

	w := f.do(t, http.MethodGet, path, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[apimodels.AccountDetailResponse](t, w)
	assert.Equal(t, "c1", detail.Username)
	assert.Equal(t, "pw-c1", detail.Password)
	assert.Equal(t, storetest.Cookie("c1"), detail.Cookies)

	w = f.do(t, http.MethodPut, path, admin, map[string]string{"password": "rotated"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail = decode[apimodels.AccountDetailResponse](t, w)
	assert.Equal(t, "rotated", detail.Password)
	assert.Equal(t, "c1", detail.Username)

	w = f.do(t, http.MethodPut, path, admin, map[string]string{"username": "c2"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPut, path, admin, map[string]string{"username": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/admin/accounts/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, path, f.token(t, "c", middleware.RoleCustomer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSellAccount(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, "ops", middleware.RoleAdmin)
	pool := storetest.SeedPool(t, f.store, "c1", "c2")
	customer := &models.Customer{Phone: "0901", Name: "walk-in"}
	require.NoError(t, f.store.Customers.Create(context.Background(), customer))
	path := "/api/v1/admin/accounts/" + pool[1].ID + "/sell"

	w := f.do(t, http.MethodPost, path, admin, apimodels.SellRequest{CustomerID: customer.ID, PlanDays: 30})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[apimodels.OrderResponse](t, w)
	assert.Equal(t, "c2", order.AccountEmail)
	assert.Equal(t, "PAID", order.Status)

	// the buyer sees the order as their own
	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.ID, f.token(t, customer.ID, ""), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPost, path, admin, apimodels.SellRequest{CustomerID: customer.ID, PlanDays: 30})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Account is not available")

	w = f.do(t, http.MethodPost, "/api/v1/admin/accounts/"+pool[0].ID+"/sell", admin, apimodels.SellRequest{CustomerID: customer.ID, PlanDays: 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/admin/accounts/"+pool[0].ID+"/sell", f.token(t, customer.ID, ""), apimodels.SellRequest{CustomerID: customer.ID, PlanDays: 30})
	assert.Equal(t, http.StatusForbidden, w.Code)

	n, err := f.store.Credentials.CountAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUpdateOrderExpiration(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, "ops", middleware.RoleAdmin)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	path := "/api/v1/admin/orders/" + order.ID + "/expiration"
	expiry := storetest.Epoch.AddDate(0, 3, 0)

	w := f.do(t, http.MethodPatch, path, f.token(t, owner.ID, ""), apimodels.ExpirationRequest{ExpiresAt: expiry})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPatch, path, admin, apimodels.ExpirationRequest{ExpiresAt: expiry})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[apimodels.OrderResponse](t, w)
	assert.Equal(t, expiry.Unix(), resp.ExpiresAt.Unix())
	require.Len(t, resp.History, 1)
	assert.Contains(t, resp.History[0].Message, "Expiration changed")

	w = f.do(t, http.MethodPatch, path, admin, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPatch, "/api/v1/admin/orders/missing/expiration", admin, apimodels.ExpirationRequest{ExpiresAt: expiry})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListWarrantyRunsUnreadableSteps(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.store.Runs.Save(context.Background(), &models.WarrantyRun{
		ID:        "broken",
		OrderID:   "o1",
		Outcome:   "replaced",
		Steps:     datatypes.JSON(`{"not":"a list"}`),
		StartedAt: storetest.Epoch,
	}))

	w := f.do(t, http.MethodGet, "/api/v1/admin/warranty-runs", f.token(t, "ops", middleware.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	runs := decode[[]apimodels.WarrantyRunResponse](t, w)
	require.Len(t, runs, 1)
	assert.Equal(t, "broken", runs[0].ID)
	assert.Empty(t, runs[0].Steps)
}

func TestListWarrantyRuns(t *testing.T) {
	f := newAPIFixture(t)
	owner, order := storetest.SeedOrder(t, f.store, "old")
	f.site.Account("old", f.layout.SessionOnly())

	w := f.do(t, http.MethodPost, "/api/v1/orders/"+order.ID+"/warranty", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/admin/warranty-runs?order_id="+order.ID, f.token(t, "ops", middleware.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	runs := decode[[]apimodels.WarrantyRunResponse](t, w)
	require.Len(t, runs, 1)
	assert.Equal(t, order.ID, runs[0].OrderID)
	assert.Equal(t, "warranty", runs[0].Mode)
	assert.NotEmpty(t, runs[0].Steps)
}

func TestScheduledJobs(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.token(t, "ops", middleware.RoleAdmin)

	w := f.do(t, http.MethodGet, "/api/v1/admin/scheduler/jobs", admin, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	sched, err := scheduler.NewTaskScheduler(context.Background(), &config.SchedulerConfig{
		Enabled:          true,
		ExpireOrdersCron: "0 0 * * *",
	}, scheduler.Dependencies{Orders: f.store.Orders, Clock: clock.NewFixed(storetest.Epoch.AddDate(1, 0, 0))})
	require.NoError(t, err)
	f.svc.SetScheduler(sched)

	_, order := storetest.SeedOrder(t, f.store, "old")

	w = f.do(t, http.MethodGet, "/api/v1/admin/scheduler/jobs", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decode[[]apimodels.ScheduledJobResponse](t, w)
	require.Len(t, jobs, 1)
	assert.Equal(t, scheduler.JobExpireOrders, jobs[0].ID)

	w = f.do(t, http.MethodPost, "/api/v1/admin/scheduler/jobs/"+scheduler.JobExpireOrders+"/run", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, scheduler.JobStatusCompleted, decode[apimodels.ScheduledJobResponse](t, w).Status)

	got, err := f.store.Orders.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderExpired, got.Status)

	w = f.do(t, http.MethodPost, "/api/v1/admin/scheduler/jobs/nope/run", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodDelete, "/api/v1/admin/scheduler/jobs/"+scheduler.JobExpireOrders, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, http.MethodDelete, "/api/v1/admin/scheduler/jobs/"+scheduler.JobExpireOrders, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/admin/scheduler/jobs", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]apimodels.ScheduledJobResponse](t, w))
}

func TestErrorBodyHidesInternals(t *testing.T) {
	f := newAPIFixture(t)
	owner, _ := storetest.SeedOrder(t, f.store, "old")

	w := f.do(t, http.MethodGet, "/api/v1/orders/does-not-exist", f.token(t, owner.ID, ""), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decode[map[string]interface{}](t, w)
	assert.Equal(t, map[string]interface{}{
		"error":   true,
		"message": "Resource not found",
		"code":    float64(http.StatusNotFound),
	}, body)
}
