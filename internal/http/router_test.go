package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomadmin/internal/backend"
	"roomadmin/internal/config"
	"roomadmin/internal/services/auth"
	"roomadmin/internal/services/dashboard"
	"roomadmin/internal/services/reports"
	"roomadmin/internal/services/users"
	"roomadmin/internal/services/verification"
	"roomadmin/internal/services/withdrawals"
	"roomadmin/internal/session"
	"roomadmin/internal/views"
)

const cookieName = "sid"

type fakeBackend struct {
	mu    sync.Mutex
	paths []string
	bans  []backend.BanRequest
}

func (f *fakeBackend) seen(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	r.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"accessToken": "tok-1"})
	})

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				f.seen(r.URL.RequestURI())
				if r.Header.Get("Authorization") != "Bearer tok-1" {
					writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
					return
				}
				next.ServeHTTP(w, r)
			})
		})

		r.Get("/api/v1/admin/dashboard", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"activeUsers": 3, "totalSystemBalance": 1500000})
		})
		r.Get("/api/v1/admin/system-statistics", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"totalRentedRooms": 7})
		})
		r.Get("/api/v1/admin/transactions/*", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"content": []interface{}{}})
		})
		r.Get("/api/v1/admin/users/status/ACTIVE", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"users":      []map[string]interface{}{{"id": 1, "username": "alice"}},
				"totalPages": 1,
			})
		})
		r.Get("/api/v1/users", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"users":         []map[string]interface{}{{"id": "u1", "username": "bob", "balance": 2500}},
				"totalPages":    1,
				"totalElements": 1,
			})
		})
		r.Get("/api/v1/ban/isBanned/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, false)
		})
		r.Post("/api/v1/ban/ban", func(w http.ResponseWriter, r *http.Request) {
			var req backend.BanRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			f.mu.Lock()
			f.bans = append(f.bans, req)
			f.mu.Unlock()
			w.WriteHeader(http.StatusOK)
		})
		r.Get("/api/v1/ban/active", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []interface{}{})
		})
		r.Get("/api/v1/user-verification/admin/status/{status}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]interface{}{{"userId": "u7", "verificationStatus": "PENDING"}})
		})
	})
	return r
}

type harness struct {
	router http.Handler
	store  *session.MemoryStore
	fake   *fakeBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fake := &fakeBackend{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	rend, err := views.New()
	require.NoError(t, err)

	client := backend.NewClient(srv.URL, 5)
	store := session.NewMemoryStore()
	gate := session.NewGate(store)

	var cfg config.Cfg
	cfg.Session.CookieName = cookieName

	router := NewRouter(RouterDependencies{
		Config:              cfg,
		Logger:              zerolog.Nop(),
		Views:               rend,
		Gate:                gate,
		AuthService:         auth.NewService(client, gate),
		DashboardService:    dashboard.NewService(client),
		ReportService:       reports.NewService(client),
		UserService:         users.NewService(client),
		WithdrawalService:   withdrawals.NewService(client),
		VerificationService: verification.NewService(client),
	})
	return &harness{router: router, store: store, fake: fake}
}

func (h *harness) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := h.do(http.MethodPost, "/", url.Values{"username": {"admin"}, "password": {"secret"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProtectedPageWithoutSessionRedirectsToNotFound(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/admin/dashboard", "/admin/manage-user", "/admin"} {
		rec := h.do(http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/404", rec.Header().Get("Location"), path)
	}

	rec := h.do(http.MethodGet, "/admin/dashboard", nil, &http.Cookie{Name: cookieName, Value: "forged"})
	assert.Equal(t, "/404", rec.Header().Get("Location"))
	assert.Empty(t, h.fake.paths)
}

func TestUnknownRouteRedirectsToNotFound(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/404", rec.Header().Get("Location"))

	rec = h.do(http.MethodGet, "/404", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/", url.Values{"username": {"admin"}, "password": {"wrong"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginValidation(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/", url.Values{"username": {" "}, "password": {"x"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username is required")
}

func TestLoginThenDashboard(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	assert.True(t, cookie.HttpOnly)

	rec := h.do(http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	rec = h.do(http.MethodGet, "/admin/dashboard", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "1.500.000 ₫")
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "Page 1 of 1 (0 items)")
}

func TestExpiredTokenLogsOut(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)
	require.NoError(t, h.store.Set(context.Background(), cookie.Value, "stale"))

	rec := h.do(http.MethodGet, "/admin/manage-reportedUser", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, err := h.store.Get(context.Background(), cookie.Value)
	require.ErrorIs(t, err, session.ErrNoToken)

	rec = h.do(http.MethodGet, "/admin/dashboard", nil, cookie)
	assert.Equal(t, "/404", rec.Header().Get("Location"))
}

func TestBanShowsFlashOnce(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do(http.MethodPost, "/admin/manage-user/u1/ban", url.Values{"reason": {"spam"}, "page": {"2"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/manage-user?page=2", rec.Header().Get("Location"))
	require.Len(t, h.fake.bans, 1)
	assert.Equal(t, backend.BanRequest{UserID: "u1", Reason: "spam"}, h.fake.bans[0])

	rec = h.do(http.MethodGet, "/admin/manage-user", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User banned")
	assert.Contains(t, rec.Body.String(), "bob")

	rec = h.do(http.MethodGet, "/admin/manage-user", nil, cookie)
	assert.NotContains(t, rec.Body.String(), "User banned")
}

func TestBanWithoutReason(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	h.do(http.MethodPost, "/admin/manage-user/u1/ban", url.Values{"reason": {""}}, cookie)
	assert.Empty(t, h.fake.bans)

	rec := h.do(http.MethodGet, "/admin/manage-reportedUser", nil, cookie)
	assert.Contains(t, rec.Body.String(), "Please enter a ban reason")
}

func TestVerificationFilter(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do(http.MethodGet, "/admin/user-verification?status=pending&page=0", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u7")
	assert.Contains(t, h.fake.paths, "/api/v1/user-verification/admin/status/PENDING?page=0&size=10")
}

func TestVerificationFilterLinksStartAtFirstPage(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do(http.MethodGet, "/admin/user-verification?status=PENDING&page=1", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, h.fake.paths, "/api/v1/user-verification/admin/status/PENDING?page=1&size=10")
	assert.Contains(t, body, "Page 2 of 2")
	assert.NotContains(t, body, "items)")

	for _, status := range []string{"ALL", "PENDING", "APPROVED", "REJECTED"} {
		assert.Contains(t, body, `href="/admin/user-verification?status=`+status+`"`, status)
	}
	assert.NotContains(t, body, "status=PENDING&amp;page")

	h.fake.paths = nil
	rec = h.do(http.MethodGet, "/admin/user-verification?status=APPROVED", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/api/v1/user-verification/admin/status/APPROVED?page=0&size=10"}, h.fake.paths)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	cookie := h.login(t)

	rec := h.do(http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = h.do(http.MethodGet, "/admin/dashboard", nil, cookie)
	assert.Equal(t, "/404", rec.Header().Get("Location"))
}

func TestSignUp(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/sign-up", url.Values{"email": {"bad"}, "password": {"short"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid email address")

	rec = h.do(http.MethodPost, "/sign-up", url.Values{
		"email":           {"admin@roomily.tech"},
		"password":        {"longenough"},
		"confirmPassword": {"longenough"},
	}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?registered=1", rec.Header().Get("Location"))

	rec = h.do(http.MethodGet, "/?registered=1", nil, nil)
	assert.Contains(t, rec.Body.String(), "Registration successful")
}
