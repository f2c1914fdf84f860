package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"purohit/config"
	otelMocks "purohit/infras/otel/mocks"
	accessMocks "purohit/internal/domains/access/service/mocks"
	"purohit/internal/domains/session/model"
	sessionMocks "purohit/internal/domains/session/service/mocks"
	"purohit/permissions"
	cacheMocks "purohit/shared/cache/mocks"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"purohit/transport/http/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type authFixture struct {
	store *sessionMocks.MockStore
	gate  *accessMocks.MockGate
	auth  middleware.Auth
	cfg   *config.Config
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	f := authFixture{
		store: sessionMocks.NewMockStore(ctrl),
		gate:  accessMocks.NewMockGate(ctrl),
		cfg:   cfg,
	}
	f.auth = middleware.NewAuthMiddleware(f.store, f.gate, permissions.Get(), cfg, otelMocks.NewOtel())

	return f
}

// served records whether the wrapped handler ran and which user it saw.
type served struct {
	called bool
	userID string
}

func (s *served) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.userID, _ = r.Context().Value(constant.ContextKeyUserID).(string)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuth(t *testing.T) {
	t.Run("public endpoint skips the session", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}

		rec := httptest.NewRecorder()
		f.auth.Auth(next.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil))

		assert.True(t, next.called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing bearer token", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}

		rec := httptest.NewRecorder()
		f.auth.Auth(next.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/users/me", nil))

		assert.False(t, next.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unresolvable token", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}

		f.store.EXPECT().Resolve(gomock.Any(), "stale").Return("", model.State{}, failure.Unauthorized("Invalid token"))

		req := httptest.NewRequest(http.MethodGet, "/v1/users/me", nil)
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer stale")

		rec := httptest.NewRecorder()
		f.auth.Auth(next.handler()).ServeHTTP(rec, req)

		assert.False(t, next.called)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("gate denies non admin", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}
		state := model.State{User: &model.User{ID: "u-1"}}

		f.store.EXPECT().Resolve(gomock.Any(), "token").Return("tok-1", state, nil)
		f.gate.EXPECT().Authorize(gomock.Any(), "tok-1", permissions.AccessAdmin).
			Return(failure.NewAuthorizationError(http.StatusForbidden, "Admins only", "/"))

		req := httptest.NewRequest(http.MethodGet, "/v1/bookings/live", nil)
		req.Header.Set(constant.RequestHeaderAuthorization, "Bearer token")

		rec := httptest.NewRecorder()
		f.auth.Auth(next.handler()).ServeHTTP(rec, req)

		assert.False(t, next.called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("query token for sockets", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}
		state := model.State{User: &model.User{ID: "u-1", Email: "asha@example.com"}}

		f.store.EXPECT().Resolve(gomock.Any(), "socket-token").Return("tok-1", state, nil)
		f.gate.EXPECT().Authorize(gomock.Any(), "tok-1", permissions.AccessAuthenticated).Return(nil)

		rec := httptest.NewRecorder()
		f.auth.Auth(next.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/bookings/mine/live?access_token=socket-token", nil))

		assert.True(t, next.called)
		assert.Equal(t, "u-1", next.userID)
	})

	t.Run("internal endpoint needs the api key", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}

		handler := f.auth.APIKey(f.auth.Auth(next.handler()))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/internal/admin-claims", nil))

		assert.False(t, next.called)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req := httptest.NewRequest(http.MethodPut, "/v1/internal/admin-claims", nil)
		req.Header.Set(constant.RequestHeaderAPIKey, "internal-key")

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.True(t, next.called)
	})

	t.Run("wrong api key", func(t *testing.T) {
		f := newAuthFixture(t)
		next := &served{}

		req := httptest.NewRequest(http.MethodGet, "/v1/navigation", nil)
		req.Header.Set(constant.RequestHeaderAPIKey, "guess")

		rec := httptest.NewRecorder()
		f.auth.APIKey(next.handler()).ServeHTTP(rec, req)

		assert.False(t, next.called)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/session/live?access_token=from-query", nil)
	assert.Equal(t, "from-query", middleware.BearerToken(req))

	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer from-header")
	assert.Equal(t, "from-header", middleware.BearerToken(req))
}

func newLimiter(t *testing.T, enable bool) (*cacheMocks.MockRedisCache, middleware.AppMiddleware) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	cache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	return cache, middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache)
}

func TestRateLimit(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		_, app := newLimiter(t, false)
		next := &served{}

		rec := httptest.NewRecorder()
		app.RateLimit()(next.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/navigation", nil))

		assert.True(t, next.called)
	})

	t.Run("under the limit", func(t *testing.T) {
		cache, app := newLimiter(t, true)
		next := &served{}

		cache.EXPECT().Incr(gomock.Any(), "limiter:203.0.113.7:probe", 60).Return(int64(1), nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/navigation", nil)
		req.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")
		req.Header.Set(constant.RequestHeaderUserAgent, "probe")

		rec := httptest.NewRecorder()
		app.RateLimit()(next.handler()).ServeHTTP(rec, req)

		assert.True(t, next.called)
		assert.Equal(t, "2", rec.Header().Get(constant.RequestHeaderRateLimit))
		assert.Equal(t, "1", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("over the limit", func(t *testing.T) {
		cache, app := newLimiter(t, true)
		next := &served{}

		cache.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(3), nil)

		rec := httptest.NewRecorder()
		app.RateLimit()(next.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/navigation", nil))

		assert.False(t, next.called)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
	})

	t.Run("counter unavailable lets the request through", func(t *testing.T) {
		cache, app := newLimiter(t, true)
		next := &served{}

		cache.EXPECT().Incr(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("redis down"))

		rec := httptest.NewRecorder()
		app.RateLimit()(next.handler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/navigation", nil))

		assert.True(t, next.called)
	})
}
