package middleware

import (
	"context"
	"net/http"
	"purohit/config"
	"purohit/infras/jwt"
	"purohit/infras/otel"
	access "purohit/internal/domains/access/service"
	session "purohit/internal/domains/session/service"
	"purohit/permissions"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"purohit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type InternalKey string

// queryAccessToken carries the token for WebSocket upgrades, where browsers
// cannot set headers.
const queryAccessToken = "access_token"

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

type authImpl struct {
	store      session.Store
	gate       access.Gate
	permission *permissions.PermissionData
	cfg        *config.Config
	otel       otel.Otel
}

func NewAuthMiddleware(store session.Store, gate access.Gate, permission *permissions.PermissionData, cfg *config.Config, otel otel.Otel) Auth {
	return &authImpl{
		store:      store,
		gate:       gate,
		permission: permission,
		cfg:        cfg,
		otel:       otel,
	}
}

// Auth resolves the caller's session and asks the access gate whether the
// matched route may be served. Public routes pass through untouched.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		method := request.Method
		path := request.URL.Path

		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.Routes != nil {
			if pattern := rctx.Routes.Find(chi.NewRouteContext(), method, request.URL.Path); pattern != "" {
				path = pattern
			}
		}

		permission := permissions.Permission{Path: path, Method: method, Access: permissions.AccessAuthenticated}
		if m.permission != nil {
			permission = m.permission.FindPermissions(path, method)
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     method,
			"access":          string(permission.Access),
		})

		switch permission.Access {
		case permissions.AccessPublic:
			scope.End()
			next.ServeHTTP(writer, request)

			return
		case permissions.AccessInternal:
			internal, _ := ctx.Value(InternalKey("internal")).(bool)
			if !internal {
				scope.TraceError(failure.ForbiddenError)
				scope.End()
				response.WithError(writer, failure.ForbiddenError)

				return
			}

			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		token := BearerToken(request)
		if token == "" {
			err := failure.Unauthorized("Missing authorization header")
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		tokenID, state, err := m.store.Resolve(ctx, token)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		if err = m.gate.Authorize(ctx, tokenID, permission.Access); err != nil {
			log.Debug().Err(err).Str("path", path).Str("tokenID", tokenID).Msg("access denied")

			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(request.Context(), constant.ContextKeyUserID, state.User.ID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, state.User.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, tokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// BearerToken reads the Authorization header, then the access_token query
// parameter.
func BearerToken(request *http.Request) string {
	if token, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization)); err == nil {
		return token
	}

	return request.URL.Query().Get(queryAccessToken)
}

// APIKey marks service-to-service requests. A wrong key is rejected; no key
// leaves the request to the session check.
func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		ctx = context.WithValue(ctx, InternalKey("internal"), false)
		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request.WithContext(ctx))

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			err := failure.ForbiddenError

			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, InternalKey("internal"), true)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
