package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"net/http"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/internal/domains/access/model"
	session "purohit/internal/domains/session/service"
	"purohit/permissions"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	"purohit/shared/failure"
	"time"

	"github.com/rs/zerolog/log"
)

// Gate decides whether a session may open a view or call an endpoint.
type Gate interface {
	Evaluate(ctx context.Context, path, tokenID string) model.Decision
	Authorize(ctx context.Context, tokenID string, access permissions.Access) error
}

type gateImpl struct {
	store          session.Store
	permission     *permissions.PermissionData
	confirmTimeout time.Duration
	otel           otel.Otel
}

func New(store session.Store, permission *permissions.PermissionData, cfg *config.Config, otel otel.Otel) Gate {
	return &gateImpl{
		store:          store,
		permission:     permission,
		confirmTimeout: time.Duration(cfg.Access.ConfirmTimeoutSeconds) * time.Second,
		otel:           otel,
	}
}

func (g *gateImpl) Evaluate(ctx context.Context, path, tokenID string) model.Decision {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Evaluate")
	defer scope.End()

	view, found := g.permission.FindView(path)
	if !found {
		return model.Decision{Path: path, Outcome: model.OutcomeRedirect, Redirect: g.permission.Fallback}
	}

	decision := g.decide(ctx, view, tokenID)

	scope.SetAttributes(map[string]any{
		"access.path":    path,
		"access.level":   string(view.Access),
		"access.outcome": string(decision.Outcome),
	})

	return decision
}

func (g *gateImpl) decide(ctx context.Context, view permissions.View, tokenID string) model.Decision {
	if view.Access == permissions.AccessPublic {
		return model.Permit(view.Path)
	}

	if g.store.Initializing() {
		return model.Loading(view.Path)
	}

	state := g.store.Current(tokenID)
	if !state.SignedIn() {
		return model.Deny(view.Path, g.permission.Fallback, gDto.NewAdvisory(gDto.AdvisoryWarning, model.MessageLoginRequired))
	}

	if view.Access != permissions.AccessAdmin {
		return model.Permit(view.Path)
	}

	if state.RolePending {
		return model.Loading(view.Path)
	}

	isAdmin, err := g.confirm(ctx, tokenID)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.Loading(view.Path)
	case err != nil:
		log.Warn().Err(err).Str("path", view.Path).Msg("admin check failed")

		return model.Deny(view.Path, g.permission.Fallback, gDto.NewAdvisory(gDto.AdvisoryError, model.MessageAdminCheck))
	case !isAdmin:
		return model.Deny(view.Path, g.permission.Fallback, gDto.NewAdvisory(gDto.AdvisoryError, model.MessageAdminsOnly))
	}

	return model.Permit(view.Path)
}

// Authorize applies the view rules to API access. Denials carry 401, 403 or
// 503 instead of a redirect.
func (g *gateImpl) Authorize(ctx context.Context, tokenID string, access permissions.Access) error {
	if access == permissions.AccessPublic {
		return nil
	}

	if g.store.Initializing() {
		return failure.NewAuthorizationError(http.StatusServiceUnavailable, model.MessageCheckingAdmin, "")
	}

	state := g.store.Current(tokenID)
	if !state.SignedIn() {
		return failure.NewAuthorizationError(http.StatusUnauthorized, model.MessageLoginRequired, g.permission.Fallback)
	}

	if access != permissions.AccessAdmin {
		return nil
	}

	isAdmin, err := g.confirm(ctx, tokenID)

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return failure.NewAuthorizationError(http.StatusServiceUnavailable, model.MessageCheckingAdmin, "")
	case err != nil:
		return failure.NewAuthorizationError(http.StatusForbidden, model.MessageAdminCheck, g.permission.Fallback)
	case !isAdmin:
		return failure.NewAuthorizationError(http.StatusForbidden, model.MessageAdminsOnly, g.permission.Fallback)
	}

	return nil
}

// confirm always re-reads the role so grants and revocations apply without a
// new sign-in.
func (g *gateImpl) confirm(ctx context.Context, tokenID string) (bool, error) {
	if g.confirmTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, g.confirmTimeout)
		defer cancel()
	}

	isAdmin, err := g.store.ConfirmAdmin(ctx, tokenID)
	if err != nil && ctx.Err() != nil {
		return false, context.DeadlineExceeded
	}

	return isAdmin, err
}
