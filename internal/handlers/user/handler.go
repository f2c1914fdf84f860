package user

import (
	"errors"
	"net/http"
	"purohit/infras/otel"
	identity "purohit/internal/domains/identity/service"
	"purohit/internal/domains/user/model/dto"
	"purohit/internal/domains/user/service"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"purohit/shared/validator"
	"purohit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.User
	provider identity.Provider
	otel     otel.Otel
}

func New(service service.User, provider identity.Provider, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		provider: provider,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/users/me", handler.GetMe)
	router.Put("/internal/admin-claims", handler.SetAdminClaim)
}

// GetMe returns the caller's profile record.
// @Summary Get current user profile
// @Tags User
// @Produce json
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	uid, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Profile(ctx, uid)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("uid", uid).Msg("failed to get profile")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// SetAdminClaim is the service-to-service hook for granting or revoking the
// signed admin claim. Open sessions of that user are re-checked.
func (handler *Handler) SetAdminClaim(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SetAdminClaim")
	defer scope.End()

	req := dto.AdminClaimRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.provider.SetAdminClaim(ctx, req.Email, req.IsAdmin); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("email", req.Email).Msg("failed to set admin claim")

		if errors.Is(err, identity.ErrIdentityMissing) {
			err = failure.NotFound("identity not found")
		}

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("admin claim updated")

	response.WithMessage(writer, http.StatusOK, "Admin claim updated")
}
