package navigation

import (
	"net/http"
	"purohit/infras/otel"
	access "purohit/internal/domains/access/service"
	session "purohit/internal/domains/session/service"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"purohit/transport/http/middleware"
	"purohit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	store session.Store
	gate  access.Gate
	otel  otel.Otel
}

func New(store session.Store, gate access.Gate, otel otel.Otel) Handler {
	return Handler{
		store: store,
		gate:  gate,
		otel:  otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Get("/navigation", handler.Evaluate)
}

// Evaluate answers whether the view at ?path= may be rendered for the caller.
// The route is public; a missing or stale token reads as signed out.
// @Summary Evaluate a navigation
// @Tags Navigation
// @Produce json
// @Param path query string true "View path"
// @Success 200 {object} model.Decision
// @Router /v1/navigation [get]
func (handler *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Evaluate")
	defer scope.End()

	path := r.URL.Query().Get(constant.RequestParamPath)
	if path == "" {
		response.WithError(w, failure.BadRequestFromString("path is required"))

		return
	}

	var tokenID string

	if token := middleware.BearerToken(r); token != "" {
		id, _, err := handler.store.Resolve(ctx, token)
		if err != nil {
			log.Debug().Err(err).Msg("navigation with an invalid token, treating as signed out")
		} else {
			tokenID = id
		}
	}

	decision := handler.gate.Evaluate(ctx, path, tokenID)

	scope.SetAttributes(map[string]any{
		"navigation.path":    path,
		"navigation.outcome": string(decision.Outcome),
	})

	response.WithJSON(w, http.StatusOK, decision)
}
