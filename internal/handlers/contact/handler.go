package contact

import (
	"net/http"
	"purohit/infras/otel"
	"purohit/internal/domains/contact/model/dto"
	"purohit/internal/domains/contact/service"
	"purohit/shared/constant"
	"purohit/shared/validator"
	"purohit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Contact
	otel    otel.Otel
}

func New(service service.Contact, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Post("/contact", handler.Send)
}

// Send relays a contact form. The body is {ok:true} or {error}, without the
// data envelope.
func (handler *Handler) Send(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Contact")
	defer scope.End()

	req := dto.ContactRequest{}

	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.Send(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to relay contact message")

		response.WithError(w, err)

		return
	}

	response.WithPayload(w, http.StatusOK, dto.ContactResponse{OK: true})
}
