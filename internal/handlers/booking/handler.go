package booking

import (
	"context"
	"fmt"
	"net/http"
	"purohit/infras/otel"
	accessModel "purohit/internal/domains/access/model"
	"purohit/internal/domains/booking/model"
	"purohit/internal/domains/booking/model/dto"
	"purohit/internal/domains/booking/service"
	"purohit/internal/domains/booking/view"
	session "purohit/internal/domains/session/service"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	"purohit/shared/validator"
	"purohit/transport/http/response"
	"purohit/transport/http/ws"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service  service.Booking
	viewer   view.Viewer
	store    session.Store
	upgrader *ws.Upgrader
	otel     otel.Otel
}

func New(service service.Booking, viewer view.Viewer, store session.Store, upgrader *ws.Upgrader, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		viewer:   viewer,
		store:    store,
		upgrader: upgrader,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings", handler.CreateBooking)
	router.Get("/bookings", handler.GetBookings)
	router.Get("/bookings/live", handler.LiveBookings)
	router.Get("/bookings/mine", handler.GetMyBookings)
	router.Get("/bookings/mine/live", handler.LiveMyBookings)
	router.Patch("/bookings/{id}/status", handler.UpdateStatus)
}

// CreateBooking submits a booking draft.
// @Summary Submit a booking
// @Description Validate and store a pooja booking. Chat and email notifications run in the background.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Booking draft"
// @Success 201 {object} dto.SubmissionResponse
// @Failure 400 {object} response.Error "fields holds one message per invalid field"
// @Failure 500 {object} response.Error "reference is kept for support"
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	submission, err := handler.service.Submit(ctx, req, user)
	if err != nil {
		scope.TraceError(err)

		event := log.Error().Err(err)
		if submission != nil {
			event = event.Str("state", string(submission.State))
		}

		event.Msg("failed to submit booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, dto.SubmissionResponse{
		BookingReference: submission.Record.BookingReference,
		ID:               submission.Record.ID,
		Status:           string(submission.Record.Status),
	})
}

// GetBookings pages through every booking, newest first.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param cursor query string false "next_cursor from the previous page"
// @Success 200 {object} dto.GetBookingsResponse
// @Failure 403 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	handler.getPage(writer, request, model.ScopeAll)
}

// GetMyBookings pages through the caller's bookings, newest first.
// @Summary Get my bookings
// @Tags Booking
// @Produce json
// @Param cursor query string false "next_cursor from the previous page"
// @Success 200 {object} dto.GetBookingsResponse
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	handler.getPage(writer, request, model.ScopeMine)
}

func (handler *Handler) getPage(writer http.ResponseWriter, request *http.Request, scopeName model.Scope) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	cursor := request.URL.Query().Get(constant.RequestParamCursor)

	res, err := handler.service.GetPage(ctx, scopeName, user, cursor)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("scope", string(scopeName)).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateStatus moves an open booking to a new status.
// @Summary Update booking status
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateStatus(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStatus")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	req := dto.UpdateStatusRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, model.Status(req.Status), handler.actor(ctx)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update booking status")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, fmt.Sprintf(service.MessageStatusUpdated, req.Status))
}

func (handler *Handler) actor(ctx context.Context) model.Actor {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)

	return model.Actor{UserID: user, Admin: handler.store.Current(tokenID).IsAdmin}
}

func (handler *Handler) LiveBookings(writer http.ResponseWriter, request *http.Request) {
	handler.live(writer, request, model.ScopeAll)
}

func (handler *Handler) LiveMyBookings(writer http.ResponseWriter, request *http.Request) {
	handler.live(writer, request, model.ScopeMine)
}

// live bridges a view session onto a socket. It ends when the client leaves,
// the session signs out, or an admin socket loses the admin role.
func (handler *Handler) live(writer http.ResponseWriter, request *http.Request, scopeName model.Scope) {
	tokenID, _ := request.Context().Value(constant.ContextKeyTokenID).(string)
	actor := handler.actor(request.Context())

	conn, err := handler.upgrader.Upgrade(writer, request)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade booking socket")

		return
	}

	ctx, cancel := context.WithCancel(context.WithoutCancel(request.Context()))
	defer cancel()

	viewSession, err := handler.viewer.Open(ctx, scopeName, actor)
	if err != nil {
		log.Error().Err(err).Str("scope", string(scopeName)).Msg("failed to open booking view")

		_ = conn.WriteJSON(view.Event{Type: view.EventAdvisory, Advisory: gDto.NewAdvisory(gDto.AdvisoryError, view.MessageLoadFailed)})
		conn.Close(ws.CloseInternalError, view.MessageLoadFailed)

		return
	}
	defer viewSession.Close()

	states, unsubscribe := handler.store.Subscribe(tokenID)
	defer unsubscribe()

	go conn.KeepAlive(ctx)
	go handler.readCommands(ctx, cancel, conn, viewSession)

	for {
		select {
		case <-ctx.Done():
			conn.Close(ws.CloseNormal, "")

			return
		case event := <-viewSession.Events():
			if err := conn.WriteJSON(event); err != nil {
				log.Debug().Err(err).Msg("booking socket write failed")
				conn.Close(ws.CloseNormal, "")

				return
			}
		case state, ok := <-states:
			if !ok || (!state.Initializing && !state.SignedIn()) {
				conn.Close(ws.ClosePolicy, accessModel.MessageLoginRequired)

				return
			}

			if scopeName == model.ScopeAll && state.SignedIn() && !state.IsAdmin && !state.RolePending {
				conn.Close(ws.ClosePolicy, accessModel.MessageAdminsOnly)

				return
			}
		}
	}
}

func (handler *Handler) readCommands(ctx context.Context, cancel context.CancelFunc, conn *ws.Conn, viewSession view.Session) {
	defer cancel()

	for {
		var command dto.LiveCommand
		if err := conn.ReadJSON(&command); err != nil {
			return
		}

		switch command.Type {
		case dto.CommandLoadMore:
			if err := viewSession.LoadMore(ctx); err != nil {
				log.Debug().Err(err).Msg("load more failed")
			}
		case dto.CommandUpdateStatus:
			if err := viewSession.UpdateStatus(ctx, command.ID, model.Status(command.Status)); err != nil {
				log.Debug().Err(err).Str("id", command.ID).Msg("live status update failed")
			}
		default:
			log.Debug().Str("type", command.Type).Msg("ignoring unknown live command")
		}
	}
}
