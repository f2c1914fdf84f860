package auth

import (
	"context"
	"net/http"
	"purohit/infras/otel"
	identityDto "purohit/internal/domains/identity/model/dto"
	"purohit/internal/domains/session/model"
	"purohit/internal/domains/session/model/dto"
	"purohit/internal/domains/session/service"
	"purohit/shared/constant"
	"purohit/shared/validator"
	"purohit/transport/http/response"
	"purohit/transport/http/ws"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	store    service.Store
	upgrader *ws.Upgrader
	otel     otel.Otel
}

func New(store service.Store, upgrader *ws.Upgrader, otel otel.Otel) Handler {
	return Handler{
		store:    store,
		upgrader: upgrader,
		otel:     otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh", handler.RefreshToken)
		r.Post("/logout", handler.Logout)
		r.Get("/google", handler.BeginGoogle)
		r.Get("/google/callback", handler.GoogleCallback)
		r.Get("/session", handler.Session)
		r.Get("/session/live", handler.SessionLive)
	})
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an email/password identity and its user record.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} dto.LoginResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	req := dto.RegisterRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	authenticated, err := handler.store.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User registered successfully")

	res := dto.LoginResponse{}
	res.FromAuthenticated(authenticated)

	response.WithJSON(w, http.StatusCreated, res)
}

// Login handles email/password sign-in
// @Summary Login a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	authenticated, err := handler.store.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to login user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User logged in successfully")

	res := dto.LoginResponse{}
	res.FromAuthenticated(authenticated)

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshToken")
	defer scope.End()

	req := dto.RefreshTokenRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	authenticated, err := handler.store.Refresh(ctx, req.RefreshToken)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refresh token")

		response.WithError(w, err)

		return
	}

	res := dto.LoginResponse{}
	res.FromAuthenticated(authenticated)

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Logout")
	defer scope.End()

	tokenID, _ := ctx.Value(constant.ContextKeyTokenID).(string)

	if err := handler.store.Logout(ctx, tokenID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to logout")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, model.MessageLoggedOut)
}

// BeginGoogle returns the consent screen URL for the popup.
func (handler *Handler) BeginGoogle(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BeginGoogle")
	defer scope.End()

	url, err := handler.store.BeginGoogleLogin(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to begin google login")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dto.GoogleLoginResponse{URL: url})
}

func (handler *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GoogleCallback")
	defer scope.End()

	query := r.URL.Query()
	result := identityDto.PopupResult{
		State: query.Get(constant.RequestParamState),
		Code:  query.Get(constant.RequestParamCode),
		Error: query.Get(constant.RequestParamError),
	}

	authenticated, err := handler.store.LoginWithGoogle(ctx, result)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete google login")

		response.WithError(w, err)

		return
	}

	res := dto.LoginResponse{}
	res.FromAuthenticated(authenticated)

	response.WithJSON(w, http.StatusOK, res)
}

func (handler *Handler) Session(w http.ResponseWriter, r *http.Request) {
	tokenID, _ := r.Context().Value(constant.ContextKeyTokenID).(string)

	res := dto.SessionResponse{}
	res.FromState(handler.store.Current(tokenID))

	response.WithJSON(w, http.StatusOK, res)
}

// SessionLive pushes the session state on every change until sign-out.
func (handler *Handler) SessionLive(w http.ResponseWriter, r *http.Request) {
	tokenID, _ := r.Context().Value(constant.ContextKeyTokenID).(string)

	conn, err := handler.upgrader.Upgrade(w, r)
	if err != nil {
		log.Warn().Err(err).Msg("failed to upgrade session socket")

		return
	}

	states, unsubscribe := handler.store.Subscribe(tokenID)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	go conn.KeepAlive(ctx)
	go drain(conn, cancel)

	for {
		select {
		case <-ctx.Done():
			conn.Close(ws.CloseNormal, "")

			return
		case state, ok := <-states:
			if !ok {
				conn.Close(ws.CloseNormal, model.MessageLoggedOut)

				return
			}

			res := dto.SessionResponse{}
			res.FromState(state)

			if err := conn.WriteJSON(res); err != nil {
				log.Debug().Err(err).Msg("session socket write failed")
				conn.Close(ws.CloseNormal, "")

				return
			}
		}
	}
}

// drain reads and discards client frames so control frames are processed,
// cancelling once the client goes away.
func drain(conn *ws.Conn, cancel context.CancelFunc) {
	defer cancel()

	for {
		var ignored map[string]any
		if err := conn.ReadJSON(&ignored); err != nil {
			return
		}
	}
}
