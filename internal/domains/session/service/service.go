package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"purohit/infras/otel"
	identityModel "purohit/internal/domains/identity/model"
	identityDto "purohit/internal/domains/identity/model/dto"
	identity "purohit/internal/domains/identity/service"
	"purohit/internal/domains/session/model"
	"purohit/internal/domains/session/model/dto"
	userModel "purohit/internal/domains/user/model"
	userDto "purohit/internal/domains/user/model/dto"
	user "purohit/internal/domains/user/service"
	"purohit/shared/constant"
	"purohit/shared/failure"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var ErrNoSession = errors.New("no session")

// Store holds one current session per token id. Every sign-in path lands here,
// and role changes pushed by the identity provider are fanned out to observers.
type Store interface {
	Start(ctx context.Context) error
	Ready() <-chan struct{}
	Initializing() bool
	Login(ctx context.Context, req dto.LoginRequest) (model.Authenticated, error)
	BeginGoogleLogin(ctx context.Context) (string, error)
	LoginWithGoogle(ctx context.Context, result identityDto.PopupResult) (model.Authenticated, error)
	Register(ctx context.Context, req dto.RegisterRequest) (model.Authenticated, error)
	Refresh(ctx context.Context, refreshToken string) (model.Authenticated, error)
	Logout(ctx context.Context, tokenID string) error
	Resolve(ctx context.Context, accessToken string) (string, model.State, error)
	Current(tokenID string) model.State
	ConfirmAdmin(ctx context.Context, tokenID string) (bool, error)
	Subscribe(tokenID string) (<-chan model.State, func())
}

type entry struct {
	state model.State
	subs  map[int]chan model.State
}

type storeImpl struct {
	provider identity.Provider
	users    user.User
	otel     otel.Otel

	mu      sync.RWMutex
	entries map[string]*entry
	nextSub int

	started   atomic.Bool
	ready     chan struct{}
	readyOnce sync.Once
}

func New(provider identity.Provider, users user.User, otel otel.Otel) Store {
	return &storeImpl{
		provider: provider,
		users:    users,
		otel:     otel,
		entries:  make(map[string]*entry),
		ready:    make(chan struct{}),
	}
}

// Start subscribes to the provider's change stream for the lifetime of ctx.
// Calling it again is a no-op.
func (s *storeImpl) Start(ctx context.Context) error {
	if s.started.Swap(true) {
		return nil
	}

	events, err := s.provider.Changes(ctx)

	s.readyOnce.Do(func() { close(s.ready) })

	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to identity changes")

		return fmt.Errorf("failed to start session store: %w", err)
	}

	go func() {
		for event := range events {
			s.handle(ctx, event)
		}

		log.Info().Msg("identity change stream closed")
	}()

	return nil
}

func (s *storeImpl) Ready() <-chan struct{} {
	return s.ready
}

func (s *storeImpl) Initializing() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

func (s *storeImpl) Login(ctx context.Context, req dto.LoginRequest) (res model.Authenticated, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(&err)

	credential, err := s.provider.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.establish(ctx, credential, model.MessageLoggedIn), nil
}

func (s *storeImpl) BeginGoogleLogin(ctx context.Context) (string, error) {
	return s.provider.BeginPopup(ctx) //nolint:wrapcheck
}

// LoginWithGoogle completes the consent flow. The user record write is
// idempotent, so it also repairs a record lost after an earlier first sign-in.
func (s *storeImpl) LoginWithGoogle(ctx context.Context, result identityDto.PopupResult) (res model.Authenticated, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".LoginWithGoogle")
	defer scope.End()
	defer scope.TraceIfError(&err)

	credential, err := s.provider.CompletePopup(ctx, result)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	_, err = s.users.EnsureRecord(ctx, userDto.RecordRequest{
		UID:      credential.User.UID,
		Name:     credential.User.DisplayName,
		Email:    credential.User.Email,
		PhotoURL: credential.User.PhotoURL,
		Provider: userModel.ProviderGoogle,
	})
	if err != nil {
		log.Error().Err(err).Str("uid", credential.User.UID).Msg("failed to create user record for google sign in")
		s.revoke(ctx, credential)

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	message := model.MessageGoogleLoggedIn
	if credential.IsNewUser {
		message = model.MessageGoogleCreated
	}

	return s.establish(ctx, credential, message), nil
}

func (s *storeImpl) Register(ctx context.Context, req dto.RegisterRequest) (res model.Authenticated, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(&err)

	credential, err := s.provider.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.provider.UpdateDisplayName(ctx, credential.User.UID, req.Name); err != nil {
		log.Error().Err(err).Str("uid", credential.User.UID).Msg("failed to set display name")
		s.revoke(ctx, credential)

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	credential.User.DisplayName = req.Name

	_, err = s.users.EnsureRecord(ctx, userDto.RecordRequest{
		UID:      credential.User.UID,
		Name:     req.Name,
		Email:    credential.User.Email,
		Phone:    req.Phone,
		Provider: userModel.ProviderEmail,
	})
	if err != nil {
		log.Error().Err(err).Str("uid", credential.User.UID).Msg("failed to create user record")
		s.revoke(ctx, credential)

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	return s.establish(ctx, credential, model.MessageRegistered), nil
}

func (s *storeImpl) Refresh(ctx context.Context, refreshToken string) (res model.Authenticated, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refresh")
	defer scope.End()
	defer scope.TraceIfError(&err)

	tokens, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token")
	}

	_, state, err := s.Resolve(ctx, tokens.AccessToken)
	if err != nil {
		return res, err
	}

	res.State = state
	res.Tokens = tokens

	return res, nil
}

// Logout revokes the token id and clears its session. Logging out of an
// unknown or already cleared session succeeds.
func (s *storeImpl) Logout(ctx context.Context, tokenID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Logout")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if tokenID == "" {
		return nil
	}

	if err = s.provider.SignOut(ctx, tokenID); err != nil {
		log.Error().Err(err).Str("tokenID", tokenID).Msg("failed to sign out")

		return fmt.Errorf("failed to sign out: %w", err)
	}

	s.drop(tokenID)

	return nil
}

// Resolve maps a bearer token to its session, rebuilding the entry when the
// process has not seen the token yet.
func (s *storeImpl) Resolve(ctx context.Context, accessToken string) (tokenID string, state model.State, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims, err := s.provider.Verify(ctx, accessToken)
	if err != nil {
		log.Debug().Err(err).Msg("rejected access token")

		return "", state, failure.Unauthorized("Invalid or expired session")
	}

	s.mu.RLock()
	current, ok := s.entries[claims.TokenID]
	if ok {
		state = current.state
	}
	s.mu.RUnlock()

	if ok {
		return claims.TokenID, state, nil
	}

	state = model.State{
		User: &model.User{
			ID:          claims.UserID,
			DisplayName: claims.Name,
			Email:       claims.Email,
		},
	}

	isAdmin, err := s.deriveRole(ctx, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("uid", claims.UserID).Msg("role lookup failed, continuing without admin")
	}

	state = s.put(claims.TokenID, state.WithRole(isAdmin))

	return claims.TokenID, state, nil
}

func (s *storeImpl) Current(tokenID string) model.State {
	if s.Initializing() {
		return model.State{Initializing: true}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if current, ok := s.entries[tokenID]; ok {
		return current.state
	}

	return model.State{}
}

// ConfirmAdmin re-derives the role for the session. Observers see the pending
// flag while the lookup runs. Any lookup failure confirms a non-admin.
func (s *storeImpl) ConfirmAdmin(ctx context.Context, tokenID string) (isAdmin bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConfirmAdmin")
	defer scope.End()
	defer scope.TraceIfError(&err)

	s.mu.Lock()
	current, ok := s.entries[tokenID]
	if !ok || !current.state.SignedIn() {
		s.mu.Unlock()

		return false, ErrNoSession
	}

	uid := current.state.User.ID
	current.state.RolePending = true
	s.notify(current)
	s.mu.Unlock()

	isAdmin, err = s.deriveRole(ctx, uid)

	s.mu.Lock()
	if current, ok = s.entries[tokenID]; ok {
		current.state = current.state.WithRole(isAdmin)
		s.notify(current)
	}
	s.mu.Unlock()

	return isAdmin, err
}

// Subscribe delivers the latest state of the session. Slow readers only ever
// see the newest value. The channel is closed on logout or unsubscribe.
func (s *storeImpl) Subscribe(tokenID string) (<-chan model.State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[tokenID]
	if !ok {
		current = &entry{}
		s.entries[tokenID] = current
	}

	if current.subs == nil {
		current.subs = make(map[int]chan model.State)
	}

	id := s.nextSub
	s.nextSub++

	ch := make(chan model.State, 1)
	ch <- current.state
	current.subs[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			if current, ok := s.entries[tokenID]; ok {
				if sub, ok := current.subs[id]; ok {
					delete(current.subs, id)
					close(sub)
				}

				if !current.state.SignedIn() && len(current.subs) == 0 {
					delete(s.entries, tokenID)
				}
			}
		})
	}
}

// deriveRole reads the stored flag and lets a boolean admin claim override it.
func (s *storeImpl) deriveRole(ctx context.Context, uid string) (bool, error) {
	isAdmin, err := s.users.IsAdmin(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("failed to read admin flag: %w", err)
	}

	claims, err := s.provider.IDTokenClaims(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("failed to read id token claims: %w", err)
	}

	if claim, ok := claims[identityModel.ClaimAdmin].(bool); ok {
		isAdmin = claim
	}

	return isAdmin, nil
}

func (s *storeImpl) establish(ctx context.Context, credential identityDto.Credential, message string) model.Authenticated {
	isAdmin, err := s.deriveRole(ctx, credential.User.UID)
	if err != nil {
		log.Warn().Err(err).Str("uid", credential.User.UID).Msg("role lookup failed, continuing without admin")
	}

	state := model.State{
		User: &model.User{
			ID:          credential.User.UID,
			DisplayName: credential.User.DisplayName,
			Email:       credential.User.Email,
		},
	}

	return model.Authenticated{
		State:     s.put(credential.Tokens.TokenID, state.WithRole(isAdmin)),
		Tokens:    credential.Tokens,
		IsNewUser: credential.IsNewUser,
		Message:   message,
	}
}

func (s *storeImpl) revoke(ctx context.Context, credential identityDto.Credential) {
	if credential.Tokens == nil {
		return
	}

	if err := s.provider.SignOut(ctx, credential.Tokens.TokenID); err != nil {
		log.Error().Err(err).Msg("failed to revoke half created session")
	}
}

func (s *storeImpl) handle(ctx context.Context, event identityModel.Event) {
	switch event.Type {
	case identityModel.EventSignedOut:
		s.drop(event.TokenID)
	case identityModel.EventClaimsUpdated, identityModel.EventProfileUpdated:
		for _, tokenID := range s.tokensOf(event.UID) {
			if _, err := s.ConfirmAdmin(ctx, tokenID); err != nil && !errors.Is(err, ErrNoSession) {
				log.Warn().Err(err).Str("uid", event.UID).Msg("role refresh failed, admin revoked")
			}
		}
	case identityModel.EventSignedIn:
	}
}

func (s *storeImpl) tokensOf(uid string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := []string{}

	for tokenID, current := range s.entries {
		if current.state.SignedIn() && current.state.User.ID == uid {
			tokens = append(tokens, tokenID)
		}
	}

	return tokens
}

func (s *storeImpl) put(tokenID string, state model.State) model.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[tokenID]
	if !ok {
		current = &entry{}
		s.entries[tokenID] = current
	}

	current.state = state
	s.notify(current)

	return state
}

// drop clears the session and closes its subscribers after a final
// signed-out state.
func (s *storeImpl) drop(tokenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[tokenID]
	if !ok {
		return
	}

	current.state = model.State{}
	s.notify(current)

	for id, sub := range current.subs {
		close(sub)
		delete(current.subs, id)
	}

	delete(s.entries, tokenID)
}

// notify must be called with mu held.
func (s *storeImpl) notify(current *entry) {
	for _, sub := range current.subs {
		select {
		case sub <- current.state:
		default:
			select {
			case <-sub:
			default:
			}
			sub <- current.state
		}
	}
}
