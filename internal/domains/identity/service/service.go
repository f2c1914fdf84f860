package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"purohit/config"
	"purohit/infras/jwt"
	"purohit/infras/oauth"
	"purohit/infras/otel"
	"purohit/infras/pubsub"
	"purohit/internal/domains/identity/model"
	"purohit/internal/domains/identity/model/dto"
	"purohit/internal/domains/identity/repository"
	"purohit/shared"
	"purohit/shared/cache"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	"purohit/shared/failure"
	"purohit/shared/password"
	"purohit/shared/timezone"
	"purohit/shared/validator"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	cacheRevoked    = "identity:revoked"
	cacheOAuthState = "identity:oauth_state"

	TopicChanges = "identity:changes"

	oauthErrorAccessDenied = "access_denied"
)

var (
	ErrRevoked         = errors.New("session has been signed out")
	ErrIdentityMissing = errors.New("identity not found")
)

// Provider is the identity provider boundary: credential checks, account
// creation, the Google consent flow, token verification and the change stream.
type Provider interface {
	SignIn(ctx context.Context, email, secret string) (dto.Credential, error)
	CreateUser(ctx context.Context, email, secret string) (dto.Credential, error)
	UpdateDisplayName(ctx context.Context, uid, name string) error
	BeginPopup(ctx context.Context) (string, error)
	CompletePopup(ctx context.Context, result dto.PopupResult) (dto.Credential, error)
	SignOut(ctx context.Context, tokenID string) error
	Verify(ctx context.Context, accessToken string) (*jwt.Claims, error)
	Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error)
	IDTokenClaims(ctx context.Context, uid string) (map[string]any, error)
	SetAdminClaim(ctx context.Context, email string, claim *bool) error
	Changes(ctx context.Context) (<-chan model.Event, error)
}

type serviceImpl struct {
	repo   repository.Identity
	jwt    jwt.JWT
	cache  cache.RedisCache
	bus    pubsub.Bus
	google oauth.Google
	cfg    *config.Config
	otel   otel.Otel
}

func New(
	repo repository.Identity,
	jwt jwt.JWT,
	cache cache.RedisCache,
	bus pubsub.Bus,
	google oauth.Google,
	cfg *config.Config,
	otel otel.Otel,
) Provider {
	return &serviceImpl{
		repo:   repo,
		jwt:    jwt,
		cache:  cache,
		bus:    bus,
		google: google,
		cfg:    cfg,
		otel:   otel,
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    dto.NormalizeEmail(email),
				Table:    model.TableName,
			},
		},
	}
}

func validEmail(email string) bool {
	return validator.ValidateVar(email, "required,email") == nil
}

func (s *serviceImpl) SignIn(ctx context.Context, email, secret string) (res dto.Credential, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SignIn")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !validEmail(email) {
		return res, failure.NewAuthError(failure.AuthInvalidEmail, nil)
	}

	identity, err := s.repo.Get(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get identity")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	if identity.UID == "" {
		log.Warn().Str("email", email).Msg("sign in attempt with unknown email")

		return res, failure.NewAuthError(failure.AuthUserNotFound, nil)
	}

	if identity.PasswordHash == nil {
		log.Warn().Str("uid", identity.UID).Msg("password sign in for an account without password")

		return res, failure.NewAuthError(failure.AuthInvalidCredential, nil)
	}

	if err = password.Verify(secret, *identity.PasswordHash); err != nil {
		log.Warn().Str("uid", identity.UID).Msg("sign in attempt with wrong password")

		return res, failure.NewAuthError(failure.AuthInvalidCredential, err)
	}

	return s.issue(ctx, identity, false)
}

func (s *serviceImpl) CreateUser(ctx context.Context, email, secret string) (res dto.Credential, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateUser")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !validEmail(email) {
		return res, failure.NewAuthError(failure.AuthInvalidEmail, nil)
	}

	if err = password.CheckStrength(secret); err != nil {
		return res, failure.NewAuthError(failure.AuthWeakPassword, err)
	}

	exists, err := s.repo.Exist(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if identity exists")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	if exists {
		return res, failure.NewAuthError(failure.AuthEmailInUse, nil)
	}

	hash, err := password.Hash(secret)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	identity := dto.NewPasswordIdentity(email, hash)

	if err = s.repo.Insert(ctx, identity); err != nil {
		if isUniqueViolation(err) {
			return res, failure.NewAuthError(failure.AuthEmailInUse, err)
		}

		log.Error().Err(err).Msg("failed to create identity")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	return s.issue(ctx, identity, true)
}

func (s *serviceImpl) UpdateDisplayName(ctx context.Context, uid, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateDisplayName")
	defer scope.End()
	defer scope.TraceIfError(&err)

	fields := shared.TransformFields(dto.UpdateDisplayName{DisplayName: name})

	if err = s.repo.Update(ctx, fields, shared.FilterByID(uid, model.FieldUID, model.TableName)); err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("failed to update display name")

		return fmt.Errorf("failed to update display name: %w", err)
	}

	s.publish(ctx, model.Event{Type: model.EventProfileUpdated, UID: uid})

	return nil
}

// BeginPopup starts the Google consent flow and returns the URL to open.
func (s *serviceImpl) BeginPopup(ctx context.Context) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".BeginPopup")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !s.google.Configured() {
		return "", failure.NewAuthError(failure.AuthOther, oauth.ErrNotConfigured)
	}

	state := uuid.NewString()

	err = s.cache.Save(ctx, shared.BuildCacheKey(cacheOAuthState, state), state, s.cfg.OAuth.Google.StateTTLSeconds)
	if err != nil {
		log.Error().Err(err).Msg("failed to save oauth state")

		return "", failure.NewAuthError(failure.AuthOther, err)
	}

	return s.google.AuthCodeURL(state), nil
}

// CompletePopup finishes the consent flow. A denied consent, or a state that
// was never issued or has expired, counts as the user closing the popup.
func (s *serviceImpl) CompletePopup(ctx context.Context, result dto.PopupResult) (res dto.Credential, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CompletePopup")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if result.Error != "" {
		if result.Error != oauthErrorAccessDenied {
			log.Warn().Str("error", result.Error).Msg("google consent returned an error")
		}

		return res, failure.NewAuthError(failure.AuthPopupClosed, nil)
	}

	var state string
	if err = s.cache.Take(ctx, shared.BuildCacheKey(cacheOAuthState, result.State), &state); err != nil || result.Code == "" {
		return res, failure.NewAuthError(failure.AuthPopupClosed, err)
	}

	profile, err := s.google.Exchange(ctx, result.Code)
	if err != nil {
		log.Error().Err(err).Msg("failed to exchange google code")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	identity, err := s.repo.Get(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldGoogleID, Operator: gDto.FilterOperatorEq, Value: profile.Subject, Table: model.TableName},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get identity")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	if identity.UID != "" {
		return s.issue(ctx, identity, false)
	}

	exists, err := s.repo.Exist(ctx, emailFilter(profile.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if identity exists")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	if exists {
		return res, failure.NewAuthError(failure.AuthAccountConflict, nil)
	}

	identity = dto.NewGoogleIdentity(profile)

	if err = s.repo.Insert(ctx, identity); err != nil {
		if isUniqueViolation(err) {
			return res, failure.NewAuthError(failure.AuthAccountConflict, err)
		}

		log.Error().Err(err).Msg("failed to create identity")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	return s.issue(ctx, identity, true)
}

// SignOut revokes the token id for as long as a refresh token could live.
// Revoking twice is harmless.
func (s *serviceImpl) SignOut(ctx context.Context, tokenID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SignOut")
	defer scope.End()
	defer scope.TraceIfError(&err)

	ttl := s.cfg.JWT.RefreshExpireMin * constant.MinutesToSeconds

	if err = s.cache.Save(ctx, shared.BuildCacheKey(cacheRevoked, tokenID), tokenID, ttl); err != nil {
		log.Error().Err(err).Str("tokenID", tokenID).Msg("failed to revoke token")

		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.publish(ctx, model.Event{Type: model.EventSignedOut, TokenID: tokenID})

	return nil
}

func (s *serviceImpl) Verify(ctx context.Context, accessToken string) (claims *jwt.Claims, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Verify")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims, err = s.jwt.ValidateToken(accessToken, jwt.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate token: %w", err)
	}

	if err = s.checkRevoked(ctx, claims.TokenID); err != nil {
		return nil, err
	}

	return claims, nil
}

func (s *serviceImpl) Refresh(ctx context.Context, refreshToken string) (pair *jwt.TokenPair, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Refresh")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims, err := s.jwt.ValidateToken(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate refresh token: %w", err)
	}

	if err = s.checkRevoked(ctx, claims.TokenID); err != nil {
		return nil, err
	}

	pair, err = s.jwt.RefreshTokens(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh tokens: %w", err)
	}

	return pair, nil
}

// IDTokenClaims mints a fresh id token for the user and returns its verified
// claims, so out of band claim changes are always seen.
func (s *serviceImpl) IDTokenClaims(ctx context.Context, uid string) (claims map[string]any, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IDTokenClaims")
	defer scope.End()
	defer scope.TraceIfError(&err)

	identity, err := s.repo.Get(ctx, shared.FilterByID(uid, model.FieldUID, model.TableName))
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	if identity.UID == "" {
		return nil, ErrIdentityMissing
	}

	token, err := s.jwt.IssueIDToken(uid, identity.CustomClaims())
	if err != nil {
		return nil, fmt.Errorf("failed to issue id token: %w", err)
	}

	claims, err = s.jwt.ParseIDToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to parse id token: %w", err)
	}

	return claims, nil
}

// SetAdminClaim sets or clears the admin custom claim. Sessions of the user
// re-derive their role when the change event arrives.
func (s *serviceImpl) SetAdminClaim(ctx context.Context, email string, claim *bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SetAdminClaim")
	defer scope.End()
	defer scope.TraceIfError(&err)

	identity, err := s.repo.Get(ctx, emailFilter(email), model.FieldUID)
	if err != nil {
		return fmt.Errorf("failed to get identity: %w", err)
	}

	if identity.UID == "" {
		return ErrIdentityMissing
	}

	fields := map[string]any{
		model.FieldAdminClaim:   claim,
		constant.FieldUpdatedAt: timezone.Now(),
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(identity.UID, model.FieldUID, model.TableName)); err != nil {
		return fmt.Errorf("failed to update admin claim: %w", err)
	}

	s.publish(ctx, model.Event{Type: model.EventClaimsUpdated, UID: identity.UID})

	return nil
}

// Changes streams identity events until ctx is done. It returns once the
// subscription is live.
func (s *serviceImpl) Changes(ctx context.Context) (<-chan model.Event, error) {
	sub, err := s.bus.Subscribe(ctx, TopicChanges)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to identity changes: %w", err)
	}

	events := make(chan model.Event)

	go func() {
		defer close(events)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Messages():
				if !ok {
					return
				}

				var event model.Event
				if err := msg.Decode(&event); err != nil {
					log.Warn().Err(err).Msg("skipping malformed identity event")

					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

func (s *serviceImpl) issue(ctx context.Context, identity model.Identity, isNew bool) (res dto.Credential, err error) {
	tokens, err := s.jwt.GenerateTokenPair(jwt.Subject{
		UserID: identity.UID,
		Email:  identity.Email,
		Name:   identity.DisplayName,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, failure.NewAuthError(failure.AuthOther, err)
	}

	res.User.FromModel(identity)
	res.Tokens = tokens
	res.IsNewUser = isNew

	s.publish(ctx, model.Event{Type: model.EventSignedIn, UID: identity.UID, TokenID: tokens.TokenID})

	return res, nil
}

func (s *serviceImpl) checkRevoked(ctx context.Context, tokenID string) error {
	var revoked string

	err := s.cache.Get(ctx, shared.BuildCacheKey(cacheRevoked, tokenID), &revoked)

	switch {
	case err == nil:
		return ErrRevoked
	case errors.Is(err, cache.Nil):
		return nil
	default:
		log.Error().Err(err).Msg("failed to check token revocation")

		return fmt.Errorf("failed to check token revocation: %w", err)
	}
}

func (s *serviceImpl) publish(ctx context.Context, event model.Event) {
	if err := s.bus.Publish(context.WithoutCancel(ctx), TopicChanges, event); err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to publish identity event")
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && pqErr.Code == constant.PqErrorCodeUniqueViolation
}
