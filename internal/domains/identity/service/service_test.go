package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"purohit/config"
	"purohit/infras/jwt"
	jwtMocks "purohit/infras/jwt/mocks"
	"purohit/infras/oauth"
	oauthMocks "purohit/infras/oauth/mocks"
	"purohit/infras/otel/mocks"
	"purohit/infras/pubsub"
	identityMocks "purohit/internal/domains/identity/mocks"
	"purohit/internal/domains/identity/model"
	"purohit/internal/domains/identity/model/dto"
	"purohit/internal/domains/identity/service"
	"purohit/shared/cache"
	cacheMocks "purohit/shared/cache/mocks"
	"purohit/shared/failure"
	"purohit/shared/password"
)

type fixture struct {
	repo   *identityMocks.MockIdentity
	jwt    *jwtMocks.MockJWT
	cache  *cacheMocks.MockRedisCache
	google *oauthMocks.MockGoogle
	bus    *pubsub.Memory
	svc    service.Provider
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.JWT.RefreshExpireMin = 60
	cfg.OAuth.Google.StateTTLSeconds = 600

	f := fixture{
		repo:   identityMocks.NewMockIdentity(ctrl),
		jwt:    jwtMocks.NewMockJWT(ctrl),
		cache:  cacheMocks.NewMockRedisCache(ctrl),
		google: oauthMocks.NewMockGoogle(ctrl),
		bus:    pubsub.NewMemory(),
	}
	f.svc = service.New(f.repo, f.jwt, f.cache, f.bus, f.google, cfg, mocks.NewOtel())

	return f
}

func tokens() *jwt.TokenPair {
	return &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenID: "sid-1"}
}

func TestProvider_SignIn(t *testing.T) {
	hash, err := password.Hash("secret123")
	require.NoError(t, err)

	known := model.Identity{UID: "uid-1", Email: "asha@example.com", DisplayName: "Asha", PasswordHash: &hash, Provider: model.ProviderPassword}

	tests := []struct {
		name      string
		email     string
		secret    string
		setupMock func(f fixture)
		wantKind  failure.AuthKind
		wantErr   bool
	}{
		{
			name:   "valid credentials",
			email:  "Asha@Example.com",
			secret: "secret123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(known, nil)
				f.jwt.EXPECT().GenerateTokenPair(jwt.Subject{UserID: "uid-1", Email: "asha@example.com", Name: "Asha"}).Return(tokens(), nil)
			},
		},
		{
			name:      "malformed email",
			email:     "not-an-email",
			secret:    "secret123",
			setupMock: func(fixture) {},
			wantKind:  failure.AuthInvalidEmail,
			wantErr:   true,
		},
		{
			name:   "unknown email",
			email:  "nobody@example.com",
			secret: "secret123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{}, nil)
			},
			wantKind: failure.AuthUserNotFound,
			wantErr:  true,
		},
		{
			name:   "wrong password",
			email:  "asha@example.com",
			secret: "wrong-one",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(known, nil)
			},
			wantKind: failure.AuthInvalidCredential,
			wantErr:  true,
		},
		{
			name:   "google account without password",
			email:  "asha@example.com",
			secret: "secret123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{UID: "uid-1", Email: "asha@example.com"}, nil)
			},
			wantKind: failure.AuthInvalidCredential,
			wantErr:  true,
		},
		{
			name:   "store failure",
			email:  "asha@example.com",
			secret: "secret123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{}, errors.New("db down"))
			},
			wantKind: failure.AuthOther,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.SignIn(context.Background(), tt.email, tt.secret)
			if tt.wantErr {
				assert.True(t, failure.IsAuthKind(err, tt.wantKind), "got %v", err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "uid-1", res.User.UID)
			assert.Equal(t, "sid-1", res.Tokens.TokenID)
			assert.False(t, res.IsNewUser)
		})
	}
}

func TestProvider_CreateUser(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		secret    string
		setupMock func(f fixture)
		wantKind  failure.AuthKind
		wantErr   bool
	}{
		{
			name:   "new account",
			email:  "new@example.com",
			secret: "secret123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, identity model.Identity) error {
					assert.Equal(t, "new@example.com", identity.Email)
					assert.NotNil(t, identity.PasswordHash)
					assert.Nil(t, identity.AdminClaim)

					return nil
				})
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(tokens(), nil)
			},
		},
		{
			name:      "weak password",
			email:     "new@example.com",
			secret:    "123",
			setupMock: func(fixture) {},
			wantKind:  failure.AuthWeakPassword,
			wantErr:   true,
		},
		{
			name:      "invalid email",
			email:     "new@",
			secret:    "secret123",
			setupMock: func(fixture) {},
			wantKind:  failure.AuthInvalidEmail,
			wantErr:   true,
		},
		{
			name:   "email in use",
			email:  "asha@example.com",
			secret: "secret123",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantKind: failure.AuthEmailInUse,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CreateUser(context.Background(), tt.email, tt.secret)
			if tt.wantErr {
				assert.True(t, failure.IsAuthKind(err, tt.wantKind), "got %v", err)
				return
			}

			assert.NoError(t, err)
			assert.True(t, res.IsNewUser)
			assert.NotEmpty(t, res.User.UID)
		})
	}
}

func TestProvider_CompletePopup(t *testing.T) {
	profile := oauth.Profile{Subject: "g-1", Email: "asha@example.com", Name: "Asha"}

	tests := []struct {
		name      string
		result    dto.PopupResult
		setupMock func(f fixture)
		wantKind  failure.AuthKind
		wantErr   bool
		wantNew   bool
	}{
		{
			name:      "consent denied",
			result:    dto.PopupResult{State: "s", Error: "access_denied"},
			setupMock: func(fixture) {},
			wantKind:  failure.AuthPopupClosed,
			wantErr:   true,
		},
		{
			name:   "abandoned flow",
			result: dto.PopupResult{State: "stale", Code: "c"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Take(gomock.Any(), "identity:oauth_state:stale", gomock.Any()).Return(cache.Nil)
			},
			wantKind: failure.AuthPopupClosed,
			wantErr:  true,
		},
		{
			name:   "returning google user",
			result: dto.PopupResult{State: "s", Code: "c"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Take(gomock.Any(), "identity:oauth_state:s", gomock.Any()).Return(nil)
				f.google.EXPECT().Exchange(gomock.Any(), "c").Return(profile, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{UID: "uid-1", Email: profile.Email}, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(tokens(), nil)
			},
		},
		{
			name:   "first google sign in",
			result: dto.PopupResult{State: "s", Code: "c"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Take(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.google.EXPECT().Exchange(gomock.Any(), "c").Return(profile, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{}, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any()).Return(tokens(), nil)
			},
			wantNew: true,
		},
		{
			name:   "email owned by a password account",
			result: dto.PopupResult{State: "s", Code: "c"},
			setupMock: func(f fixture) {
				f.cache.EXPECT().Take(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.google.EXPECT().Exchange(gomock.Any(), "c").Return(profile, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{}, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantKind: failure.AuthAccountConflict,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.CompletePopup(context.Background(), tt.result)
			if tt.wantErr {
				assert.True(t, failure.IsAuthKind(err, tt.wantKind), "got %v", err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantNew, res.IsNewUser)
		})
	}
}

func TestProvider_SignOutAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	changes, err := f.svc.Changes(ctx)
	require.NoError(t, err)

	f.cache.EXPECT().Save(gomock.Any(), "identity:revoked:sid-1", "sid-1", 3600).Return(nil)
	require.NoError(t, f.svc.SignOut(ctx, "sid-1"))

	select {
	case event := <-changes:
		assert.Equal(t, model.EventSignedOut, event.Type)
		assert.Equal(t, "sid-1", event.TokenID)
	case <-time.After(time.Second):
		t.Fatal("sign out event not published")
	}

	f.jwt.EXPECT().ValidateToken("access", jwt.AccessToken).Return(&jwt.Claims{UserID: "uid-1", TokenID: "sid-1"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "identity:revoked:sid-1", gomock.Any()).Return(nil)

	_, err = f.svc.Verify(ctx, "access")
	assert.ErrorIs(t, err, service.ErrRevoked)

	f.jwt.EXPECT().ValidateToken("other", jwt.AccessToken).Return(&jwt.Claims{UserID: "uid-1", TokenID: "sid-2"}, nil)
	f.cache.EXPECT().Get(gomock.Any(), "identity:revoked:sid-2", gomock.Any()).Return(cache.Nil)

	claims, err := f.svc.Verify(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
}

func TestProvider_IDTokenClaims(t *testing.T) {
	f := newFixture(t)
	admin := true

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{UID: "uid-1", AdminClaim: &admin}, nil)
	f.jwt.EXPECT().IssueIDToken("uid-1", gomock.Any()).DoAndReturn(func(_ string, custom map[string]any) (string, error) {
		assert.Equal(t, true, custom[model.ClaimAdmin])

		return "id-token", nil
	})
	f.jwt.EXPECT().ParseIDToken("id-token").Return(map[string]any{model.ClaimAdmin: true}, nil)

	claims, err := f.svc.IDTokenClaims(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, true, claims[model.ClaimAdmin])

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Identity{}, nil)

	_, err = f.svc.IDTokenClaims(context.Background(), "ghost")
	assert.ErrorIs(t, err, service.ErrIdentityMissing)
}

func TestProvider_SetAdminClaim(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldUID).Return(model.Identity{}, nil)

		err := f.svc.SetAdminClaim(context.Background(), "nobody@example.com", nil)

		assert.ErrorIs(t, err, service.ErrIdentityMissing)
	})

	t.Run("grant publishes a claims event", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		grant := true

		changes, err := f.svc.Changes(ctx)
		require.NoError(t, err)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldUID).Return(model.Identity{UID: "uid-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
			assert.Equal(t, &grant, fields[model.FieldAdminClaim])

			return nil
		})

		require.NoError(t, f.svc.SetAdminClaim(ctx, "asha@example.com", &grant))

		select {
		case event := <-changes:
			assert.Equal(t, model.EventClaimsUpdated, event.Type)
			assert.Equal(t, "uid-1", event.UID)
		case <-time.After(time.Second):
			t.Fatal("claims event not published")
		}
	})

	t.Run("update failure", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldUID).Return(model.Identity{UID: "uid-1"}, nil)
		f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		assert.Error(t, f.svc.SetAdminClaim(context.Background(), "asha@example.com", nil))
	})
}
