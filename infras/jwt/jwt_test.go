package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purohit/config"
	"purohit/infras/jwt"
)

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "purohit"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newService()

	pair, err := svc.GenerateTokenPair(jwt.Subject{UserID: "uid-1", Email: "a@example.com", Name: "Asha"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.TokenID)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.UserID)
	assert.Equal(t, "Asha", claims.Name)
	assert.Equal(t, pair.TokenID, claims.TokenID)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(pair.RefreshToken, jwt.AccessToken)
	assert.Error(t, err)
}

func TestRefreshTokensKeepsTokenID(t *testing.T) {
	svc := newService()

	pair, err := svc.GenerateTokenPair(jwt.Subject{UserID: "uid-1", SessionID: "sid-1"})
	require.NoError(t, err)
	assert.Equal(t, "sid-1", pair.TokenID)

	refreshed, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", refreshed.TokenID)

	_, err = svc.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}

func TestIDToken(t *testing.T) {
	svc := newService()

	token, err := svc.IssueIDToken("uid-1", map[string]any{"isAdmin": true, "sub": "someone-else"})
	require.NoError(t, err)

	claims, err := svc.ParseIDToken(token)
	require.NoError(t, err)
	assert.Equal(t, true, claims["isAdmin"])
	assert.Equal(t, "uid-1", claims["sub"])

	pair, err := svc.GenerateTokenPair(jwt.Subject{UserID: "uid-1"})
	require.NoError(t, err)

	_, err = svc.ParseIDToken(pair.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)

	_, err = svc.ParseIDToken("garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc", want: "abc"},
		{name: "empty", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "no token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
