package oauth

//go:generate go run go.uber.org/mock/mockgen -source=./google.go -destination=./mocks/google_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/shared/constant"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var (
	ErrNotConfigured = errors.New("google oauth not configured")
	ErrNoEmail       = errors.New("google profile has no email")
)

// Profile is the subset of the OpenID userinfo document the app keeps.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type Google interface {
	Configured() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

type google struct {
	config      *oauth2.Config
	userInfoURL string
	otel        otel.Otel
}

func NewGoogle(cfg *config.Config, ot otel.Otel) Google {
	return NewGoogleWithEndpoint(cfg, ot, endpoints.Google, googleUserInfoURL)
}

func NewGoogleWithEndpoint(cfg *config.Config, ot otel.Otel, endpoint oauth2.Endpoint, userInfoURL string) Google {
	settings := cfg.OAuth.Google

	return &google{
		config: &oauth2.Config{
			ClientID:     settings.ClientID,
			ClientSecret: settings.ClientSecret,
			RedirectURL:  settings.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userInfoURL: userInfoURL,
		otel:        ot,
	}
}

func (g *google) Configured() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

func (g *google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *google) Exchange(ctx context.Context, code string) (profile Profile, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".google.Exchange")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !g.Configured() {
		return profile, ErrNotConfigured
	}

	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return profile, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return profile, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := g.config.Client(ctx, token).Do(req)
	if err != nil {
		return profile, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return profile, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return profile, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if profile.Email == "" {
		return profile, ErrNoEmail
	}

	return profile, nil
}
