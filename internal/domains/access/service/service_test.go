package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"purohit/config"
	otelMocks "purohit/infras/otel/mocks"
	"purohit/internal/domains/access/model"
	"purohit/internal/domains/access/service"
	sessionModel "purohit/internal/domains/session/model"
	sessionMocks "purohit/internal/domains/session/service/mocks"
	"purohit/permissions"
	gDto "purohit/shared/dto"
	"purohit/shared/failure"
)

var signedIn = sessionModel.State{User: &sessionModel.User{ID: "uid-1", Email: "a@example.com"}}

func newGate(t *testing.T) (service.Gate, *sessionMocks.MockStore) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := sessionMocks.NewMockStore(ctrl)

	cfg := &config.Config{}
	cfg.Access.ConfirmTimeoutSeconds = 1

	return service.New(store, permissions.Get(), cfg, otelMocks.NewOtel()), store
}

func TestGate_PublicAndUnknownViews(t *testing.T) {
	gate, _ := newGate(t)

	decision := gate.Evaluate(context.Background(), "/book-pooja", "")
	assert.Equal(t, model.OutcomePermit, decision.Outcome)

	decision = gate.Evaluate(context.Background(), "/does-not-exist", "")
	assert.Equal(t, model.OutcomeRedirect, decision.Outcome)
	assert.Equal(t, "/", decision.Redirect)
	assert.Nil(t, decision.Advisory)
}

func TestGate_AuthenticatedView(t *testing.T) {
	tests := []struct {
		name         string
		initializing bool
		state        sessionModel.State
		want         model.Outcome
		wantAdvisory *gDto.Advisory
	}{
		{name: "store still initializing", initializing: true, want: model.OutcomeLoading},
		{
			name:         "no session",
			want:         model.OutcomeDeny,
			wantAdvisory: &gDto.Advisory{Level: gDto.AdvisoryWarning, Message: model.MessageLoginRequired},
		},
		{name: "signed in", state: signedIn, want: model.OutcomePermit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, store := newGate(t)

			store.EXPECT().Initializing().Return(tt.initializing).AnyTimes()
			store.EXPECT().Current("tid").Return(tt.state).AnyTimes()

			first := gate.Evaluate(context.Background(), "/my-bookings", "tid")
			second := gate.Evaluate(context.Background(), "/my-bookings", "tid")

			assert.Equal(t, tt.want, first.Outcome)
			assert.Equal(t, first, second)

			if tt.wantAdvisory != nil {
				assert.Equal(t, tt.wantAdvisory, first.Advisory)
				assert.Equal(t, "/", first.Redirect)
			}
		})
	}
}

func TestGate_AdminView(t *testing.T) {
	pending := signedIn
	pending.RolePending = true

	tests := []struct {
		name        string
		state       sessionModel.State
		isAdmin     bool
		confirmErr  error
		skipConfirm bool
		want        model.Outcome
		wantMessage string
	}{
		{name: "confirmed admin", state: signedIn, isAdmin: true, want: model.OutcomePermit},
		{name: "regular user", state: signedIn, want: model.OutcomeDeny, wantMessage: model.MessageAdminsOnly},
		{name: "lookup failure", state: signedIn, confirmErr: errors.New("db down"), want: model.OutcomeDeny, wantMessage: model.MessageAdminCheck},
		{name: "role pending", state: pending, skipConfirm: true, want: model.OutcomeLoading, wantMessage: model.MessageCheckingAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, store := newGate(t)

			store.EXPECT().Initializing().Return(false)
			store.EXPECT().Current("tid").Return(tt.state)

			if !tt.skipConfirm {
				store.EXPECT().ConfirmAdmin(gomock.Any(), "tid").Return(tt.isAdmin, tt.confirmErr)
			}

			decision := gate.Evaluate(context.Background(), "/admin-bookings", "tid")

			assert.Equal(t, tt.want, decision.Outcome)

			if tt.wantMessage != "" {
				require.NotNil(t, decision.Advisory)
				assert.Equal(t, tt.wantMessage, decision.Advisory.Message)
			}
		})
	}
}

func TestGate_AdminViewNeverPermitsWithoutConfirmation(t *testing.T) {
	gate, store := newGate(t)

	// The cached flag says admin but the fresh read says otherwise.
	cached := signedIn.WithRole(true)

	store.EXPECT().Initializing().Return(false)
	store.EXPECT().Current("tid").Return(cached)
	store.EXPECT().ConfirmAdmin(gomock.Any(), "tid").Return(false, nil)

	decision := gate.Evaluate(context.Background(), "/admin-bookings", "tid")

	assert.Equal(t, model.OutcomeDeny, decision.Outcome)
}

func TestGate_Authorize(t *testing.T) {
	tests := []struct {
		name     string
		access   permissions.Access
		setup    func(store *sessionMocks.MockStore)
		wantCode int
	}{
		{name: "public", access: permissions.AccessPublic, setup: func(*sessionMocks.MockStore) {}},
		{
			name:   "initializing",
			access: permissions.AccessAuthenticated,
			setup: func(store *sessionMocks.MockStore) {
				store.EXPECT().Initializing().Return(true)
			},
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:   "anonymous",
			access: permissions.AccessAuthenticated,
			setup: func(store *sessionMocks.MockStore) {
				store.EXPECT().Initializing().Return(false)
				store.EXPECT().Current("tid").Return(sessionModel.State{})
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:   "signed in",
			access: permissions.AccessAuthenticated,
			setup: func(store *sessionMocks.MockStore) {
				store.EXPECT().Initializing().Return(false)
				store.EXPECT().Current("tid").Return(signedIn)
			},
		},
		{
			name:   "not an admin",
			access: permissions.AccessAdmin,
			setup: func(store *sessionMocks.MockStore) {
				store.EXPECT().Initializing().Return(false)
				store.EXPECT().Current("tid").Return(signedIn)
				store.EXPECT().ConfirmAdmin(gomock.Any(), "tid").Return(false, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "admin",
			access: permissions.AccessAdmin,
			setup: func(store *sessionMocks.MockStore) {
				store.EXPECT().Initializing().Return(false)
				store.EXPECT().Current("tid").Return(signedIn)
				store.EXPECT().ConfirmAdmin(gomock.Any(), "tid").Return(true, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate, store := newGate(t)
			tt.setup(store)

			err := gate.Authorize(context.Background(), "tid", tt.access)
			if tt.wantCode == 0 {
				assert.NoError(t, err)
				return
			}

			var authzErr *failure.AuthorizationError
			require.ErrorAs(t, err, &authzErr)
			assert.Equal(t, tt.wantCode, authzErr.Code)
		})
	}
}
