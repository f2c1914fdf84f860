package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"purohit/config"
	"purohit/infras/otel/mocks"
	userMocks "purohit/internal/domains/user/mocks"
	"purohit/internal/domains/user/model"
	"purohit/internal/domains/user/model/dto"
	"purohit/internal/domains/user/service"
	cacheMocks "purohit/shared/cache/mocks"
	"purohit/shared/failure"
)

func TestUserService_EnsureRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	req := dto.RecordRequest{UID: "uid-1", Name: "Asha", Email: "asha@example.com", Provider: model.ProviderGoogle}

	tests := []struct {
		name        string
		setupMock   func()
		wantCreated bool
		wantErr     bool
	}{
		{
			name: "first sign in creates the record",
			setupMock: func() {
				mockRepo.EXPECT().
					InsertIgnore(gomock.Any(), gomock.Any(), model.FieldUID).
					DoAndReturn(func(_ context.Context, user model.User, _ string) (bool, error) {
						assert.Equal(t, "uid-1", user.UID)
						assert.False(t, user.IsAdmin)
						assert.Equal(t, model.ProviderGoogle, user.Provider)

						return true, nil
					})
			},
			wantCreated: true,
		},
		{
			name: "existing record is left alone",
			setupMock: func() {
				mockRepo.EXPECT().InsertIgnore(gomock.Any(), gomock.Any(), model.FieldUID).Return(false, nil)
			},
		},
		{
			name: "store failure",
			setupMock: func() {
				mockRepo.EXPECT().InsertIgnore(gomock.Any(), gomock.Any(), model.FieldUID).Return(false, errors.New("db down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			created, err := svc.EnsureRecord(context.Background(), req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
		})
	}
}

func TestUserService_Profile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMocks.NewMockUser(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	svc := service.New(mockRepo, &config.Config{}, mockCache, mocks.NewOtel())

	t.Run("cache miss reads the store and saves", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "user:profile:uid-1", gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{UID: "uid-1", Name: "Asha", Phone: "+919876543210"}, nil)
		mockCache.EXPECT().Save(gomock.Any(), "user:profile:uid-1", gomock.Any(), gomock.Any()).Return(nil)

		res, err := svc.Profile(context.Background(), "uid-1")

		assert.NoError(t, err)
		assert.Equal(t, "Asha", res.Name)
		assert.Equal(t, "+919876543210", res.Phone)

		time.Sleep(10 * time.Millisecond)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)

		_, err := svc.Profile(context.Background(), "uid-2")

		assert.Error(t, err)
		assert.Equal(t, 404, failure.GetCode(err))
	})
}

func TestUserService_IsAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := userMocks.NewMockUser(ctrl)

	svc := service.New(mockRepo, &config.Config{}, cacheMocks.NewMockRedisCache(ctrl), mocks.NewOtel())

	tests := []struct {
		name    string
		user    model.User
		repoErr error
		want    bool
		wantErr bool
	}{
		{name: "admin record", user: model.User{UID: "u", IsAdmin: true}, want: true},
		{name: "regular record", user: model.User{UID: "u"}},
		{name: "missing record", user: model.User{}},
		{name: "read failure", repoErr: errors.New("timeout"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().
				Get(gomock.Any(), gomock.Any(), model.FieldUID, model.FieldIsAdmin).
				Return(tt.user, tt.repoErr)

			got, err := svc.IsAdmin(context.Background(), "u")

			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.want, got)
		})
	}
}
