package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/internal/domains/user/model"
	"purohit/internal/domains/user/model/dto"
	"purohit/internal/domains/user/repository"
	"purohit/shared"
	"purohit/shared/cache"
	"purohit/shared/constant"
	"purohit/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProfile = "user:profile"
)

type User interface {
	EnsureRecord(ctx context.Context, req dto.RecordRequest) (bool, error)
	Profile(ctx context.Context, uid string) (dto.ProfileResponse, error)
	IsAdmin(ctx context.Context, uid string) (bool, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// EnsureRecord writes the record once. A second call for the same uid is a
// no-op and reports false.
func (s *serviceImpl) EnsureRecord(ctx context.Context, req dto.RecordRequest) (created bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EnsureRecord")
	defer scope.End()
	defer scope.TraceIfError(&err)

	created, err = s.repo.InsertIgnore(ctx, req.ToModel(), model.FieldUID)
	if err != nil {
		log.Error().Err(err).Str("uid", req.UID).Msg("failed to create user record")

		return false, fmt.Errorf("failed to create user record: %w", err)
	}

	if created {
		log.Info().Str("uid", req.UID).Str("provider", req.Provider).Msg("user record created")
	}

	return created, nil
}

func (s *serviceImpl) Profile(ctx context.Context, uid string) (res dto.ProfileResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Profile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKey(cacheGetProfile, uid)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for profile")

		return res, nil
	}

	user, err := s.repo.Get(ctx, shared.FilterByID(uid, model.FieldUID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.UID == "" {
		return res, failure.NotFound("user not found")
	}

	res.FromModel(user)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save profile to cache")
		}
	}()

	return res, nil
}

// IsAdmin reads the stored flag. It never goes through the cache so a change
// made out of band is seen on the next call. A missing record is not an admin.
func (s *serviceImpl) IsAdmin(ctx context.Context, uid string) (isAdmin bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".IsAdmin")
	defer scope.End()
	defer scope.TraceIfError(&err)

	user, err := s.repo.Get(ctx, shared.FilterByID(uid, model.FieldUID, model.TableName), model.FieldUID, model.FieldIsAdmin)
	if err != nil {
		log.Error().Err(err).Str("uid", uid).Msg("failed to read admin flag")

		return false, fmt.Errorf("failed to read admin flag: %w", err)
	}

	return user.UID != "" && user.IsAdmin, nil
}
