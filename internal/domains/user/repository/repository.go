package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"purohit/infras/otel"
	"purohit/infras/postgres"
	"purohit/internal/domains/user/model"
	gDto "purohit/shared/dto"
	gRepo "purohit/shared/repository"
)

type User interface {
	InsertIgnore(ctx context.Context, model model.User, conflictColumn string) (bool, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, db, otel),
		db:         db,
		otel:       otel,
	}
}
