package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"purohit/infras/otel"
	"purohit/infras/postgres"
	"purohit/internal/domains/booking/model"
	"purohit/internal/domains/booking/model/dto"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	gRepo "purohit/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetPage(ctx context.Context, filter gDto.FilterGroup, after *dto.Cursor, limit int) ([]model.Booking, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetPage reads up to limit rows ordered newest first, strictly after the
// cursor when one is given. Ties on created_at are broken by id.
func (r *repositoryImpl) GetPage(ctx context.Context, filter gDto.FilterGroup, after *dto.Cursor, limit int) ([]model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetPage")
	defer scope.End()

	switch {
	case after != nil && len(filter.Filters) == 0:
		filter = keysetAfter(*after)
	case after != nil:
		filter = gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters:  []any{filter, keysetAfter(*after)},
		}
	}

	params := gDto.QueryParams{
		Limit:   limit,
		SortBy:  model.FieldCreatedAt + "," + model.FieldID,
		SortDir: gDto.SortDirDesc,
	}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func keysetAfter(cursor dto.Cursor) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorOr,
		Filters: []any{
			gDto.Filter{
				ArgName:  "cursor_created_at",
				Field:    model.FieldCreatedAt,
				Value:    cursor.CreatedAt,
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorAnd,
				Filters: []any{
					gDto.Filter{
						ArgName:  "cursor_created_at_eq",
						Field:    model.FieldCreatedAt,
						Value:    cursor.CreatedAt,
						Operator: gDto.FilterOperatorEq,
						Table:    model.TableName,
					},
					gDto.Filter{
						ArgName:  "cursor_id",
						Field:    model.FieldID,
						Value:    cursor.ID,
						Operator: gDto.FilterOperatorLess,
						Table:    model.TableName,
					},
				},
			},
		},
	}
}
