package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maitre/infras/otel"
	"maitre/infras/postgres"
	"maitre/internal/domains/turntime/model"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/logger"
	gRepo "maitre/shared/repository"
)

type Rule interface {
	Insert(ctx context.Context, model model.Rule) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Rule, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Rule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetByRestaurant(ctx context.Context, restaurantID string) ([]model.Rule, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Rule]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Rule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Rule](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetByRestaurant returns every override for a restaurant, day-specific rules
// first so the resolver can take the first match per party size.
func (repo *repositoryImpl) GetByRestaurant(ctx context.Context, restaurantID string) (rules []model.Rule, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".turn_time_rule.GetByRestaurant")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT id, restaurant_id, party_size, day_of_week, turn_time_minutes, rush_turn_time_minutes, created_by, modified_by FROM %s WHERE restaurant_id = $1 ORDER BY day_of_week NULLS LAST, party_size",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &rules, query, restaurantID)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.EntityName, err)
	}

	return rules, nil
}
