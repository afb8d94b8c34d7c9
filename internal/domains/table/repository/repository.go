package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maitre/infras/otel"
	"maitre/infras/postgres"
	"maitre/internal/domains/table/model"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/logger"
	gRepo "maitre/shared/repository"
)

type Table interface {
	Insert(ctx context.Context, model model.Table) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Table, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Table, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetActiveByRestaurant(ctx context.Context, restaurantID string) ([]model.Table, error)
}

type Combination interface {
	Insert(ctx context.Context, model model.Combination) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Combination, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Combination, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetActiveByRestaurant(ctx context.Context, restaurantID string) ([]model.Combination, error)
}

type tableRepositoryImpl struct {
	gRepo.Repository[model.Table]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Table {
	return &tableRepositoryImpl{
		Repository: gRepo.NewRepository[model.Table](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActiveByRestaurant loads the full active floor plan in one query. The
// assignment search needs every candidate table at once, so pagination does
// not apply here.
func (repo *tableRepositoryImpl) GetActiveByRestaurant(ctx context.Context, restaurantID string) (tables []model.Table, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table.GetActiveByRestaurant")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT id, restaurant_id, table_number, capacity, table_type, combinable, priority_score, active, created_by, modified_by FROM %s WHERE restaurant_id = $1 AND active = TRUE ORDER BY capacity, id",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &tables, query, restaurantID)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.EntityName, err)
	}

	return tables, nil
}

type combinationRepositoryImpl struct {
	gRepo.Repository[model.Combination]
	db   *postgres.Connection
	otel otel.Otel
}

func NewCombination(db *postgres.Connection, otel otel.Otel) Combination {
	return &combinationRepositoryImpl{
		Repository: gRepo.NewRepository[model.Combination](model.CombinationEntityName, model.CombinationTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *combinationRepositoryImpl) GetActiveByRestaurant(ctx context.Context, restaurantID string) (combinations []model.Combination, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".table_combination.GetActiveByRestaurant")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT id, restaurant_id, primary_table_id, secondary_table_id, combined_capacity, active, created_by, modified_by FROM %s WHERE restaurant_id = $1 AND active = TRUE ORDER BY combined_capacity, id",
		model.CombinationTableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &combinations, query, restaurantID)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.CombinationEntityName, err)
	}

	return combinations, nil
}
