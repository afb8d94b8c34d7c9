package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maitre/infras/otel"
	"maitre/infras/postgres"
	"maitre/internal/domains/vip/model"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/logger"
	gRepo "maitre/shared/repository"
)

type VIP interface {
	Insert(ctx context.Context, model model.VIPStatus) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.VIPStatus, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.VIPStatus, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetActive(ctx context.Context, restaurantID, userID string) (model.VIPStatus, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.VIPStatus]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) VIP {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.VIPStatus](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetActive returns the unexpired grant for a guest at a restaurant, or the
// zero value when none exists.
func (repo *repositoryImpl) GetActive(ctx context.Context, restaurantID, userID string) (status model.VIPStatus, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".vip_status.GetActive")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT id, restaurant_id, user_id, extended_booking_days, priority_booking, valid_until, notes, created_by, modified_by FROM %s WHERE restaurant_id = $1 AND user_id = $2 AND (valid_until IS NULL OR valid_until >= NOW()) ORDER BY extended_booking_days DESC LIMIT 1",
		model.TableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	statuses := make([]model.VIPStatus, 0, 1)

	err = repo.db.Read.SelectContext(ctx, &statuses, query, restaurantID, userID)
	if err != nil {
		logger.ErrorWithStack(err)

		return status, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	if len(statuses) == 0 {
		return status, nil
	}

	return statuses[0], nil
}
