package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maitre/infras/otel"
	"maitre/infras/postgres"
	"maitre/internal/domains/rating/model"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/logger"
	"strings"
)

type Rating interface {
	GetStats(ctx context.Context, userID string) (model.Stats, error)
	Record(ctx context.Context, entry model.HistoryEntry) error
	RecordOutcome(ctx context.Context, userID string, counters ...string) error
	GetHistory(ctx context.Context, userID string, params gDto.QueryParams) ([]model.HistoryEntry, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Rating {
	return &repositoryImpl{
		db:   db,
		otel: otel,
	}
}

// GetStats returns the guest's rolling score, or the zero value when the
// guest has never been rated.
func (repo *repositoryImpl) GetStats(ctx context.Context, userID string) (stats model.Stats, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user_rating_stats.GetStats")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf(
		"SELECT user_id, average_rating, total_ratings, total_bookings, completed_bookings, cancelled_bookings, no_show_bookings, late_cancellations, last_rated_at, created_at, modified_at FROM %s WHERE user_id = $1",
		model.StatsTableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := make([]model.Stats, 0, 1)

	err = repo.db.Read.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		logger.ErrorWithStack(err)

		return stats, fmt.Errorf("failed to get data (%s): %w", model.StatsEntityName, err)
	}

	if len(rows) == 0 {
		return stats, nil
	}

	return rows[0], nil
}

// Record appends one rating and folds it into the rolling average in the same
// transaction, so stats never drift from history.
func (repo *repositoryImpl) Record(ctx context.Context, entry model.HistoryEntry) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user_rating_history.Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.HistoryEntityName, err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	insertHistory := fmt.Sprintf(
		"INSERT INTO %s (id, user_id, restaurant_id, booking_id, rating, comment, created_at, created_by) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		model.HistoryTableName,
	)

	if _, err = tx.ExecContext(ctx, insertHistory,
		entry.ID, entry.UserID, entry.RestaurantID, entry.BookingID, entry.Rating, entry.Comment, entry.CreatedAt, entry.CreatedBy,
	); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert data (%s): %w", model.HistoryEntityName, err)
	}

	upsertStats := fmt.Sprintf(`INSERT INTO %s (user_id, average_rating, total_ratings, last_rated_at, created_at, modified_at)
		VALUES ($1, $2, 1, $3, $3, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			average_rating = (%s.average_rating * %s.total_ratings + $2) / (%s.total_ratings + 1),
			total_ratings = %s.total_ratings + 1,
			last_rated_at = $3,
			modified_at = $3`,
		model.StatsTableName, model.StatsTableName, model.StatsTableName, model.StatsTableName, model.StatsTableName,
	)

	if _, err = tx.ExecContext(ctx, upsertStats, entry.UserID, entry.Rating, entry.CreatedAt); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update data (%s): %w", model.StatsEntityName, err)
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.HistoryEntityName, err)
	}

	return nil
}

// RecordOutcome bumps total_bookings plus the named counters for a guest,
// creating the stats row at the default rating when none exists yet. Counter
// names come from the model's field constants, never from user input.
func (repo *repositoryImpl) RecordOutcome(ctx context.Context, userID string, counters ...string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user_rating_stats.RecordOutcome")
	defer scope.End()
	defer scope.TraceIfError(err)

	insertColumns := []string{"user_id", "total_bookings"}
	insertValues := []string{"$1", "1"}
	updates := []string{fmt.Sprintf("total_bookings = %s.total_bookings + 1", model.StatsTableName)}

	for _, counter := range counters {
		insertColumns = append(insertColumns, counter)
		insertValues = append(insertValues, "1")
		updates = append(updates, fmt.Sprintf("%s = %s.%s + 1", counter, model.StatsTableName, counter))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (user_id) DO UPDATE SET %s, modified_at = NOW()",
		model.StatsTableName,
		strings.Join(insertColumns, ", "),
		strings.Join(insertValues, ", "),
		strings.Join(updates, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = repo.db.Write.ExecContext(ctx, query, userID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update data (%s): %w", model.StatsEntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) GetHistory(ctx context.Context, userID string, params gDto.QueryParams) (entries []model.HistoryEntry, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user_rating_history.GetHistory")
	defer scope.End()
	defer scope.TraceIfError(err)

	offset := (params.Page - 1) * params.Limit

	query := fmt.Sprintf(
		"SELECT id, user_id, restaurant_id, booking_id, rating, comment, created_at, created_by FROM %s WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		model.HistoryTableName,
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &entries, query, userID, params.Limit, offset)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.HistoryEntityName, err)
	}

	return entries, nil
}
