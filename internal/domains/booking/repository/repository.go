package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"maitre/infras/otel"
	"maitre/infras/postgres"
	"maitre/internal/domains/booking/model"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/logger"
	gRepo "maitre/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// ErrSlotTaken is returned when another booking claimed one of the requested
// tables between the availability check and the commit.
var ErrSlotTaken = errors.New("one or more tables are no longer available")

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	FindOverlapping(ctx context.Context, tableIDs []string, start, end time.Time) ([]model.Booking, error)
	FindBusyTableIDs(ctx context.Context, tableIDs []string, start, end time.Time) ([]string, error)
	CreateWithTables(ctx context.Context, booking model.Booking, tableIDs []string) error
	GetTableIDs(ctx context.Context, bookingID string) ([]string, error)
	SweepBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const overlapQuery = `SELECT DISTINCT b.id, b.restaurant_id, b.user_id, b.guest_name, b.guest_phone, b.party_size,
	b.starts_at, b.ends_at, b.turn_time_minutes, b.status, b.special_request, b.created_by, b.modified_by
	FROM bookings b
	JOIN booking_tables bt ON bt.booking_id = b.id
	WHERE bt.table_id IN (?)
	AND b.status IN (?)
	AND b.starts_at < ? AND ? < b.ends_at`

// FindOverlapping returns every blocking booking whose half-open window
// intersects [start, end) on any of the given tables.
func (repo *repositoryImpl) FindOverlapping(ctx context.Context, tableIDs []string, start, end time.Time) (bookings []model.Booking, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindOverlapping")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(tableIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(overlapQuery, tableIDs, model.BlockingStatuses, end, start)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to build query (%s): %w", model.EntityName, err)
	}

	query = repo.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &bookings, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.EntityName, err)
	}

	return bookings, nil
}

// FindBusyTableIDs returns which of the given tables are held by a blocking
// booking during [start, end).
func (repo *repositoryImpl) FindBusyTableIDs(ctx context.Context, tableIDs []string, start, end time.Time) (busy []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.FindBusyTableIDs")
	defer scope.End()
	defer scope.TraceIfError(err)

	if len(tableIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(
		"SELECT DISTINCT bt.table_id FROM booking_tables bt JOIN bookings b ON b.id = bt.booking_id WHERE bt.table_id IN (?) AND b.status IN (?) AND b.starts_at < ? AND ? < b.ends_at",
		tableIDs, model.BlockingStatuses, end, start,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to build query (%s): %w", model.EntityName, err)
	}

	query = repo.db.Read.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &busy, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.EntityName, err)
	}

	return busy, nil
}

// CreateWithTables commits a booking and its table claims atomically. The
// table rows are locked first, then the overlap check runs again inside the
// transaction: two racing requests serialize on the locks and the loser sees
// the winner's rows and gets ErrSlotTaken, so double booking cannot happen.
func (repo *repositoryImpl) CreateWithTables(ctx context.Context, booking model.Booking, tableIDs []string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithTables")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				logger.ErrorWithStack(rollbackErr)
			}
		}
	}()

	lockQuery, lockArgs, err := sqlx.In("SELECT id FROM restaurant_tables WHERE id IN (?) ORDER BY id FOR UPDATE", tableIDs)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to build query (%s): %w", model.EntityName, err)
	}

	var lockedIDs []string
	if err = tx.SelectContext(ctx, &lockedIDs, tx.Rebind(lockQuery), lockArgs...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock tables (%s): %w", model.EntityName, err)
	}

	if len(lockedIDs) != len(tableIDs) {
		return ErrSlotTaken
	}

	checkQuery, checkArgs, err := sqlx.In(
		"SELECT COUNT(*) FROM bookings b JOIN booking_tables bt ON bt.booking_id = b.id WHERE bt.table_id IN (?) AND b.status IN (?) AND b.starts_at < ? AND ? < b.ends_at",
		tableIDs, model.BlockingStatuses, booking.EndsAt, booking.StartsAt,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to build query (%s): %w", model.EntityName, err)
	}

	var conflicts int
	if err = tx.GetContext(ctx, &conflicts, tx.Rebind(checkQuery), checkArgs...); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to re-check overlaps (%s): %w", model.EntityName, err)
	}

	if conflicts > 0 {
		return ErrSlotTaken
	}

	insertBooking := fmt.Sprintf(`INSERT INTO %s
		(id, restaurant_id, user_id, guest_name, guest_phone, party_size, starts_at, ends_at, turn_time_minutes, status, special_request, created_by, modified_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		model.TableName,
	)

	if _, err = tx.ExecContext(ctx, insertBooking,
		booking.ID, booking.RestaurantID, booking.UserID, booking.GuestName, booking.GuestPhone,
		booking.PartySize, booking.StartsAt, booking.EndsAt, booking.TurnTimeMinutes,
		booking.Status, booking.SpecialRequest, booking.CreatedBy, booking.ModifiedBy,
	); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert data (%s): %w", model.EntityName, err)
	}

	insertJunction := fmt.Sprintf("INSERT INTO %s (booking_id, table_id) VALUES ($1, $2)", model.JunctionTableName)
	for _, tableID := range tableIDs {
		if _, err = tx.ExecContext(ctx, insertJunction, booking.ID, tableID); err != nil {
			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to insert data (%s): %w", model.JunctionTableName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) GetTableIDs(ctx context.Context, bookingID string) (tableIDs []string, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetTableIDs")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := fmt.Sprintf("SELECT table_id FROM %s WHERE booking_id = $1 ORDER BY table_id", model.JunctionTableName)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.SelectContext(ctx, &tableIDs, query, bookingID)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", model.JunctionTableName, err)
	}

	return tableIDs, nil
}

// SweepBefore deletes terminal bookings whose window ended before the cutoff.
// Junction rows go with them via ON DELETE CASCADE.
func (repo *repositoryImpl) SweepBefore(ctx context.Context, cutoff time.Time) (deleted int64, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SweepBefore")
	defer scope.End()
	defer scope.TraceIfError(err)

	query, args, err := sqlx.In(
		fmt.Sprintf("DELETE FROM %s WHERE ends_at < ? AND status NOT IN (?)", model.TableName),
		cutoff, model.BlockingStatuses,
	)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to build query (%s): %w", model.EntityName, err)
	}

	query = repo.db.Write.Rebind(query)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.ExecContext(ctx, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to delete data (%s): %w", model.EntityName, err)
	}

	deleted, err = result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to read rows affected (%s): %w", model.EntityName, err)
	}

	return deleted, nil
}
