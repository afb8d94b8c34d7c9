package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"maitre/config"
	otelMocks "maitre/infras/otel/mocks"
	bookingMocks "maitre/internal/domains/booking/mocks"
	"maitre/internal/domains/booking/model"
	"maitre/internal/domains/booking/model/dto"
	"maitre/internal/domains/booking/repository"
	"maitre/internal/domains/booking/service"
	ratingMocks "maitre/internal/domains/rating/mocks"
	ratingModel "maitre/internal/domains/rating/model"
	ratingDto "maitre/internal/domains/rating/model/dto"
	restaurantMocks "maitre/internal/domains/restaurant/mocks"
	restaurantModel "maitre/internal/domains/restaurant/model"
	tableMocks "maitre/internal/domains/table/mocks"
	tableModel "maitre/internal/domains/table/model"
	turntimeMocks "maitre/internal/domains/turntime/mocks"
	turntimeService "maitre/internal/domains/turntime/service"
	vipMocks "maitre/internal/domains/vip/mocks"
	eventsMocks "maitre/internal/events/mocks"
	cacheMocks "maitre/shared/cache/mocks"
	"maitre/shared/constant"
	"maitre/shared/failure"
	"maitre/shared/timezone"
)

type bookingDeps struct {
	repo       *bookingMocks.MockBooking
	restaurant *restaurantMocks.MockRestaurantService
	table      *tableMocks.MockTableService
	turnTime   *turntimeMocks.MockTurnTimeService
	vip        *vipMocks.MockVIPService
	rating     *ratingMocks.MockRatingService
	publisher  *eventsMocks.MockPublisher
	cache      *cacheMocks.MockRedisCache
}

func newBookingService(t *testing.T) (service.Booking, *bookingDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := &bookingDeps{
		repo:       bookingMocks.NewMockBooking(ctrl),
		restaurant: restaurantMocks.NewMockRestaurantService(ctrl),
		table:      tableMocks.NewMockTableService(ctrl),
		turnTime:   turntimeMocks.NewMockTurnTimeService(ctrl),
		vip:        vipMocks.NewMockVIPService(ctrl),
		rating:     ratingMocks.NewMockRatingService(ctrl),
		publisher:  eventsMocks.NewMockPublisher(ctrl),
		cache:      cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.DefaultHorizonDays = 30
	cfg.Booking.RetentionDays = 90

	svc := service.New(
		deps.repo,
		deps.restaurant,
		deps.table,
		deps.turnTime,
		deps.vip,
		deps.rating,
		deps.publisher,
		cfg,
		deps.cache,
		otelMocks.NewOtel(),
	)

	return svc, deps
}

// expectPropagation covers the fire-and-forget side effects of a successful
// write: events and cache invalidation run in a goroutine that may or may not
// finish before the test does.
func (d *bookingDeps) expectPropagation() {
	d.publisher.EXPECT().PublishAvailabilityChange(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	d.rating.EXPECT().RecordOutcome(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func eligibleGuest() ratingDto.EligibilityResponse {
	return ratingDto.EligibilityResponse{CanBook: true, CanInstantBook: true, Tier: "unrestricted"}
}

func openRestaurant(instantBook bool) restaurantModel.Restaurant {
	return restaurantModel.Restaurant{
		ID:                "rest-1",
		Name:              "Chez Test",
		Timezone:          "UTC",
		OpeningTime:       "10:00",
		ClosingTime:       "22:00",
		BookingWindowDays: 30,
		InstantBook:       instantBook,
		Active:            true,
	}
}

func createRequest(slot time.Time) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RestaurantID: "rest-1",
		GuestName:    "Ada",
		PartySize:    2,
		Date:         slot.Format(constant.DateOnlyFormat),
		Time:         slot.Format(constant.TimeOnlyFormat),
	}
}

// tomorrowAt returns tomorrow's date at the given wall-clock time, safely
// inside the default booking horizon and always in the future.
func tomorrowAt(hour int) time.Time {
	n := timezone.Now().AddDate(0, 0, 1)

	return time.Date(n.Year(), n.Month(), n.Day(), hour, 0, 0, 0, n.Location())
}

func TestBookingService_Create(t *testing.T) {
	ctx := userCtx("user-1")

	t.Run("blocked guest is refused before anything else runs", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").
			Return(ratingDto.EligibilityResponse{CanBook: false, Tier: "blocked", Reason: "guest rating too low"})

		_, err := svc.Create(ctx, createRequest(tomorrowAt(19)))

		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("inactive restaurant rejects bookings", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())

		closed := openRestaurant(false)
		closed.Active = false
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(closed, nil)

		_, err := svc.Create(ctx, createRequest(tomorrowAt(19)))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("past slot is rejected", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)

		_, err := svc.Create(ctx, createRequest(timezone.Now().AddDate(0, 0, -1)))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("slot beyond the booking window is rejected", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)

		_, err := svc.Create(ctx, createRequest(tomorrowAt(19).AddDate(0, 0, 45)))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("slot outside opening hours is rejected", func(t *testing.T) {
		svc, deps := newBookingService(t)

		slot := tomorrowAt(23)

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})

		_, err := svc.Create(ctx, createRequest(slot))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("turn running past closing is rejected", func(t *testing.T) {
		svc, deps := newBookingService(t)

		// 21:30 is inside opening hours, but a 90 minute turn would run
		// until 23:00 against a 22:00 close.
		n := timezone.Now().AddDate(0, 0, 1)
		slot := time.Date(n.Year(), n.Month(), n.Day(), 21, 30, 0, 0, n.Location())

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})

		_, err := svc.Create(ctx, createRequest(slot))

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("turn ending exactly at closing is accepted", func(t *testing.T) {
		svc, deps := newBookingService(t)

		n := timezone.Now().AddDate(0, 0, 1)
		slot := time.Date(n.Year(), n.Month(), n.Day(), 20, 30, 0, 0, n.Location())
		floor := []tableModel.Table{
			{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
		}

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.repo.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		deps.repo.EXPECT().CreateWithTables(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.expectPropagation()

		_, err := svc.Create(ctx, createRequest(slot))

		assert.NoError(t, err)
	})

	t.Run("successful booking stays pending without instant book", func(t *testing.T) {
		svc, deps := newBookingService(t)

		slot := tomorrowAt(19)
		floor := []tableModel.Table{
			{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
		}

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.repo.EXPECT().FindBusyTableIDs(gomock.Any(), []string{"t-1"}, slot, slot.Add(90*time.Minute)).
			Return(nil, nil)
		deps.repo.EXPECT().CreateWithTables(gomock.Any(), gomock.Any(), []string{"t-1"}).
			DoAndReturn(func(_ context.Context, booking model.Booking, _ []string) error {
				assert.Equal(t, model.StatusPending, booking.Status)
				assert.Equal(t, "user-1", booking.UserID)
				assert.Equal(t, 90, booking.TurnTimeMinutes)

				return nil
			})
		deps.expectPropagation()

		res, err := svc.Create(ctx, createRequest(slot))

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, []string{"t-1"}, res.TableIDs)
	})

	t.Run("instant book confirms well rated guests immediately", func(t *testing.T) {
		svc, deps := newBookingService(t)

		slot := tomorrowAt(19)
		floor := []tableModel.Table{
			{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
		}

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(true), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.repo.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		deps.repo.EXPECT().CreateWithTables(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.expectPropagation()

		res, err := svc.Create(ctx, createRequest(slot))

		assert.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status)
	})

	t.Run("request-only guest stays pending even with instant book", func(t *testing.T) {
		svc, deps := newBookingService(t)

		slot := tomorrowAt(19)
		floor := []tableModel.Table{
			{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
		}

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").
			Return(ratingDto.EligibilityResponse{CanBook: true, CanInstantBook: false, Tier: "request_only"})
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(true), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.repo.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		deps.repo.EXPECT().CreateWithTables(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.expectPropagation()

		res, err := svc.Create(ctx, createRequest(slot))

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
	})

	t.Run("no free seating returns a conflict", func(t *testing.T) {
		svc, deps := newBookingService(t)

		slot := tomorrowAt(19)
		floor := []tableModel.Table{
			{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
		}

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.repo.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]string{"t-1"}, nil)

		_, err := svc.Create(ctx, createRequest(slot))

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("race loser gets a conflict when tables vanish mid-commit", func(t *testing.T) {
		svc, deps := newBookingService(t)

		slot := tomorrowAt(19)
		floor := []tableModel.Table{
			{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
		}

		deps.rating.EXPECT().CheckEligibility(gomock.Any(), "user-1").Return(eligibleGuest())
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "user-1", 30).Return(30)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", 2, gomock.Any()).
			Return(slot, slot.Add(90*time.Minute), turntimeService.Resolution{TurnTimeMinutes: 90, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.repo.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		deps.repo.EXPECT().CreateWithTables(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(repository.ErrSlotTaken)

		_, err := svc.Create(ctx, createRequest(slot))

		assert.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestBookingService_Validate(t *testing.T) {
	ctx := context.Background()

	slot := tomorrowAt(19)
	floor := []tableModel.Table{
		{ID: "t-1", RestaurantID: "rest-1", Capacity: 4, TableType: "standard", Active: true},
		{ID: "t-2", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
	}

	request := func(partySize int, tableIDs []string) dto.ValidateAssignmentRequest {
		return dto.ValidateAssignmentRequest{
			RestaurantID: "rest-1",
			PartySize:    partySize,
			Date:         slot.Format(constant.DateOnlyFormat),
			Time:         slot.Format(constant.TimeOnlyFormat),
			TableIDs:     tableIDs,
		}
	}

	expectPlan := func(deps *bookingDeps, partySize int) {
		deps.restaurant.EXPECT().GetModel(gomock.Any(), "rest-1").Return(openRestaurant(false), nil)
		deps.turnTime.EXPECT().ComputeWindow(gomock.Any(), "rest-1", partySize, gomock.Any()).
			Return(slot, slot.Add(2*time.Hour), turntimeService.Resolution{TurnTimeMinutes: 120, Source: "default"})
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
	}

	t.Run("free seating with enough capacity is valid", func(t *testing.T) {
		svc, deps := newBookingService(t)

		expectPlan(deps, 5)
		deps.repo.EXPECT().FindOverlapping(gomock.Any(), []string{"t-1", "t-2"}, gomock.Any(), gomock.Any()).
			Return(nil, nil)

		res, err := svc.Validate(ctx, request(5, []string{"t-1", "t-2"}))

		assert.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, 6, res.TotalCapacity)
		assert.Empty(t, res.ConflictingBookingIDs)
	})

	t.Run("unknown table invalidates the seating", func(t *testing.T) {
		svc, deps := newBookingService(t)

		expectPlan(deps, 2)

		res, err := svc.Validate(ctx, request(2, []string{"t-9"}))

		assert.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, "table not found or inactive", res.Reason)
	})

	t.Run("undersized seating invalidates", func(t *testing.T) {
		svc, deps := newBookingService(t)

		expectPlan(deps, 8)

		res, err := svc.Validate(ctx, request(8, []string{"t-1", "t-2"}))

		assert.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, 6, res.TotalCapacity)
	})

	t.Run("busy table invalidates and names the conflicting bookings", func(t *testing.T) {
		svc, deps := newBookingService(t)

		expectPlan(deps, 3)
		deps.repo.EXPECT().FindOverlapping(gomock.Any(), []string{"t-1"}, gomock.Any(), gomock.Any()).
			Return([]model.Booking{{ID: "booking-7"}, {ID: "booking-8"}}, nil)

		res, err := svc.Validate(ctx, request(3, []string{"t-1"}))

		assert.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, []string{"booking-7", "booking-8"}, res.ConflictingBookingIDs)
	})
}

func TestBookingService_Transitions(t *testing.T) {
	ctx := userCtx("staff-1")

	stored := func(status string) model.Booking {
		return model.Booking{
			ID:           "booking-1",
			RestaurantID: "rest-1",
			UserID:       "user-1",
			PartySize:    2,
			StartsAt:     tomorrowAt(19),
			EndsAt:       tomorrowAt(19).Add(90 * time.Minute),
			Status:       status,
		}
	}

	tests := []struct {
		name       string
		from       string
		transition func(svc service.Booking) error
		wantCode   int
	}{
		{
			name: "pending booking can be confirmed",
			from: model.StatusPending,
			transition: func(svc service.Booking) error {
				return svc.Confirm(ctx, "booking-1")
			},
		},
		{
			name: "pending booking can be declined",
			from: model.StatusPending,
			transition: func(svc service.Booking) error {
				return svc.Decline(ctx, "booking-1")
			},
		},
		{
			name: "confirmed booking can be cancelled",
			from: model.StatusConfirmed,
			transition: func(svc service.Booking) error {
				return svc.Cancel(ctx, "booking-1")
			},
		},
		{
			name: "confirmed booking can be completed",
			from: model.StatusConfirmed,
			transition: func(svc service.Booking) error {
				return svc.Complete(ctx, "booking-1")
			},
		},
		{
			name: "confirmed booking can be marked no-show",
			from: model.StatusConfirmed,
			transition: func(svc service.Booking) error {
				return svc.NoShow(ctx, "booking-1")
			},
		},
		{
			name: "completed booking cannot be confirmed again",
			from: model.StatusCompleted,
			transition: func(svc service.Booking) error {
				return svc.Confirm(ctx, "booking-1")
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "cancelled booking cannot be completed",
			from: model.StatusCancelled,
			transition: func(svc service.Booking) error {
				return svc.Complete(ctx, "booking-1")
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			svc, deps := newBookingService(t)

			deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(test.from), nil)

			if test.wantCode == 0 {
				deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				deps.expectPropagation()
			}

			err := test.transition(svc)

			if test.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Equal(t, test.wantCode, failure.GetCode(err))
			}
		})
	}

	t.Run("missing booking returns not found", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := svc.Confirm(ctx, "booking-404")

		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	// The outcome record runs in a goroutine after the status update, so these
	// block on a channel until the call lands instead of asserting call counts.
	t.Run("completing a booking feeds the behavioral record", func(t *testing.T) {
		svc, deps := newBookingService(t)

		recorded := make(chan struct{})

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored(model.StatusConfirmed), nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.rating.EXPECT().RecordOutcome(gomock.Any(), "user-1", ratingModel.OutcomeCompleted, false).
			DoAndReturn(func(context.Context, string, string, bool) error {
				close(recorded)

				return nil
			})
		deps.expectPropagation()

		assert.NoError(t, svc.Complete(ctx, "booking-1"))

		select {
		case <-recorded:
		case <-time.After(time.Second):
			t.Fatal("completed outcome was never recorded")
		}
	})

	t.Run("cancelling inside the notice period records a late cancellation", func(t *testing.T) {
		svc, deps := newBookingService(t)

		recorded := make(chan struct{})

		booking := stored(model.StatusConfirmed)
		booking.StartsAt = timezone.Now().Add(2 * time.Hour)
		booking.EndsAt = booking.StartsAt.Add(90 * time.Minute)

		deps.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(booking, nil)
		deps.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		deps.rating.EXPECT().RecordOutcome(gomock.Any(), "user-1", ratingModel.OutcomeCancelled, true).
			DoAndReturn(func(context.Context, string, string, bool) error {
				close(recorded)

				return nil
			})
		deps.expectPropagation()

		assert.NoError(t, svc.Cancel(ctx, "booking-1"))

		select {
		case <-recorded:
		case <-time.After(time.Second):
			t.Fatal("late cancellation was never recorded")
		}
	})
}

func TestBookingService_Sweep(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the number of swept rows", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.repo.EXPECT().SweepBefore(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cutoff time.Time) (int64, error) {
				assert.True(t, cutoff.Before(timezone.Now()))

				return 3, nil
			})

		deleted, err := svc.Sweep(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		svc, deps := newBookingService(t)

		deps.repo.EXPECT().SweepBefore(gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("db down"))

		_, err := svc.Sweep(ctx)

		assert.Error(t, err)
	})
}
