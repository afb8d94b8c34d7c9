package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"maitre/config"
	otelMocks "maitre/infras/otel/mocks"
	"maitre/internal/domains/availability/model/dto"
	"maitre/internal/domains/availability/service"
	bookingMocks "maitre/internal/domains/booking/mocks"
	restaurantMocks "maitre/internal/domains/restaurant/mocks"
	restaurantModel "maitre/internal/domains/restaurant/model"
	tableMocks "maitre/internal/domains/table/mocks"
	tableModel "maitre/internal/domains/table/model"
	turntimeMocks "maitre/internal/domains/turntime/mocks"
	turntimeService "maitre/internal/domains/turntime/service"
	vipMocks "maitre/internal/domains/vip/mocks"
	"maitre/shared/cache"
	cacheMocks "maitre/shared/cache/mocks"
	"maitre/shared/constant"
	"maitre/shared/failure"
	"maitre/shared/timezone"
)

type availabilityDeps struct {
	restaurantSvc  *restaurantMocks.MockRestaurantService
	restaurantRepo *restaurantMocks.MockRestaurant
	table          *tableMocks.MockTableService
	turnTime       *turntimeMocks.MockTurnTimeService
	vip            *vipMocks.MockVIPService
	bookings       *bookingMocks.MockBooking
	cache          *cacheMocks.MockRedisCache
}

func newAvailabilityService(t *testing.T) (service.Availability, *availabilityDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := &availabilityDeps{
		restaurantSvc:  restaurantMocks.NewMockRestaurantService(ctrl),
		restaurantRepo: restaurantMocks.NewMockRestaurant(ctrl),
		table:          tableMocks.NewMockTableService(ctrl),
		turnTime:       turntimeMocks.NewMockTurnTimeService(ctrl),
		vip:            vipMocks.NewMockVIPService(ctrl),
		bookings:       bookingMocks.NewMockBooking(ctrl),
		cache:          cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.DefaultHorizonDays = 30
	cfg.Booking.SlotIntervalMinutes = 30

	svc := service.New(
		deps.restaurantSvc,
		deps.restaurantRepo,
		deps.table,
		deps.turnTime,
		deps.vip,
		deps.bookings,
		cfg,
		deps.cache,
		otelMocks.NewOtel(),
	)

	return svc, deps
}

func (d *availabilityDeps) expectCacheMiss() {
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	d.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

// fixedTurn makes every slot resolve to the same turn time, so tests control
// trimming purely through the service window.
func (d *availabilityDeps) fixedTurn(minutes int) {
	d.turnTime.EXPECT().ComputeWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ int, start time.Time) (time.Time, time.Time, turntimeService.Resolution) {
			return start, start.Add(time.Duration(minutes) * time.Minute), turntimeService.Resolution{
				TurnTimeMinutes: minutes,
				Source:          "default",
			}
		}).AnyTimes()
}

func listRestaurant() restaurantModel.Restaurant {
	return restaurantModel.Restaurant{
		ID:                "rest-1",
		Timezone:          "UTC",
		OpeningTime:       "10:00",
		ClosingTime:       "22:00",
		BookingWindowDays: 30,
		Active:            true,
	}
}

func slotTimes(slots []dto.Slot) []string {
	times := make([]string, len(slots))
	for i, slot := range slots {
		times[i] = slot.Time
	}

	return times
}

func TestAvailabilityService_ListSlots(t *testing.T) {
	ctx := context.Background()

	tomorrow := timezone.Now().AddDate(0, 0, 1).Format(constant.DateOnlyFormat)

	floor := []tableModel.Table{
		{ID: "t-1", RestaurantID: "rest-1", Capacity: 2, TableType: "standard", Active: true},
	}

	request := dto.ListSlotsRequest{RestaurantID: "rest-1", Date: tomorrow, PartySize: 2}

	t.Run("walks shift windows and trims slots whose turn overruns", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		restaurant := listRestaurant()
		day, _ := time.ParseInLocation(constant.DateOnlyFormat, tomorrow, time.UTC)

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(restaurant, nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "", 30).Return(30)
		deps.expectCacheMiss()
		deps.restaurantRepo.EXPECT().GetShifts(gomock.Any(), "rest-1").Return([]restaurantModel.Shift{
			{ID: "shift-1", RestaurantID: "rest-1", DayOfWeek: int(day.Weekday()), OpensAt: "18:00", ClosesAt: "20:00"},
		}, nil)
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.fixedTurn(60)
		deps.bookings.EXPECT().FindBusyTableIDs(gomock.Any(), []string{"t-1"}, gomock.Any(), gomock.Any()).
			Return(nil, nil).AnyTimes()

		res, err := svc.ListSlots(ctx, request)

		assert.NoError(t, err)
		// 19:30 would run until 20:30, past close, so it is not offered.
		assert.Equal(t, []string{"18:00", "18:30", "19:00"}, slotTimes(res.Slots))

		for _, slot := range res.Slots {
			assert.True(t, slot.Available)
			assert.Equal(t, 60, slot.TurnTimeMinutes)
		}
	})

	t.Run("slots with no free seating are reported unavailable", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		restaurant := listRestaurant()
		day, _ := time.ParseInLocation(constant.DateOnlyFormat, tomorrow, time.UTC)
		busyAt := time.Date(day.Year(), day.Month(), day.Day(), 18, 30, 0, 0, time.UTC)

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(restaurant, nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "", 30).Return(30)
		deps.expectCacheMiss()
		deps.restaurantRepo.EXPECT().GetShifts(gomock.Any(), "rest-1").Return([]restaurantModel.Shift{
			{ID: "shift-1", RestaurantID: "rest-1", DayOfWeek: int(day.Weekday()), OpensAt: "18:00", ClosesAt: "20:00"},
		}, nil)
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.fixedTurn(60)
		deps.bookings.EXPECT().FindBusyTableIDs(gomock.Any(), []string{"t-1"}, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ []string, start, _ time.Time) ([]string, error) {
				if start.Equal(busyAt) {
					return []string{"t-1"}, nil
				}

				return nil, nil
			}).AnyTimes()

		res, err := svc.ListSlots(ctx, request)

		assert.NoError(t, err)

		byTime := make(map[string]bool, len(res.Slots))
		for _, slot := range res.Slots {
			byTime[slot.Time] = slot.Available
		}

		assert.True(t, byTime["18:00"])
		assert.False(t, byTime["18:30"])
		assert.True(t, byTime["19:00"])
	})

	t.Run("falls back to base hours when the day has no shifts", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		restaurant := listRestaurant()
		restaurant.OpeningTime = "10:00"
		restaurant.ClosingTime = "11:00"

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(restaurant, nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "", 30).Return(30)
		deps.expectCacheMiss()
		deps.restaurantRepo.EXPECT().GetShifts(gomock.Any(), "rest-1").Return(nil, nil)
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.fixedTurn(30)
		deps.bookings.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil).AnyTimes()

		res, err := svc.ListSlots(ctx, request)

		assert.NoError(t, err)
		// A 30 minute turn at 10:30 ends exactly at close, which still fits.
		assert.Equal(t, []string{"10:00", "10:30"}, slotTimes(res.Slots))
	})

	t.Run("cache hit skips the floor plan scan entirely", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		cached := dto.ListSlotsResponse{
			RestaurantID: "rest-1",
			Date:         tomorrow,
			PartySize:    2,
			Slots:        []dto.Slot{{Time: "18:00", Available: true, TurnTimeMinutes: 90}},
		}

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(listRestaurant(), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "", 30).Return(30)
		deps.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				*value.(*dto.ListSlotsResponse) = cached

				return nil
			})

		res, err := svc.ListSlots(ctx, request)

		assert.NoError(t, err)
		assert.Equal(t, cached, res)
	})

	t.Run("past date is rejected", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(listRestaurant(), nil)

		req := request
		req.Date = timezone.Now().AddDate(0, 0, -1).Format(constant.DateOnlyFormat)

		_, err := svc.ListSlots(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("date beyond the booking window is rejected", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(listRestaurant(), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "", 30).Return(30)

		req := request
		req.Date = timezone.Now().AddDate(0, 0, 45).Format(constant.DateOnlyFormat)

		_, err := svc.ListSlots(ctx, req)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("VIP window admits dates past the house default", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		farOut := timezone.Now().AddDate(0, 0, 45)

		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(listRestaurant(), nil)
		deps.vip.EXPECT().MaxBookingDays(gomock.Any(), "rest-1", "vip-user", 30).Return(90)
		deps.expectCacheMiss()
		deps.restaurantRepo.EXPECT().GetShifts(gomock.Any(), "rest-1").Return([]restaurantModel.Shift{
			{ID: "shift-1", RestaurantID: "rest-1", DayOfWeek: int(farOut.Weekday()), OpensAt: "18:00", ClosesAt: "19:00"},
		}, nil)
		deps.table.EXPECT().GetFloorPlan(gomock.Any(), "rest-1").Return(floor, nil, nil)
		deps.fixedTurn(60)
		deps.bookings.EXPECT().FindBusyTableIDs(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, nil).AnyTimes()

		vipCtx := context.WithValue(ctx, constant.ContextKeyUserID, "vip-user")

		req := request
		req.Date = farOut.Format(constant.DateOnlyFormat)

		res, err := svc.ListSlots(vipCtx, req)

		assert.NoError(t, err)
		assert.Equal(t, []string{"18:00"}, slotTimes(res.Slots))
	})

	t.Run("inactive restaurant is rejected", func(t *testing.T) {
		svc, deps := newAvailabilityService(t)

		closed := listRestaurant()
		closed.Active = false
		deps.restaurantSvc.EXPECT().GetModel(gomock.Any(), "rest-1").Return(closed, nil)

		_, err := svc.ListSlots(ctx, request)

		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
