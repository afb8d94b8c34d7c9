package service

import (
	"context"
	"fmt"
	"time"

	"maitre/config"
	"maitre/infras/otel"
	"maitre/internal/domains/availability/model/dto"
	bookingRepo "maitre/internal/domains/booking/repository"
	bookingService "maitre/internal/domains/booking/service"
	restaurantModel "maitre/internal/domains/restaurant/model"
	restaurantRepo "maitre/internal/domains/restaurant/repository"
	restaurantService "maitre/internal/domains/restaurant/service"
	tableService "maitre/internal/domains/table/service"
	turntimeService "maitre/internal/domains/turntime/service"
	vipService "maitre/internal/domains/vip/service"
	"maitre/shared"
	"maitre/shared/cache"
	"maitre/shared/constant"
	"maitre/shared/failure"
	"maitre/shared/timezone"

	"github.com/jinzhu/now"
	"github.com/rs/zerolog/log"
)

const cacheSlots = "availability:slots"

type Availability interface {
	ListSlots(ctx context.Context, req dto.ListSlotsRequest) (dto.ListSlotsResponse, error)
}

type serviceImpl struct {
	restaurantSvc  restaurantService.Restaurant
	restaurantRepo restaurantRepo.Restaurant
	tableSvc       tableService.Table
	turnTimeSvc    turntimeService.TurnTime
	vipSvc         vipService.VIP
	bookings       bookingRepo.Booking
	cfg            *config.Config
	cache          cache.RedisCache
	otel           otel.Otel
}

func New(
	restaurantSvc restaurantService.Restaurant,
	restaurantRepo restaurantRepo.Restaurant,
	tableSvc tableService.Table,
	turnTimeSvc turntimeService.TurnTime,
	vipSvc vipService.VIP,
	bookings bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		restaurantSvc:  restaurantSvc,
		restaurantRepo: restaurantRepo,
		tableSvc:       tableSvc,
		turnTimeSvc:    turnTimeSvc,
		vipSvc:         vipSvc,
		bookings:       bookings,
		cfg:            cfg,
		cache:          cache,
		otel:           otel,
	}
}

// ListSlots walks a day's service windows in fixed steps and reports, per
// start time, whether any seating can hold the party. Slots whose turn would
// run past the end of service are not offered. The result is cached per
// restaurant and day; booking writes clear the prefix.
func (s *serviceImpl) ListSlots(ctx context.Context, req dto.ListSlotsRequest) (res dto.ListSlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListSlots")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	restaurant, err := s.restaurantSvc.GetModel(ctx, req.RestaurantID)
	if err != nil {
		return res, err
	}

	if !restaurant.Active {
		return res, failure.BadRequestFromString("restaurant is not accepting bookings") // nolint:wrapcheck
	}

	loc := restaurantLocation(restaurant)

	day, err := time.ParseInLocation(constant.DateOnlyFormat, req.Date, loc)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date: %v", err)) // nolint:wrapcheck
	}

	nowLocal := timezone.Now().In(loc)

	if day.Before(now.With(nowLocal).BeginningOfDay()) {
		return res, failure.BadRequestFromString("date is in the past") // nolint:wrapcheck
	}

	defaultDays := restaurant.BookingWindowDays
	if defaultDays <= 0 {
		defaultDays = s.cfg.Booking.DefaultHorizonDays
	}

	maxDays := s.vipSvc.MaxBookingDays(ctx, restaurant.ID, userID, defaultDays)

	horizon := now.With(nowLocal.AddDate(0, 0, maxDays)).EndOfDay()
	if day.After(horizon) {
		return res, failure.BadRequestFromString(fmt.Sprintf("bookings are only accepted up to %d days ahead", maxDays)) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheSlots, req.RestaurantID, req.Date, fmt.Sprintf("%d", req.PartySize), req.TablePreference)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for availability slots")

		return res, nil
	}

	windows, err := s.serviceWindows(ctx, restaurant, day, loc)
	if err != nil {
		return res, err
	}

	tables, combos, err := s.tableSvc.GetFloorPlan(ctx, req.RestaurantID)
	if err != nil {
		return res, err
	}

	tableIDs := make([]string, 0, len(tables))
	for _, table := range tables {
		tableIDs = append(tableIDs, table.ID)
	}

	res = dto.ListSlotsResponse{
		RestaurantID: req.RestaurantID,
		Date:         req.Date,
		PartySize:    req.PartySize,
		Slots:        []dto.Slot{},
	}

	interval := time.Duration(s.cfg.Booking.SlotIntervalMinutes) * time.Minute

	for _, window := range windows {
		for slot := alignUp(window.open, interval); slot.Before(window.close); slot = slot.Add(interval) {
			if slot.Before(nowLocal) {
				continue
			}

			start, end, resolution := s.turnTimeSvc.ComputeWindow(ctx, req.RestaurantID, req.PartySize, slot)

			// The turn must finish inside the service window.
			if end.After(window.close) {
				continue
			}

			busyIDs, err := s.bookings.FindBusyTableIDs(ctx, tableIDs, start, end)
			if err != nil {
				log.Error().Err(err).Msg("failed to find busy tables")

				return res, fmt.Errorf("failed to find busy tables: %w", err)
			}

			busy := make(map[string]bool, len(busyIDs))
			for _, id := range busyIDs {
				busy[id] = true
			}

			_, available := bookingService.FindSeating(tables, combos, busy, req.PartySize, req.TablePreference)

			res.Slots = append(res.Slots, dto.Slot{
				Time:            slot.Format(constant.TimeOnlyFormat),
				Available:       available,
				TurnTimeMinutes: resolution.TurnTimeMinutes,
				RushHour:        resolution.RushHour,
			})
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save availability slots to cache")
		}
	}()

	return res, nil
}

// alignUp rounds t up to the next interval boundary, so a 17:50 opening
// offers 18:00 as its first slot.
func alignUp(t time.Time, interval time.Duration) time.Time {
	rounded := t.Truncate(interval)
	if rounded.Before(t) {
		rounded = rounded.Add(interval)
	}

	return rounded
}

type serviceWindow struct {
	open  time.Time
	close time.Time
}

// serviceWindows resolves the bookable windows for one day: the day's shifts
// when any are configured, otherwise the restaurant's base hours.
func (s *serviceImpl) serviceWindows(ctx context.Context, restaurant restaurantModel.Restaurant, day time.Time, loc *time.Location) ([]serviceWindow, error) {
	shifts, err := s.restaurantRepo.GetShifts(ctx, restaurant.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get restaurant shifts")

		return nil, fmt.Errorf("failed to get restaurant shifts: %w", err)
	}

	weekday := int(day.Weekday())

	var windows []serviceWindow

	for _, shift := range shifts {
		if shift.DayOfWeek != weekday {
			continue
		}

		window, ok := windowFromClock(day, shift.OpensAt, shift.ClosesAt, loc)
		if !ok {
			log.Warn().Str("shiftID", shift.ID).Msg("skipping shift with malformed hours")

			continue
		}

		windows = append(windows, window)
	}

	if len(windows) > 0 {
		return windows, nil
	}

	window, ok := windowFromClock(day, restaurant.OpeningTime, restaurant.ClosingTime, loc)
	if !ok {
		return nil, failure.BadRequestFromString("restaurant has no configured hours") // nolint:wrapcheck
	}

	return []serviceWindow{window}, nil
}

func windowFromClock(day time.Time, opensAt, closesAt string, loc *time.Location) (serviceWindow, bool) {
	open, err := time.Parse(constant.TimeOnlyFormat, opensAt)
	if err != nil {
		return serviceWindow{}, false
	}

	closing, err := time.Parse(constant.TimeOnlyFormat, closesAt)
	if err != nil {
		return serviceWindow{}, false
	}

	openAt := time.Date(day.Year(), day.Month(), day.Day(), open.Hour(), open.Minute(), 0, 0, loc)
	closeAt := time.Date(day.Year(), day.Month(), day.Day(), closing.Hour(), closing.Minute(), 0, 0, loc)

	// Past-midnight closing rolls into the next day.
	if !closeAt.After(openAt) {
		closeAt = closeAt.AddDate(0, 0, 1)
	}

	return serviceWindow{open: openAt, close: closeAt}, true
}

func restaurantLocation(restaurant restaurantModel.Restaurant) *time.Location {
	loc, err := time.LoadLocation(restaurant.Timezone)
	if err != nil {
		log.Warn().Str("timezone", restaurant.Timezone).Msg("unknown restaurant timezone, using UTC")

		return time.UTC
	}

	return loc
}
