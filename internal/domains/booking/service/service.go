package service

import (
	"context"
	"fmt"
	"time"

	"maitre/config"
	"maitre/infras/otel"
	"maitre/internal/domains/booking/model"
	"maitre/internal/domains/booking/model/dto"
	"maitre/internal/domains/booking/repository"
	ratingModel "maitre/internal/domains/rating/model"
	ratingService "maitre/internal/domains/rating/service"
	restaurantModel "maitre/internal/domains/restaurant/model"
	restaurantService "maitre/internal/domains/restaurant/service"
	tableService "maitre/internal/domains/table/service"
	turntimeService "maitre/internal/domains/turntime/service"
	vipService "maitre/internal/domains/vip/service"
	"maitre/internal/events"
	"maitre/shared"
	"maitre/shared/cache"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/failure"
	"maitre/shared/timezone"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	cacheAvailabilityPrefix = "availability:slots"

	// Cancellations inside this notice period count as a strike.
	lateCancellationNotice = 24 * time.Hour
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Validate(ctx context.Context, req dto.ValidateAssignmentRequest) (dto.ValidateAssignmentResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error
	Confirm(ctx context.Context, id string) error
	Decline(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	NoShow(ctx context.Context, id string) error
	Sweep(ctx context.Context) (int64, error)
}

type serviceImpl struct {
	repo          repository.Booking
	restaurantSvc restaurantService.Restaurant
	tableSvc      tableService.Table
	turnTimeSvc   turntimeService.TurnTime
	vipSvc        vipService.VIP
	ratingSvc     ratingService.Rating
	publisher     events.Publisher
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
}

func New(
	repo repository.Booking,
	restaurantSvc restaurantService.Restaurant,
	tableSvc tableService.Table,
	turnTimeSvc turntimeService.TurnTime,
	vipSvc vipService.VIP,
	ratingSvc ratingService.Rating,
	publisher events.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:          repo,
		restaurantSvc: restaurantSvc,
		tableSvc:      tableSvc,
		turnTimeSvc:   turnTimeSvc,
		vipSvc:        vipSvc,
		ratingSvc:     ratingSvc,
		publisher:     publisher,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
	}
}

// Create runs the whole booking pipeline: rating gate, booking window check,
// opening hours check, table assignment, then the atomic commit. The rating
// gate runs first so blocked guests never cost a floor plan scan.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	eligibility := s.ratingSvc.CheckEligibility(ctx, userID)
	if !eligibility.CanBook {
		return res, failure.Forbidden(eligibility.Reason) // nolint:wrapcheck
	}

	restaurant, err := s.restaurantSvc.GetModel(ctx, req.RestaurantID)
	if err != nil {
		return res, err
	}

	if !restaurant.Active {
		return res, failure.BadRequestFromString("restaurant is not accepting bookings") // nolint:wrapcheck
	}

	loc := restaurantLocation(restaurant)

	slot, err := req.SlotTime(loc)
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time: %v", err)) // nolint:wrapcheck
	}

	nowLocal := timezone.Now().In(loc)
	if slot.Before(nowLocal) {
		return res, failure.BadRequestFromString("cannot book a slot in the past") // nolint:wrapcheck
	}

	if err = s.checkBookingWindow(ctx, restaurant, userID, slot, nowLocal); err != nil {
		return res, err
	}

	start, end, resolution := s.turnTimeSvc.ComputeWindow(ctx, req.RestaurantID, req.PartySize, slot)

	if !withinHours(restaurant, start, end) {
		return res, failure.BadRequestFromString("requested slot is outside opening hours") // nolint:wrapcheck
	}

	tables, combos, err := s.tableSvc.GetFloorPlan(ctx, req.RestaurantID)
	if err != nil {
		return res, err
	}

	tableIDs := make([]string, 0, len(tables))
	for _, table := range tables {
		tableIDs = append(tableIDs, table.ID)
	}

	busyIDs, err := s.repo.FindBusyTableIDs(ctx, tableIDs, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to find busy tables")

		return res, fmt.Errorf("failed to find busy tables: %w", err)
	}

	busy := make(map[string]bool, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = true
	}

	assignment, ok := chooseAssignment(tables, combos, busy, req.PartySize, req.TablePreference)
	if !ok {
		return res, failure.Conflict("no tables available for this slot") // nolint:wrapcheck
	}

	status := model.StatusPending
	if restaurant.InstantBook && eligibility.CanInstantBook {
		status = model.StatusConfirmed
	}

	now := timezone.Now()
	booking := model.Booking{
		ID:              uuid.NewString(),
		RestaurantID:    req.RestaurantID,
		UserID:          userID,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		PartySize:       req.PartySize,
		StartsAt:        start,
		EndsAt:          end,
		TurnTimeMinutes: resolution.TurnTimeMinutes,
		Status:          status,
		SpecialRequest:  req.SpecialRequest,
	}
	booking.CreatedAt = now
	booking.ModifiedAt = now
	booking.CreatedBy = userID
	booking.ModifiedBy = userID

	if err = s.repo.CreateWithTables(ctx, booking, assignment); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return res, failure.Conflict("tables were taken while booking, please pick another slot") // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.propagate(ctx, events.TypeSlotTaken, booking)
	s.propagate(ctx, events.TypeBookingCreated, booking)

	res.FromModel(model.BookingWithTables{Booking: booking, TableIDs: assignment})

	return res, nil
}

// Validate checks a hand-picked seating without committing it: every table
// must exist, be active and free for the window, and the seating must hold
// the party. When tables are taken, the response names the bookings holding
// them so staff can resolve the clash.
func (s *serviceImpl) Validate(ctx context.Context, req dto.ValidateAssignmentRequest) (res dto.ValidateAssignmentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Validate")
	defer scope.End()
	defer scope.TraceIfError(err)

	restaurant, err := s.restaurantSvc.GetModel(ctx, req.RestaurantID)
	if err != nil {
		return res, err
	}

	slot, err := req.SlotTime(restaurantLocation(restaurant))
	if err != nil {
		return res, failure.BadRequestFromString(fmt.Sprintf("invalid date/time: %v", err)) // nolint:wrapcheck
	}

	start, end, _ := s.turnTimeSvc.ComputeWindow(ctx, req.RestaurantID, req.PartySize, slot)

	tables, _, err := s.tableSvc.GetFloorPlan(ctx, req.RestaurantID)
	if err != nil {
		return res, err
	}

	byID := make(map[string]int, len(tables))
	for _, table := range tables {
		byID[table.ID] = table.Capacity
	}

	totalCapacity := 0

	for _, tableID := range req.TableIDs {
		capacity, ok := byID[tableID]
		if !ok {
			return dto.ValidateAssignmentResponse{Valid: false, Reason: "table not found or inactive"}, nil
		}

		totalCapacity += capacity
	}

	if totalCapacity < req.PartySize {
		return dto.ValidateAssignmentResponse{
			Valid:         false,
			Reason:        "combined capacity is below the party size",
			TotalCapacity: totalCapacity,
		}, nil
	}

	overlapping, err := s.repo.FindOverlapping(ctx, req.TableIDs, start, end)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping bookings")

		return res, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	if len(overlapping) > 0 {
		conflicts := make([]string, 0, len(overlapping))
		for _, conflict := range overlapping {
			conflicts = append(conflicts, conflict.ID)
		}

		return dto.ValidateAssignmentResponse{
			Valid:                 false,
			Reason:                "one or more tables are already booked for this window",
			TotalCapacity:         totalCapacity,
			ConflictingBookingIDs: conflicts,
		}, nil
	}

	return dto.ValidateAssignmentResponse{Valid: true, TotalCapacity: totalCapacity}, nil
}

func (s *serviceImpl) checkBookingWindow(ctx context.Context, restaurant restaurantModel.Restaurant, userID string, slot, nowLocal time.Time) error {
	defaultDays := restaurant.BookingWindowDays
	if defaultDays <= 0 {
		defaultDays = s.cfg.Booking.DefaultHorizonDays
	}

	maxDays := s.vipSvc.MaxBookingDays(ctx, restaurant.ID, userID, defaultDays)

	horizon := endOfDay(nowLocal.AddDate(0, 0, maxDays))
	if slot.After(horizon) {
		return failure.BadRequestFromString(fmt.Sprintf("bookings are only accepted up to %d days ahead", maxDays)) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	withTables := make([]model.BookingWithTables, len(models))
	for i, booking := range models {
		tableIDs, err := s.repo.GetTableIDs(ctx, booking.ID)
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking tables")

			return res, fmt.Errorf("failed to get booking tables: %w", err)
		}

		withTables[i] = model.BookingWithTables{Booking: booking, TableIDs: tableIDs}
	}

	res.FromModels(withTables, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.getModel(ctx, id)
	if err != nil {
		return res, err
	}

	tableIDs, err := s.repo.GetTableIDs(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking tables")

		return res, fmt.Errorf("failed to get booking tables: %w", err)
	}

	res.FromModel(model.BookingWithTables{Booking: booking, TableIDs: tableIDs})

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) getModel(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdateBookingRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	booking, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}

	if booking.Status != model.StatusPending && booking.Status != model.StatusConfirmed {
		return failure.BadRequestFromString("only active bookings can be updated") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return fmt.Errorf("failed to update booking: %w", err)
	}

	s.invalidateBookingCaches(ctx, booking)

	return nil
}

func (s *serviceImpl) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusConfirmed, events.TypeBookingConfirmed)
}

func (s *serviceImpl) Decline(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusDeclined, events.TypeBookingDeclined)
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusCancelled, events.TypeBookingCancelled)
}

func (s *serviceImpl) Complete(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusCompleted, events.TypeBookingCompleted)
}

func (s *serviceImpl) NoShow(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.StatusNoShow, events.TypeBookingNoShow)
}

// transition moves a booking through its lifecycle. Declining or cancelling
// releases the held tables, so those also fan out a slot_released event.
func (s *serviceImpl) transition(ctx context.Context, id, to, eventType string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".transition")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.getModel(ctx, id)
	if err != nil {
		return err
	}

	if !model.CanTransition(booking.Status, to) {
		return failure.BadRequestFromString(fmt.Sprintf("cannot move booking from %s to %s", booking.Status, to)) // nolint:wrapcheck
	}

	updatedFields := map[string]any{
		model.FieldStatus: to,
		"modified_at":     timezone.Now(),
		"modified_by":     user,
	}

	if err := s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	booking.Status = to

	s.propagate(ctx, eventType, booking)

	if to == model.StatusDeclined || to == model.StatusCancelled {
		s.propagate(ctx, events.TypeSlotReleased, booking)
	}

	s.recordOutcome(ctx, booking)

	return nil
}

// recordOutcome feeds terminal statuses into the guest's behavioral counters
// without holding up the transition. A cancellation inside the notice period
// counts as a late cancellation.
func (s *serviceImpl) recordOutcome(ctx context.Context, booking model.Booking) {
	var outcome string

	switch booking.Status {
	case model.StatusCompleted:
		outcome = ratingModel.OutcomeCompleted
	case model.StatusCancelled:
		outcome = ratingModel.OutcomeCancelled
	case model.StatusNoShow:
		outcome = ratingModel.OutcomeNoShow
	default:
		return
	}

	late := outcome == ratingModel.OutcomeCancelled &&
		timezone.Now().After(booking.StartsAt.Add(-lateCancellationNotice))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.ratingSvc.RecordOutcome(c, booking.UserID, outcome, late); err != nil {
			log.Error().Err(err).Str("outcome", outcome).Msg("failed to record booking outcome")
		}
	}()
}

// Sweep removes settled bookings older than the retention period.
func (s *serviceImpl) Sweep(ctx context.Context) (deleted int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Sweep")
	defer scope.End()
	defer scope.TraceIfError(err)

	cutoff := timezone.Now().AddDate(0, 0, -s.cfg.Booking.RetentionDays)

	deleted, err = s.repo.SweepBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep old bookings")

		return 0, fmt.Errorf("failed to sweep old bookings: %w", err)
	}

	if deleted > 0 {
		log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("swept old bookings")
	}

	return deleted, nil
}

// propagate fires availability events and cache invalidation without holding
// up the request. Listeners re-query on receipt, so a lost event costs a
// stale read at worst.
func (s *serviceImpl) propagate(ctx context.Context, eventType string, booking model.Booking) {
	go func() {
		c := context.WithoutCancel(ctx)

		event := events.AvailabilityEvent{
			Type:         eventType,
			RestaurantID: booking.RestaurantID,
			BookingID:    booking.ID,
			Date:         booking.StartsAt.Format(constant.DateOnlyFormat),
			PartySize:    booking.PartySize,
			OccurredAt:   timezone.Now(),
		}

		if err := s.publisher.PublishAvailabilityChange(c, event); err != nil {
			log.Error().Err(err).Str("type", eventType).Msg("failed to publish availability event")
		}

		s.invalidateBookingCaches(c, booking)
	}()
}

func (s *serviceImpl) invalidateBookingCaches(ctx context.Context, booking model.Booking) {
	c := context.WithoutCancel(ctx)

	if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking from cache")
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(cacheAvailabilityPrefix, booking.RestaurantID))
}

func restaurantLocation(restaurant restaurantModel.Restaurant) *time.Location {
	loc, err := time.LoadLocation(restaurant.Timezone)
	if err != nil {
		log.Warn().Str("timezone", restaurant.Timezone).Msg("unknown restaurant timezone, using UTC")

		return time.UTC
	}

	return loc
}

// withinHours checks the full occupancy window against the restaurant's base
// hours: the seating must start at or after opening and the turn must finish
// by closing. The slot lister applies the same rule, so a slot it offers is
// always bookable.
func withinHours(restaurant restaurantModel.Restaurant, start, end time.Time) bool {
	open, err := time.Parse(constant.TimeOnlyFormat, restaurant.OpeningTime)
	if err != nil {
		return true
	}

	closing, err := time.Parse(constant.TimeOnlyFormat, restaurant.ClosingTime)
	if err != nil {
		return true
	}

	openAt := time.Date(start.Year(), start.Month(), start.Day(), open.Hour(), open.Minute(), 0, 0, start.Location())
	closeAt := time.Date(start.Year(), start.Month(), start.Day(), closing.Hour(), closing.Minute(), 0, 0, start.Location())

	if !closeAt.After(openAt) {
		// Past-midnight closing, e.g. 18:00 to 01:00.
		closeAt = closeAt.AddDate(0, 0, 1)
	}

	if start.Before(openAt) {
		// A start in the small hours belongs to the previous day's session.
		openAt = openAt.AddDate(0, 0, -1)
		closeAt = closeAt.AddDate(0, 0, -1)
	}

	return !start.Before(openAt) && !end.After(closeAt)
}

func endOfDay(t time.Time) time.Time {
	return now.With(t).EndOfDay()
}
