package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names VIP=MockVIPService

import (
	"context"
	"fmt"

	"maitre/config"
	"maitre/infras/otel"
	"maitre/internal/domains/vip/model"
	"maitre/internal/domains/vip/model/dto"
	"maitre/internal/domains/vip/repository"
	"maitre/shared"
	"maitre/shared/cache"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/failure"
	"maitre/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetVIP = "vip_status:get"

	BenefitExtendedBooking      = "extended_booking"
	BenefitPriorityTables       = "priority_tables"
	BenefitSkipApproval         = "skip_approval"
	BenefitFlexibleCancellation = "flexible_cancellation"
)

// Benefits derives the descriptors a grant carries, for display. Extended
// booking only counts when the grant actually beats the house window; every
// VIP gets instant confirmation and the relaxed cancellation notice.
func Benefits(status model.VIPStatus, defaultDays int) []string {
	benefits := []string{}

	if status.ExtendedBookingDays > defaultDays {
		benefits = append(benefits, BenefitExtendedBooking)
	}

	if status.PriorityBooking {
		benefits = append(benefits, BenefitPriorityTables)
	}

	return append(benefits, BenefitSkipApproval, BenefitFlexibleCancellation)
}

type VIP interface {
	CheckStatus(ctx context.Context, restaurantID, userID string) dto.CheckStatusResponse
	MaxBookingDays(ctx context.Context, restaurantID, userID string, defaultDays int) int
	Grant(ctx context.Context, req dto.GrantVIPRequest) error
	Revoke(ctx context.Context, id string) error
	List(ctx context.Context, restaurantID string, params gDto.QueryParams) ([]dto.VIPStatusResponse, error)
}

type serviceImpl struct {
	repo  repository.VIP
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.VIP, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) VIP {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// CheckStatus resolves a guest's standing at a restaurant. Any lookup failure
// is reported as not-VIP so booking flows degrade to the standard window
// instead of erroring.
func (s *serviceImpl) CheckStatus(ctx context.Context, restaurantID, userID string) dto.CheckStatusResponse {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckStatus")
	defer scope.End()

	defaultDays := s.cfg.Booking.DefaultHorizonDays

	status, err := s.getActive(ctx, restaurantID, userID)
	if err != nil {
		log.Warn().Err(err).Str("restaurantID", restaurantID).Str("userID", userID).Msg("vip lookup failed, treating as non-vip")

		return dto.CheckStatusResponse{IsVIP: false, MaxBookingDays: defaultDays, Benefits: []string{}}
	}

	if status.ID == constant.Empty || status.Expired(timezone.Now()) {
		return dto.CheckStatusResponse{IsVIP: false, MaxBookingDays: defaultDays, Benefits: []string{}}
	}

	maxDays := defaultDays
	if status.ExtendedBookingDays > defaultDays {
		maxDays = status.ExtendedBookingDays
	}

	return dto.CheckStatusResponse{IsVIP: true, MaxBookingDays: maxDays, Benefits: Benefits(status, defaultDays)}
}

// MaxBookingDays returns how far ahead a guest may book. VIPs never get less
// than the default window even when their grant is shorter.
func (s *serviceImpl) MaxBookingDays(ctx context.Context, restaurantID, userID string, defaultDays int) int {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MaxBookingDays")
	defer scope.End()

	status, err := s.getActive(ctx, restaurantID, userID)
	if err != nil {
		log.Warn().Err(err).Str("restaurantID", restaurantID).Str("userID", userID).Msg("vip lookup failed, using default booking window")

		return defaultDays
	}

	if status.ID == constant.Empty || status.Expired(timezone.Now()) {
		return defaultDays
	}

	if status.ExtendedBookingDays > defaultDays {
		return status.ExtendedBookingDays
	}

	return defaultDays
}

func (s *serviceImpl) getActive(ctx context.Context, restaurantID, userID string) (status model.VIPStatus, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetVIP, restaurantID, userID)

	err = s.cache.Get(ctx, cacheKey, &status)
	if err == nil {
		return status, nil
	}

	status, err = s.repo.GetActive(ctx, restaurantID, userID)
	if err != nil {
		return status, fmt.Errorf("failed to get vip status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, status, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save vip status to cache")
		}
	}()

	return status, nil
}

func (s *serviceImpl) Grant(ctx context.Context, req dto.GrantVIPRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Grant")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to grant vip status")

		return fmt.Errorf("failed to grant vip status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVIP, req.RestaurantID, req.UserID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vip status from cache")
		}
	}()

	return nil
}

func (s *serviceImpl) Revoke(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Revoke")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	status, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get vip status")

		return fmt.Errorf("failed to get vip status: %w", err)
	}

	if status.ID == constant.Empty {
		return failure.NotFound("vip status not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to revoke vip status")

		return fmt.Errorf("failed to revoke vip status: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetVIP, status.RestaurantID, status.UserID)); err != nil {
			log.Error().Err(err).Msg("failed to delete vip status from cache")
		}
	}()

	return nil
}

func (s *serviceImpl) List(ctx context.Context, restaurantID string, params gDto.QueryParams) (res []dto.VIPStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(restaurantID, model.FieldRestaurantID, model.TableName)

	statuses, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list vip statuses")

		return nil, fmt.Errorf("failed to list vip statuses: %w", err)
	}

	res = make([]dto.VIPStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		res = append(res, dto.VIPStatusResponse{}.FromModel(status))
	}

	return res, nil
}
