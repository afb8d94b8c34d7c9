package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names Rating=MockRatingService

import (
	"context"
	"fmt"

	"maitre/config"
	"maitre/infras/otel"
	"maitre/internal/domains/rating/model"
	"maitre/internal/domains/rating/model/dto"
	"maitre/internal/domains/rating/repository"
	"maitre/shared"
	"maitre/shared/cache"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/failure"

	"github.com/rs/zerolog/log"
)

const cacheGetStats = "user_rating_stats:get"

type Rating interface {
	Stats(ctx context.Context, userID string) (dto.StatsResponse, error)
	CheckEligibility(ctx context.Context, userID string) dto.EligibilityResponse
	Record(ctx context.Context, req dto.RecordRatingRequest) error
	RecordOutcome(ctx context.Context, userID, outcome string, lateCancellation bool) error
	History(ctx context.Context, userID string, params gDto.QueryParams) ([]dto.HistoryEntryResponse, error)
}

type serviceImpl struct {
	repo  repository.Rating
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Rating, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Rating {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// Tier buckets a guest by their standing. The rating thresholds decide
// first; a guest whose rating is fine but who keeps burning tables (no-shows
// and late cancellations at or past the strike limit) still loses instant
// booking.
func (s *serviceImpl) Tier(stats model.Stats) string {
	switch {
	case stats.AverageRating < s.cfg.Rating.BlockedBelow:
		return model.TierBlocked
	case stats.AverageRating < s.cfg.Rating.RequestOnlyBelow:
		return model.TierRequestOnly
	case stats.Strikes() >= s.cfg.Rating.RequestOnlyStrikes:
		return model.TierRequestOnly
	default:
		return model.TierUnrestricted
	}
}

func (s *serviceImpl) Stats(ctx context.Context, userID string) (res dto.StatsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Stats")
	defer scope.End()
	defer scope.TraceIfError(err)

	stats, err := s.getStats(ctx, userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rating stats")

		return res, err
	}

	return dto.StatsResponse{
		UserID:            userID,
		AverageRating:     stats.AverageRating,
		TotalRatings:      stats.TotalRatings,
		TotalBookings:     stats.TotalBookings,
		CompletedBookings: stats.CompletedBookings,
		CancelledBookings: stats.CancelledBookings,
		NoShowBookings:    stats.NoShowBookings,
		LateCancellations: stats.LateCancellations,
		Tier:              s.Tier(stats),
		LastRatedAt:       stats.LastRatedAt,
	}, nil
}

// CheckEligibility gates the booking flow. An unrated guest starts at the
// configured initial rating; a failed lookup fails closed because letting an
// unknown guest through defeats the point of the gate.
func (s *serviceImpl) CheckEligibility(ctx context.Context, userID string) dto.EligibilityResponse {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckEligibility")
	defer scope.End()

	stats, err := s.getStats(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("rating lookup failed, refusing booking")

		return dto.EligibilityResponse{
			CanBook:        false,
			CanInstantBook: false,
			Tier:           model.TierBlocked,
			Reason:         "rating data unavailable",
		}
	}

	switch s.Tier(stats) {
	case model.TierBlocked:
		return dto.EligibilityResponse{
			CanBook:        false,
			CanInstantBook: false,
			Tier:           model.TierBlocked,
			Reason:         "guest rating below booking threshold",
		}
	case model.TierRequestOnly:
		return dto.EligibilityResponse{
			CanBook:        true,
			CanInstantBook: false,
			Tier:           model.TierRequestOnly,
			Reason:         "guest rating requires restaurant approval",
		}
	default:
		return dto.EligibilityResponse{
			CanBook:        true,
			CanInstantBook: true,
			Tier:           model.TierUnrestricted,
		}
	}
}

func (s *serviceImpl) getStats(ctx context.Context, userID string) (stats model.Stats, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetStats, userID)

	err = s.cache.Get(ctx, cacheKey, &stats)
	if err == nil {
		return stats, nil
	}

	stats, err = s.repo.GetStats(ctx, userID)
	if err != nil {
		return stats, fmt.Errorf("failed to get rating stats: %w", err)
	}

	// No rows yet: new guests start with the benefit of the doubt.
	if stats.UserID == constant.Empty {
		stats = model.Stats{
			UserID:        userID,
			AverageRating: s.cfg.Rating.InitialRating,
			TotalRatings:  0,
		}
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, stats, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rating stats to cache")
		}
	}()

	return stats, nil
}

func (s *serviceImpl) Record(ctx context.Context, req dto.RecordRatingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Record")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Record(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to record rating")

		return fmt.Errorf("failed to record rating: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStats, req.UserID)); err != nil {
			log.Error().Err(err).Msg("failed to delete rating stats from cache")
		}
	}()

	return nil
}

// RecordOutcome folds a settled booking into the guest's behavioral
// counters. A cancellation inside the notice window also counts as a late
// cancellation, which feeds the strike limit.
func (s *serviceImpl) RecordOutcome(ctx context.Context, userID, outcome string, lateCancellation bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RecordOutcome")
	defer scope.End()
	defer scope.TraceIfError(err)

	var counters []string

	switch outcome {
	case model.OutcomeCompleted:
		counters = []string{model.FieldCompletedBookings}
	case model.OutcomeNoShow:
		counters = []string{model.FieldNoShowBookings}
	case model.OutcomeCancelled:
		counters = []string{model.FieldCancelledBookings}
		if lateCancellation {
			counters = append(counters, model.FieldLateCancellations)
		}
	default:
		return failure.BadRequestFromString(fmt.Sprintf("unknown booking outcome: %s", outcome)) // nolint:wrapcheck
	}

	if err = s.repo.RecordOutcome(ctx, userID, counters...); err != nil {
		log.Error().Err(err).Str("outcome", outcome).Msg("failed to record booking outcome")

		return fmt.Errorf("failed to record booking outcome: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetStats, userID)); err != nil {
			log.Error().Err(err).Msg("failed to delete rating stats from cache")
		}
	}()

	return nil
}

func (s *serviceImpl) History(ctx context.Context, userID string, params gDto.QueryParams) (res []dto.HistoryEntryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".History")
	defer scope.End()
	defer scope.TraceIfError(err)

	entries, err := s.repo.GetHistory(ctx, userID, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rating history")

		return nil, fmt.Errorf("failed to get rating history: %w", err)
	}

	res = make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		res = append(res, dto.HistoryEntryResponse{}.FromModel(entry))
	}

	return res, nil
}
