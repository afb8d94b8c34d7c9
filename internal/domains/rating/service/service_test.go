package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"maitre/config"
	otelMocks "maitre/infras/otel/mocks"
	ratingMocks "maitre/internal/domains/rating/mocks"
	"maitre/internal/domains/rating/model"
	"maitre/internal/domains/rating/model/dto"
	"maitre/internal/domains/rating/service"
	"maitre/shared/cache"
	cacheMocks "maitre/shared/cache/mocks"
	"maitre/shared/constant"
	"maitre/shared/failure"
)

func newRatingService(t *testing.T) (service.Rating, *ratingMocks.MockRating, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := ratingMocks.NewMockRating(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Rating.BlockedBelow = 2.0
	cfg.Rating.RequestOnlyBelow = 3.5
	cfg.Rating.RequestOnlyStrikes = 3
	cfg.Rating.InitialRating = 5.0

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func TestRatingService_CheckEligibility(t *testing.T) {
	tests := []struct {
		name            string
		stats           model.Stats
		repoErr         error
		wantCanBook     bool
		wantInstantBook bool
		wantTier        string
	}{
		{
			name:            "well rated guest books instantly",
			stats:           model.Stats{UserID: "user-1", AverageRating: 4.7, TotalRatings: 12},
			wantCanBook:     true,
			wantInstantBook: true,
			wantTier:        model.TierUnrestricted,
		},
		{
			name:            "boundary of request-only is unrestricted",
			stats:           model.Stats{UserID: "user-1", AverageRating: 3.5, TotalRatings: 4},
			wantCanBook:     true,
			wantInstantBook: true,
			wantTier:        model.TierUnrestricted,
		},
		{
			name:            "mediocre rating needs restaurant approval",
			stats:           model.Stats{UserID: "user-1", AverageRating: 3.0, TotalRatings: 8},
			wantCanBook:     true,
			wantInstantBook: false,
			wantTier:        model.TierRequestOnly,
		},
		{
			name:            "boundary of blocked is request-only",
			stats:           model.Stats{UserID: "user-1", AverageRating: 2.0, TotalRatings: 5},
			wantCanBook:     true,
			wantInstantBook: false,
			wantTier:        model.TierRequestOnly,
		},
		{
			name:            "well rated guest with three strikes needs approval",
			stats:           model.Stats{UserID: "user-1", AverageRating: 4.8, TotalRatings: 20, NoShowBookings: 2, LateCancellations: 1},
			wantCanBook:     true,
			wantInstantBook: false,
			wantTier:        model.TierRequestOnly,
		},
		{
			name:            "strikes below the limit keep instant booking",
			stats:           model.Stats{UserID: "user-1", AverageRating: 4.8, TotalRatings: 20, NoShowBookings: 1, LateCancellations: 1},
			wantCanBook:     true,
			wantInstantBook: true,
			wantTier:        model.TierUnrestricted,
		},
		{
			name:            "blocked guest cannot book at all",
			stats:           model.Stats{UserID: "user-1", AverageRating: 1.5, TotalRatings: 6},
			wantCanBook:     false,
			wantInstantBook: false,
			wantTier:        model.TierBlocked,
		},
		{
			name:            "unrated guest gets the initial rating",
			stats:           model.Stats{},
			wantCanBook:     true,
			wantInstantBook: true,
			wantTier:        model.TierUnrestricted,
		},
		{
			name:            "lookup failure fails closed",
			repoErr:         errors.New("database error"),
			wantCanBook:     false,
			wantInstantBook: false,
			wantTier:        model.TierBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRatingService(t)

			mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
			mockRepo.EXPECT().GetStats(gomock.Any(), "user-1").Return(tt.stats, tt.repoErr)
			mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			got := svc.CheckEligibility(context.Background(), "user-1")

			assert.Equal(t, tt.wantCanBook, got.CanBook)
			assert.Equal(t, tt.wantInstantBook, got.CanInstantBook)
			assert.Equal(t, tt.wantTier, got.Tier)
		})
	}
}

func TestRatingService_Record(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.RecordRatingRequest
		setupMock func(mockRepo *ratingMocks.MockRating, mockCache *cacheMocks.MockRedisCache)
		wantErr   bool
	}{
		{
			name: "successful record invalidates cached stats",
			req: dto.RecordRatingRequest{
				UserID:       "user-1",
				RestaurantID: "restaurant-1",
				BookingID:    "booking-1",
				Rating:       4.5,
			},
			setupMock: func(mockRepo *ratingMocks.MockRating, mockCache *cacheMocks.MockRedisCache) {
				mockRepo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
				mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr: false,
		},
		{
			name: "repository error",
			req: dto.RecordRatingRequest{
				UserID:       "user-1",
				RestaurantID: "restaurant-1",
				BookingID:    "booking-1",
				Rating:       4.5,
			},
			setupMock: func(mockRepo *ratingMocks.MockRating, mockCache *cacheMocks.MockRedisCache) {
				mockRepo.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRatingService(t)

			tt.setupMock(mockRepo, mockCache)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "staff-user")
			err := svc.Record(ctx, tt.req)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRatingService_RecordOutcome(t *testing.T) {
	tests := []struct {
		name         string
		outcome      string
		late         bool
		wantCounters []string
		repoErr      error
		wantErr      bool
		wantCode     int
	}{
		{
			name:         "completed booking bumps the completed counter",
			outcome:      model.OutcomeCompleted,
			wantCounters: []string{model.FieldCompletedBookings},
		},
		{
			name:         "no-show bumps the no-show counter",
			outcome:      model.OutcomeNoShow,
			wantCounters: []string{model.FieldNoShowBookings},
		},
		{
			name:         "timely cancellation bumps only the cancelled counter",
			outcome:      model.OutcomeCancelled,
			wantCounters: []string{model.FieldCancelledBookings},
		},
		{
			name:         "late cancellation also counts as a strike",
			outcome:      model.OutcomeCancelled,
			late:         true,
			wantCounters: []string{model.FieldCancelledBookings, model.FieldLateCancellations},
		},
		{
			name:     "unknown outcome is a bad request",
			outcome:  "vanished",
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name:         "repository error propagates",
			outcome:      model.OutcomeCompleted,
			wantCounters: []string{model.FieldCompletedBookings},
			repoErr:      errors.New("database error"),
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newRatingService(t)

			if tt.wantCounters != nil {
				counters := make([]any, 0, len(tt.wantCounters))
				for _, counter := range tt.wantCounters {
					counters = append(counters, counter)
				}

				mockRepo.EXPECT().RecordOutcome(gomock.Any(), "user-1", counters...).Return(tt.repoErr)
			}

			mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			err := svc.RecordOutcome(context.Background(), "user-1", tt.outcome, tt.late)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
