package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"maitre/config"
	otelMocks "maitre/infras/otel/mocks"
	vipMocks "maitre/internal/domains/vip/mocks"
	"maitre/internal/domains/vip/model"
	"maitre/internal/domains/vip/service"
	"maitre/shared/cache"
	cacheMocks "maitre/shared/cache/mocks"
)

func newVIPService(t *testing.T) (service.VIP, *vipMocks.MockVIP, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := vipMocks.NewMockVIP(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.DefaultHorizonDays = 30

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func expectCacheMiss(mockCache *cacheMocks.MockRedisCache) {
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func TestVIPService_MaxBookingDays(t *testing.T) {
	expired := time.Now().Add(-24 * time.Hour)
	future := time.Now().Add(365 * 24 * time.Hour)

	tests := []struct {
		name        string
		status      model.VIPStatus
		repoErr     error
		defaultDays int
		want        int
	}{
		{
			name:        "extended window applies",
			status:      model.VIPStatus{ID: "vip-1", ExtendedBookingDays: 90, ValidUntil: &future},
			defaultDays: 30,
			want:        90,
		},
		{
			name:        "grant shorter than default never shrinks the window",
			status:      model.VIPStatus{ID: "vip-1", ExtendedBookingDays: 14, ValidUntil: &future},
			defaultDays: 30,
			want:        30,
		},
		{
			name:        "expired grant falls back to default",
			status:      model.VIPStatus{ID: "vip-1", ExtendedBookingDays: 90, ValidUntil: &expired},
			defaultDays: 30,
			want:        30,
		},
		{
			name:        "no grant falls back to default",
			status:      model.VIPStatus{},
			defaultDays: 30,
			want:        30,
		},
		{
			name:        "open-ended grant applies",
			status:      model.VIPStatus{ID: "vip-1", ExtendedBookingDays: 60},
			defaultDays: 30,
			want:        60,
		},
		{
			name:        "lookup failure degrades to default",
			repoErr:     errors.New("database error"),
			defaultDays: 30,
			want:        30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newVIPService(t)

			expectCacheMiss(mockCache)
			mockRepo.EXPECT().
				GetActive(gomock.Any(), "restaurant-1", "user-1").
				Return(tt.status, tt.repoErr)

			got := svc.MaxBookingDays(context.Background(), "restaurant-1", "user-1", tt.defaultDays)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVIPService_CheckStatus(t *testing.T) {
	future := time.Now().Add(365 * 24 * time.Hour)

	tests := []struct {
		name     string
		status   model.VIPStatus
		repoErr  error
		wantVIP  bool
		wantDays int
	}{
		{
			name:     "active vip with extended window",
			status:   model.VIPStatus{ID: "vip-1", ExtendedBookingDays: 90, ValidUntil: &future},
			wantVIP:  true,
			wantDays: 90,
		},
		{
			name:     "regular guest",
			status:   model.VIPStatus{},
			wantVIP:  false,
			wantDays: 30,
		},
		{
			name:     "lookup failure reads as regular guest",
			repoErr:  errors.New("database error"),
			wantVIP:  false,
			wantDays: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newVIPService(t)

			expectCacheMiss(mockCache)
			mockRepo.EXPECT().
				GetActive(gomock.Any(), "restaurant-1", "user-1").
				Return(tt.status, tt.repoErr)

			got := svc.CheckStatus(context.Background(), "restaurant-1", "user-1")

			assert.Equal(t, tt.wantVIP, got.IsVIP)
			assert.Equal(t, tt.wantDays, got.MaxBookingDays)

			if tt.wantVIP {
				assert.Contains(t, got.Benefits, service.BenefitSkipApproval)
			} else {
				assert.Empty(t, got.Benefits)
			}
		})
	}
}

func TestVIPBenefits(t *testing.T) {
	tests := []struct {
		name   string
		status model.VIPStatus
		want   []string
	}{
		{
			name:   "plain grant still confirms instantly and cancels late",
			status: model.VIPStatus{ExtendedBookingDays: 30},
			want:   []string{service.BenefitSkipApproval, service.BenefitFlexibleCancellation},
		},
		{
			name:   "extended window adds the booking benefit",
			status: model.VIPStatus{ExtendedBookingDays: 90},
			want: []string{
				service.BenefitExtendedBooking,
				service.BenefitSkipApproval,
				service.BenefitFlexibleCancellation,
			},
		},
		{
			name:   "priority flag adds premium table access",
			status: model.VIPStatus{ExtendedBookingDays: 90, PriorityBooking: true},
			want: []string{
				service.BenefitExtendedBooking,
				service.BenefitPriorityTables,
				service.BenefitSkipApproval,
				service.BenefitFlexibleCancellation,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.Benefits(tt.status, 30))
		})
	}
}

func TestVIPStatus_Expired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.False(t, model.VIPStatus{}.Expired(now))
	assert.False(t, model.VIPStatus{ValidUntil: &future}.Expired(now))
	assert.True(t, model.VIPStatus{ValidUntil: &past}.Expired(now))
}
