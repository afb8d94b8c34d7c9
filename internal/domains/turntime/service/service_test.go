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
	turntimeMocks "maitre/internal/domains/turntime/mocks"
	"maitre/internal/domains/turntime/model"
	"maitre/internal/domains/turntime/service"
	"maitre/shared/cache"
	cacheMocks "maitre/shared/cache/mocks"
)

// Friday 19:00 falls in the rush window, Wednesday 19:00 does not.
var (
	fridayEvening    = time.Date(2026, time.September, 4, 19, 0, 0, 0, time.UTC)
	wednesdayEvening = time.Date(2026, time.September, 2, 19, 0, 0, 0, time.UTC)
	fridayLunch      = time.Date(2026, time.September, 4, 12, 30, 0, 0, time.UTC)
)

func TestIsRushHour(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "friday evening", at: fridayEvening, want: true},
		{name: "saturday evening", at: fridayEvening.AddDate(0, 0, 1), want: true},
		{name: "friday lunch", at: fridayLunch, want: false},
		{name: "wednesday evening", at: wednesdayEvening, want: false},
		{name: "friday just before rush", at: time.Date(2026, time.September, 4, 17, 59, 0, 0, time.UTC), want: false},
		{name: "friday last rush minute", at: time.Date(2026, time.September, 4, 21, 59, 0, 0, time.UTC), want: true},
		{name: "friday after rush", at: time.Date(2026, time.September, 4, 22, 0, 0, 0, time.UTC), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.IsRushHour(tt.at))
		})
	}
}

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 45, want: "45m"},
		{minutes: 60, want: "1h"},
		{minutes: 90, want: "1h 30m"},
		{minutes: 240, want: "4h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, service.FormatSummary(tt.minutes))
		})
	}
}

func newTurnTimeService(t *testing.T) (service.TurnTime, *turntimeMocks.MockRule, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := turntimeMocks.NewMockRule(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := otelMocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.MaxTurnTimeMinutes = 240

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func TestTurnTimeService_Resolve_Defaults(t *testing.T) {
	tests := []struct {
		name      string
		partySize int
		at        time.Time
		wantMins  int
	}{
		{name: "solo diner off-peak", partySize: 1, at: wednesdayEvening, wantMins: 90},
		{name: "couple rush", partySize: 2, at: fridayEvening, wantMins: 75},
		{name: "four top off-peak", partySize: 4, at: wednesdayEvening, wantMins: 120},
		{name: "four top rush", partySize: 4, at: fridayEvening, wantMins: 105},
		{name: "six top off-peak", partySize: 6, at: wednesdayEvening, wantMins: 150},
		{name: "large group rush", partySize: 10, at: fridayEvening, wantMins: 165},
		{name: "banquet off-peak", partySize: 13, at: wednesdayEvening, wantMins: 240},
		{name: "banquet rush", partySize: 20, at: fridayEvening, wantMins: 210},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newTurnTimeService(t)

			mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
			mockRepo.EXPECT().GetByRestaurant(gomock.Any(), "restaurant-1").Return(nil, nil)
			mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			got := svc.Resolve(context.Background(), "restaurant-1", tt.partySize, tt.at)

			assert.Equal(t, tt.wantMins, got.TurnTimeMinutes)
			assert.Equal(t, service.SourceDefault, got.Source)
			assert.Equal(t, service.IsRushHour(tt.at), got.RushHour)
		})
	}
}

func TestTurnTimeService_Resolve_CustomRules(t *testing.T) {
	friday := int(time.Friday)
	rush75 := 75

	// Day-specific rules come first, matching the repository ordering.
	rules := []model.Rule{
		{ID: "rule-friday", RestaurantID: "restaurant-1", PartySize: 4, DayOfWeek: &friday, TurnTimeMinutes: 100, RushTurnTimeMinutes: &rush75},
		{ID: "rule-any-day", RestaurantID: "restaurant-1", PartySize: 4, TurnTimeMinutes: 80},
	}

	tests := []struct {
		name      string
		partySize int
		at        time.Time
		wantMins  int
		wantSrc   string
	}{
		{name: "day-specific rule wins on its day", partySize: 4, at: fridayLunch, wantMins: 100, wantSrc: service.SourceCustom},
		{name: "rush variant applies in rush hours", partySize: 4, at: fridayEvening, wantMins: 75, wantSrc: service.SourceCustom},
		{name: "day-agnostic rule covers other days", partySize: 4, at: wednesdayEvening, wantMins: 80, wantSrc: service.SourceCustom},
		{name: "unmatched party size falls back to defaults", partySize: 2, at: wednesdayEvening, wantMins: 90, wantSrc: service.SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newTurnTimeService(t)

			mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
			mockRepo.EXPECT().GetByRestaurant(gomock.Any(), "restaurant-1").Return(rules, nil)
			mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			got := svc.Resolve(context.Background(), "restaurant-1", tt.partySize, tt.at)

			assert.Equal(t, tt.wantMins, got.TurnTimeMinutes)
			assert.Equal(t, tt.wantSrc, got.Source)
		})
	}
}

func TestTurnTimeService_Resolve_ClampsOversizedCustomRule(t *testing.T) {
	svc, mockRepo, mockCache := newTurnTimeService(t)

	// A rule demanding six hours cannot hold a table past the ceiling.
	rules := []model.Rule{
		{ID: "rule-marathon", RestaurantID: "restaurant-1", PartySize: 4, TurnTimeMinutes: 360},
	}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockRepo.EXPECT().GetByRestaurant(gomock.Any(), "restaurant-1").Return(rules, nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	got := svc.Resolve(context.Background(), "restaurant-1", 4, wednesdayEvening)

	assert.Equal(t, 240, got.TurnTimeMinutes)
	assert.Equal(t, service.SourceCustom, got.Source)
}

func TestTurnTimeService_Resolve_DegradesOnRepositoryError(t *testing.T) {
	svc, mockRepo, mockCache := newTurnTimeService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockRepo.EXPECT().GetByRestaurant(gomock.Any(), "restaurant-1").Return(nil, errors.New("database error"))

	got := svc.Resolve(context.Background(), "restaurant-1", 2, wednesdayEvening)

	assert.Equal(t, 90, got.TurnTimeMinutes)
	assert.Equal(t, service.SourceDefault, got.Source)
}

func TestTurnTimeService_Resolve_InvalidPartySize(t *testing.T) {
	svc, mockRepo, mockCache := newTurnTimeService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockRepo.EXPECT().GetByRestaurant(gomock.Any(), "restaurant-1").Return(nil, nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	got := svc.Resolve(context.Background(), "restaurant-1", 0, wednesdayEvening)

	// Fail-safe: over-reserve with the largest band instead of guessing short.
	assert.Equal(t, 240, got.TurnTimeMinutes)
}

func TestTurnTimeService_ComputeWindow(t *testing.T) {
	svc, mockRepo, mockCache := newTurnTimeService(t)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	mockRepo.EXPECT().GetByRestaurant(gomock.Any(), "restaurant-1").Return(nil, nil)
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	start, end, resolution := svc.ComputeWindow(context.Background(), "restaurant-1", 4, wednesdayEvening)

	assert.Equal(t, wednesdayEvening, start)
	assert.Equal(t, wednesdayEvening.Add(120*time.Minute), end)
	assert.Equal(t, 120, resolution.TurnTimeMinutes)
}
