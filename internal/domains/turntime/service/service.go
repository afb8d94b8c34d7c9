package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names TurnTime=MockTurnTimeService

import (
	"context"
	"fmt"
	"time"

	"maitre/config"
	"maitre/infras/otel"
	"maitre/internal/domains/turntime/model"
	"maitre/internal/domains/turntime/model/dto"
	"maitre/internal/domains/turntime/repository"
	"maitre/shared"
	"maitre/shared/cache"
	"maitre/shared/constant"
	"maitre/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllRule = "turn_time_rule:gets"

	SourceCustom  = "custom"
	SourceDefault = "default"
)

// defaultBand maps a party size range onto standard and rush turn times.
// Rush slots turn faster because the kitchen paces courses tighter.
type defaultBand struct {
	minParty int
	maxParty int
	standard int
	rush     int
}

var defaultBands = []defaultBand{
	{1, 2, 90, 75},
	{3, 4, 120, 105},
	{5, 6, 150, 135},
	{7, 12, 180, 165},
	{13, 0, 240, 210},
}

// Resolution is the outcome of a turn time lookup.
type Resolution struct {
	TurnTimeMinutes int
	Source          string
	RushHour        bool
}

type TurnTime interface {
	Resolve(ctx context.Context, restaurantID string, partySize int, at time.Time) Resolution
	ComputeWindow(ctx context.Context, restaurantID string, partySize int, start time.Time) (time.Time, time.Time, Resolution)
	CreateRule(ctx context.Context, req dto.CreateRuleRequest) error
	GetRules(ctx context.Context, restaurantID string) ([]dto.RuleResponse, error)
	DeleteRule(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo  repository.Rule
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Rule, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) TurnTime {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// IsRushHour reports whether a slot falls in the high-demand window: Friday
// and Saturday evenings between 18:00 and 21:59.
func IsRushHour(at time.Time) bool {
	day := at.Weekday()
	if day != time.Friday && day != time.Saturday {
		return false
	}

	return at.Hour() >= 18 && at.Hour() <= 21
}

// FormatSummary renders a turn time in minutes as a short human string,
// e.g. "1h 30m" or "45m".
func FormatSummary(minutes int) string {
	hours := minutes / 60
	remainder := minutes % 60

	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", remainder)
	case remainder == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, remainder)
	}
}

// Resolve picks the turn time for a party at a given slot. Restaurant
// overrides win over the built-in table, day-specific overrides win over
// day-agnostic ones, and any storage failure degrades to the built-in table
// so availability checks keep working. The result never exceeds the
// configured ceiling, so an oversized custom rule cannot lock a table for
// a whole service.
func (s *serviceImpl) Resolve(ctx context.Context, restaurantID string, partySize int, at time.Time) Resolution {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()

	rush := IsRushHour(at)

	rules, err := s.getRules(ctx, restaurantID)
	if err != nil {
		log.Warn().Err(err).Str("restaurantID", restaurantID).Msg("turn time rules unavailable, falling back to defaults")

		return s.clamp(s.resolveDefault(partySize, rush))
	}

	weekday := int(at.Weekday())

	// Rules arrive day-specific first, so the first match is the most
	// specific one.
	for _, rule := range rules {
		if rule.PartySize != partySize {
			continue
		}

		if rule.DayOfWeek != nil && *rule.DayOfWeek != weekday {
			continue
		}

		minutes := rule.TurnTimeMinutes
		if rush && rule.RushTurnTimeMinutes != nil {
			minutes = *rule.RushTurnTimeMinutes
		}

		return s.clamp(Resolution{TurnTimeMinutes: minutes, Source: SourceCustom, RushHour: rush})
	}

	return s.clamp(s.resolveDefault(partySize, rush))
}

func (s *serviceImpl) clamp(resolution Resolution) Resolution {
	if max := s.cfg.Booking.MaxTurnTimeMinutes; max > 0 && resolution.TurnTimeMinutes > max {
		resolution.TurnTimeMinutes = max
	}

	return resolution
}

func (s *serviceImpl) resolveDefault(partySize int, rush bool) Resolution {
	if partySize < 1 {
		log.Warn().Int("partySize", partySize).Msg("turn time requested for invalid party size, using largest band")

		partySize = defaultBands[len(defaultBands)-1].minParty
	}

	for _, band := range defaultBands {
		if partySize < band.minParty {
			continue
		}

		if band.maxParty != 0 && partySize > band.maxParty {
			continue
		}

		minutes := band.standard
		if rush {
			minutes = band.rush
		}

		return Resolution{TurnTimeMinutes: minutes, Source: SourceDefault, RushHour: rush}
	}

	// Unreachable while the band table covers all sizes, kept as a guard.
	last := defaultBands[len(defaultBands)-1]
	minutes := last.standard
	if rush {
		minutes = last.rush
	}

	return Resolution{TurnTimeMinutes: minutes, Source: SourceDefault, RushHour: rush}
}

// ComputeWindow returns the half-open occupancy interval [start, end) a
// booking at the given slot would hold its table for.
func (s *serviceImpl) ComputeWindow(ctx context.Context, restaurantID string, partySize int, start time.Time) (time.Time, time.Time, Resolution) {
	resolution := s.Resolve(ctx, restaurantID, partySize, start)

	return start, start.Add(time.Duration(resolution.TurnTimeMinutes) * time.Minute), resolution
}

func (s *serviceImpl) getRules(ctx context.Context, restaurantID string) (rules []model.Rule, err error) {
	cacheKey := shared.BuildCacheKey(cacheGetAllRule, restaurantID)

	err = s.cache.Get(ctx, cacheKey, &rules)
	if err == nil {
		return rules, nil
	}

	rules, err = s.repo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get turn time rules: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, rules, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save turn time rules to cache")
		}
	}()

	return rules, nil
}

func (s *serviceImpl) CreateRule(ctx context.Context, req dto.CreateRuleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateRule")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create turn time rule")

		return fmt.Errorf("failed to create turn time rule: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetAllRule, req.RestaurantID)); err != nil {
			log.Error().Err(err).Msg("failed to delete turn time rules from cache")
		}
	}()

	return nil
}

func (s *serviceImpl) GetRules(ctx context.Context, restaurantID string) (res []dto.RuleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetRules")
	defer scope.End()
	defer scope.TraceIfError(err)

	rules, err := s.getRules(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get turn time rules")

		return nil, err
	}

	res = make([]dto.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		res = append(res, dto.RuleResponse{}.FromModel(rule))
	}

	return res, nil
}

func (s *serviceImpl) DeleteRule(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteRule")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	rule, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get turn time rule")

		return fmt.Errorf("failed to get turn time rule: %w", err)
	}

	if rule.ID == constant.Empty {
		return failure.NotFound("turn time rule not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete turn time rule")

		return fmt.Errorf("failed to delete turn time rule: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetAllRule, rule.RestaurantID)); err != nil {
			log.Error().Err(err).Msg("failed to delete turn time rules from cache")
		}
	}()

	return nil
}
