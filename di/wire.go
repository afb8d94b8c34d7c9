//go:build wireinject
// +build wireinject

package di

import (
	"maitre/config"
	"maitre/infras/jwt"
	"maitre/infras/kafka"
	"maitre/infras/otel"
	"maitre/infras/postgres"
	"maitre/infras/redis"
	"maitre/internal/events"
	"maitre/permissions"
	"maitre/shared/cache"
	"maitre/transport/http"
	"maitre/transport/http/middleware"
	"maitre/transport/http/router"

	"github.com/google/wire"

	availabilityService "maitre/internal/domains/availability/service"
	bookingRepository "maitre/internal/domains/booking/repository"
	bookingService "maitre/internal/domains/booking/service"
	ratingRepository "maitre/internal/domains/rating/repository"
	ratingService "maitre/internal/domains/rating/service"
	restaurantRepository "maitre/internal/domains/restaurant/repository"
	restaurantService "maitre/internal/domains/restaurant/service"
	tableRepository "maitre/internal/domains/table/repository"
	tableService "maitre/internal/domains/table/service"
	turntimeRepository "maitre/internal/domains/turntime/repository"
	turntimeService "maitre/internal/domains/turntime/service"
	vipRepository "maitre/internal/domains/vip/repository"
	vipService "maitre/internal/domains/vip/service"

	availabilityHandler "maitre/internal/handlers/availability"
	bookingHandler "maitre/internal/handlers/booking"
	ratingHandler "maitre/internal/handlers/rating"
	restaurantHandler "maitre/internal/handlers/restaurant"
	tableHandler "maitre/internal/handlers/table"
	turntimeHandler "maitre/internal/handlers/turntime"
	vipHandler "maitre/internal/handlers/vip"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var eventing = wire.NewSet(
	events.NewPublisher,
	events.NewHub,
)

var restaurantDomain = wire.NewSet(
	restaurantRepository.New,
	restaurantService.New,
)

var tableDomain = wire.NewSet(
	tableRepository.New,
	tableRepository.NewCombination,
	tableService.New,
)

var turnTimeDomain = wire.NewSet(
	turntimeRepository.New,
	turntimeService.New,
)

var vipDomain = wire.NewSet(
	vipRepository.New,
	vipService.New,
)

var ratingDomain = wire.NewSet(
	ratingRepository.New,
	ratingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
)

var domains = wire.NewSet(
	restaurantDomain,
	tableDomain,
	turnTimeDomain,
	vipDomain,
	ratingDomain,
	bookingDomain,
	availabilityDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	restaurantHandler.New,
	tableHandler.New,
	turntimeHandler.New,
	bookingHandler.New,
	availabilityHandler.New,
	vipHandler.New,
	ratingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
