package router

import (
	"maitre/internal/handlers/availability"
	"maitre/internal/handlers/booking"
	"maitre/internal/handlers/rating"
	"maitre/internal/handlers/restaurant"
	"maitre/internal/handlers/table"
	"maitre/internal/handlers/turntime"
	"maitre/internal/handlers/vip"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Restaurant   restaurant.Handler
	Table        table.Handler
	TurnTime     turntime.Handler
	Booking      booking.Handler
	Availability availability.Handler
	VIP          vip.Handler
	Rating       rating.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Restaurant.Router(routerGroup)
		r.DomainHandlers.Table.Router(routerGroup)
		r.DomainHandlers.TurnTime.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.VIP.Router(routerGroup)
		r.DomainHandlers.Rating.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
