package availability

import (
	"net/http"
	"strconv"

	"maitre/infras/otel"
	"maitre/internal/domains/availability/model/dto"
	"maitre/internal/domains/availability/service"
	"maitre/internal/events"
	"maitre/shared/constant"
	"maitre/shared/failure"
	"maitre/shared/validator"
	"maitre/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	service service.Availability
	hub     *events.Hub
	otel    otel.Otel
}

func New(service service.Availability, hub *events.Hub, otel otel.Otel) Handler {
	return Handler{
		service: service,
		hub:     hub,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Get("/slots", handler.GetSlots)
		routerGroup.Get("/subscribe/{id}", handler.Subscribe)
	})
}

// GetSlots lists the bookable start times for a restaurant on a date.
// @Summary Get available slots
// @Description List every slot on the given date with whether a table can still be seated for the party.
// @Tags Availability
// @Produce json
// @Param restaurant_id query string true "Restaurant ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param party_size query int true "Party size"
// @Param table_preference query string false "Preferred table type"
// @Success 200 {object} response.Data[dto.ListSlotsResponse] "Slots for the day"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/availability/slots [get]
// @Security BearerAuth
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	partySize, err := strconv.Atoi(r.URL.Query().Get(constant.RequestParamPartySize))
	if err != nil {
		err = failure.BadRequestFromString("party_size must be a positive integer")
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid party_size")

		response.WithError(w, err)

		return
	}

	req := dto.ListSlotsRequest{
		RestaurantID:    r.URL.Query().Get(constant.RequestParamRestaurantID),
		Date:            r.URL.Query().Get(constant.RequestParamDate),
		PartySize:       partySize,
		TablePreference: r.URL.Query().Get("table_preference"),
	}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate query parameters")

		response.WithError(w, err)

		return
	}

	slots, err := handler.service.ListSlots(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slots listed successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// Subscribe upgrades the connection to a WebSocket and streams availability
// change events for one restaurant until the client goes away.
// @Summary Subscribe to availability changes
// @Description Open a WebSocket that receives an event whenever a slot is taken or released at the restaurant.
// @Tags Availability
// @Param id path string true "Restaurant ID"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} response.Error
// @Router /v1/availability/subscribe/{id} [get]
// @Security BearerAuth
func (handler *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Subscribe")
	defer scope.End()

	restaurantID := chi.URLParam(r, constant.RequestParamID)

	if err := validator.ValidateVar(restaurantID, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("missing or invalid restaurant ID")

		response.WithError(w, err)

		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upgrade connection")

		return
	}
	defer conn.Close()

	eventsCh, cancel := handler.hub.Subscribe(ctx, restaurantID)
	defer cancel()

	scope.AddEvent("Client subscribed to availability events for restaurant " + restaurantID)

	// Drain client frames so we notice the close handshake.
	done := make(chan struct{})

	go func() {
		defer close(done)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-eventsCh:
			if !ok {
				return
			}

			if err := conn.WriteJSON(event); err != nil {
				log.Warn().Err(err).
					Str("restaurantID", restaurantID).
					Msg("failed to write availability event, dropping subscriber")

				return
			}
		}
	}
}
