package turntime

import (
	"net/http"
	"strconv"
	"time"

	"maitre/infras/otel"
	"maitre/internal/domains/turntime/model/dto"
	"maitre/internal/domains/turntime/service"
	"maitre/shared/constant"
	"maitre/shared/failure"
	"maitre/shared/timezone"
	"maitre/shared/validator"
	"maitre/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.TurnTime
	otel    otel.Otel
}

func New(service service.TurnTime, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/turn-times", func(routerGroup chi.Router) {
		routerGroup.Post("/rules", handler.CreateRule)
		routerGroup.Get("/rules", handler.GetRules)
		routerGroup.Delete("/rules/{id}", handler.DeleteRule)
		routerGroup.Get("/resolve", handler.Resolve)
	})
}

// CreateRule registers a custom turn time rule for a restaurant.
// @Summary Create a turn time rule
// @Description Register a per-party-size (and optionally per-day) turn time override for a restaurant.
// @Tags TurnTime
// @Accept json
// @Produce json
// @Param request body dto.CreateRuleRequest true "Create Rule Request"
// @Success 201 {object} response.Message "Turn time rule created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turn-times/rules [post]
// @Security BearerAuth
func (handler *Handler) CreateRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRule")
	defer scope.End()

	req := dto.CreateRuleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.CreateRule(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create turn time rule")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Turn time rule created successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Turn time rule created successfully")
}

// GetRules retrieves the turn time rules configured for a restaurant.
// @Summary Get turn time rules
// @Description Retrieve all custom turn time rules for a restaurant.
// @Tags TurnTime
// @Produce json
// @Param restaurant_id query string true "Restaurant ID"
// @Success 200 {object} response.Data[[]dto.RuleResponse] "List of rules"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turn-times/rules [get]
// @Security BearerAuth
func (handler *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRules")
	defer scope.End()

	restaurantID := r.URL.Query().Get(constant.RequestParamRestaurantID)

	if err := validator.ValidateVar(restaurantID, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("missing or invalid restaurant_id")

		response.WithError(w, err)

		return
	}

	rules, err := handler.service.GetRules(ctx, restaurantID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get turn time rules")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Turn time rules retrieved successfully")

	response.WithJSON(w, http.StatusOK, rules)
}

// DeleteRule deletes a turn time rule by its ID.
// @Summary Delete a turn time rule
// @Description Remove a custom turn time rule; affected slots fall back to the defaults.
// @Tags TurnTime
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} response.Message "Turn time rule deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turn-times/rules/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRule")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.DeleteRule(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete turn time rule")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Turn time rule deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Turn time rule deleted successfully")
}

// Resolve reports the turn time for a party at a given slot.
// @Summary Resolve a turn time
// @Description Resolve how long a party of the given size holds its table at the given date and time.
// @Tags TurnTime
// @Produce json
// @Param restaurant_id query string true "Restaurant ID"
// @Param party_size query int true "Party size"
// @Param date query string true "Slot date (YYYY-MM-DD)"
// @Param time query string true "Slot time (HH:MM)"
// @Success 200 {object} response.Data[dto.ResolutionResponse] "Resolved turn time"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/turn-times/resolve [get]
// @Security BearerAuth
func (handler *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Resolve")
	defer scope.End()

	restaurantID := r.URL.Query().Get(constant.RequestParamRestaurantID)

	if err := validator.ValidateVar(restaurantID, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("missing or invalid restaurant_id")

		response.WithError(w, err)

		return
	}

	partySize, err := strconv.Atoi(r.URL.Query().Get(constant.RequestParamPartySize))
	if err != nil || partySize < 1 {
		err = failure.BadRequestFromString("party_size must be a positive integer")
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid party_size")

		response.WithError(w, err)

		return
	}

	at, err := time.ParseInLocation(
		constant.DateOnlyFormat+" "+constant.TimeOnlyFormat,
		r.URL.Query().Get(constant.RequestParamDate)+" "+r.URL.Query().Get(constant.RequestParamTime),
		timezone.GetLocation(),
	)
	if err != nil {
		err = failure.BadRequestFromString("date and time must be formatted as YYYY-MM-DD and HH:MM")
		scope.TraceError(err)
		log.Error().Err(err).Msg("invalid date or time")

		response.WithError(w, err)

		return
	}

	resolution := handler.service.Resolve(ctx, restaurantID, partySize, at)

	res := dto.ResolutionResponse{
		TurnTimeMinutes: resolution.TurnTimeMinutes,
		Source:          resolution.Source,
		RushHour:        resolution.RushHour,
		Summary:         service.FormatSummary(resolution.TurnTimeMinutes),
	}

	scope.AddEvent("Turn time resolved successfully")

	response.WithJSON(w, http.StatusOK, res)
}
