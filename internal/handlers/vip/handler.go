package vip

import (
	"net/http"

	"maitre/infras/otel"
	"maitre/internal/domains/vip/model/dto"
	"maitre/internal/domains/vip/service"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/validator"
	"maitre/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.VIP
	otel    otel.Otel
}

func New(service service.VIP, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/vip", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Grant)
		routerGroup.Get("/", handler.List)
		routerGroup.Get("/status", handler.CheckStatus)
		routerGroup.Delete("/{id}", handler.Revoke)
	})
}

// Grant records VIP status for a guest at a restaurant.
// @Summary Grant VIP status
// @Description Grant a guest VIP status at a restaurant, extending their booking window.
// @Tags VIP
// @Accept json
// @Produce json
// @Param request body dto.GrantVIPRequest true "Grant VIP Request"
// @Success 201 {object} response.Message "VIP status granted successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vip [post]
// @Security BearerAuth
func (handler *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Grant")
	defer scope.End()

	req := dto.GrantVIPRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Grant(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to grant VIP status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("VIP status granted successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "VIP status granted successfully")
}

// List retrieves the VIP guests of a restaurant.
// @Summary List VIP guests
// @Description Retrieve the VIP statuses recorded for a restaurant.
// @Tags VIP
// @Produce json
// @Param restaurant_id query string true "Restaurant ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.VIPStatusResponse] "List of VIP statuses"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vip [get]
// @Security BearerAuth
func (handler *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".List")
	defer scope.End()

	restaurantID := r.URL.Query().Get(constant.RequestParamRestaurantID)

	if err := validator.ValidateVar(restaurantID, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("missing or invalid restaurant_id")

		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	statuses, err := handler.service.List(ctx, restaurantID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list VIP statuses")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("VIP statuses retrieved successfully")

	response.WithJSON(w, http.StatusOK, statuses)
}

// CheckStatus reports whether a guest holds active VIP status at a restaurant.
// @Summary Check VIP status
// @Description Check whether a guest is a VIP at a restaurant and how far ahead they may book.
// @Tags VIP
// @Produce json
// @Param restaurant_id query string true "Restaurant ID"
// @Param user_id query string false "User ID (defaults to the authenticated user)"
// @Success 200 {object} response.Data[dto.CheckStatusResponse] "VIP status"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vip/status [get]
// @Security BearerAuth
func (handler *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckStatus")
	defer scope.End()

	restaurantID := r.URL.Query().Get(constant.RequestParamRestaurantID)

	if err := validator.ValidateVar(restaurantID, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("missing or invalid restaurant_id")

		response.WithError(w, err)

		return
	}

	userID := r.URL.Query().Get(constant.RequestParamUserID)
	if userID == "" {
		userID, _ = ctx.Value(constant.ContextKeyUserID).(string)
	}

	if err := validator.ValidateVar(userID, "required,uuid"); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("missing or invalid user_id")

		response.WithError(w, err)

		return
	}

	status := handler.service.CheckStatus(ctx, restaurantID, userID)

	scope.AddEvent("VIP status checked successfully")

	response.WithJSON(w, http.StatusOK, status)
}

// Revoke removes a VIP status record by its ID.
// @Summary Revoke VIP status
// @Description Revoke a guest's VIP status; their booking window falls back to the restaurant default.
// @Tags VIP
// @Produce json
// @Param id path string true "VIP status ID"
// @Success 200 {object} response.Message "VIP status revoked successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vip/{id} [delete]
// @Security BearerAuth
func (handler *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Revoke")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Revoke(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to revoke VIP status")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("VIP status revoked successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "VIP status revoked successfully")
}
