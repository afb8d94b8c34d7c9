package rating

import (
	"net/http"

	"maitre/infras/otel"
	"maitre/internal/domains/rating/model/dto"
	"maitre/internal/domains/rating/service"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/validator"
	"maitre/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Rating
	otel    otel.Otel
}

func New(service service.Rating, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/ratings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Record)
		routerGroup.Get("/{id}", handler.GetStats)
		routerGroup.Get("/{id}/history", handler.GetHistory)
		routerGroup.Get("/{id}/eligibility", handler.CheckEligibility)
	})
}

// Record stores a rating given to a guest by a restaurant.
// @Summary Record a guest rating
// @Description Record a rating for a guest and fold it into their rolling average.
// @Tags Rating
// @Accept json
// @Produce json
// @Param request body dto.RecordRatingRequest true "Record Rating Request"
// @Success 201 {object} response.Message "Rating recorded successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/ratings [post]
// @Security BearerAuth
func (handler *Handler) Record(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Record")
	defer scope.End()

	req := dto.RecordRatingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Record(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record rating")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Rating recorded successfully by user " + user)

	response.WithMessage(w, http.StatusCreated, "Rating recorded successfully")
}

// GetStats retrieves the aggregate rating of a guest.
// @Summary Get guest rating stats
// @Description Retrieve a guest's rolling average rating and total rating count.
// @Tags Rating
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.StatsResponse] "Rating stats"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/ratings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetStats")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	stats, err := handler.service.Stats(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rating stats")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rating stats retrieved successfully")

	response.WithJSON(w, http.StatusOK, stats)
}

// GetHistory retrieves the individual ratings received by a guest.
// @Summary Get guest rating history
// @Description Retrieve the individual ratings that make up a guest's average, newest first.
// @Tags Rating
// @Produce json
// @Param id path string true "User ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.HistoryEntryResponse] "Rating history"
// @Failure 500 {object} response.Error
// @Router /v1/ratings/{id}/history [get]
// @Security BearerAuth
func (handler *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetHistory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	history, err := handler.service.History(ctx, id, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rating history")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Rating history retrieved successfully")

	response.WithJSON(w, http.StatusOK, history)
}

// CheckEligibility reports what a guest's rating lets them do.
// @Summary Check booking eligibility
// @Description Report whether a guest's rating allows them to book, and whether instant confirmation applies.
// @Tags Rating
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.EligibilityResponse] "Eligibility verdict"
// @Failure 500 {object} response.Error
// @Router /v1/ratings/{id}/eligibility [get]
// @Security BearerAuth
func (handler *Handler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CheckEligibility")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	eligibility := handler.service.CheckEligibility(ctx, id)

	scope.AddEvent("Eligibility checked successfully")

	response.WithJSON(w, http.StatusOK, eligibility)
}
