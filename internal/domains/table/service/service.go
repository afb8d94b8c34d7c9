package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names Table=MockTableService

import (
	"context"
	"fmt"
	"maitre/config"
	"maitre/infras/otel"
	"maitre/internal/domains/table/model"
	"maitre/internal/domains/table/model/dto"
	"maitre/internal/domains/table/repository"
	"maitre/shared"
	"maitre/shared/cache"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
	"maitre/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetTable     = "table:get"
	cacheGetAllTable  = "table:gets"
	cacheCountTable   = "table:count"
	cacheFloorPlan    = "table:floorplan"
	cacheGetAllCombos = "table_combination:gets"
)

type Table interface {
	Create(ctx context.Context, req dto.CreateTableRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTablesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.TableResponse, error)
	Update(ctx context.Context, req dto.UpdateTableRequest, id string) error
	Delete(ctx context.Context, id string) error
	GetFloorPlan(ctx context.Context, restaurantID string) ([]model.Table, []model.Combination, error)
	CreateCombination(ctx context.Context, req dto.CreateCombinationRequest) error
	GetCombinations(ctx context.Context, restaurantID string) ([]dto.CombinationResponse, error)
	DeleteCombination(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Table
	comboRepo repository.Combination
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Table, comboRepo repository.Combination, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Table {
	return &serviceImpl{
		repo:      repo,
		comboRepo: comboRepo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTableRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create table")

		return fmt.Errorf("failed to create table: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTable)
		shared.InvalidateCaches(c, s.cache, cacheCountTable)
		shared.InvalidateCaches(c, s.cache, cacheFloorPlan)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTablesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTable, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for tables")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables")

		return res, fmt.Errorf("failed to count tables: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tables")

		return res, fmt.Errorf("failed to get tables: %w", err)
	}

	res = res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save tables to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTable, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count tables")

		return res, fmt.Errorf("failed to count tables: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.TableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTable, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for table")

		return res, nil
	}

	table, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get table")

		return res, fmt.Errorf("failed to get table: %w", err)
	}

	if table.ID == constant.Empty {
		return res, failure.NotFound("table not found") // nolint:wrapcheck
	}

	res = res.FromModel(table)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateTableRequest, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()

	if req == (dto.UpdateTableRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if table exists")

		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if !exist {
		return failure.NotFound("table not found") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err := s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update table")

		return fmt.Errorf("failed to update table: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTable, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete table from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTable)
		shared.InvalidateCaches(c, s.cache, cacheCountTable)
		shared.InvalidateCaches(c, s.cache, cacheFloorPlan)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if table exists")

		return fmt.Errorf("failed to check if table exists: %w", err)
	}

	if !exist {
		return failure.NotFound("table not found") // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete table")

		return fmt.Errorf("failed to delete table: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetTable, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete table from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllTable)
		shared.InvalidateCaches(c, s.cache, cacheCountTable)
		shared.InvalidateCaches(c, s.cache, cacheFloorPlan)
	}()

	return nil
}

// GetFloorPlan returns every active table and pre-configured combination for
// a restaurant. The assignment search calls this on every availability check,
// so the result is cached as one unit.
func (s *serviceImpl) GetFloorPlan(ctx context.Context, restaurantID string) (tables []model.Table, combinations []model.Combination, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetFloorPlan")
	defer scope.End()
	defer scope.TraceIfError(err)

	type floorPlan struct {
		Tables       []model.Table       `json:"tables"`
		Combinations []model.Combination `json:"combinations"`
	}

	cacheKey := shared.BuildCacheKey(cacheFloorPlan, restaurantID)

	var cached floorPlan

	err = s.cache.Get(ctx, cacheKey, &cached)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for floor plan")

		return cached.Tables, cached.Combinations, nil
	}

	tables, err = s.repo.GetActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get tables for floor plan")

		return nil, nil, fmt.Errorf("failed to get tables for floor plan: %w", err)
	}

	combinations, err = s.comboRepo.GetActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get combinations for floor plan")

		return nil, nil, fmt.Errorf("failed to get combinations for floor plan: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, floorPlan{Tables: tables, Combinations: combinations}, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save floor plan to cache")
		}
	}()

	return tables, combinations, nil
}

func (s *serviceImpl) CreateCombination(ctx context.Context, req dto.CreateCombinationRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateCombination")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	for _, tableID := range []string{req.PrimaryTableID, req.SecondaryTableID} {
		table, err := s.repo.Get(ctx, shared.FilterByID(tableID, model.FieldID, model.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get table for combination")

			return fmt.Errorf("failed to get table for combination: %w", err)
		}

		if table.ID == constant.Empty || table.RestaurantID != req.RestaurantID {
			return failure.NotFound("table not found") // nolint:wrapcheck
		}

		if !table.Combinable {
			return failure.BadRequestFromString(fmt.Sprintf("table %s is not combinable", table.TableNumber)) // nolint:wrapcheck
		}
	}

	if err = s.comboRepo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create table combination")

		return fmt.Errorf("failed to create table combination: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCombos)
		shared.InvalidateCaches(c, s.cache, cacheFloorPlan)
	}()

	return nil
}

func (s *serviceImpl) GetCombinations(ctx context.Context, restaurantID string) (res []dto.CombinationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetCombinations")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetAllCombos, restaurantID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for table combinations")

		return res, nil
	}

	combinations, err := s.comboRepo.GetActiveByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table combinations")

		return nil, fmt.Errorf("failed to get table combinations: %w", err)
	}

	res = make([]dto.CombinationResponse, 0, len(combinations))
	for _, combination := range combinations {
		res = append(res, dto.CombinationResponse{}.FromModel(combination))
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save table combinations to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) DeleteCombination(ctx context.Context, id string) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteCombination")
	defer scope.End()

	filter := shared.FilterByID(id, model.FieldID, model.CombinationTableName)

	combination, err := s.comboRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get table combination")

		return fmt.Errorf("failed to get table combination: %w", err)
	}

	if combination.ID == constant.Empty {
		return failure.NotFound("table combination not found") // nolint:wrapcheck
	}

	if err := s.comboRepo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete table combination")

		return fmt.Errorf("failed to delete table combination: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllCombos)
		shared.InvalidateCaches(c, s.cache, cacheFloorPlan)
	}()

	return nil
}
