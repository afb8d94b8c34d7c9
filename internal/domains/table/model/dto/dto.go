package dto

import (
	"github.com/google/uuid"

	"maitre/internal/domains/table/model"
	"maitre/shared"
	sharedModel "maitre/shared/model"
	"maitre/shared/timezone"
)

type CreateTableRequest struct {
	RestaurantID  string `json:"restaurant_id" validate:"required,uuid"`
	TableNumber   string `json:"table_number" validate:"required,max=20"`
	Capacity      int    `json:"capacity" validate:"required,min=1,max=50"`
	TableType     string `json:"table_type" validate:"required,oneof=booth window patio standard bar private"`
	Combinable    bool   `json:"combinable"`
	PriorityScore int    `json:"priority_score" validate:"min=0"`
}

func (r CreateTableRequest) ToModel(createdBy string) model.Table {
	now := timezone.Now()
	return model.Table{
		ID:            uuid.NewString(),
		RestaurantID:  r.RestaurantID,
		TableNumber:   r.TableNumber,
		Capacity:      r.Capacity,
		TableType:     r.TableType,
		Combinable:    r.Combinable,
		PriorityScore: r.PriorityScore,
		Active:        true,
		Metadata: sharedModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type UpdateTableRequest struct {
	TableNumber   string `db:"table_number" json:"table_number" validate:"omitempty,max=20"`
	Capacity      int    `db:"capacity" json:"capacity" validate:"omitempty,min=1,max=50"`
	TableType     string `db:"table_type" json:"table_type" validate:"omitempty,oneof=booth window patio standard bar private"`
	Combinable    *bool  `db:"combinable" json:"combinable"`
	PriorityScore *int   `db:"priority_score" json:"priority_score"`
	Active        *bool  `db:"active" json:"active"`
}

type CreateCombinationRequest struct {
	RestaurantID     string `json:"restaurant_id" validate:"required,uuid"`
	PrimaryTableID   string `json:"primary_table_id" validate:"required,uuid"`
	SecondaryTableID string `json:"secondary_table_id" validate:"required,uuid,necsfield=PrimaryTableID"`
	CombinedCapacity int    `json:"combined_capacity" validate:"required,min=2,max=100"`
}

func (r CreateCombinationRequest) ToModel(createdBy string) model.Combination {
	now := timezone.Now()
	return model.Combination{
		ID:               uuid.NewString(),
		RestaurantID:     r.RestaurantID,
		PrimaryTableID:   r.PrimaryTableID,
		SecondaryTableID: r.SecondaryTableID,
		CombinedCapacity: r.CombinedCapacity,
		Active:           true,
		Metadata: sharedModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type TableResponse struct {
	ID            string `json:"id"`
	RestaurantID  string `json:"restaurant_id"`
	TableNumber   string `json:"table_number"`
	Capacity      int    `json:"capacity"`
	TableType     string `json:"table_type"`
	Combinable    bool   `json:"combinable"`
	PriorityScore int    `json:"priority_score"`
	Active        bool   `json:"active"`
}

func (r TableResponse) FromModel(data model.Table) TableResponse {
	return TableResponse{
		ID:            data.ID,
		RestaurantID:  data.RestaurantID,
		TableNumber:   data.TableNumber,
		Capacity:      data.Capacity,
		TableType:     data.TableType,
		Combinable:    data.Combinable,
		PriorityScore: data.PriorityScore,
		Active:        data.Active,
	}
}

type GetTablesResponse struct {
	Tables    []TableResponse `json:"tables"`
	TotalPage int             `json:"total_page"`
}

func (r GetTablesResponse) FromModels(data []model.Table, total, limit int) GetTablesResponse {
	tables := make([]TableResponse, 0, len(data))
	for _, table := range data {
		tables = append(tables, TableResponse{}.FromModel(table))
	}

	return GetTablesResponse{
		Tables:    tables,
		TotalPage: shared.CalculateTotalPage(total, limit),
	}
}

type CombinationResponse struct {
	ID               string `json:"id"`
	RestaurantID     string `json:"restaurant_id"`
	PrimaryTableID   string `json:"primary_table_id"`
	SecondaryTableID string `json:"secondary_table_id"`
	CombinedCapacity int    `json:"combined_capacity"`
	Active           bool   `json:"active"`
}

func (r CombinationResponse) FromModel(data model.Combination) CombinationResponse {
	return CombinationResponse{
		ID:               data.ID,
		RestaurantID:     data.RestaurantID,
		PrimaryTableID:   data.PrimaryTableID,
		SecondaryTableID: data.SecondaryTableID,
		CombinedCapacity: data.CombinedCapacity,
		Active:           data.Active,
	}
}
