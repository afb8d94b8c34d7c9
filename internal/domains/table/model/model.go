package model

import "maitre/shared/model"

const (
	TableName  = "restaurant_tables"
	EntityName = "table"

	FieldID            = "id"
	FieldRestaurantID  = "restaurant_id"
	FieldTableNumber   = "table_number"
	FieldCapacity      = "capacity"
	FieldTableType     = "table_type"
	FieldCombinable    = "combinable"
	FieldPriorityScore = "priority_score"
	FieldActive        = "active"
)

const (
	CombinationTableName  = "table_combinations"
	CombinationEntityName = "table_combination"
)

const (
	TypeBooth    = "booth"
	TypeWindow   = "window"
	TypePatio    = "patio"
	TypeStandard = "standard"
	TypeBar      = "bar"
	TypePrivate  = "private"
	TypeAny      = "any"
)

type Table struct {
	ID            string `db:"id"`
	RestaurantID  string `db:"restaurant_id"`
	TableNumber   string `db:"table_number"`
	Capacity      int    `db:"capacity"`
	TableType     string `db:"table_type"`
	Combinable    bool   `db:"combinable"`
	PriorityScore int    `db:"priority_score"`
	Active        bool   `db:"active"`
	model.Metadata
}

// Combination is a pre-configured pairing of two physical tables the floor
// staff can actually push together.
type Combination struct {
	ID               string `db:"id"`
	RestaurantID     string `db:"restaurant_id"`
	PrimaryTableID   string `db:"primary_table_id"`
	SecondaryTableID string `db:"secondary_table_id"`
	CombinedCapacity int    `db:"combined_capacity"`
	Active           bool   `db:"active"`
	model.Metadata
}
