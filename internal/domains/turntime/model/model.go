package model

import "maitre/shared/model"

const (
	TableName  = "restaurant_turn_times"
	EntityName = "turn_time_rule"

	FieldID           = "id"
	FieldRestaurantID = "restaurant_id"
	FieldPartySize    = "party_size"
	FieldDayOfWeek    = "day_of_week"
)

// Rule is a per-restaurant override of the built-in turn time table. A rule
// with DayOfWeek set applies only on that weekday (0 = Sunday) and wins over
// a day-agnostic rule for the same party size.
type Rule struct {
	ID                  string `db:"id"`
	RestaurantID        string `db:"restaurant_id"`
	PartySize           int    `db:"party_size"`
	DayOfWeek           *int   `db:"day_of_week"`
	TurnTimeMinutes     int    `db:"turn_time_minutes"`
	RushTurnTimeMinutes *int   `db:"rush_turn_time_minutes"`
	model.Metadata
}
