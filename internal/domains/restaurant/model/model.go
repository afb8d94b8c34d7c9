package model

import (
	"maitre/shared/model"
	"time"
)

const (
	TableName  = "restaurants"
	EntityName = "restaurant"

	FieldID                = "id"
	FieldName              = "name"
	FieldTimezone          = "timezone"
	FieldOpeningTime       = "opening_time"
	FieldClosingTime       = "closing_time"
	FieldBookingWindowDays = "booking_window_days"
	FieldInstantBook       = "instant_book"
	FieldActive            = "active"
)

const (
	ShiftTableName  = "restaurant_shifts"
	ShiftEntityName = "restaurant_shift"

	ShiftFieldID           = "id"
	ShiftFieldRestaurantID = "restaurant_id"
	ShiftFieldDayOfWeek    = "day_of_week"
)

const (
	ServiceTypeBreakfast = "breakfast"
	ServiceTypeLunch     = "lunch"
	ServiceTypeDinner    = "dinner"
	ServiceTypeAllDay    = "all_day"
)

type Restaurant struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	Timezone          string `db:"timezone"`
	OpeningTime       string `db:"opening_time"`
	ClosingTime       string `db:"closing_time"`
	BookingWindowDays int    `db:"booking_window_days"`
	InstantBook       bool   `db:"instant_book"`
	Active            bool   `db:"active"`
	model.Metadata
}

// Shift is one service window on one weekday. A restaurant may run several
// shifts per day (e.g. lunch and dinner with a break in between).
type Shift struct {
	ID           string    `db:"id"`
	RestaurantID string    `db:"restaurant_id"`
	DayOfWeek    int       `db:"day_of_week"`
	OpensAt      string    `db:"opens_at"`
	ClosesAt     string    `db:"closes_at"`
	ServiceType  string    `db:"service_type"`
	WalkIn       bool      `db:"walk_in"`
	CreatedAt    time.Time `db:"created_at"`
}
