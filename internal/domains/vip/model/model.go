package model

import (
	"time"

	"maitre/shared/model"
)

const (
	TableName  = "restaurant_vip_users"
	EntityName = "vip_status"

	FieldID           = "id"
	FieldRestaurantID = "restaurant_id"
	FieldUserID       = "user_id"
	FieldValidUntil   = "valid_until"
)

// VIPStatus grants a guest an extended booking window at one restaurant,
// optionally with priority access to premium tables. A nil ValidUntil never
// expires.
type VIPStatus struct {
	ID                  string     `db:"id"`
	RestaurantID        string     `db:"restaurant_id"`
	UserID              string     `db:"user_id"`
	ExtendedBookingDays int        `db:"extended_booking_days"`
	PriorityBooking     bool       `db:"priority_booking"`
	ValidUntil          *time.Time `db:"valid_until"`
	Notes               string     `db:"notes"`
	model.Metadata
}

// Expired reports whether the grant has lapsed at the given instant.
func (v VIPStatus) Expired(at time.Time) bool {
	return v.ValidUntil != nil && v.ValidUntil.Before(at)
}
