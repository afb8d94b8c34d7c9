package model

import (
	"maitre/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldRestaurantID = "restaurant_id"
	FieldUserID       = "user_id"
	FieldGuestName    = "guest_name"
	FieldGuestPhone   = "guest_phone"
	FieldPartySize    = "party_size"
	FieldStartsAt     = "starts_at"
	FieldEndsAt       = "ends_at"
	FieldStatus       = "status"
	FieldCreatedBy    = "created_by"

	JunctionTableName = "booking_tables"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// BlockingStatuses are the statuses that hold a table. Declined and cancelled
// bookings release their tables immediately; completed and no-show rows are
// historical and their windows are already in the past.
var BlockingStatuses = []string{StatusPending, StatusConfirmed}

// Booking occupies one or more tables for the half-open window
// [StartsAt, EndsAt).
type Booking struct {
	ID              string    `db:"id"`
	RestaurantID    string    `db:"restaurant_id"`
	UserID          string    `db:"user_id"`
	GuestName       string    `db:"guest_name"`
	GuestPhone      string    `db:"guest_phone"`
	PartySize       int       `db:"party_size"`
	StartsAt        time.Time `db:"starts_at"`
	EndsAt          time.Time `db:"ends_at"`
	TurnTimeMinutes int       `db:"turn_time_minutes"`
	Status          string    `db:"status"`
	SpecialRequest  string    `db:"special_request"`
	model.Metadata
}

// BookingWithTables carries the junction rows alongside the booking itself.
type BookingWithTables struct {
	Booking
	TableIDs []string
}

// Overlaps reports whether two half-open windows intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// CanTransition reports whether a status change is part of the booking
// lifecycle. Terminal statuses never move again.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusDeclined || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled || to == StatusCompleted || to == StatusNoShow
	default:
		return false
	}
}
