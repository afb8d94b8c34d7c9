package model

import "time"

const (
	StatsTableName  = "user_rating_stats"
	StatsEntityName = "user_rating_stats"

	HistoryTableName  = "user_rating_history"
	HistoryEntityName = "user_rating_history"

	FieldID     = "id"
	FieldUserID = "user_id"

	FieldCompletedBookings = "completed_bookings"
	FieldCancelledBookings = "cancelled_bookings"
	FieldNoShowBookings    = "no_show_bookings"
	FieldLateCancellations = "late_cancellations"
)

// Booking outcomes folded into a guest's behavioral counters.
const (
	OutcomeCompleted = "completed"
	OutcomeCancelled = "cancelled"
	OutcomeNoShow    = "no_show"
)

const (
	TierUnrestricted = "unrestricted"
	TierRequestOnly  = "request_only"
	TierBlocked      = "blocked"
)

// Stats is a guest's reliability record: the rolling rating restaurants
// leave plus the behavioral counters their bookings accumulate. Guests with
// no row yet are treated as having the initial rating.
type Stats struct {
	UserID            string    `db:"user_id"`
	AverageRating     float64   `db:"average_rating"`
	TotalRatings      int       `db:"total_ratings"`
	TotalBookings     int       `db:"total_bookings"`
	CompletedBookings int       `db:"completed_bookings"`
	CancelledBookings int       `db:"cancelled_bookings"`
	NoShowBookings    int       `db:"no_show_bookings"`
	LateCancellations int       `db:"late_cancellations"`
	LastRatedAt       time.Time `db:"last_rated_at"`
	CreatedAt         time.Time `db:"created_at"`
	ModifiedAt        time.Time `db:"modified_at"`
}

// Strikes counts the behaviors that burn tables: not showing up, or
// cancelling too close to the slot to resell it.
func (s Stats) Strikes() int {
	return s.NoShowBookings + s.LateCancellations
}

// HistoryEntry is one rating a restaurant left after a visit.
type HistoryEntry struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	RestaurantID string    `db:"restaurant_id"`
	BookingID    string    `db:"booking_id"`
	Rating       float64   `db:"rating"`
	Comment      string    `db:"comment"`
	CreatedAt    time.Time `db:"created_at"`
	CreatedBy    string    `db:"created_by"`
}
