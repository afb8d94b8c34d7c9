package dto

import (
	"time"

	"github.com/google/uuid"

	"maitre/internal/domains/rating/model"
	"maitre/shared/timezone"
)

type RecordRatingRequest struct {
	UserID       string  `json:"user_id" validate:"required,uuid"`
	RestaurantID string  `json:"restaurant_id" validate:"required,uuid"`
	BookingID    string  `json:"booking_id" validate:"required,uuid"`
	Rating       float64 `json:"rating" validate:"required,min=0.5,max=5"`
	Comment      string  `json:"comment" validate:"max=1000"`
}

func (r RecordRatingRequest) ToModel(createdBy string) model.HistoryEntry {
	return model.HistoryEntry{
		ID:           uuid.NewString(),
		UserID:       r.UserID,
		RestaurantID: r.RestaurantID,
		BookingID:    r.BookingID,
		Rating:       r.Rating,
		Comment:      r.Comment,
		CreatedAt:    timezone.Now(),
		CreatedBy:    createdBy,
	}
}

type StatsResponse struct {
	UserID            string    `json:"user_id"`
	AverageRating     float64   `json:"average_rating"`
	TotalRatings      int       `json:"total_ratings"`
	TotalBookings     int       `json:"total_bookings"`
	CompletedBookings int       `json:"completed_bookings"`
	CancelledBookings int       `json:"cancelled_bookings"`
	NoShowBookings    int       `json:"no_show_bookings"`
	LateCancellations int       `json:"late_cancellations"`
	Tier              string    `json:"tier"`
	LastRatedAt       time.Time `json:"last_rated_at"`
}

type HistoryEntryResponse struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	BookingID    string    `json:"booking_id"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r HistoryEntryResponse) FromModel(data model.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:           data.ID,
		RestaurantID: data.RestaurantID,
		BookingID:    data.BookingID,
		Rating:       data.Rating,
		Comment:      data.Comment,
		CreatedAt:    data.CreatedAt,
	}
}

// EligibilityResponse is the gate the booking flow consults before touching
// tables. Blocked guests never get CanBook; request-only guests can book but
// every booking lands as a pending request.
type EligibilityResponse struct {
	CanBook        bool   `json:"can_book"`
	CanInstantBook bool   `json:"can_instant_book"`
	Tier           string `json:"tier"`
	Reason         string `json:"reason,omitempty"`
}
