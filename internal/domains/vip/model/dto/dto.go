package dto

import (
	"time"

	"github.com/google/uuid"

	"maitre/internal/domains/vip/model"
	sharedModel "maitre/shared/model"
	"maitre/shared/timezone"
)

type GrantVIPRequest struct {
	RestaurantID        string     `json:"restaurant_id" validate:"required,uuid"`
	UserID              string     `json:"user_id" validate:"required,uuid"`
	ExtendedBookingDays int        `json:"extended_booking_days" validate:"required,min=1,max=365"`
	PriorityBooking     bool       `json:"priority_booking"`
	ValidUntil          *time.Time `json:"valid_until"`
	Notes               string     `json:"notes" validate:"max=500"`
}

func (r GrantVIPRequest) ToModel(createdBy string) model.VIPStatus {
	now := timezone.Now()
	return model.VIPStatus{
		ID:                  uuid.NewString(),
		RestaurantID:        r.RestaurantID,
		UserID:              r.UserID,
		ExtendedBookingDays: r.ExtendedBookingDays,
		PriorityBooking:     r.PriorityBooking,
		ValidUntil:          r.ValidUntil,
		Notes:               r.Notes,
		Metadata: sharedModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type VIPStatusResponse struct {
	ID                  string     `json:"id"`
	RestaurantID        string     `json:"restaurant_id"`
	UserID              string     `json:"user_id"`
	ExtendedBookingDays int        `json:"extended_booking_days"`
	PriorityBooking     bool       `json:"priority_booking"`
	ValidUntil          *time.Time `json:"valid_until"`
	Notes               string     `json:"notes"`
}

func (r VIPStatusResponse) FromModel(data model.VIPStatus) VIPStatusResponse {
	return VIPStatusResponse{
		ID:                  data.ID,
		RestaurantID:        data.RestaurantID,
		UserID:              data.UserID,
		ExtendedBookingDays: data.ExtendedBookingDays,
		PriorityBooking:     data.PriorityBooking,
		ValidUntil:          data.ValidUntil,
		Notes:               data.Notes,
	}
}

// CheckStatusResponse is what the booking flow asks for: whether the guest is
// a VIP here, how far out they may book and what comes with the status.
type CheckStatusResponse struct {
	IsVIP          bool     `json:"is_vip"`
	MaxBookingDays int      `json:"max_booking_days"`
	Benefits       []string `json:"benefits"`
}
