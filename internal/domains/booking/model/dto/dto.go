package dto

import (
	"time"

	"maitre/internal/domains/booking/model"
	"maitre/shared"
	"maitre/shared/constant"
	gDto "maitre/shared/dto"
)

type CreateBookingRequest struct {
	RestaurantID    string `json:"restaurant_id" validate:"required,uuid"`
	GuestName       string `json:"guest_name" validate:"required,max=100"`
	GuestPhone      string `json:"guest_phone" validate:"omitempty,max=20"`
	PartySize       int    `json:"party_size" validate:"required,min=1,max=100"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	TablePreference string `json:"table_preference" validate:"omitempty,oneof=booth window patio standard bar private any"`
	SpecialRequest  string `json:"special_request" validate:"max=500"`
}

// SlotTime combines the requested date and time in the restaurant's location.
func (c CreateBookingRequest) SlotTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constant.DateOnlyFormat+" "+constant.TimeOnlyFormat, c.Date+" "+c.Time, loc)
}

// ValidateAssignmentRequest asks whether an explicit seating works for a
// party at a slot, without committing anything. Floor managers use it when
// overriding the automatic assignment.
type ValidateAssignmentRequest struct {
	RestaurantID string   `json:"restaurant_id" validate:"required,uuid"`
	TableIDs     []string `json:"table_ids" validate:"required,min=1,max=3,dive,uuid"`
	PartySize    int      `json:"party_size" validate:"required,min=1,max=100"`
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string   `json:"time" validate:"required,datetime=15:04"`
}

func (v ValidateAssignmentRequest) SlotTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constant.DateOnlyFormat+" "+constant.TimeOnlyFormat, v.Date+" "+v.Time, loc)
}

type ValidateAssignmentResponse struct {
	Valid                 bool     `json:"valid"`
	Reason                string   `json:"reason,omitempty"`
	TotalCapacity         int      `json:"total_capacity"`
	ConflictingBookingIDs []string `json:"conflicting_booking_ids,omitempty"`
}

type UpdateBookingRequest struct {
	GuestName      string `db:"guest_name" json:"guest_name" validate:"omitempty,max=100"`
	GuestPhone     string `db:"guest_phone" json:"guest_phone" validate:"omitempty,max=20"`
	SpecialRequest string `db:"special_request" json:"special_request" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID              string   `json:"id"`
	RestaurantID    string   `json:"restaurant_id"`
	UserID          string   `json:"user_id"`
	GuestName       string   `json:"guest_name"`
	GuestPhone      string   `json:"guest_phone"`
	PartySize       int      `json:"party_size"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	EndTime         string   `json:"end_time"`
	TurnTimeMinutes int      `json:"turn_time_minutes"`
	Status          string   `json:"status"`
	SpecialRequest  string   `json:"special_request"`
	TableIDs        []string `json:"table_ids"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(data model.BookingWithTables) {
	r.ID = data.ID
	r.RestaurantID = data.RestaurantID
	r.UserID = data.UserID
	r.GuestName = data.GuestName
	r.GuestPhone = data.GuestPhone
	r.PartySize = data.PartySize
	r.Date = data.StartsAt.Format(constant.DateOnlyFormat)
	r.Time = data.StartsAt.Format(constant.TimeOnlyFormat)
	r.EndTime = data.EndsAt.Format(constant.TimeOnlyFormat)
	r.TurnTimeMinutes = data.TurnTimeMinutes
	r.Status = data.Status
	r.SpecialRequest = data.SpecialRequest
	r.TableIDs = data.TableIDs
	r.Metadata.FromModel(data.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.BookingWithTables, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
