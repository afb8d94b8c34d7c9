package dto

import (
	"maitre/internal/domains/restaurant/model"
	"maitre/shared"
	gDto "maitre/shared/dto"
	gModel "maitre/shared/model"
	"maitre/shared/timezone"

	"github.com/google/uuid"
)

type CreateRestaurantRequest struct {
	Name              string `json:"name"                validate:"required,max=150"`
	Timezone          string `json:"timezone"            validate:"omitempty,max=64"`
	OpeningTime       string `json:"opening_time"        validate:"required"`
	ClosingTime       string `json:"closing_time"        validate:"required"`
	BookingWindowDays int    `json:"booking_window_days" validate:"omitempty,gte=1,lte=365"`
	InstantBook       bool   `json:"instant_book"`
}

func (c *CreateRestaurantRequest) ToModel(user string) model.Restaurant {
	tz := c.Timezone
	if tz == "" {
		tz = timezone.GetLocation().String()
	}

	windowDays := c.BookingWindowDays
	if windowDays == 0 {
		windowDays = 30
	}

	return model.Restaurant{
		ID:                uuid.NewString(),
		Name:              c.Name,
		Timezone:          tz,
		OpeningTime:       c.OpeningTime,
		ClosingTime:       c.ClosingTime,
		BookingWindowDays: windowDays,
		InstantBook:       c.InstantBook,
		Active:            true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRestaurantRequest struct {
	Name              string `db:"name"                json:"name"                validate:"omitempty,max=150"`
	Timezone          string `db:"timezone"            json:"timezone"            validate:"omitempty,max=64"`
	OpeningTime       string `db:"opening_time"        json:"opening_time"        validate:"omitempty"`
	ClosingTime       string `db:"closing_time"        json:"closing_time"        validate:"omitempty"`
	BookingWindowDays int    `db:"booking_window_days" json:"booking_window_days" validate:"omitempty,gte=1,lte=365"`
	InstantBook       *bool  `db:"instant_book"        json:"instant_book"        validate:"omitempty"`
	Active            *bool  `db:"active"              json:"active"              validate:"omitempty"`
}

type ShiftResponse struct {
	ID          string `json:"id"`
	DayOfWeek   int    `json:"day_of_week"`
	OpensAt     string `json:"opens_at"`
	ClosesAt    string `json:"closes_at"`
	ServiceType string `json:"service_type"`
	WalkIn      bool   `json:"walk_in"`
}

func (r *ShiftResponse) FromModel(model model.Shift) {
	r.ID = model.ID
	r.DayOfWeek = model.DayOfWeek
	r.OpensAt = model.OpensAt
	r.ClosesAt = model.ClosesAt
	r.ServiceType = model.ServiceType
	r.WalkIn = model.WalkIn
}

type RestaurantResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Timezone          string          `json:"timezone"`
	OpeningTime       string          `json:"opening_time"`
	ClosingTime       string          `json:"closing_time"`
	BookingWindowDays int             `json:"booking_window_days"`
	InstantBook       bool            `json:"instant_book"`
	Active            bool            `json:"active"`
	Shifts            []ShiftResponse `json:"shifts,omitempty"`
	gDto.Metadata
}

func (r *RestaurantResponse) FromModel(model model.Restaurant) {
	r.ID = model.ID
	r.Name = model.Name
	r.Timezone = model.Timezone
	r.OpeningTime = model.OpeningTime
	r.ClosingTime = model.ClosingTime
	r.BookingWindowDays = model.BookingWindowDays
	r.InstantBook = model.InstantBook
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

func (r *RestaurantResponse) WithShifts(shifts []model.Shift) {
	r.Shifts = make([]ShiftResponse, len(shifts))
	for i, shift := range shifts {
		r.Shifts[i].FromModel(shift)
	}
}

type GetRestaurantsResponse struct {
	Restaurants []RestaurantResponse `json:"restaurants"`
	TotalPage   int                  `json:"total_page"`
	TotalData   int                  `json:"total_data"`
}

func (r *GetRestaurantsResponse) FromModels(models []model.Restaurant, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Restaurants = make([]RestaurantResponse, len(models))
	for i, mod := range models {
		r.Restaurants[i].FromModel(mod)
	}
}
