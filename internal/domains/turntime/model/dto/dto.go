package dto

import (
	"github.com/google/uuid"

	"maitre/internal/domains/turntime/model"
	sharedModel "maitre/shared/model"
	"maitre/shared/timezone"
)

type CreateRuleRequest struct {
	RestaurantID        string `json:"restaurant_id" validate:"required,uuid"`
	PartySize           int    `json:"party_size" validate:"required,min=1,max=100"`
	DayOfWeek           *int   `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	TurnTimeMinutes     int    `json:"turn_time_minutes" validate:"required,min=15,max=600"`
	RushTurnTimeMinutes *int   `json:"rush_turn_time_minutes" validate:"omitempty,min=15,max=600"`
}

func (r CreateRuleRequest) ToModel(createdBy string) model.Rule {
	now := timezone.Now()
	return model.Rule{
		ID:                  uuid.NewString(),
		RestaurantID:        r.RestaurantID,
		PartySize:           r.PartySize,
		DayOfWeek:           r.DayOfWeek,
		TurnTimeMinutes:     r.TurnTimeMinutes,
		RushTurnTimeMinutes: r.RushTurnTimeMinutes,
		Metadata: sharedModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  createdBy,
			ModifiedBy: createdBy,
		},
	}
}

type RuleResponse struct {
	ID                  string `json:"id"`
	RestaurantID        string `json:"restaurant_id"`
	PartySize           int    `json:"party_size"`
	DayOfWeek           *int   `json:"day_of_week"`
	TurnTimeMinutes     int    `json:"turn_time_minutes"`
	RushTurnTimeMinutes *int   `json:"rush_turn_time_minutes"`
}

func (r RuleResponse) FromModel(data model.Rule) RuleResponse {
	return RuleResponse{
		ID:                  data.ID,
		RestaurantID:        data.RestaurantID,
		PartySize:           data.PartySize,
		DayOfWeek:           data.DayOfWeek,
		TurnTimeMinutes:     data.TurnTimeMinutes,
		RushTurnTimeMinutes: data.RushTurnTimeMinutes,
	}
}

// ResolutionResponse reports the minutes a party will hold its table at a
// given time, along with where the number came from.
type ResolutionResponse struct {
	TurnTimeMinutes int    `json:"turn_time_minutes"`
	Source          string `json:"source"`
	RushHour        bool   `json:"rush_hour"`
	Summary         string `json:"summary"`
}
