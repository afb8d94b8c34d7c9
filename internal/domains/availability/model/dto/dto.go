package dto

type ListSlotsRequest struct {
	RestaurantID    string `json:"restaurant_id" validate:"required,uuid"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	PartySize       int    `json:"party_size" validate:"required,min=1,max=100"`
	TablePreference string `json:"table_preference" validate:"omitempty,oneof=booth window patio standard bar private any"`
}

// Slot is one bookable start time. TurnTimeMinutes tells the guest how long
// the table is theirs.
type Slot struct {
	Time            string `json:"time"`
	Available       bool   `json:"available"`
	TurnTimeMinutes int    `json:"turn_time_minutes"`
	RushHour        bool   `json:"rush_hour"`
}

type ListSlotsResponse struct {
	RestaurantID string `json:"restaurant_id"`
	Date         string `json:"date"`
	PartySize    int    `json:"party_size"`
	Slots        []Slot `json:"slots"`
}
