package events

//go:generate go run go.uber.org/mock/mockgen -source=./events.go -destination=./mocks/events_mock.go -package=mocks

import (
	"context"
	"time"
)

const (
	TypeSlotTaken    = "slot_taken"
	TypeSlotReleased = "slot_released"

	TypeBookingCreated   = "booking_created"
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingDeclined  = "booking_declined"
	TypeBookingCancelled = "booking_cancelled"
	TypeBookingCompleted = "booking_completed"
	TypeBookingNoShow    = "booking_no_show"

	TypeFloorPlanChanged = "floor_plan_changed"
)

// AvailabilityEvent tells listeners that open slots at a restaurant changed
// and which date to re-query. Events are advisory: correctness lives in the
// booking commit, not here.
type AvailabilityEvent struct {
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurant_id"`
	BookingID    string    `json:"booking_id,omitempty"`
	Date         string    `json:"date,omitempty"`
	PartySize    int       `json:"party_size,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishAvailabilityChange(ctx context.Context, event AvailabilityEvent) error
}
