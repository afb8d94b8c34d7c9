package events

import (
	"context"
	"encoding/json"
	"sync"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 16

// Hub bridges Redis pub/sub to in-process subscribers. One Redis subscription
// is held per restaurant while at least one local listener is attached, so a
// thousand websocket clients on the same restaurant cost one Redis channel.
type Hub struct {
	client *goRedis.Client

	mu      sync.Mutex
	subs    map[string]map[chan AvailabilityEvent]struct{}
	pubsubs map[string]*goRedis.PubSub
}

func NewHub(client *goRedis.Client) *Hub {
	return &Hub{
		client:  client,
		subs:    make(map[string]map[chan AvailabilityEvent]struct{}),
		pubsubs: make(map[string]*goRedis.PubSub),
	}
}

// Subscribe attaches a listener to one restaurant's availability stream. The
// returned cancel func must be called when the listener goes away. Slow
// listeners have events dropped rather than blocking the pump.
func (h *Hub) Subscribe(ctx context.Context, restaurantID string) (<-chan AvailabilityEvent, func()) {
	ch := make(chan AvailabilityEvent, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[restaurantID]; !ok {
		h.subs[restaurantID] = make(map[chan AvailabilityEvent]struct{})

		pubsub := h.client.Subscribe(ctx, Channel(restaurantID))
		h.pubsubs[restaurantID] = pubsub

		go h.pump(restaurantID, pubsub)
	}

	h.subs[restaurantID][ch] = struct{}{}

	cancel := func() {
		h.unsubscribe(restaurantID, ch)
	}

	return ch, cancel
}

func (h *Hub) unsubscribe(restaurantID string, ch chan AvailabilityEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	listeners, ok := h.subs[restaurantID]
	if !ok {
		return
	}

	if _, ok := listeners[ch]; !ok {
		return
	}

	delete(listeners, ch)
	close(ch)

	if len(listeners) == 0 {
		delete(h.subs, restaurantID)

		if pubsub, ok := h.pubsubs[restaurantID]; ok {
			delete(h.pubsubs, restaurantID)

			if err := pubsub.Close(); err != nil {
				log.Error().Err(err).Str("restaurantID", restaurantID).Msg("failed to close redis subscription")
			}
		}
	}
}

// pump forwards one restaurant's Redis messages to every local listener. It
// exits when the PubSub is closed by the last unsubscribe.
func (h *Hub) pump(restaurantID string, pubsub *goRedis.PubSub) {
	for msg := range pubsub.Channel() {
		var event AvailabilityEvent

		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Error().Err(err).Str("restaurantID", restaurantID).Msg("failed to decode availability event")

			continue
		}

		h.mu.Lock()
		for ch := range h.subs[restaurantID] {
			select {
			case ch <- event:
			default:
				log.Warn().Str("restaurantID", restaurantID).Msg("dropping availability event for slow subscriber")
			}
		}
		h.mu.Unlock()
	}
}

// Broadcast pushes an event to local listeners directly, bypassing Redis.
// Tests and single-node deployments use it.
func (h *Hub) Broadcast(event AvailabilityEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[event.RestaurantID] {
		select {
		case ch <- event:
		default:
		}
	}
}
