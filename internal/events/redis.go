package events

import (
	"context"
	"encoding/json"
	"fmt"

	"maitre/config"
	"maitre/infras/kafka"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const channelPrefix = "availability:"

// Channel is the Redis pub/sub channel carrying availability events for one
// restaurant.
func Channel(restaurantID string) string {
	return channelPrefix + restaurantID
}

type redisPublisher struct {
	client *goRedis.Client
	kafka  kafka.Client
	cfg    *config.Config
}

// NewPublisher fans availability events out over Redis pub/sub for live
// subscribers and, when enabled, mirrors booking lifecycle events onto Kafka
// for downstream consumers.
func NewPublisher(client *goRedis.Client, kafkaClient kafka.Client, cfg *config.Config) Publisher {
	return &redisPublisher{
		client: client,
		kafka:  kafkaClient,
		cfg:    cfg,
	}
}

func (p *redisPublisher) PublishAvailabilityChange(ctx context.Context, event AvailabilityEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal availability event: %w", err)
	}

	if err := p.client.Publish(ctx, Channel(event.RestaurantID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish availability event: %w", err)
	}

	if p.cfg.Kafka.Enable && isLifecycle(event.Type) {
		topic := p.cfg.Kafka.TopicPrefix + "booking-events"

		if err := p.kafka.SendMessages(ctx, topic, kafka.Message{Key: event.RestaurantID, Value: event}); err != nil {
			// Kafka mirroring is best effort; live subscribers already
			// got the event.
			log.Error().Err(err).Str("topic", topic).Msg("failed to mirror availability event to kafka")
		}
	}

	return nil
}

func isLifecycle(eventType string) bool {
	switch eventType {
	case TypeBookingCreated, TypeBookingConfirmed, TypeBookingDeclined,
		TypeBookingCancelled, TypeBookingCompleted, TypeBookingNoShow:
		return true
	default:
		return false
	}
}
