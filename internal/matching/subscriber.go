package matching

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// EngagementChannel is the redis channel engagement events are published on
const EngagementChannel = "matcha:engagement"

// EventSubscriber feeds engagement events published on redis to a FameRefresher
type EventSubscriber struct {
	client    *redis.Client
	channel   string
	refresher *FameRefresher
	logger    *zap.Logger
}

func NewEventSubscriber(client *redis.Client, channel string, refresher *FameRefresher, logger *zap.Logger) *EventSubscriber {
	return &EventSubscriber{
		client:    client,
		channel:   channel,
		refresher: refresher,
		logger:    logger,
	}
}

// Run consumes events until ctx is cancelled
func (s *EventSubscriber) Run(ctx context.Context) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.channel, err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := s.handleMessage(ctx, msg.Payload); err != nil {
				s.logger.Warn("engagement event dropped",
					zap.String("payload", msg.Payload),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *EventSubscriber) handleMessage(ctx context.Context, payload string) error {
	var event EngagementEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return fmt.Errorf("decode engagement event: %w", err)
	}
	if event.UserID <= 0 {
		return fmt.Errorf("engagement event without user")
	}

	_, err := s.refresher.HandleEvent(ctx, event)
	return err
}

// PublishEngagementEvent publishes an event for EventSubscriber to consume
func PublishEngagementEvent(ctx context.Context, client *redis.Client, channel string, event EngagementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode engagement event: %w", err)
	}
	if err := client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish engagement event: %w", err)
	}
	return nil
}
