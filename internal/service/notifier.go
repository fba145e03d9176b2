package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/stanionascu/lemmy/internal/domain"
)

const updatesChannel = "updates"

// Notifier publishes local update events after the apply layer mutates
// state. Connected sessions receive them through the realtime
// endpoint; ordering and delivery past this point are out of scope.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(redisClient *redis.Client) *Notifier {
	return &Notifier{
		rdb: redisClient,
	}
}

func (s *Notifier) Publish(ctx context.Context, event domain.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, updatesChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Stream subscribes to the update channel and forwards decoded events
// until ctx is cancelled.
func (s *Notifier) Stream(ctx context.Context, output chan<- domain.Event) error {
	pubsub := s.rdb.Subscribe(ctx, updatesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
