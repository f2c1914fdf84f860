package pubsub

//go:generate go run go.uber.org/mock/mockgen -source=./pubsub.go -destination=./mocks/pubsub_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"purohit/infras/otel"
	"purohit/shared/constant"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelTopicAttribute = "pubsub.topic"
	subscriptionBuffer = 64
)

var ErrClosed = errors.New("subscription closed")

// Message is one payload delivered on a topic.
type Message struct {
	Topic   string
	Payload []byte
}

// Decode unmarshals the payload into value.
func (m Message) Decode(value any) error {
	if err := json.Unmarshal(m.Payload, value); err != nil {
		return fmt.Errorf("failed to decode message on %s: %w", m.Topic, err)
	}

	return nil
}

type Bus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(ctx context.Context, topics ...string) (Subscription, error)
}

type Subscription interface {
	Messages() <-chan Message
	Close() error
}

// Topic joins topic segments with ":".
func Topic(parts ...string) string {
	return strings.Join(parts, ":")
}

type redisBus struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisBus(client *redis.Client, ot otel.Otel) Bus {
	return &redisBus{
		client: client,
		otel:   ot,
	}
}

func (bus *redisBus) Publish(ctx context.Context, topic string, payload any) (err error) {
	ctx, scope := bus.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(otelTopicAttribute, topic)

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err = bus.client.Publish(ctx, topic, data).Err(); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish message")

		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

// Subscribe returns once redis has confirmed the subscription, so no message
// published after it returns is missed.
func (bus *redisBus) Subscribe(ctx context.Context, topics ...string) (Subscription, error) {
	ps := bus.client.Subscribe(ctx, topics...)

	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		log.Error().Err(err).Strs("topics", topics).Msg("failed to subscribe")

		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	sub := &redisSubscription{
		ps:  ps,
		out: make(chan Message, subscriptionBuffer),
	}
	go sub.pump()

	return sub, nil
}

type redisSubscription struct {
	ps  *redis.PubSub
	out chan Message
}

func (s *redisSubscription) pump() {
	defer close(s.out)

	for msg := range s.ps.Channel() {
		s.out <- Message{Topic: msg.Channel, Payload: []byte(msg.Payload)}
	}
}

func (s *redisSubscription) Messages() <-chan Message {
	return s.out
}

func (s *redisSubscription) Close() error {
	if err := s.ps.Close(); err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}

	return nil
}
