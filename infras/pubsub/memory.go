package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Bus. Delivery to a slow subscriber drops the
// message instead of blocking the publisher.
type Memory struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]*memorySubscription
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[int]*memorySubscription)}
}

func (m *Memory) Publish(_ context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs {
		if !sub.topics[topic] {
			continue
		}

		select {
		case sub.out <- Message{Topic: topic, Payload: data}:
		default:
		}
	}

	return nil
}

func (m *Memory) Subscribe(_ context.Context, topics ...string) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &memorySubscription{
		bus:    m,
		id:     m.nextID,
		topics: make(map[string]bool, len(topics)),
		out:    make(chan Message, subscriptionBuffer),
	}
	for _, topic := range topics {
		sub.topics[topic] = true
	}

	m.subs[sub.id] = sub
	m.nextID++

	return sub, nil
}

type memorySubscription struct {
	bus    *Memory
	id     int
	topics map[string]bool
	out    chan Message
	once   sync.Once
}

func (s *memorySubscription) Messages() <-chan Message {
	return s.out
}

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		delete(s.bus.subs, s.id)
		s.bus.mu.Unlock()
		close(s.out)
	})

	return nil
}
