package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// inprocSub is one in-process subscription; closeOnce guards the channel
// against a double close from cancel and bus Close.
type inprocSub struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *inprocSub) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// InprocBus implements Bus for single-process deployments where the page
// context and the gateway share a process. Delivery is non-blocking: slow
// subscribers drop messages, mirroring the NATS behavior.
type InprocBus struct {
	mu         sync.RWMutex
	subs       map[string]map[*inprocSub]struct{}
	responders map[string]func(data []byte) ([]byte, error)
	closed     bool
}

// Compile-time check that InprocBus implements Bus.
var _ Bus = (*InprocBus)(nil)

// NewInprocBus returns an empty in-process bus.
func NewInprocBus() *InprocBus {
	return &InprocBus{
		subs:       make(map[string]map[*inprocSub]struct{}),
		responders: make(map[string]func(data []byte) ([]byte, error)),
	}
}

func (b *InprocBus) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("bus is closed")
	}
	for sub := range b.subs[topic] {
		select {
		case sub.ch <- data:
		default:
			// Drop if the subscriber is slow.
		}
	}
	return nil
}

func (b *InprocBus) Subscribe(topic string) (<-chan []byte, func(), error) {
	sub := &inprocSub{ch: make(chan []byte, 64)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, nil, fmt.Errorf("bus is closed")
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[*inprocSub]struct{})
	}
	b.subs[topic][sub] = struct{}{}

	cancel := func() {
		b.mu.Lock()
		delete(b.subs[topic], sub)
		b.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel, nil
}

// Request calls the registered responder synchronously. An in-process
// handler either answers immediately or not at all, so the timeout never
// comes into play; an absent or failing responder fails fast with
// ErrNoResponder.
func (b *InprocBus) Request(ctx context.Context, topic string, data []byte, timeout time.Duration) ([]byte, error) {
	b.mu.RLock()
	handler, ok := b.responders[topic]
	b.mu.RUnlock()
	if !ok {
		return nil, ErrNoResponder
	}

	reply, err := handler(data)
	if err != nil {
		return nil, ErrNoResponder
	}
	return reply, nil
}

func (b *InprocBus) Respond(topic string, handler func(data []byte) ([]byte, error)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("bus is closed")
	}
	b.responders[topic] = handler

	cancel := func() {
		b.mu.Lock()
		delete(b.responders, topic)
		b.mu.Unlock()
	}
	return cancel, nil
}

func (b *InprocBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	var all []*inprocSub
	for _, subs := range b.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	b.subs = make(map[string]map[*inprocSub]struct{})
	b.responders = make(map[string]func(data []byte) ([]byte, error))
	b.mu.Unlock()

	for _, sub := range all {
		sub.close()
	}
	return nil
}
