package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSBus implements Bus on NATS subjects, letting page contexts and the
// gateway run in separate processes.
type NATSBus struct {
	conn *nats.Conn
}

// Compile-time check that NATSBus implements Bus.
var _ Bus = (*NATSBus)(nil)

// NewNATSBus connects to NATS with automatic reconnection support.
// Extra nats.Option values (e.g. disconnect/reconnect handlers) can be appended.
func NewNATSBus(url string, opts ...nats.Option) (*NATSBus, error) {
	defaults := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
	}
	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	return &NATSBus{conn: nc}, nil
}

func (b *NATSBus) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}
	return b.conn.Publish(topic, data)
}

// Subscribe returns a channel that receives raw message payloads for the
// given topic (supports NATS wildcards like "shadowgate.>"). Call the
// returned cancel function to unsubscribe and close the channel.
func (b *NATSBus) Subscribe(topic string) (<-chan []byte, func(), error) {
	ch := make(chan []byte, 64)

	var (
		mu     sync.Mutex
		closed bool
		once   sync.Once
	)

	sub, err := b.conn.Subscribe(topic, func(msg *nats.Msg) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- msg.Data:
		default:
			// Drop message if channel is full to avoid blocking the NATS client.
		}
	})
	if err != nil {
		close(ch)
		return nil, nil, fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	// Flush ensures the subscription is registered on the server before
	// returning, so that messages published on other connections are routed.
	if err := b.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		close(ch)
		return nil, nil, fmt.Errorf("flushing subscription: %w", err)
	}

	cancel := func() {
		once.Do(func() {
			_ = sub.Unsubscribe()
			mu.Lock()
			closed = true
			mu.Unlock()
			// Drain remaining messages so senders don't block, then close.
			for {
				select {
				case <-ch:
				default:
					close(ch)
					return
				}
			}
		})
	}

	return ch, cancel, nil
}

// Request performs one bounded NATS request/reply round-trip. Both "no
// responders" and a timeout map to ErrNoResponder; the caller's fallback is
// the same either way.
func (b *NATSBus) Request(ctx context.Context, topic string, data []byte, timeout time.Duration) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	msg, err := b.conn.RequestWithContext(reqCtx, topic, data)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) ||
			errors.Is(err, nats.ErrTimeout) ||
			errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrNoResponder
		}
		return nil, fmt.Errorf("request on %s: %w", topic, err)
	}
	return msg.Data, nil
}

// Respond registers a responder for Request round-trips on topic.
func (b *NATSBus) Respond(topic string, handler func(data []byte) ([]byte, error)) (func(), error) {
	sub, err := b.conn.Subscribe(topic, func(msg *nats.Msg) {
		reply, err := handler(msg.Data)
		if err != nil {
			// No reply: the requester times out and falls back.
			return
		}
		_ = msg.Respond(reply)
	})
	if err != nil {
		return nil, fmt.Errorf("responding on %s: %w", topic, err)
	}
	if err := b.conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing responder: %w", err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

func (b *NATSBus) Close() error {
	b.conn.Close()
	return nil
}
