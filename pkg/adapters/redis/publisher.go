package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Message is the payload published for every committed change.
type Message struct {
	State domain.State      `json:"state"`
	Diff  *domain.StateDiff `json:"diff"`
}

// Publisher fans committed state changes out over a Redis channel.
// It only mirrors the store; remote processes cannot dispatch through it.
type Publisher struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger

	mu          sync.Mutex
	last        domain.State
	unsubscribe func()

	// queue decouples dispatch from Redis round trips.
	queue     chan Message
	stop      chan struct{}
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// queueSize bounds the messages waiting for the worker; extra ones are dropped.
const queueSize = 64

type Option func(*Publisher)

// WithPrefix sets the channel prefix (default "tally:").
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithTimeout bounds each PUBLISH round trip.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// New creates a new Redis publisher with options.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		prefix:  "tally:",
		timeout: 2 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.queue = make(chan Message, queueSize)
	p.stop = make(chan struct{})
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			// Flush what is already queued; Close cancels p.ctx if this takes too long.
			for {
				select {
				case msg := <-p.queue:
					p.send(msg)
				default:
					return
				}
			}
		case msg := <-p.queue:
			p.send(msg)
		}
	}
}

func (p *Publisher) send(msg Message) {
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	if err := p.Publish(ctx, msg); err != nil {
		p.logger.Warn("Failed to publish state change", "channel", p.Channel(), "err", err)
	}
}

// Channel returns the Redis channel messages are published on.
func (p *Publisher) Channel() string {
	return p.prefix + "state"
}

// Attach subscribes the publisher to the store. Changes are handed to a background
// worker, so a slow or unreachable Redis never delays Dispatch. Publish failures are logged.
func (p *Publisher) Attach(store ports.Store) {
	p.mu.Lock()
	p.last = store.GetState()
	p.mu.Unlock()

	p.unsubscribe = store.Subscribe(func() {
		// State is read under p.mu so concurrent notifications cannot commit an older state last.
		p.mu.Lock()
		prev := p.last
		next := store.GetState()
		p.last = next
		diff := domain.Diff(&prev, next)
		if diff != nil {
			p.enqueue(Message{State: next, Diff: diff})
		}
		p.mu.Unlock()
	})
}

func (p *Publisher) enqueue(msg Message) {
	select {
	case <-p.stop:
	case p.queue <- msg:
	default:
		p.logger.Warn("Publish queue full, dropping state change", "channel", p.Channel(), "count", msg.State.Count)
	}
}

// Publish sends a message on the state channel.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := p.client.Publish(ctx, p.Channel(), data).Err(); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	return nil
}

// Watch subscribes to the state channel and decodes incoming messages until ctx is done.
func (p *Publisher) Watch(ctx context.Context) (<-chan Message, error) {
	sub := p.client.Subscribe(ctx, p.Channel())
	// Wait for the subscription confirmation so no message published afterwards is missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", p.Channel(), err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Close()

		in := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				var msg Message
				if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
					p.logger.Warn("Dropping undecodable message", "channel", raw.Channel, "err", err)
					continue
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close detaches from the store, flushes queued changes for at most the publish
// timeout and closes the redis client. Calls after the first return nil.
func (p *Publisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.unsubscribe != nil {
			p.unsubscribe()
		}
		close(p.stop)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(p.timeout):
			p.cancel()
			<-done
		}
		p.cancel()

		err = p.client.Close()
	})
	return err
}
