package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultChannel = "crmdesk:activity"

// Event is one message on the activity stream of a project.
type Event struct {
	Type      string          `json:"type"`
	ProjectID int64           `json:"project_id"`
	Payload   json.RawMessage `json:"payload"`
}

// Broker fans events out to every subscriber, possibly across processes.
type Broker interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
	Close() error
}

// NewBroker returns a redis broker when url is set and reachable, and an
// in-process broker otherwise.
func NewBroker(url string, log logrus.FieldLogger) Broker {
	if url == "" {
		return NewMemoryBroker()
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.WithError(err).Warn("invalid REDIS_URL, using in-memory activity broker")
		return NewMemoryBroker()
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.WithError(err).Warn("redis unreachable, using in-memory activity broker")
		return NewMemoryBroker()
	}

	log.Info("activity broker: redis")
	return NewRedisBroker(client, defaultChannel, log)
}

type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[chan Event]struct{})}
}

func (b *MemoryBroker) Publish(_ context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// slow subscriber
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, nil
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(ch)
	}()
	return ch, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

func (b *MemoryBroker) remove(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

type RedisBroker struct {
	client  *redis.Client
	channel string
	log     logrus.FieldLogger
}

func NewRedisBroker(client *redis.Client, channel string, log logrus.FieldLogger) *RedisBroker {
	return &RedisBroker{client: client, channel: channel, log: log}
}

func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, data).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan Event, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	out := make(chan Event, 64)
	go func() {
		defer close(out)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.WithError(err).Warn("dropping malformed activity event")
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()
	return out, nil
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
