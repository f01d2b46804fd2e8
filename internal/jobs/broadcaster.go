package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vibecut/daemon/internal/platform/logger"
)

// Broadcaster fans Event out to subscribers over a bounded buffer.
// Delivery is lossy on lag: a lagged subscriber simply misses events
// rather than blocking the publisher.
type Broadcaster interface {
	Subscribe() (ch <-chan Event, cancel func())
	Publish(e Event)
	Close() error
}

const subscriberBuffer = 1024

// inprocBroadcaster is the default backend: an in-memory fan-out, the
// right shape when the scheduler and the HTTP server share one
// process. Uses the same non-blocking-send-with-drop-warning idiom as
// SSE client delivery.
type inprocBroadcaster struct {
	mu   sync.RWMutex
	log  *logger.Logger
	subs map[chan Event]struct{}
}

func NewInprocBroadcaster(log *logger.Logger) Broadcaster {
	return &inprocBroadcaster{
		log:  log.With("component", "JobBroadcaster"),
		subs: make(map[chan Event]struct{}),
	}
}

func (b *inprocBroadcaster) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *inprocBroadcaster) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.log.Warn("dropping job event; subscriber buffer full", "kind", e.Kind, "job_id", e.JobID)
		}
	}
}

func (b *inprocBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		close(ch)
	}
	b.subs = make(map[chan Event]struct{})
	return nil
}

// redisBroadcaster fans events out over a Redis pub/sub channel, used
// when the HTTP server and scheduler run as separate OS processes
// sharing one sqlite file: dial and ping on construct, subscribe once,
// forward every received message to local in-process subscribers.
type redisBroadcaster struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	local   Broadcaster // local subscribers still get an in-process fan-out
}

func NewRedisBroadcaster(ctx context.Context, log *logger.Logger, addr, channel string) (Broadcaster, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("redis broadcaster: addr required")
	}
	if strings.TrimSpace(channel) == "" {
		channel = "vibecut:job_events"
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr, DialTimeout: 5 * time.Second})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	b := &redisBroadcaster{
		log:     log.With("component", "RedisJobBroadcaster"),
		rdb:     rdb,
		channel: channel,
		local:   NewInprocBroadcaster(log),
	}

	sub := rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}
	go b.forward(ctx, sub)
	return b, nil
}

func (b *redisBroadcaster) forward(ctx context.Context, sub *goredis.PubSub) {
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			_ = sub.Close()
			return
		case m, ok := <-ch:
			if !ok || m == nil {
				_ = sub.Close()
				return
			}
			var e Event
			if err := json.Unmarshal([]byte(m.Payload), &e); err != nil {
				b.log.Warn("bad redis job event payload", "error", err)
				continue
			}
			b.local.Publish(e)
		}
	}
}

func (b *redisBroadcaster) Subscribe() (<-chan Event, func()) { return b.local.Subscribe() }

func (b *redisBroadcaster) Publish(e Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		b.log.Warn("failed to marshal job event", "error", err)
		return
	}
	if err := b.rdb.Publish(context.Background(), b.channel, raw).Err(); err != nil {
		b.log.Warn("failed to publish job event to redis", "error", err)
	}
}

func (b *redisBroadcaster) Close() error {
	_ = b.local.Close()
	return b.rdb.Close()
}
