package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"leadgenius_backend/platform/logger"
)

type pingEvent struct {
	Meta
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishSyncJoinsErrorsAndRecoversPanics(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls int32

	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("first failed")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		panic("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	err := bus.PublishSync(context.Background(), pingEvent{Meta: NewMeta()})
	if err == nil {
		t.Fatal("expected joined error")
	}
	if calls != 3 {
		t.Fatalf("expected all 3 handlers to run, got %d", calls)
	}
}

func TestPublishRunsAsyncHandlers(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls int32
	for i := 0; i < 4; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, e Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{Meta: NewMeta()})
	cancel()
	bus.Wait()

	if atomic.LoadInt32(&calls) != 4 {
		t.Fatalf("expected 4 async calls, got %d", calls)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	if err := bus.PublishSync(context.Background(), pingEvent{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestNewMetaStampsIDAndUTC(t *testing.T) {
	a, b := NewMeta(), NewMeta()
	if a.EventID == b.EventID {
		t.Fatalf("expected distinct event IDs, got %s twice", a.EventID)
	}
	if a.OccurredAt().Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %s", a.OccurredAt().Location())
	}
}
