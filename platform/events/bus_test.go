package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/segmentio/kafka-go"

	"stayfinder_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	Name string `json:"name"`
}

func (testEvent) EventName() string { return "test.happened" }

func TestInMemoryBusPublishSyncRunsSpecificAndWildcard(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var specific, wildcard int32

	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&specific, 1)
		return nil
	}))
	bus.Subscribe(Wildcard, HandlerFunc(func(context.Context, Event) error {
		atomic.AddInt32(&wildcard, 1)
		return nil
	}))
	bus.Subscribe("other", HandlerFunc(func(context.Context, Event) error {
		t.Fatalf("handler for other event must not run")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specific != 1 || wildcard != 1 {
		t.Fatalf("expected both handlers once, got specific=%d wildcard=%d", specific, wildcard)
	}
}

func TestInMemoryBusRecoversPanicsAndJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	boom := errors.New("boom")

	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error { panic("bad handler") }))
	bus.Subscribe("test.happened", HandlerFunc(func(context.Context, Event) error { return boom }))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom in joined error, got %v", err)
	}
}

func TestInMemoryBusPublishAsync(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls int32
	bus.Subscribe("test.happened", HandlerFunc(func(ctx context.Context, _ Event) error {
		if ctx.Err() != nil {
			t.Errorf("handler context should not be cancelled")
		}
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected async handler to run once, got %d", calls)
	}
}

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaForwarderWritesEnvelope(t *testing.T) {
	writer := &recordingWriter{}
	forwarder := NewKafkaForwarder(writer)

	if err := forwarder.Handle(context.Background(), testEvent{BaseEvent: NewBaseEvent(), Name: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(writer.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(writer.messages))
	}
	msg := writer.messages[0]
	if string(msg.Key) != "test.happened" {
		t.Fatalf("unexpected key %q", msg.Key)
	}

	var decoded struct {
		Name    string          `json:"name"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded.Name != "test.happened" || len(decoded.Payload) == 0 {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
}
