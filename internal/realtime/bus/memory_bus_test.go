package bus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/realtime"
)

func TestMemoryBusDeliversInPublishOrder(t *testing.T) {
	b := NewMemoryBus()
	var got []realtime.EventType
	if err := b.StartForwarder(context.Background(), func(ev realtime.Event) {
		got = append(got, ev.Type)
	}); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}

	courseID := uuid.New()
	_ = b.Publish(context.Background(), realtime.NewEvent(realtime.EventCourseLessonsReordered, courseID, nil))
	_ = b.Publish(context.Background(), realtime.NewEvent(realtime.EventLessonCompleted, courseID, nil))

	if len(got) != 2 || got[0] != realtime.EventCourseLessonsReordered || got[1] != realtime.EventLessonCompleted {
		t.Fatalf("delivery order: %v", got)
	}
	if n := len(b.Events()); n != 2 {
		t.Fatalf("recorded events: want=2 got=%d", n)
	}
}

func TestMemoryBusIgnoresPublishAfterClose(t *testing.T) {
	b := NewMemoryBus()
	_ = b.Close()
	if err := b.Publish(context.Background(), realtime.NewEvent(realtime.EventLessonCompleted, uuid.New(), nil)); err != nil {
		t.Fatalf("publish after close: %v", err)
	}
	if n := len(b.Events()); n != 0 {
		t.Fatalf("recorded after close: want=0 got=%d", n)
	}
}

func TestMemoryBusRejectsCancelledContext(t *testing.T) {
	b := NewMemoryBus()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Publish(ctx, realtime.NewEvent(realtime.EventLessonCompleted, uuid.New(), nil)); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestEventJSONShape(t *testing.T) {
	lessonID := uuid.New()
	ev := realtime.NewEvent(realtime.EventLessonCompleted, uuid.New(), map[string]any{"created": true}).WithLesson(lessonID)
	raw, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["type"] != "lesson.completed" || m["lessonId"] != lessonID.String() {
		t.Fatalf("unexpected payload: %s", raw)
	}
	if _, ok := m["userId"]; ok {
		t.Fatalf("userId should be omitted: %s", raw)
	}
}

func TestMemoryBusHistoryIsBounded(t *testing.T) {
	b := NewMemoryBus()
	courseID := uuid.New()
	var last realtime.Event
	for i := 0; i < memoryHistory+5; i++ {
		last = realtime.NewEvent(realtime.EventLessonCompleted, courseID, map[string]any{"i": i})
		_ = b.Publish(context.Background(), last)
	}
	events := b.Events()
	if len(events) != memoryHistory {
		t.Fatalf("history: want=%d got=%d", memoryHistory, len(events))
	}
	if events[len(events)-1].ID != last.ID {
		t.Fatalf("newest event not retained")
	}
}
