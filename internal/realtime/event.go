package realtime

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLessonCompleted        EventType = "lesson.completed"
	EventCourseLessonsReordered EventType = "course.lessons_reordered"
)

// Event is the envelope fanned out to subscribers after a write commits.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       EventType      `json:"type"`
	CourseID   uuid.UUID      `json:"courseId"`
	LessonID   *uuid.UUID     `json:"lessonId,omitempty"`
	UserID     *uuid.UUID     `json:"userId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

func NewEvent(t EventType, courseID uuid.UUID, data map[string]any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		CourseID:   courseID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) WithLesson(id uuid.UUID) Event {
	e.LessonID = &id
	return e
}

func (e Event) WithUser(id uuid.UUID) Event {
	e.UserID = &id
	return e
}
