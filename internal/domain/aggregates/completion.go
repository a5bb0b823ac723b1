package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var CompletionAggregateContract = Contract{
	Name:         "Progress.CompletionAggregate",
	TxOwnership:  TxOwnedByStorage,
	SerializedBy: "lesson_completion primary key (user_id, lesson_id)",
	Invariant:    "at most one completion per user and lesson",
}

// CompletionAggregate is the idempotent completion ledger.
//
// Failures are *aggregates.Error with codes:
// CodeInvalidArgument, CodeNotFound, CodeConflict, CodeTransient, CodeInternal.
type CompletionAggregate interface {
	Aggregate

	// MarkLessonComplete records the completion once. Repeated calls return the
	// existing record with Created=false.
	MarkLessonComplete(ctx context.Context, in MarkLessonCompleteInput) (MarkLessonCompleteResult, error)
}

type MarkLessonCompleteInput struct {
	LessonID uuid.UUID
	UserID   uuid.UUID
}

type Completion struct {
	UserID      uuid.UUID
	LessonID    uuid.UUID
	CompletedAt time.Time
}

type MarkLessonCompleteResult struct {
	Created    bool
	Completion Completion
	CourseID   uuid.UUID
}
