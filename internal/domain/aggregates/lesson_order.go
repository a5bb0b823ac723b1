package aggregates

import (
	"context"

	"github.com/google/uuid"
)

var LessonOrderAggregateContract = Contract{
	Name:         "Catalog.LessonOrderAggregate",
	TxOwnership:  TxOwnedByAggregate,
	SerializedBy: "course row (SELECT ... FOR UPDATE)",
	Invariant:    "lesson order is unique within a course after every committed reorder",
}

// LessonOrderAggregate owns lesson ordering invariants within a course.
//
// Failures are *aggregates.Error with codes:
// CodeInvalidArgument, CodeNotFound, CodeConflict, CodeTransient, CodeInternal.
type LessonOrderAggregate interface {
	Aggregate

	// ReorderLessons validates the proposed orders against the whole course and
	// applies the resulting diff atomically.
	ReorderLessons(ctx context.Context, in ReorderLessonsInput) (ReorderLessonsResult, error)
}

type LessonOrder struct {
	LessonID uuid.UUID
	Order    int
}

type ReorderLessonsInput struct {
	CourseID uuid.UUID
	Orders   []LessonOrder
}

type LessonOrderChange struct {
	LessonID uuid.UUID
	Title    string
	OldOrder int
	NewOrder int
}

type OrderedLesson struct {
	Position int
	LessonID uuid.UUID
	Title    string
	Order    int
}

type ReorderLessonsResult struct {
	CourseID     uuid.UUID
	CourseTitle  string
	TotalLessons int
	MovedCount   int
	Changes      []LessonOrderChange
	FinalOrder   []OrderedLesson
}
