package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want domainagg.ErrorCode
	}{
		{"validation", ValidationError("bad input"), domainagg.CodeInvalidArgument},
		{"conflict", ConflictError("taken"), domainagg.CodeConflict},
		{"transient", TransientError("busy"), domainagg.CodeTransient},
		{"record not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"wrapped record not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"context canceled", context.Canceled, domainagg.CodeTransient},
		{"deadline", context.DeadlineExceeded, domainagg.CodeTransient},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, domainagg.CodeNotFound},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, domainagg.CodeTransient},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeTransient},
		{"pg lock not available", &pgconn.PgError{Code: "55P03"}, domainagg.CodeTransient},
		{"sqlite unique", errors.New("UNIQUE constraint failed: lesson.course_id, lesson.order"), domainagg.CodeConflict},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), domainagg.CodeNotFound},
		{"sqlite locked", errors.New("database is locked"), domainagg.CodeTransient},
		{"unknown", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.in)
			if !domainagg.IsCode(got, tc.want) {
				t.Fatalf("code: want=%s got=%q (%v)", tc.want, domainagg.CodeOf(got), got)
			}
			if !errors.Is(got, tc.in) {
				t.Fatalf("mapped error lost its cause: %v", got)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if err := MapError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeTransient, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}
