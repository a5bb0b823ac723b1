package aggregates

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
)

type CompletionAggregateDeps struct {
	Base BaseDeps

	Users       repos.UserRepo
	Lessons     repos.LessonRepo
	Completions repos.LessonCompletionRepo
}

type completionAggregate struct {
	deps CompletionAggregateDeps
}

func NewCompletionAggregate(deps CompletionAggregateDeps) domainagg.CompletionAggregate {
	deps.Base = deps.Base.withDefaults()
	return &completionAggregate{deps: deps}
}

func (a *completionAggregate) Contract() domainagg.Contract {
	return domainagg.CompletionAggregateContract
}

func (a *completionAggregate) MarkLessonComplete(ctx context.Context, in domainagg.MarkLessonCompleteInput) (domainagg.MarkLessonCompleteResult, error) {
	const op = "Progress.Completion.MarkLessonComplete"
	var out domainagg.MarkLessonCompleteResult
	if in.LessonID == uuid.Nil {
		return out, domainagg.InvalidArgument(op, "missing lesson_id")
	}
	if in.UserID == uuid.Nil {
		return out, domainagg.InvalidArgument(op, "missing user_id")
	}
	if a.deps.Users == nil || a.deps.Lessons == nil || a.deps.Completions == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "completion aggregate repos not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		lesson, err := a.deps.Lessons.GetByID(dbc, in.LessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return domainagg.NotFound(op, "lesson not found: %s", in.LessonID)
		}
		user, err := a.deps.Users.GetByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return domainagg.NotFound(op, "user not found: %s", in.UserID)
		}

		row := &types.LessonCompletion{
			UserID:      in.UserID,
			LessonID:    in.LessonID,
			CompletedAt: a.deps.Base.now(),
		}
		inserted, err := a.deps.Completions.CreateIgnoreDuplicates(dbc, []*types.LessonCompletion{row})
		if err != nil {
			return err
		}
		if inserted == 0 {
			existing, err := a.deps.Completions.Get(dbc, in.UserID, in.LessonID)
			if err != nil {
				return err
			}
			if existing == nil {
				return TransientError("completion skipped as duplicate but not readable yet")
			}
			row = existing
		}

		out = domainagg.MarkLessonCompleteResult{
			Created: inserted > 0,
			Completion: domainagg.Completion{
				UserID:      row.UserID,
				LessonID:    row.LessonID,
				CompletedAt: row.CompletedAt.UTC(),
			},
			CourseID: lesson.CourseID,
		}
		return nil
	})
	if err != nil {
		return domainagg.MarkLessonCompleteResult{}, err
	}
	return out, nil
}
