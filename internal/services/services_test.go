package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	repotest "github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/realtime/bus"
)

type fixture struct {
	db         *gorm.DB
	bus        *bus.MemoryBus
	courses    CourseService
	lessons    LessonService
	users      UserService
	progress   ProgressService
	similarity SimilarityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.DB(t)
	log := repotest.Logger(t)

	userRepo := repos.NewUserRepo(db, log)
	courseRepo := repos.NewCourseRepo(db, log)
	tagRepo := repos.NewCourseTagRepo(db, log)
	lessonRepo := repos.NewLessonRepo(db, log)
	completionRepo := repos.NewLessonCompletionRepo(db, log)

	base := aggregates.BaseDeps{
		DB:    db,
		Log:   log,
		Clock: func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	mem := bus.NewMemoryBus()
	events := NewEventPublisher(mem, log, nil)

	return &fixture{
		db:      db,
		bus:     mem,
		courses: NewCourseService(db, log, courseRepo, tagRepo, lessonRepo, completionRepo),
		lessons: NewLessonService(LessonServiceDeps{
			DB:          db,
			Log:         log,
			Courses:     courseRepo,
			Lessons:     lessonRepo,
			Completions: completionRepo,
			Ordering: aggregates.NewLessonOrderAggregate(aggregates.LessonOrderAggregateDeps{
				Base: base, Courses: courseRepo, Lessons: lessonRepo,
			}),
			Ledger: aggregates.NewCompletionAggregate(aggregates.CompletionAggregateDeps{
				Base: base, Users: userRepo, Lessons: lessonRepo, Completions: completionRepo,
			}),
			Events: events,
		}),
		users:      NewUserService(db, log, userRepo),
		progress:   NewProgressService(db, log, userRepo, courseRepo, tagRepo, lessonRepo, completionRepo),
		similarity: NewSimilarityService(log, courseRepo, tagRepo),
	}
}

func bg() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

func requireCode(t *testing.T, err error, code domainagg.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected *aggregates.Error, got %T: %v", err, err)
	}
	if aggErr.Code != code {
		t.Fatalf("error code: want=%s got=%s (%v)", code, aggErr.Code, err)
	}
}
