package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/realtime/bus"
	"github.com/yungbote/coursebridge-backend/internal/services"
)

type Aggregates struct {
	LessonOrder domainagg.LessonOrderAggregate
	Completion  domainagg.CompletionAggregate
}

type Services struct {
	User       services.UserService
	Course     services.CourseService
	Lesson     services.LessonService
	Progress   services.ProgressService
	Similarity services.SimilarityService
	Events     *services.EventPublisher
}

func wireAggregates(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, r Repos) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewMetricsHooks(metrics)}
	return Aggregates{
		LessonOrder: aggregates.NewLessonOrderAggregate(aggregates.LessonOrderAggregateDeps{
			Base:    base,
			Courses: r.Course,
			Lessons: r.Lesson,
		}),
		Completion: aggregates.NewCompletionAggregate(aggregates.CompletionAggregateDeps{
			Base:        base,
			Users:       r.User,
			Lessons:     r.Lesson,
			Completions: r.Completions,
		}),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, eventBus bus.Bus, r Repos, aggs Aggregates) Services {
	log.Info("Wiring services...")
	events := services.NewEventPublisher(eventBus, log, metrics)
	return Services{
		User:     services.NewUserService(db, log, r.User),
		Course:   services.NewCourseService(db, log, r.Course, r.CourseTag, r.Lesson, r.Completions),
		Progress: services.NewProgressService(db, log, r.User, r.Course, r.CourseTag, r.Lesson, r.Completions),
		Lesson: services.NewLessonService(services.LessonServiceDeps{
			DB:          db,
			Log:         log,
			Courses:     r.Course,
			Lessons:     r.Lesson,
			Completions: r.Completions,
			Ordering:    aggs.LessonOrder,
			Ledger:      aggs.Completion,
			Events:      events,
		}),
		Similarity: services.NewSimilarityService(log, r.Course, r.CourseTag),
		Events:     events,
	}
}
