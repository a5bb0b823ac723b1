package services

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/realtime"
)

const (
	minLessonTitleLen   = 3
	minLessonContentLen = 10
)

type CreateLessonInput struct {
	CourseID uuid.UUID
	Title    string
	Content  string
	Order    int
	Metadata datatypes.JSON
}

// UpdateLessonInput carries a partial update. Order is accepted only when it
// equals the current order; moves go through Reorder.
type UpdateLessonInput struct {
	Title   *string
	Content *string
	Order   *int
}

type LessonDetail struct {
	Lesson      *types.Lesson
	CourseTitle string
	IsCompleted bool
}

type LessonService interface {
	Create(dbc dbctx.Context, in CreateLessonInput) (*types.Lesson, error)
	ListByCourse(dbc dbctx.Context, courseID, userID uuid.UUID) ([]LessonView, error)
	Get(dbc dbctx.Context, lessonID, userID uuid.UUID) (*LessonDetail, error)
	Update(dbc dbctx.Context, lessonID uuid.UUID, in UpdateLessonInput) (*types.Lesson, error)
	Delete(dbc dbctx.Context, lessonID uuid.UUID) error

	Reorder(dbc dbctx.Context, courseID uuid.UUID, orders []domainagg.LessonOrder) (domainagg.ReorderLessonsResult, error)
	MarkComplete(dbc dbctx.Context, lessonID, userID uuid.UUID) (domainagg.MarkLessonCompleteResult, error)
}

type lessonService struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	lessons     repos.LessonRepo
	completions repos.LessonCompletionRepo
	ordering    domainagg.LessonOrderAggregate
	ledger      domainagg.CompletionAggregate
	events      *EventPublisher
}

type LessonServiceDeps struct {
	DB          *gorm.DB
	Log         *logger.Logger
	Courses     repos.CourseRepo
	Lessons     repos.LessonRepo
	Completions repos.LessonCompletionRepo
	Ordering    domainagg.LessonOrderAggregate
	Ledger      domainagg.CompletionAggregate
	Events      *EventPublisher
}

func NewLessonService(deps LessonServiceDeps) LessonService {
	return &lessonService{
		db:          deps.DB,
		log:         deps.Log.With("service", "LessonService"),
		courses:     deps.Courses,
		lessons:     deps.Lessons,
		completions: deps.Completions,
		ordering:    deps.Ordering,
		ledger:      deps.Ledger,
		events:      deps.Events,
	}
}

func (s *lessonService) Create(dbc dbctx.Context, in CreateLessonInput) (*types.Lesson, error) {
	const op = "Catalog.Lesson.Create"
	if in.CourseID == uuid.Nil {
		return nil, domainagg.InvalidArgument(op, "missing course_id")
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Title)) < minLessonTitleLen {
		return nil, domainagg.InvalidArgument(op, "title must be at least %d characters", minLessonTitleLen)
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Content)) < minLessonContentLen {
		return nil, domainagg.InvalidArgument(op, "content must be at least %d characters", minLessonContentLen)
	}

	lesson := &types.Lesson{
		ID:       uuid.New(),
		CourseID: in.CourseID,
		Title:    strings.TrimSpace(in.Title),
		Content:  in.Content,
		Order:    in.Order,
		Metadata: in.Metadata,
	}
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		course, err := s.courses.LockByID(inner, in.CourseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domainagg.NotFound(op, "course %s not found", in.CourseID)
		}
		holder, err := s.lessons.GetByCourseAndOrder(inner, in.CourseID, in.Order)
		if err != nil {
			return err
		}
		if holder != nil {
			return domainagg.Conflict(op, "order %d is already taken by lesson %q", in.Order, holder.Title)
		}
		_, err = s.lessons.Create(inner, []*types.Lesson{lesson})
		return err
	})
	if err != nil {
		return nil, read(op, err)
	}
	return lesson, nil
}

func (s *lessonService) ListByCourse(dbc dbctx.Context, courseID, userID uuid.UUID) ([]LessonView, error) {
	const op = "Catalog.Lesson.ListByCourse"
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, read(op, err)
	}
	if course == nil {
		return nil, domainagg.NotFound(op, "course %s not found", courseID)
	}
	lessons, err := s.lessons.GetByCourseID(dbc, courseID)
	if err != nil {
		return nil, read(op, err)
	}
	done, err := completedLessonSet(dbc, s.completions, userID, lessons)
	if err != nil {
		return nil, read(op, err)
	}
	out := make([]LessonView, 0, len(lessons))
	for _, l := range lessons {
		_, ok := done[l.ID]
		out = append(out, LessonView{Lesson: l, IsCompleted: ok})
	}
	return out, nil
}

func (s *lessonService) Get(dbc dbctx.Context, lessonID, userID uuid.UUID) (*LessonDetail, error) {
	const op = "Catalog.Lesson.Get"
	lesson, err := s.lessons.GetByID(dbc, lessonID)
	if err != nil {
		return nil, read(op, err)
	}
	if lesson == nil {
		return nil, domainagg.NotFound(op, "lesson %s not found", lessonID)
	}
	course, err := s.courses.GetByID(dbc, lesson.CourseID)
	if err != nil {
		return nil, read(op, err)
	}
	out := &LessonDetail{Lesson: lesson}
	if course != nil {
		out.CourseTitle = course.Title
	}
	if userID != uuid.Nil {
		row, err := s.completions.Get(dbc, userID, lessonID)
		if err != nil {
			return nil, read(op, err)
		}
		out.IsCompleted = row != nil
	}
	return out, nil
}

func (s *lessonService) Update(dbc dbctx.Context, lessonID uuid.UUID, in UpdateLessonInput) (*types.Lesson, error) {
	const op = "Catalog.Lesson.Update"
	updates := map[string]interface{}{}
	if in.Title != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*in.Title)) < minLessonTitleLen {
			return nil, domainagg.InvalidArgument(op, "title must be at least %d characters", minLessonTitleLen)
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		if utf8.RuneCountInString(strings.TrimSpace(*in.Content)) < minLessonContentLen {
			return nil, domainagg.InvalidArgument(op, "content must be at least %d characters", minLessonContentLen)
		}
		updates["content"] = *in.Content
	}

	var updated *types.Lesson
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		lesson, err := s.lessons.GetByID(inner, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return domainagg.NotFound(op, "lesson %s not found", lessonID)
		}
		if in.Order != nil && *in.Order != lesson.Order {
			return domainagg.InvalidArgument(op, "cannot change lesson order via update, use the reorder endpoint")
		}
		if len(updates) > 0 {
			if err := s.lessons.UpdateFields(inner, lessonID, updates); err != nil {
				return err
			}
		}
		updated, err = s.lessons.GetByID(inner, lessonID)
		return err
	})
	if err != nil {
		return nil, read(op, err)
	}
	return updated, nil
}

func (s *lessonService) Delete(dbc dbctx.Context, lessonID uuid.UUID) error {
	const op = "Catalog.Lesson.Delete"
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		lesson, err := s.lessons.GetByID(inner, lessonID)
		if err != nil {
			return err
		}
		if lesson == nil {
			return domainagg.NotFound(op, "lesson %s not found", lessonID)
		}
		ids := []uuid.UUID{lessonID}
		if err := s.completions.FullDeleteByLessonIDs(inner, ids); err != nil {
			return err
		}
		return s.lessons.FullDeleteByIDs(inner, ids)
	})
	return read(op, err)
}

func (s *lessonService) Reorder(dbc dbctx.Context, courseID uuid.UUID, orders []domainagg.LessonOrder) (domainagg.ReorderLessonsResult, error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "LessonService.Reorder",
		attribute.String("course_id", courseID.String()),
		attribute.Int("lesson_orders", len(orders)),
	)
	defer span.End()

	res, err := s.ordering.ReorderLessons(ctx, domainagg.ReorderLessonsInput{CourseID: courseID, Orders: orders})
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	if res.MovedCount > 0 {
		moved := make([]string, 0, len(res.Changes))
		for _, c := range res.Changes {
			moved = append(moved, c.LessonID.String())
		}
		s.events.Publish(ctx, realtime.NewEvent(realtime.EventCourseLessonsReordered, courseID, map[string]any{
			"movedCount":   res.MovedCount,
			"totalLessons": res.TotalLessons,
			"movedLessons": moved,
		}))
	}
	s.log.Info("lessons reordered", "course_id", courseID, "moved", res.MovedCount, "total", res.TotalLessons)
	return res, nil
}

func (s *lessonService) MarkComplete(dbc dbctx.Context, lessonID, userID uuid.UUID) (domainagg.MarkLessonCompleteResult, error) {
	ctx, span := observability.StartSpan(dbc.Ctx, "LessonService.MarkComplete",
		attribute.String("lesson_id", lessonID.String()),
	)
	defer span.End()

	res, err := s.ledger.MarkLessonComplete(ctx, domainagg.MarkLessonCompleteInput{LessonID: lessonID, UserID: userID})
	if err != nil {
		span.RecordError(err)
		return res, err
	}
	span.SetAttributes(attribute.Bool("created", res.Created))
	if res.Created {
		ev := realtime.NewEvent(realtime.EventLessonCompleted, res.CourseID, map[string]any{
			"completedAt": res.Completion.CompletedAt,
		}).WithLesson(lessonID).WithUser(userID)
		s.events.Publish(ctx, ev)
	}
	return res, nil
}
