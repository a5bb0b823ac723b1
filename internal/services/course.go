package services

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/domain/learning"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

const (
	minCourseTitleLen       = 3
	minCourseDescriptionLen = 10
)

type CreateCourseInput struct {
	Title       string
	Description string
	Tags        []string
	Metadata    datatypes.JSON
}

// UpdateCourseInput carries a partial update. Nil fields are left untouched;
// a non-nil Tags replaces the whole tag set.
type UpdateCourseInput struct {
	Title       *string
	Description *string
	Tags        *[]string
}

type LessonView struct {
	Lesson      *types.Lesson
	IsCompleted bool
}

// CourseDetail is a course with its tags, its lessons ascending by order and
// the caller's progress through it.
type CourseDetail struct {
	Course   *types.Course
	Tags     []string
	Lessons  []LessonView
	Progress types.ProgressView
}

type CourseService interface {
	Create(dbc dbctx.Context, in CreateCourseInput) (*CourseDetail, error)
	Get(dbc dbctx.Context, courseID, userID uuid.UUID) (*CourseDetail, error)
	Update(dbc dbctx.Context, courseID uuid.UUID, in UpdateCourseInput) (*CourseDetail, error)
	Delete(dbc dbctx.Context, courseID uuid.UUID) error
}

type courseService struct {
	db          *gorm.DB
	log         *logger.Logger
	courses     repos.CourseRepo
	tags        repos.CourseTagRepo
	lessons     repos.LessonRepo
	completions repos.LessonCompletionRepo
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courses repos.CourseRepo,
	tags repos.CourseTagRepo,
	lessons repos.LessonRepo,
	completions repos.LessonCompletionRepo,
) CourseService {
	return &courseService{
		db:          db,
		log:         baseLog.With("service", "CourseService"),
		courses:     courses,
		tags:        tags,
		lessons:     lessons,
		completions: completions,
	}
}

func validateCourseTitle(op, title string) error {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < minCourseTitleLen {
		return domainagg.InvalidArgument(op, "title must be at least %d characters", minCourseTitleLen)
	}
	return nil
}

func validateCourseDescription(op, description string) error {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < minCourseDescriptionLen {
		return domainagg.InvalidArgument(op, "description must be at least %d characters", minCourseDescriptionLen)
	}
	return nil
}

func (s *courseService) Create(dbc dbctx.Context, in CreateCourseInput) (*CourseDetail, error) {
	const op = "Catalog.Course.Create"
	if err := validateCourseTitle(op, in.Title); err != nil {
		return nil, err
	}
	if err := validateCourseDescription(op, in.Description); err != nil {
		return nil, err
	}
	tags := learning.NormalizeTags(in.Tags)
	course := &types.Course{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Metadata:    in.Metadata,
	}

	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		if _, err := s.courses.Create(inner, []*types.Course{course}); err != nil {
			return err
		}
		return s.tags.ReplaceForCourse(inner, course.ID, tags)
	})
	if err != nil {
		s.log.Error("create course failed", "error", err)
		return nil, read(op, err)
	}
	s.log.Info("course created", "course_id", course.ID, "tags", len(tags))
	return &CourseDetail{
		Course:   course,
		Tags:     sortedTags(tags),
		Lessons:  []LessonView{},
		Progress: types.ProgressView{},
	}, nil
}

func (s *courseService) Get(dbc dbctx.Context, courseID, userID uuid.UUID) (*CourseDetail, error) {
	const op = "Catalog.Course.Get"
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return nil, read(op, err)
	}
	if course == nil {
		return nil, domainagg.NotFound(op, "course %s not found", courseID)
	}
	return s.detail(dbc, op, course, userID)
}

func (s *courseService) detail(dbc dbctx.Context, op string, course *types.Course, userID uuid.UUID) (*CourseDetail, error) {
	tagRows, err := s.tags.GetByCourseID(dbc, course.ID)
	if err != nil {
		return nil, read(op, err)
	}
	lessons, err := s.lessons.GetByCourseID(dbc, course.ID)
	if err != nil {
		return nil, read(op, err)
	}
	done, err := completedLessonSet(dbc, s.completions, userID, lessons)
	if err != nil {
		return nil, read(op, err)
	}

	views := make([]LessonView, 0, len(lessons))
	for _, l := range lessons {
		_, ok := done[l.ID]
		views = append(views, LessonView{Lesson: l, IsCompleted: ok})
	}
	tags := make([]string, 0, len(tagRows))
	for _, t := range tagRows {
		tags = append(tags, t.Tag)
	}
	return &CourseDetail{
		Course:   course,
		Tags:     tags,
		Lessons:  views,
		Progress: learning.NewProgressView(len(done), len(lessons)),
	}, nil
}

func (s *courseService) Update(dbc dbctx.Context, courseID uuid.UUID, in UpdateCourseInput) (*CourseDetail, error) {
	const op = "Catalog.Course.Update"
	updates := map[string]interface{}{}
	if in.Title != nil {
		if err := validateCourseTitle(op, *in.Title); err != nil {
			return nil, err
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if err := validateCourseDescription(op, *in.Description); err != nil {
			return nil, err
		}
		updates["description"] = strings.TrimSpace(*in.Description)
	}

	var updated *types.Course
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		course, err := s.courses.LockByID(inner, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domainagg.NotFound(op, "course %s not found", courseID)
		}
		if len(updates) > 0 {
			if err := s.courses.UpdateFields(inner, courseID, updates); err != nil {
				return err
			}
		}
		if in.Tags != nil {
			if err := s.tags.ReplaceForCourse(inner, courseID, learning.NormalizeTags(*in.Tags)); err != nil {
				return err
			}
		}
		updated, err = s.courses.GetByID(inner, courseID)
		return err
	})
	if err != nil {
		return nil, read(op, err)
	}
	return s.detail(dbc, op, updated, uuid.Nil)
}

// Delete removes the course with its lessons, tags and completions.
func (s *courseService) Delete(dbc dbctx.Context, courseID uuid.UUID) error {
	const op = "Catalog.Course.Delete"
	err := inTx(dbc, s.db, func(inner dbctx.Context) error {
		course, err := s.courses.LockByID(inner, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return domainagg.NotFound(op, "course %s not found", courseID)
		}
		ids := []uuid.UUID{courseID}
		if err := s.completions.FullDeleteByCourseIDs(inner, ids); err != nil {
			return err
		}
		if err := s.lessons.FullDeleteByCourseIDs(inner, ids); err != nil {
			return err
		}
		if err := s.tags.FullDeleteByCourseIDs(inner, ids); err != nil {
			return err
		}
		return s.courses.FullDeleteByIDs(inner, ids)
	})
	if err != nil {
		return read(op, err)
	}
	s.log.Info("course deleted", "course_id", courseID)
	return nil
}

// completedLessonSet returns which of lessons userID has completed, in one
// query. Anonymous callers complete nothing.
func completedLessonSet(dbc dbctx.Context, completions repos.LessonCompletionRepo, userID uuid.UUID, lessons []*types.Lesson) (map[uuid.UUID]struct{}, error) {
	done := map[uuid.UUID]struct{}{}
	if userID == uuid.Nil || len(lessons) == 0 {
		return done, nil
	}
	ids := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	rows, err := completions.GetByUserAndLessonIDs(dbc, userID, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		done[r.LessonID] = struct{}{}
	}
	return done, nil
}

func sortedTags(tags []string) []string {
	out := append([]string{}, tags...)
	slices.Sort(out)
	return out
}
