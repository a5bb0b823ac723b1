package services

import (
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/domain/learning"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

const (
	DefaultPageLimit     = 10
	MaxPageLimit         = 100
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100
)

type ListCoursesInput struct {
	Page   int
	Limit  int
	Search string
	Tag    string
}

type CourseListItem struct {
	Course               *types.Course
	Tags                 []string
	LessonCount          int
	CompletionPercentage int
}

type PageMeta struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

type CoursePage struct {
	Items []CourseListItem
	Meta  PageMeta
}

type UserStatsView struct {
	User       *types.User
	Statistics types.UserStatistics
	Courses    []types.CourseProgress
}

// ProgressService derives progress views from the completion ledger on every
// call. Nothing here is cached.
type ProgressService interface {
	CourseProgress(dbc dbctx.Context, courseID, userID uuid.UUID) (types.CourseProgress, error)
	ListCourses(dbc dbctx.Context, userID uuid.UUID, in ListCoursesInput) (*CoursePage, error)
	UserStats(dbc dbctx.Context, userID uuid.UUID) (*UserStatsView, error)
	RecentActivity(dbc dbctx.Context, userID uuid.UUID, limit int) ([]types.ActivityEntry, error)
}

type progressService struct {
	db          *gorm.DB
	log         *logger.Logger
	users       repos.UserRepo
	courses     repos.CourseRepo
	tags        repos.CourseTagRepo
	lessons     repos.LessonRepo
	completions repos.LessonCompletionRepo
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	users repos.UserRepo,
	courses repos.CourseRepo,
	tags repos.CourseTagRepo,
	lessons repos.LessonRepo,
	completions repos.LessonCompletionRepo,
) ProgressService {
	return &progressService{
		db:          db,
		log:         baseLog.With("service", "ProgressService"),
		users:       users,
		courses:     courses,
		tags:        tags,
		lessons:     lessons,
		completions: completions,
	}
}

func (s *progressService) CourseProgress(dbc dbctx.Context, courseID, userID uuid.UUID) (types.CourseProgress, error) {
	const op = "Progress.Aggregator.CourseProgress"
	course, err := s.courses.GetByID(dbc, courseID)
	if err != nil {
		return types.CourseProgress{}, read(op, err)
	}
	if course == nil {
		return types.CourseProgress{}, domainagg.NotFound(op, "course %s not found", courseID)
	}
	ids := []uuid.UUID{courseID}
	totals, err := s.lessons.CountByCourseIDs(dbc, ids)
	if err != nil {
		return types.CourseProgress{}, read(op, err)
	}
	completed := 0
	if userID != uuid.Nil {
		done, err := s.completions.CountByUserAndCourseIDs(dbc, userID, ids)
		if err != nil {
			return types.CourseProgress{}, read(op, err)
		}
		completed = done[courseID]
	}
	return types.CourseProgress{
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		ProgressView: learning.NewProgressView(completed, totals[courseID]),
	}, nil
}

func (s *progressService) ListCourses(dbc dbctx.Context, userID uuid.UUID, in ListCoursesInput) (*CoursePage, error) {
	const op = "Progress.Aggregator.ListCourses"
	page, limit := in.Page, in.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if page < 1 {
		return nil, domainagg.InvalidArgument(op, "page must be at least 1")
	}
	if limit < 1 || limit > MaxPageLimit {
		return nil, domainagg.InvalidArgument(op, "limit must be between 1 and %d", MaxPageLimit)
	}

	courses, total, err := s.courses.List(dbc, repos.CourseListFilter{
		Search: in.Search,
		Tag:    in.Tag,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, read(op, err)
	}
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	var (
		lessonCounts map[uuid.UUID]int
		doneCounts   map[uuid.UUID]int
		tagRows      []*types.CourseTag
	)
	if len(ids) > 0 {
		if err := s.loadPageCounts(dbc, userID, ids, &lessonCounts, &doneCounts, &tagRows); err != nil {
			return nil, read(op, err)
		}
	}
	tagsByCourse := make(map[uuid.UUID][]string, len(ids))
	for _, t := range tagRows {
		tagsByCourse[t.CourseID] = append(tagsByCourse[t.CourseID], t.Tag)
	}

	items := make([]CourseListItem, 0, len(courses))
	for _, c := range courses {
		tags := tagsByCourse[c.ID]
		if tags == nil {
			tags = []string{}
		}
		items = append(items, CourseListItem{
			Course:               c,
			Tags:                 tags,
			LessonCount:          lessonCounts[c.ID],
			CompletionPercentage: learning.CompletionPercentage(doneCounts[c.ID], lessonCounts[c.ID]),
		})
	}
	return &CoursePage{Items: items, Meta: newPageMeta(total, page, limit)}, nil
}

// loadPageCounts issues one grouped query per concern for the whole page.
// Outside a transaction the queries run concurrently on the pool; a caller
// transaction is a single connection, so they run in sequence there.
func (s *progressService) loadPageCounts(
	dbc dbctx.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
	lessonCounts, doneCounts *map[uuid.UUID]int,
	tagRows *[]*types.CourseTag,
) error {
	loaders := []func(dbctx.Context) error{
		func(c dbctx.Context) (err error) {
			*lessonCounts, err = s.lessons.CountByCourseIDs(c, ids)
			return err
		},
		func(c dbctx.Context) (err error) {
			if userID == uuid.Nil {
				*doneCounts = map[uuid.UUID]int{}
				return nil
			}
			*doneCounts, err = s.completions.CountByUserAndCourseIDs(c, userID, ids)
			return err
		},
		func(c dbctx.Context) (err error) {
			*tagRows, err = s.tags.GetByCourseIDs(c, ids)
			return err
		},
	}
	if dbc.Tx != nil {
		for _, load := range loaders {
			if err := load(dbc); err != nil {
				return err
			}
		}
		return nil
	}
	g, gctx := errgroup.WithContext(dbc.Ctx)
	for _, load := range loaders {
		g.Go(func() error { return load(dbctx.Context{Ctx: gctx}) })
	}
	return g.Wait()
}

func newPageMeta(total int64, page, limit int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{
		Total:           total,
		Page:            page,
		Limit:           limit,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

func (s *progressService) UserStats(dbc dbctx.Context, userID uuid.UUID) (*UserStatsView, error) {
	const op = "Progress.Aggregator.UserStats"
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, read(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, "user %s not found", userID)
	}
	totalCompleted, err := s.completions.CountByUser(dbc, userID)
	if err != nil {
		return nil, read(op, err)
	}
	doneByCourse, err := s.completions.CountByUserGroupedByCourse(dbc, userID)
	if err != nil {
		return nil, read(op, err)
	}
	ids := make([]uuid.UUID, 0, len(doneByCourse))
	for id := range doneByCourse {
		ids = append(ids, id)
	}

	var progress []types.CourseProgress
	if len(ids) > 0 {
		// GetByIDs returns creation order, which fixes the tie order below.
		courses, err := s.courses.GetByIDs(dbc, ids)
		if err != nil {
			return nil, read(op, err)
		}
		totals, err := s.lessons.CountByCourseIDs(dbc, ids)
		if err != nil {
			return nil, read(op, err)
		}
		progress = make([]types.CourseProgress, 0, len(courses))
		for _, c := range courses {
			progress = append(progress, types.CourseProgress{
				CourseID:     c.ID,
				CourseTitle:  c.Title,
				ProgressView: learning.NewProgressView(doneByCourse[c.ID], totals[c.ID]),
			})
		}
	}
	stats, sorted := learning.SummarizeUserProgress(progress, totalCompleted)
	return &UserStatsView{User: u, Statistics: stats, Courses: sorted}, nil
}

func (s *progressService) RecentActivity(dbc dbctx.Context, userID uuid.UUID, limit int) ([]types.ActivityEntry, error) {
	const op = "Progress.Aggregator.RecentActivity"
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, read(op, err)
	}
	if u == nil {
		return nil, domainagg.NotFound(op, "user %s not found", userID)
	}
	entries, err := s.completions.GetRecentActivity(dbc, userID, limit)
	if err != nil {
		return nil, read(op, err)
	}
	if entries == nil {
		entries = []types.ActivityEntry{}
	}
	return entries, nil
}
