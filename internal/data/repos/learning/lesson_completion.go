package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type LessonCompletionRepo interface {
	// CreateIgnoreDuplicates inserts rows, skipping any (user, lesson) pair that
	// already has a completion. It returns the number of rows inserted.
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.LessonCompletion) (int, error)
	Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonCompletion, error)
	GetByUserAndLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonCompletion, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID) (int, error)
	CountByUserAndCourseIDs(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]int, error)
	CountByUserGroupedByCourse(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]int, error)
	GetRecentActivity(dbc dbctx.Context, userID uuid.UUID, limit int) ([]types.ActivityEntry, error)
	FullDeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
	FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type lessonCompletionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return &lessonCompletionRepo{db: db, log: baseLog.With("repo", "LessonCompletionRepo")}
}

func (r *lessonCompletionRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.LessonCompletion) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

// Get returns nil, nil when the user has not completed the lesson.
func (r *lessonCompletionRepo) Get(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonCompletion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var row types.LessonCompletion
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.LessonID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *lessonCompletionRepo) GetByUserAndLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonCompletion, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.LessonCompletion
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonCompletionRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.LessonCompletion{}).
		Where("user_id = ?", userID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

// CountByUserAndCourseIDs counts the user's completions per course in one
// grouped query. Courses without completions are absent from the map.
func (r *lessonCompletionRepo) CountByUserAndCourseIDs(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(courseIDs))
	if userID == uuid.Nil || len(courseIDs) == 0 {
		return out, nil
	}
	return r.countByCourse(dbc, userID, courseIDs, out)
}

func (r *lessonCompletionRepo) CountByUserGroupedByCourse(dbc dbctx.Context, userID uuid.UUID) (map[uuid.UUID]int, error) {
	out := map[uuid.UUID]int{}
	if userID == uuid.Nil {
		return out, nil
	}
	return r.countByCourse(dbc, userID, nil, out)
}

func (r *lessonCompletionRepo) countByCourse(dbc dbctx.Context, userID uuid.UUID, courseIDs []uuid.UUID, out map[uuid.UUID]int) (map[uuid.UUID]int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).
		Table("lesson_completion").
		Select("lesson.course_id AS course_id, COUNT(*) AS n").
		Joins("JOIN lesson ON lesson.id = lesson_completion.lesson_id").
		Where("lesson_completion.user_id = ?", userID)
	if len(courseIDs) > 0 {
		q = q.Where("lesson.course_id IN ?", courseIDs)
	}
	var rows []courseCountRow
	if err := q.Group("lesson.course_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.N
	}
	return out, nil
}

// GetRecentActivity returns the user's completions newest first, joined with
// lesson and course titles.
func (r *lessonCompletionRepo) GetRecentActivity(dbc dbctx.Context, userID uuid.UUID, limit int) ([]types.ActivityEntry, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []types.ActivityEntry{}
	if userID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Table("lesson_completion").
		Select(`lesson_completion.lesson_id AS lesson_id,
			lesson.title AS lesson_title,
			lesson.course_id AS course_id,
			course.title AS course_title,
			lesson_completion.completed_at AS completed_at`).
		Joins("JOIN lesson ON lesson.id = lesson_completion.lesson_id").
		Joins("JOIN course ON course.id = lesson.course_id").
		Where("lesson_completion.user_id = ?", userID).
		Order("lesson_completion.completed_at DESC").
		Order("lesson_completion.lesson_id ASC").
		Limit(limit).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonCompletionRepo) FullDeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(lessonIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("lesson_id IN ?", lessonIDs).
		Delete(&types.LessonCompletion{}).Error
}

func (r *lessonCompletionRepo) FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(courseIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("lesson_id IN (SELECT id FROM lesson WHERE course_id IN ?)", courseIDs).
		Delete(&types.LessonCompletion{}).Error
}
