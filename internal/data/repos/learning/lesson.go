package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByID(dbc dbctx.Context, lessonID uuid.UUID) (*types.Lesson, error)
	GetByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]*types.Lesson, error)
	GetByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error)
	GetByCourseAndOrder(dbc dbctx.Context, courseID uuid.UUID, order int) (*types.Lesson, error)
	LockByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error)
	CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int, error)
	UpdateOrder(dbc dbctx.Context, lessonID uuid.UUID, order int) error
	UpdateFields(dbc dbctx.Context, lessonID uuid.UUID, updates map[string]interface{}) error
	FullDeleteByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
	FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

// "order" is a reserved word, so it is always referenced through clause.Column
// to get dialect quoting.
var (
	lessonOrderColumn = clause.Column{Table: clause.CurrentTable, Name: "order"}
	lessonOrderAsc    = clause.OrderByColumn{Column: lessonOrderColumn}
)

func (r *lessonRepo) Create(dbc dbctx.Context, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

// GetByID returns nil, nil when the lesson does not exist.
func (r *lessonRepo) GetByID(dbc dbctx.Context, lessonID uuid.UUID) (*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var lesson types.Lesson
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", lessonID).
		Limit(1).
		Find(&lesson).Error; err != nil {
		return nil, err
	}
	if lesson.ID == uuid.Nil {
		return nil, nil
	}
	return &lesson, nil
}

func (r *lessonRepo) GetByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if len(lessonIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", lessonIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByCourseID returns the course's lessons ascending by order.
func (r *lessonRepo) GetByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id = ?", courseID).
		Order(lessonOrderAsc).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByCourseAndOrder(dbc dbctx.Context, courseID uuid.UUID, order int) (*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var lesson types.Lesson
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id = ?", courseID).
		Where(clause.Eq{Column: lessonOrderColumn, Value: order}).
		Limit(1).
		Find(&lesson).Error; err != nil {
		return nil, err
	}
	if lesson.ID == uuid.Nil {
		return nil, nil
	}
	return &lesson, nil
}

// LockByCourseID locks every lesson row of the course and returns them
// ascending by order.
func (r *lessonRepo) LockByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Lesson
	if err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ?", courseID).
		Order(lessonOrderAsc).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type courseCountRow struct {
	CourseID uuid.UUID
	N        int
}

// CountByCourseIDs counts lessons per course in one grouped query. Courses
// without lessons are absent from the map.
func (r *lessonRepo) CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	out := make(map[uuid.UUID]int, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}

	var rows []courseCountRow
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.N
	}
	return out, nil
}

func (r *lessonRepo) UpdateOrder(dbc dbctx.Context, lessonID uuid.UUID, order int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Where("id = ?", lessonID).
		Update("order", order).Error
}

func (r *lessonRepo) UpdateFields(dbc dbctx.Context, lessonID uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(updates) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&types.Lesson{}).
		Where("id = ?", lessonID).
		Updates(updates).Error
}

func (r *lessonRepo) FullDeleteByIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(lessonIDs) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Ctx).
		Where("id IN ?", lessonIDs).
		Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Ctx).
		Where("course_id IN ?", courseIDs).
		Delete(&types.Lesson{}).Error
}
