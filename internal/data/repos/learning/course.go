package learning

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

// CourseListFilter narrows List. Search matches title or description without
// regard to case; Tag is an exact tag match.
type CourseListFilter struct {
	Search string
	Tag    string
	Offset int
	Limit  int
}

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error)
	LockByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error)
	List(dbc dbctx.Context, filter CourseListFilter) ([]*types.Course, int64, error)
	UpdateFields(dbc dbctx.Context, courseID uuid.UUID, updates map[string]interface{}) error
	FullDeleteByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courses) == 0 {
		return []*types.Course{}, nil
	}

	if err := transaction.WithContext(dbc.Ctx).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByID returns nil, nil when the course does not exist.
func (r *courseRepo) GetByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var course types.Course
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", courseID).
		Limit(1).
		Find(&course).Error
	if err != nil {
		return nil, err
	}
	if course.ID == uuid.Nil {
		return nil, nil
	}
	return &course, nil
}

// GetByIDs returns courses in creation order, ties broken by id.
func (r *courseRepo) GetByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Course
	if len(courseIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", courseIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LockByID takes a row lock on the course for the rest of the transaction.
// The SQLite dialect drops the locking clause; its single writer serializes instead.
func (r *courseRepo) LockByID(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var course types.Course
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", courseID).
		Limit(1).
		Find(&course).Error
	if err != nil {
		return nil, err
	}
	if course.ID == uuid.Nil {
		return nil, nil
	}
	return &course, nil
}

// List returns one page of courses, newest first, plus the total matching count.
func (r *courseRepo) List(dbc dbctx.Context, filter CourseListFilter) ([]*types.Course, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	q := transaction.WithContext(dbc.Ctx).Model(&types.Course{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		q = q.Where("id IN (SELECT course_id FROM course_tag WHERE tag = ?)", tag)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*types.Course
	page := q.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		page = page.Limit(filter.Limit)
	}
	if err := page.Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, courseID uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(updates) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Ctx).
		Model(&types.Course{}).
		Where("id = ?", courseID).
		Updates(updates).Error
}

func (r *courseRepo) FullDeleteByIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	if len(courseIDs) == 0 {
		return nil
	}

	return transaction.WithContext(dbc.Ctx).
		Where("id IN ?", courseIDs).
		Delete(&types.Course{}).Error
}
