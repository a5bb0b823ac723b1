package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type CourseTagRepo interface {
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.CourseTag) (int, error)
	GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseTag, error)
	GetByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseTag, error)
	GetByTags(dbc dbctx.Context, tags []string) ([]*types.CourseTag, error)
	ReplaceForCourse(dbc dbctx.Context, courseID uuid.UUID, tags []string) error
	FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type courseTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseTagRepo(db *gorm.DB, baseLog *logger.Logger) CourseTagRepo {
	return &courseTagRepo{db: db, log: baseLog.With("repo", "CourseTagRepo")}
}

func (r *courseTagRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.CourseTag) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "tag"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *courseTagRepo) GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CourseTag
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("course_id IN ?", courseIDs).
		Order("tag ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseTagRepo) GetByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseTag, error) {
	return r.GetByCourseIDs(dbc, []uuid.UUID{courseID})
}

func (r *courseTagRepo) GetByTags(dbc dbctx.Context, tags []string) ([]*types.CourseTag, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.CourseTag
	if len(tags) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("tag IN ?", tags).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForCourse swaps the course's tag set for tags. Callers pass
// normalized tags; duplicates are absorbed by the unique index.
func (r *courseTagRepo) ReplaceForCourse(dbc dbctx.Context, courseID uuid.UUID, tags []string) error {
	if err := r.FullDeleteByCourseIDs(dbc, []uuid.UUID{courseID}); err != nil {
		return err
	}
	rows := make([]*types.CourseTag, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, &types.CourseTag{ID: uuid.New(), CourseID: courseID, Tag: tag})
	}
	_, err := r.CreateIgnoreDuplicates(dbc, rows)
	return err
}

func (r *courseTagRepo) FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(courseIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("course_id IN ?", courseIDs).
		Delete(&types.CourseTag{}).Error
}
