package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/repos/learning"
	"github.com/yungbote/coursebridge-backend/internal/data/repos/user"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type CourseRepo = learning.CourseRepo
type CourseListFilter = learning.CourseListFilter
type CourseTagRepo = learning.CourseTagRepo
type LessonRepo = learning.LessonRepo
type LessonCompletionRepo = learning.LessonCompletionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewCourseTagRepo(db *gorm.DB, baseLog *logger.Logger) CourseTagRepo {
	return learning.NewCourseTagRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewLessonCompletionRepo(db *gorm.DB, baseLog *logger.Logger) LessonCompletionRepo {
	return learning.NewLessonCompletionRepo(db, baseLog)
}
