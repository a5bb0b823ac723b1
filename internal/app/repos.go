package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/data/repos"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	Course      repos.CourseRepo
	CourseTag   repos.CourseTagRepo
	Lesson      repos.LessonRepo
	Completions repos.LessonCompletionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Course:      repos.NewCourseRepo(db, log),
		CourseTag:   repos.NewCourseTagRepo(db, log),
		Lesson:      repos.NewLessonRepo(db, log),
		Completions: repos.NewLessonCompletionRepo(db, log),
	}
}
