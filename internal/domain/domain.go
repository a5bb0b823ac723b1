package domain

import (
	"github.com/yungbote/coursebridge-backend/internal/domain/learning"
	"github.com/yungbote/coursebridge-backend/internal/domain/user"
)

type User = user.User

type Course = learning.Course
type CourseTag = learning.CourseTag
type Lesson = learning.Lesson
type LessonCompletion = learning.LessonCompletion

type ProgressView = learning.ProgressView
type CourseProgress = learning.CourseProgress
type UserStatistics = learning.UserStatistics
type ActivityEntry = learning.ActivityEntry
type SimilarCandidate = learning.SimilarCandidate
type SimilarCourse = learning.SimilarCourse

// AllModels lists every persisted entity in dependency order.
func AllModels() []any {
	return []any{
		&User{},
		&Course{},
		&CourseTag{},
		&Lesson{},
		&LessonCompletion{},
	}
}
