package learning

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ProgressView is derived from the completion ledger on every read and is
// never persisted.
type ProgressView struct {
	CompletedLessons     int `json:"completedLessons"`
	TotalLessons         int `json:"totalLessons"`
	CompletionPercentage int `json:"completionPercentage"`
}

func NewProgressView(completed, total int) ProgressView {
	return ProgressView{
		CompletedLessons:     completed,
		TotalLessons:         total,
		CompletionPercentage: CompletionPercentage(completed, total),
	}
}

// CompletionPercentage is round(100*completed/total), half away from zero,
// and 0 for a course without lessons.
func CompletionPercentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

type CourseProgress struct {
	CourseID    uuid.UUID `json:"courseId"`
	CourseTitle string    `json:"courseTitle"`
	ProgressView
}

type UserStatistics struct {
	TotalLessonsCompleted int `json:"totalLessonsCompleted"`
	TotalCoursesStarted   int `json:"totalCoursesStarted"`
	TotalCoursesCompleted int `json:"totalCoursesCompleted"`
}

// SummarizeUserProgress sorts courses by completion percentage, highest first,
// keeping input order among equal percentages, and derives the user counters.
// totalCompleted counts every completion row the user owns.
func SummarizeUserProgress(courses []CourseProgress, totalCompleted int) (UserStatistics, []CourseProgress) {
	sorted := make([]CourseProgress, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletionPercentage > sorted[j].CompletionPercentage
	})

	stats := UserStatistics{
		TotalLessonsCompleted: totalCompleted,
		TotalCoursesStarted:   len(sorted),
	}
	for _, c := range sorted {
		if c.CompletionPercentage == 100 {
			stats.TotalCoursesCompleted++
		}
	}
	return stats, sorted
}

type ActivityEntry struct {
	LessonID    uuid.UUID `json:"lessonId"`
	LessonTitle string    `json:"lessonTitle"`
	CourseID    uuid.UUID `json:"courseId"`
	CourseTitle string    `json:"courseTitle"`
	CompletedAt time.Time `json:"completedAt"`
}
