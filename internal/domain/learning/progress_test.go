package learning

import (
	"testing"

	"github.com/google/uuid"
)

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		name             string
		completed, total int
		want             int
	}{
		{"three of four", 3, 4, 75},
		{"no lessons", 0, 0, 0},
		{"nothing done", 0, 7, 0},
		{"all done", 5, 5, 100},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"half rounds away from zero", 1, 8, 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CompletionPercentage(tc.completed, tc.total); got != tc.want {
				t.Fatalf("CompletionPercentage(%d,%d): want=%d got=%d", tc.completed, tc.total, tc.want, got)
			}
		})
	}
}

func TestSummarizeUserProgress(t *testing.T) {
	half := CourseProgress{CourseID: uuid.New(), CourseTitle: "half", ProgressView: NewProgressView(1, 2)}
	full := CourseProgress{CourseID: uuid.New(), CourseTitle: "full", ProgressView: NewProgressView(2, 2)}
	alsoHalf := CourseProgress{CourseID: uuid.New(), CourseTitle: "also-half", ProgressView: NewProgressView(2, 4)}

	stats, sorted := SummarizeUserProgress([]CourseProgress{half, full, alsoHalf}, 5)

	if stats.TotalLessonsCompleted != 5 {
		t.Fatalf("TotalLessonsCompleted: want=5 got=%d", stats.TotalLessonsCompleted)
	}
	if stats.TotalCoursesStarted != 3 {
		t.Fatalf("TotalCoursesStarted: want=3 got=%d", stats.TotalCoursesStarted)
	}
	if stats.TotalCoursesCompleted != 1 {
		t.Fatalf("TotalCoursesCompleted: want=1 got=%d", stats.TotalCoursesCompleted)
	}
	wantOrder := []string{"full", "half", "also-half"}
	for i, title := range wantOrder {
		if sorted[i].CourseTitle != title {
			t.Fatalf("sorted[%d]: want=%s got=%s", i, title, sorted[i].CourseTitle)
		}
	}
}

func TestSummarizeUserProgressEmpty(t *testing.T) {
	stats, sorted := SummarizeUserProgress(nil, 0)
	if stats != (UserStatistics{}) {
		t.Fatalf("stats: want zero got=%+v", stats)
	}
	if len(sorted) != 0 {
		t.Fatalf("sorted: want empty got=%v", sorted)
	}
}
