package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
)

func TestCourseCreateNormalizesTagsAndValidates(t *testing.T) {
	f := newFixture(t)

	got, err := f.courses.Create(bg(), CreateCourseInput{
		Title:       "  Go Basics ",
		Description: "Learn the basics of Go",
		Tags:        []string{"go", " backend ", "go", ""},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Course.Title != "Go Basics" {
		t.Fatalf("title: want=%q got=%q", "Go Basics", got.Course.Title)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "backend" || got.Tags[1] != "go" {
		t.Fatalf("tags: %v", got.Tags)
	}

	_, err = f.courses.Create(bg(), CreateCourseInput{Title: "Go", Description: "Learn the basics of Go"})
	requireCode(t, err, domainagg.CodeInvalidArgument)
	_, err = f.courses.Create(bg(), CreateCourseInput{Title: "Go Basics", Description: "short"})
	requireCode(t, err, domainagg.CodeInvalidArgument)
}

func TestCourseGetIncludesLessonsAndCallerProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course", "x")
	l3 := repotest.SeedLesson(t, ctx, f.db, c.ID, 30)
	l1 := repotest.SeedLesson(t, ctx, f.db, c.ID, 10)
	repotest.SeedLesson(t, ctx, f.db, c.ID, 20)
	repotest.SeedLesson(t, ctx, f.db, c.ID, 40)
	repotest.SeedCompletion(t, ctx, f.db, u.ID, l1.ID, time.Now())
	repotest.SeedCompletion(t, ctx, f.db, u.ID, l3.ID, time.Now())

	got, err := f.courses.Get(bg(), c.ID, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Lessons) != 4 {
		t.Fatalf("lessons: want=4 got=%d", len(got.Lessons))
	}
	for i, want := range []int{10, 20, 30, 40} {
		if got.Lessons[i].Lesson.Order != want {
			t.Fatalf("lesson %d order: want=%d got=%d", i, want, got.Lessons[i].Lesson.Order)
		}
	}
	if !got.Lessons[0].IsCompleted || got.Lessons[1].IsCompleted || !got.Lessons[2].IsCompleted {
		t.Fatalf("isCompleted flags wrong: %+v", got.Lessons)
	}
	if got.Progress.CompletionPercentage != 50 {
		t.Fatalf("percentage: want=50 got=%d", got.Progress.CompletionPercentage)
	}

	anon, err := f.courses.Get(bg(), c.ID, uuid.Nil)
	if err != nil {
		t.Fatalf("Get anonymous: %v", err)
	}
	if anon.Progress.CompletionPercentage != 0 || anon.Progress.TotalLessons != 4 {
		t.Fatalf("anonymous progress: %+v", anon.Progress)
	}

	_, err = f.courses.Get(bg(), uuid.New(), u.ID)
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestCourseUpdateReplacesTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := repotest.SeedCourse(t, ctx, f.db, "course", "a", "b")

	title := "Renamed course"
	tags := []string{"c"}
	got, err := f.courses.Update(bg(), c.ID, UpdateCourseInput{Title: &title, Tags: &tags})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Course.Title != title || len(got.Tags) != 1 || got.Tags[0] != "c" {
		t.Fatalf("updated course: title=%q tags=%v", got.Course.Title, got.Tags)
	}

	_, err = f.courses.Update(bg(), uuid.New(), UpdateCourseInput{Title: &title})
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestCourseDeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course", "a")
	l := repotest.SeedLesson(t, ctx, f.db, c.ID, 1)
	repotest.SeedCompletion(t, ctx, f.db, u.ID, l.ID, time.Now())

	if err := f.courses.Delete(bg(), c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err := f.courses.Get(bg(), c.ID, u.ID)
	requireCode(t, err, domainagg.CodeNotFound)

	stats, err := f.progress.UserStats(bg(), u.ID)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if stats.Statistics.TotalLessonsCompleted != 0 {
		t.Fatalf("completions survived delete: %+v", stats.Statistics)
	}

	requireCode(t, f.courses.Delete(bg(), c.ID), domainagg.CodeNotFound)
}
