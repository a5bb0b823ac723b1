package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/realtime"
)

func TestLessonCreateRejectsTakenOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	repotest.SeedLesson(t, ctx, f.db, c.ID, 1)

	_, err := f.lessons.Create(bg(), CreateLessonInput{CourseID: c.ID, Title: "Intro", Content: "welcome to the course", Order: 1})
	requireCode(t, err, domainagg.CodeConflict)
	if msg := domainagg.MessageOf(err); msg == "" || !strings.Contains(msg, `"lesson 1"`) {
		t.Fatalf("conflict should name the holder, got %q", msg)
	}

	got, err := f.lessons.Create(bg(), CreateLessonInput{CourseID: c.ID, Title: "Intro", Content: "welcome to the course", Order: 2})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Order != 2 || got.CourseID != c.ID {
		t.Fatalf("created lesson: %+v", got)
	}

	_, err = f.lessons.Create(bg(), CreateLessonInput{CourseID: uuid.New(), Title: "Intro", Content: "welcome to the course", Order: 1})
	requireCode(t, err, domainagg.CodeNotFound)
	_, err = f.lessons.Create(bg(), CreateLessonInput{CourseID: c.ID, Title: "In", Content: "welcome to the course", Order: 3})
	requireCode(t, err, domainagg.CodeInvalidArgument)
}

func TestLessonUpdateRejectsOrderChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	l := repotest.SeedLesson(t, ctx, f.db, c.ID, 5)

	newOrder := 6
	_, err := f.lessons.Update(bg(), l.ID, UpdateLessonInput{Order: &newOrder})
	requireCode(t, err, domainagg.CodeInvalidArgument)

	same := 5
	title := "Renamed lesson"
	got, err := f.lessons.Update(bg(), l.ID, UpdateLessonInput{Title: &title, Order: &same})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Title != title || got.Order != 5 {
		t.Fatalf("updated lesson: %+v", got)
	}
}

func TestLessonListAndGetReportCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	l1 := repotest.SeedLesson(t, ctx, f.db, c.ID, 1)
	l2 := repotest.SeedLesson(t, ctx, f.db, c.ID, 2)
	repotest.SeedCompletion(t, ctx, f.db, u.ID, l2.ID, time.Now())

	list, err := f.lessons.ListByCourse(bg(), c.ID, u.ID)
	if err != nil {
		t.Fatalf("ListByCourse: %v", err)
	}
	if len(list) != 2 || list[0].Lesson.ID != l1.ID || list[0].IsCompleted || !list[1].IsCompleted {
		t.Fatalf("list: %+v", list)
	}

	got, err := f.lessons.Get(bg(), l2.ID, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.IsCompleted || got.CourseTitle != "course" {
		t.Fatalf("detail: %+v", got)
	}

	_, err = f.lessons.ListByCourse(bg(), uuid.New(), u.ID)
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestLessonDeleteRemovesCompletions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	l := repotest.SeedLesson(t, ctx, f.db, c.ID, 1)
	repotest.SeedCompletion(t, ctx, f.db, u.ID, l.ID, time.Now())

	if err := f.lessons.Delete(bg(), l.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	activity, err := f.progress.RecentActivity(bg(), u.ID, 0)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(activity) != 0 {
		t.Fatalf("activity after delete: %+v", activity)
	}
	requireCode(t, f.lessons.Delete(bg(), l.ID), domainagg.CodeNotFound)
}

func TestLessonReorderPublishesEventOnlyWhenSomethingMoved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	a := repotest.SeedLesson(t, ctx, f.db, c.ID, 1)
	b := repotest.SeedLesson(t, ctx, f.db, c.ID, 2)

	res, err := f.lessons.Reorder(bg(), c.ID, []domainagg.LessonOrder{{LessonID: a.ID, Order: 1}})
	if err != nil {
		t.Fatalf("no-op Reorder: %v", err)
	}
	if res.MovedCount != 0 || len(f.bus.Events()) != 0 {
		t.Fatalf("no-op reorder: moved=%d events=%d", res.MovedCount, len(f.bus.Events()))
	}

	res, err = f.lessons.Reorder(bg(), c.ID, []domainagg.LessonOrder{
		{LessonID: a.ID, Order: 2},
		{LessonID: b.ID, Order: 1},
	})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	if res.MovedCount != 2 || res.FinalOrder[0].LessonID != b.ID {
		t.Fatalf("reorder result: %+v", res)
	}
	events := f.bus.Events()
	if len(events) != 1 || events[0].Type != realtime.EventCourseLessonsReordered || events[0].CourseID != c.ID {
		t.Fatalf("events: %+v", events)
	}
}

func TestLessonMarkCompleteConcurrentCallsConverge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	l := repotest.SeedLesson(t, ctx, f.db, c.ID, 1)

	const workers = 4
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.lessons.MarkComplete(bg(), l.ID, u.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Created {
				created++
			}
		}()
	}
	wg.Wait()
	if len(errs) > 0 {
		t.Fatalf("MarkComplete errors: %v", errs)
	}
	if created != 1 {
		t.Fatalf("created: want=1 got=%d", created)
	}
	events := f.bus.Events()
	if len(events) != 1 || events[0].Type != realtime.EventLessonCompleted {
		t.Fatalf("events: want one lesson.completed got %+v", events)
	}
	if events[0].LessonID == nil || *events[0].LessonID != l.ID {
		t.Fatalf("event lesson id: %+v", events[0])
	}
}
