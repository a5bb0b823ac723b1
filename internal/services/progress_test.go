package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	repotest "github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
)

func TestCourseProgressThreeOfFour(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	for i := 1; i <= 4; i++ {
		l := repotest.SeedLesson(t, ctx, f.db, c.ID, i)
		if i <= 3 {
			repotest.SeedCompletion(t, ctx, f.db, u.ID, l.ID, time.Now())
		}
	}

	got, err := f.progress.CourseProgress(bg(), c.ID, u.ID)
	if err != nil {
		t.Fatalf("CourseProgress: %v", err)
	}
	if got.CompletedLessons != 3 || got.TotalLessons != 4 || got.CompletionPercentage != 75 {
		t.Fatalf("progress: %+v", got)
	}

	anon, err := f.progress.CourseProgress(bg(), c.ID, uuid.Nil)
	if err != nil {
		t.Fatalf("CourseProgress anonymous: %v", err)
	}
	if anon.CompletedLessons != 0 || anon.TotalLessons != 4 || anon.CompletionPercentage != 0 {
		t.Fatalf("anonymous progress: %+v", anon)
	}

	_, err = f.progress.CourseProgress(bg(), uuid.New(), u.ID)
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestCourseProgressWithoutLessonsIsZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "empty")

	got, err := f.progress.CourseProgress(bg(), c.ID, u.ID)
	if err != nil {
		t.Fatalf("CourseProgress: %v", err)
	}
	if got.TotalLessons != 0 || got.CompletionPercentage != 0 {
		t.Fatalf("progress: %+v", got)
	}
}

func TestListCoursesPaginatesNewestFirstWithProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	tag := "t-" + uuid.NewString()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		c := repotest.SeedCourse(t, ctx, f.db, "course", tag)
		ids = append(ids, c.ID)
		time.Sleep(5 * time.Millisecond)
	}
	l1 := repotest.SeedLesson(t, ctx, f.db, ids[2], 1)
	repotest.SeedLesson(t, ctx, f.db, ids[2], 2)
	repotest.SeedCompletion(t, ctx, f.db, u.ID, l1.ID, time.Now())

	page, err := f.progress.ListCourses(bg(), u.ID, ListCoursesInput{Page: 1, Limit: 2, Tag: tag})
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if page.Meta.Total != 3 || page.Meta.TotalPages != 2 || !page.Meta.HasNextPage || page.Meta.HasPreviousPage {
		t.Fatalf("meta: %+v", page.Meta)
	}
	if len(page.Items) != 2 || page.Items[0].Course.ID != ids[2] {
		t.Fatalf("newest course should come first: %+v", page.Items)
	}
	if page.Items[0].LessonCount != 2 || page.Items[0].CompletionPercentage != 50 {
		t.Fatalf("first item counts: %+v", page.Items[0])
	}
	if len(page.Items[0].Tags) != 1 || page.Items[0].Tags[0] != tag {
		t.Fatalf("first item tags: %v", page.Items[0].Tags)
	}

	last, err := f.progress.ListCourses(bg(), uuid.Nil, ListCoursesInput{Page: 2, Limit: 2, Tag: tag})
	if err != nil {
		t.Fatalf("ListCourses page 2: %v", err)
	}
	if len(last.Items) != 1 || last.Meta.HasNextPage || !last.Meta.HasPreviousPage {
		t.Fatalf("page 2: items=%d meta=%+v", len(last.Items), last.Meta)
	}

	_, err = f.progress.ListCourses(bg(), u.ID, ListCoursesInput{Limit: MaxPageLimit + 1})
	requireCode(t, err, domainagg.CodeInvalidArgument)
}

func TestListCoursesSearchIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marker := uuid.NewString()[:8]
	repotest.SeedCourse(t, ctx, f.db, "Advanced "+marker+" Patterns")
	repotest.SeedCourse(t, ctx, f.db, "unrelated")

	page, err := f.progress.ListCourses(bg(), uuid.Nil, ListCoursesInput{Search: "ADVANCED " + marker})
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(page.Items) != 1 || page.Meta.Page != 1 || page.Meta.Limit != DefaultPageLimit {
		t.Fatalf("search result: items=%d meta=%+v", len(page.Items), page.Meta)
	}
}

func TestUserStatsAggregatesAcrossCourses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)

	half := repotest.SeedCourse(t, ctx, f.db, "half")
	h1 := repotest.SeedLesson(t, ctx, f.db, half.ID, 1)
	repotest.SeedLesson(t, ctx, f.db, half.ID, 2)

	full := repotest.SeedCourse(t, ctx, f.db, "full")
	f1 := repotest.SeedLesson(t, ctx, f.db, full.ID, 1)
	f2 := repotest.SeedLesson(t, ctx, f.db, full.ID, 2)

	repotest.SeedCourse(t, ctx, f.db, "untouched")

	for _, id := range []uuid.UUID{h1.ID, f1.ID, f2.ID} {
		repotest.SeedCompletion(t, ctx, f.db, u.ID, id, time.Now())
	}

	got, err := f.progress.UserStats(bg(), u.ID)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if got.Statistics.TotalLessonsCompleted != 3 || got.Statistics.TotalCoursesStarted != 2 || got.Statistics.TotalCoursesCompleted != 1 {
		t.Fatalf("statistics: %+v", got.Statistics)
	}
	if len(got.Courses) != 2 || got.Courses[0].CourseID != full.ID || got.Courses[1].CompletionPercentage != 50 {
		t.Fatalf("courses: %+v", got.Courses)
	}

	_, err = f.progress.UserStats(bg(), uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestRecentActivityNewestFirstAndLimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := repotest.SeedUser(t, ctx, f.db)
	c := repotest.SeedCourse(t, ctx, f.db, "course")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 3; i++ {
		l := repotest.SeedLesson(t, ctx, f.db, c.ID, i)
		repotest.SeedCompletion(t, ctx, f.db, u.ID, l.ID, base.Add(time.Duration(i)*time.Hour))
	}

	got, err := f.progress.RecentActivity(bg(), u.ID, 2)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}
	if len(got) != 2 || got[0].LessonTitle != "lesson 3" || got[1].LessonTitle != "lesson 2" {
		t.Fatalf("activity: %+v", got)
	}
	if got[0].CourseID != c.ID || got[0].CourseTitle != "course" {
		t.Fatalf("activity enrichment: %+v", got[0])
	}

	all, err := f.progress.RecentActivity(bg(), u.ID, MaxActivityLimit+50)
	if err != nil {
		t.Fatalf("RecentActivity over max: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("activity over max: want=3 got=%d", len(all))
	}

	_, err = f.progress.RecentActivity(bg(), uuid.New(), 0)
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestNewPageMeta(t *testing.T) {
	cases := []struct {
		total       int64
		page, limit int
		pages       int
		next, prev  bool
	}{
		{0, 1, 10, 0, false, false},
		{10, 1, 10, 1, false, false},
		{11, 1, 10, 2, true, false},
		{11, 2, 10, 2, false, true},
	}
	for _, tc := range cases {
		m := newPageMeta(tc.total, tc.page, tc.limit)
		if m.TotalPages != tc.pages || m.HasNextPage != tc.next || m.HasPreviousPage != tc.prev {
			t.Fatalf("newPageMeta(%d,%d,%d): %+v", tc.total, tc.page, tc.limit, m)
		}
	}
}
