package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
)

func TestLessonRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLessonRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, "course")
	empty := testutil.SeedCourse(t, ctx, tx, "empty")

	l3 := &types.Lesson{ID: uuid.New(), CourseID: c.ID, Title: "third", Order: 30}
	l1 := &types.Lesson{ID: uuid.New(), CourseID: c.ID, Title: "first", Order: 10}
	l2 := &types.Lesson{ID: uuid.New(), CourseID: c.ID, Title: "second", Order: 20}
	if _, err := repo.Create(dbc, []*types.Lesson{l3, l1, l2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ordered, err := repo.GetByCourseID(dbc, c.ID)
	if err != nil || len(ordered) != 3 {
		t.Fatalf("GetByCourseID: err=%v len=%d", err, len(ordered))
	}
	for i, want := range []uuid.UUID{l1.ID, l2.ID, l3.ID} {
		if ordered[i].ID != want {
			t.Fatalf("GetByCourseID[%d]: want=%s got=%s", i, want, ordered[i].ID)
		}
	}

	locked, err := repo.LockByCourseID(dbc, c.ID)
	if err != nil || len(locked) != 3 || locked[0].ID != l1.ID {
		t.Fatalf("LockByCourseID: err=%v rows=%v", err, locked)
	}

	if got, err := repo.GetByCourseAndOrder(dbc, c.ID, 20); err != nil || got == nil || got.ID != l2.ID {
		t.Fatalf("GetByCourseAndOrder: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByCourseAndOrder(dbc, c.ID, 99); err != nil || got != nil {
		t.Fatalf("GetByCourseAndOrder (free): got=%v err=%v", got, err)
	}

	counts, err := repo.CountByCourseIDs(dbc, []uuid.UUID{c.ID, empty.ID})
	if err != nil {
		t.Fatalf("CountByCourseIDs: %v", err)
	}
	if counts[c.ID] != 3 || counts[empty.ID] != 0 {
		t.Fatalf("CountByCourseIDs: want 3/0 got %d/%d", counts[c.ID], counts[empty.ID])
	}

	if err := repo.UpdateOrder(dbc, l3.ID, 5); err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
	if got, _ := repo.GetByID(dbc, l3.ID); got == nil || got.Order != 5 {
		t.Fatalf("UpdateOrder: got=%v", got)
	}
	if err := repo.UpdateFields(dbc, l3.ID, map[string]interface{}{"title": "renamed"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{l3.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{l1.ID, l3.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("after FullDeleteByIDs: err=%v len=%d", err, len(rows))
	}
	if err := repo.FullDeleteByCourseIDs(dbc, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("FullDeleteByCourseIDs: %v", err)
	}
	if rows, err := repo.GetByCourseID(dbc, c.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByCourseIDs: err=%v len=%d", err, len(rows))
	}
}

func TestLessonRepoUniqueOrderPerCourse(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewLessonRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, db, "course")
	other := testutil.SeedCourse(t, ctx, db, "other")
	testutil.SeedLesson(t, ctx, db, c.ID, 1)

	dbc := dbctx.Context{Ctx: ctx}
	if _, err := repo.Create(dbc, []*types.Lesson{{CourseID: c.ID, Title: "dup", Order: 1}}); err == nil {
		t.Fatalf("Create with taken order: expected unique violation")
	}
	if _, err := repo.Create(dbc, []*types.Lesson{{CourseID: other.ID, Title: "ok", Order: 1}}); err != nil {
		t.Fatalf("same order in another course: %v", err)
	}
}
