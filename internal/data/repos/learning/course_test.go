package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseRepo(db, testutil.Logger(t))

	c := &types.Course{
		ID:       uuid.New(),
		Title:    "course",
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if _, err := repo.Create(dbc, []*types.Course{c}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByID(dbc, c.ID); err != nil || got == nil || got.ID != c.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID (missing): got=%v err=%v", got, err)
	}
	if got, err := repo.LockByID(dbc, c.ID); err != nil || got == nil || got.ID != c.ID {
		t.Fatalf("LockByID: got=%v err=%v", got, err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{c.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateFields(dbc, c.ID, map[string]interface{}{"title": "renamed"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if got, _ := repo.GetByID(dbc, c.ID); got.Title != "renamed" {
		t.Fatalf("UpdateFields: want=renamed got=%s", got.Title)
	}

	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{c.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{c.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
}

func TestCourseRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewCourseRepo(db, testutil.Logger(t))

	marker := uuid.NewString()
	goCourse := testutil.SeedCourse(t, ctx, tx, "Intro to Go "+marker, "go-"+marker)
	testutil.SeedCourse(t, ctx, tx, "Databases "+marker, "db-"+marker)
	testutil.SeedCourse(t, ctx, tx, "Advanced GO "+marker, "go-"+marker)

	rows, total, err := repo.List(dbc, CourseListFilter{Search: "go " + marker, Limit: 10})
	if err != nil {
		t.Fatalf("List search: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("List search: want=2 got total=%d len=%d", total, len(rows))
	}

	rows, total, err = repo.List(dbc, CourseListFilter{Tag: "go-" + marker, Limit: 1})
	if err != nil {
		t.Fatalf("List tag: %v", err)
	}
	if total != 2 || len(rows) != 1 {
		t.Fatalf("List tag page: want total=2 len=1 got total=%d len=%d", total, len(rows))
	}

	rows, _, err = repo.List(dbc, CourseListFilter{Tag: "go-" + marker, Offset: 1, Limit: 1})
	if err != nil {
		t.Fatalf("List tag offset: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("List tag offset: want=1 got=%d", len(rows))
	}
	// Newest first, so the second page holds the older course.
	if rows[0].ID != goCourse.ID {
		t.Fatalf("List tag offset: want=%s got=%s", goCourse.Title, rows[0].Title)
	}
}
