package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	email := uuid.NewString() + "@example.com"
	created, err := repo.Create(dbc, []*types.User{
		{
			ID:        uuid.New(),
			Email:     email,
			FirstName: "A",
			LastName:  "B",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("Create: expected 1 user, got %d", len(created))
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil || got == nil || got.ID != created[0].ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID (missing): got=%v err=%v", missing, err)
	}

	gotByEmails, err := repo.GetByEmails(dbc, []string{email})
	if err != nil {
		t.Fatalf("GetByEmails: %v", err)
	}
	if len(gotByEmails) != 1 || gotByEmails[0].Email != email {
		t.Fatalf("GetByEmails: unexpected result: %+v", gotByEmails)
	}

	exists, err := repo.EmailExists(dbc, email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}

	exists, err = repo.EmailExists(dbc, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists (missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists (missing): expected false")
	}

	if err := repo.UpdateName(dbc, created[0].ID, "Ada", "Lovelace"); err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	got, _ = repo.GetByID(dbc, created[0].ID)
	if got.FullName() != "Ada Lovelace" {
		t.Fatalf("UpdateName: want=%q got=%q", "Ada Lovelace", got.FullName())
	}
}
