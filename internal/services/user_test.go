package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
)

func TestUserCreateAndProfile(t *testing.T) {
	f := newFixture(t)
	email := "Ada." + uuid.NewString()[:8] + "@Example.TEST"

	u, err := f.users.Create(bg(), CreateUserInput{Email: email, FirstName: " Ada ", LastName: "Lovelace"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != strings.ToLower(email) || u.FirstName != "Ada" {
		t.Fatalf("created user: %+v", u)
	}

	_, err = f.users.Create(bg(), CreateUserInput{Email: strings.ToUpper(email), FirstName: "A", LastName: "B"})
	requireCode(t, err, domainagg.CodeConflict)

	got, err := f.users.GetProfile(bg(), u.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("profile id: want=%s got=%s", u.ID, got.ID)
	}

	_, err = f.users.GetProfile(bg(), uuid.New())
	requireCode(t, err, domainagg.CodeNotFound)
}

func TestUserCreateValidates(t *testing.T) {
	f := newFixture(t)
	_, err := f.users.Create(bg(), CreateUserInput{Email: "not-an-email", FirstName: "A", LastName: "B"})
	requireCode(t, err, domainagg.CodeInvalidArgument)
	_, err = f.users.Create(bg(), CreateUserInput{Email: "a@example.test", FirstName: "", LastName: "B"})
	requireCode(t, err, domainagg.CodeInvalidArgument)
}

func TestUserUpdateName(t *testing.T) {
	f := newFixture(t)
	u, err := f.users.Create(bg(), CreateUserInput{Email: uuid.NewString() + "@example.test", FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := f.users.UpdateName(bg(), u.ID, "Grace", "Hopper")
	if err != nil {
		t.Fatalf("UpdateName: %v", err)
	}
	if got.FullName() != "Grace Hopper" {
		t.Fatalf("full name: %q", got.FullName())
	}
}
