package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/coursebridge-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.User {
	tb.Helper()
	id := uuid.New()
	u := &types.User{
		ID:        id,
		Email:     fmt.Sprintf("%s@example.test", id),
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string, tags ...string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:       uuid.New(),
		Title:    title,
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	for _, tag := range tags {
		row := &types.CourseTag{ID: uuid.New(), CourseID: c.ID, Tag: tag}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			tb.Fatalf("seed course tag: %v", err)
		}
	}
	return c
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:       uuid.New(),
		CourseID: courseID,
		Title:    fmt.Sprintf("lesson %d", order),
		Content:  "content",
		Order:    order,
		Metadata: datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedCompletion(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID, at time.Time) *types.LessonCompletion {
	tb.Helper()
	row := &types.LessonCompletion{UserID: userID, LessonID: lessonID, CompletedAt: at.UTC()}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed completion: %v", err)
	}
	return row
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
