package learning

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/domain/user"
)

// LessonCompletion is a row of the completion ledger. Rows are inserted once
// per (user, lesson) and only ever removed by cascade.
type LessonCompletion struct {
	UserID   uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	User     *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	LessonID uuid.UUID  `gorm:"type:uuid;primaryKey;column:lesson_id;index" json:"lesson_id"`
	Lesson   *Lesson    `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"-"`

	CompletedAt time.Time `gorm:"column:completed_at;not null;index" json:"completed_at"`
}

func (LessonCompletion) TableName() string { return "lesson_completion" }
