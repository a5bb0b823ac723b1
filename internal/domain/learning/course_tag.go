package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseTag is one member of a course's tag set. The (course_id, tag) index
// gives the set its uniqueness.
type CourseTag struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_tag,priority:1" json:"course_id"`
	Course   *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	Tag      string    `gorm:"column:tag;not null;uniqueIndex:idx_course_tag,priority:2;index" json:"tag"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CourseTag) TableName() string { return "course_tag" }

func (t *CourseTag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NormalizeTags trims every tag, drops blanks and keeps the first occurrence
// of each value.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
