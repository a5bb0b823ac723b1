package handlers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/coursebridge-backend/internal/domain"
	"github.com/yungbote/coursebridge-backend/internal/services"
)

type courseDTO struct {
	ID                   uuid.UUID       `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Tags                 []string        `json:"tags"`
	Metadata             json.RawMessage `json:"metadata,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
	LessonCount          int             `json:"lessonCount"`
	CompletionPercentage int             `json:"completionPercentage"`
}

type courseDetailDTO struct {
	courseDTO
	CompletedLessons int         `json:"completedLessons"`
	Lessons          []lessonDTO `json:"lessons"`
}

type lessonDTO struct {
	ID          uuid.UUID       `json:"id"`
	CourseID    uuid.UUID       `json:"courseId"`
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Order       int             `json:"order"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	IsCompleted bool            `json:"isCompleted"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type lessonDetailDTO struct {
	lessonDTO
	Course courseRefDTO `json:"course"`
}

type courseRefDTO struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type userDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

type similarCourseDTO struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"createdAt"`
	MatchingTags    []string  `json:"matchingTags"`
	SimilarityScore int       `json:"similarityScore"`
}

func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	return json.RawMessage(b)
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func toCourseDTO(c *types.Course, tags []string, lessonCount, percentage int) courseDTO {
	return courseDTO{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		Tags:                 nonNilTags(tags),
		Metadata:             rawJSON(c.Metadata),
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
		LessonCount:          lessonCount,
		CompletionPercentage: percentage,
	}
}

func toCourseDetailDTO(d *services.CourseDetail) courseDetailDTO {
	lessons := make([]lessonDTO, 0, len(d.Lessons))
	for _, v := range d.Lessons {
		lessons = append(lessons, toLessonDTO(v.Lesson, v.IsCompleted))
	}
	return courseDetailDTO{
		courseDTO:        toCourseDTO(d.Course, d.Tags, d.Progress.TotalLessons, d.Progress.CompletionPercentage),
		CompletedLessons: d.Progress.CompletedLessons,
		Lessons:          lessons,
	}
}

func toLessonDTO(l *types.Lesson, completed bool) lessonDTO {
	return lessonDTO{
		ID:          l.ID,
		CourseID:    l.CourseID,
		Title:       l.Title,
		Content:     l.Content,
		Order:       l.Order,
		Metadata:    rawJSON(l.Metadata),
		IsCompleted: completed,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toUserDTO(u *types.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func toSimilarCourseDTO(s types.SimilarCourse) similarCourseDTO {
	return similarCourseDTO{
		ID:              s.Course.ID,
		Title:           s.Course.Title,
		Description:     s.Course.Description,
		Tags:            nonNilTags(s.Tags),
		CreatedAt:       s.Course.CreatedAt,
		MatchingTags:    nonNilTags(s.MatchingTags),
		SimilarityScore: s.SimilarityScore,
	}
}
