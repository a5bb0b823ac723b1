package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	domainagg "github.com/yungbote/coursebridge-backend/internal/domain/aggregates"
	"github.com/yungbote/coursebridge-backend/internal/http/response"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/services"
)

type LessonHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService) *LessonHandler {
	return &LessonHandler{
		log:     log.With("handler", "LessonHandler"),
		lessons: lessons,
	}
}

type createLessonRequest struct {
	CourseID uuid.UUID       `json:"courseId"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Order    *int            `json:"order"`
	Metadata json.RawMessage `json:"metadata"`
}

type updateLessonRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Order   *int    `json:"order"`
}

type lessonOrderItem struct {
	LessonID uuid.UUID `json:"lessonId"`
	Order    *int      `json:"order"`
}

type reorderLessonsRequest struct {
	LessonOrders []lessonOrderItem `json:"lessonOrders"`
}

// POST /api/lessons
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	const op = "HTTP.Lesson.Create"
	var req createLessonRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if req.Order == nil {
		response.RespondDomainError(c, domainagg.InvalidArgument(op, "order is required"))
		return
	}
	out, err := h.lessons.Create(dbcOf(c), services.CreateLessonInput{
		CourseID: req.CourseID,
		Title:    req.Title,
		Content:  req.Content,
		Order:    *req.Order,
		Metadata: datatypes.JSON(req.Metadata),
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, toLessonDTO(out, false))
}

// GET /api/courses/:id/lessons
func (h *LessonHandler) ListCourseLessons(c *gin.Context) {
	courseID, err := pathUUID(c, "id", "HTTP.Lesson.ListByCourse")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.lessons.ListByCourse(dbcOf(c), courseID, caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	data := make([]lessonDTO, 0, len(out))
	for _, v := range out {
		data = append(data, toLessonDTO(v.Lesson, v.IsCompleted))
	}
	response.RespondOK(c, data)
}

// GET /api/lessons/:id
func (h *LessonHandler) GetLesson(c *gin.Context) {
	lessonID, err := pathUUID(c, "id", "HTTP.Lesson.Get")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.lessons.Get(dbcOf(c), lessonID, caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, lessonDetailDTO{
		lessonDTO: toLessonDTO(out.Lesson, out.IsCompleted),
		Course:    courseRefDTO{ID: out.Lesson.CourseID, Title: out.CourseTitle},
	})
}

// PATCH /api/lessons/:id
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	const op = "HTTP.Lesson.Update"
	lessonID, err := pathUUID(c, "id", op)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	var req updateLessonRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.lessons.Update(dbcOf(c), lessonID, services.UpdateLessonInput{
		Title:   req.Title,
		Content: req.Content,
		Order:   req.Order,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, toLessonDTO(out, false))
}

// DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, err := pathUUID(c, "id", "HTTP.Lesson.Delete")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if err := h.lessons.Delete(dbcOf(c), lessonID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Lesson deleted successfully"})
}

// PUT /api/courses/:id/lessons/reorder
// body: { "lessonOrders": [{ "lessonId": "...", "order": 2 }] }
func (h *LessonHandler) ReorderLessons(c *gin.Context) {
	const op = "HTTP.Lesson.Reorder"
	courseID, err := pathUUID(c, "id", op)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	var req reorderLessonsRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	orders := make([]domainagg.LessonOrder, 0, len(req.LessonOrders))
	for i, item := range req.LessonOrders {
		if item.Order == nil {
			response.RespondDomainError(c, domainagg.InvalidArgument(op, "lessonOrders[%d].order is required", i))
			return
		}
		orders = append(orders, domainagg.LessonOrder{LessonID: item.LessonID, Order: *item.Order})
	}

	res, err := h.lessons.Reorder(dbcOf(c), courseID, orders)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}

	changes := make([]gin.H, 0, len(res.Changes))
	for _, ch := range res.Changes {
		changes = append(changes, gin.H{
			"lessonId": ch.LessonID,
			"lesson":   ch.Title,
			"oldOrder": ch.OldOrder,
			"newOrder": ch.NewOrder,
			"moved":    fmt.Sprintf("position %d → %d", ch.OldOrder, ch.NewOrder),
		})
	}
	newOrder := make([]gin.H, 0, len(res.FinalOrder))
	for _, o := range res.FinalOrder {
		newOrder = append(newOrder, gin.H{
			"position": o.Position,
			"order":    o.Order,
			"lessonId": o.LessonID,
			"lesson":   o.Title,
		})
	}
	response.RespondOK(c, gin.H{
		"message": "Lessons reordered successfully",
		"course":  courseRefDTO{ID: res.CourseID, Title: res.CourseTitle},
		"summary": gin.H{
			"totalLessons":     res.TotalLessons,
			"lessonsReordered": res.MovedCount,
		},
		"changes":  changes,
		"newOrder": newOrder,
	})
}

// POST /api/lessons/:id/complete
func (h *LessonHandler) MarkComplete(c *gin.Context) {
	lessonID, err := pathUUID(c, "id", "HTTP.Lesson.MarkComplete")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	res, err := h.lessons.MarkComplete(dbcOf(c), lessonID, caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	status, msg := http.StatusOK, "Lesson already completed"
	if res.Created {
		status, msg = http.StatusCreated, "Lesson marked as complete"
	}
	c.JSON(status, gin.H{
		"message": msg,
		"created": res.Created,
		"completion": gin.H{
			"userId":      res.Completion.UserID,
			"lessonId":    res.Completion.LessonID,
			"courseId":    res.CourseID,
			"completedAt": res.Completion.CompletedAt,
		},
	})
}
