package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/yungbote/coursebridge-backend/internal/http/response"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/services"
)

type CourseHandler struct {
	log        *logger.Logger
	courses    services.CourseService
	progress   services.ProgressService
	similarity services.SimilarityService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService, progress services.ProgressService, similarity services.SimilarityService) *CourseHandler {
	return &CourseHandler{
		log:        log.With("handler", "CourseHandler"),
		courses:    courses,
		progress:   progress,
		similarity: similarity,
	}
}

type createCourseRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Metadata    json.RawMessage `json:"metadata"`
}

type updateCourseRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
}

// GET /api/courses?page=&limit=&search=&tag=
func (h *CourseHandler) ListCourses(c *gin.Context) {
	const op = "HTTP.Course.List"
	page, err := queryInt(c, "page", 0, op)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	limit, err := queryInt(c, "limit", 0, op)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.progress.ListCourses(dbcOf(c), caller(c), services.ListCoursesInput{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	data := make([]courseDTO, 0, len(out.Items))
	for _, it := range out.Items {
		data = append(data, toCourseDTO(it.Course, it.Tags, it.LessonCount, it.CompletionPercentage))
	}
	response.RespondOK(c, gin.H{"data": data, "meta": out.Meta})
}

// POST /api/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	const op = "HTTP.Course.Create"
	var req createCourseRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.courses.Create(dbcOf(c), services.CreateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Metadata:    datatypes.JSON(req.Metadata),
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, toCourseDetailDTO(out))
}

// GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, err := pathUUID(c, "id", "HTTP.Course.Get")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.courses.Get(dbcOf(c), courseID, caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, toCourseDetailDTO(out))
}

// PATCH /api/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	const op = "HTTP.Course.Update"
	courseID, err := pathUUID(c, "id", op)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	var req updateCourseRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.courses.Update(dbcOf(c), courseID, services.UpdateCourseInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, toCourseDetailDTO(out))
}

// DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, err := pathUUID(c, "id", "HTTP.Course.Delete")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	if err := h.courses.Delete(dbcOf(c), courseID); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "Course deleted successfully"})
}

// GET /api/courses/:id/progress
func (h *CourseHandler) GetCourseProgress(c *gin.Context) {
	courseID, err := pathUUID(c, "id", "HTTP.Course.Progress")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.progress.CourseProgress(dbcOf(c), courseID, caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/courses/:id/similar
func (h *CourseHandler) GetSimilarCourses(c *gin.Context) {
	courseID, err := pathUUID(c, "id", "HTTP.Course.Similar")
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.similarity.FindSimilar(dbcOf(c), courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	data := make([]similarCourseDTO, 0, len(out))
	for _, s := range out {
		data = append(data, toSimilarCourseDTO(s))
	}
	response.RespondOK(c, data)
}
