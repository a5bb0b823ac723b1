package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursebridge-backend/internal/http/response"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
	"github.com/yungbote/coursebridge-backend/internal/services"
)

type UserHandler struct {
	log      *logger.Logger
	users    services.UserService
	progress services.ProgressService
}

func NewUserHandler(log *logger.Logger, users services.UserService, progress services.ProgressService) *UserHandler {
	return &UserHandler{
		log:      log.With("handler", "UserHandler"),
		users:    users,
		progress: progress,
	}
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type changeNameRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	const op = "HTTP.User.Create"
	var req createUserRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	u, err := h.users.Create(dbcOf(c), services.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, toUserDTO(u))
}

// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.users.GetProfile(dbcOf(c), caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, toUserDTO(u))
}

// PATCH /api/users/me/name
func (h *UserHandler) ChangeName(c *gin.Context) {
	const op = "HTTP.User.ChangeName"
	var req changeNameRequest
	if err := bindJSON(c, &req, op); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	u, err := h.users.UpdateName(dbcOf(c), caller(c), req.FirstName, req.LastName)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, toUserDTO(u))
}

// GET /api/users/me/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	out, err := h.progress.UserStats(dbcOf(c), caller(c))
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":            toUserDTO(out.User),
		"statistics":      out.Statistics,
		"coursesProgress": out.Courses,
	})
}

// GET /api/users/me/activity?limit=
func (h *UserHandler) GetRecentActivity(c *gin.Context) {
	const op = "HTTP.User.RecentActivity"
	limit, err := queryInt(c, "limit", services.DefaultActivityLimit, op)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out, err := h.progress.RecentActivity(dbcOf(c), caller(c), limit)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, out)
}
