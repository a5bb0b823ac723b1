package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursebridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursebridge-backend/internal/http/middleware"
	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler
	CourseHandler  *httpH.CourseHandler
	LessonHandler  *httpH.LessonHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics", "/healthcheck"))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.Identify())
	}
	requireUser := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireUser = cfg.AuthMiddleware.RequireUser()
	}

	// Users
	if cfg.UserHandler != nil {
		api.POST("/users", cfg.UserHandler.CreateUser)
		me := api.Group("/users/me", requireUser)
		me.GET("", cfg.UserHandler.GetMe)
		me.PATCH("/name", cfg.UserHandler.ChangeName)
		me.GET("/stats", cfg.UserHandler.GetStats)
		me.GET("/activity", cfg.UserHandler.GetRecentActivity)
	}

	// Courses
	if cfg.CourseHandler != nil {
		api.GET("/courses", cfg.CourseHandler.ListCourses)
		api.POST("/courses", cfg.CourseHandler.CreateCourse)
		api.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		api.PATCH("/courses/:id", cfg.CourseHandler.UpdateCourse)
		api.DELETE("/courses/:id", cfg.CourseHandler.DeleteCourse)
		api.GET("/courses/:id/progress", cfg.CourseHandler.GetCourseProgress)
		api.GET("/courses/:id/similar", cfg.CourseHandler.GetSimilarCourses)
	}

	// Lessons
	if cfg.LessonHandler != nil {
		api.GET("/courses/:id/lessons", cfg.LessonHandler.ListCourseLessons)
		api.PUT("/courses/:id/lessons/reorder", cfg.LessonHandler.ReorderLessons)
		api.POST("/lessons", cfg.LessonHandler.CreateLesson)
		api.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
		api.PATCH("/lessons/:id", cfg.LessonHandler.UpdateLesson)
		api.DELETE("/lessons/:id", cfg.LessonHandler.DeleteLesson)
		api.POST("/lessons/:id/complete", requireUser, cfg.LessonHandler.MarkComplete)
	}

	return r
}
