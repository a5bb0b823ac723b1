package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursebridge-backend/internal/http"
	httpH "github.com/yungbote/coursebridge-backend/internal/http/handlers"
	"github.com/yungbote/coursebridge-backend/internal/observability"
	"github.com/yungbote/coursebridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	User   *httpH.UserHandler
	Course *httpH.CourseHandler
	Lesson *httpH.LessonHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		User:   httpH.NewUserHandler(log, s.User, s.Progress),
		Course: httpH.NewCourseHandler(log, s.Course, s.Progress, s.Similarity),
		Lesson: httpH.NewLessonHandler(log, s.Lesson),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, h Handlers, mw Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.Otel.ServiceName,
		TracingEnabled: cfg.Otel.Enabled,
		AllowedOrigins: cfg.AllowedOrigins,
		AuthMiddleware: mw.Auth,
		UserHandler:    h.User,
		CourseHandler:  h.Course,
		LessonHandler:  h.Lesson,
		HealthHandler:  h.Health,
	})
}
