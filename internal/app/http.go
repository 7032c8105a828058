package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/intelliplan-admin/internal/dashboard"
	"github.com/yungbote/intelliplan-admin/internal/http"
	httpH "github.com/yungbote/intelliplan-admin/internal/http/handlers"
	httpMW "github.com/yungbote/intelliplan-admin/internal/http/middleware"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/gcp"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	Dashboard *httpH.DashboardHandler
	User      *httpH.UserHandler
	Subject   *httpH.SubjectHandler
	Feedback  *httpH.FeedbackHandler
	Realtime  *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, core *Core, services Services, stores *dashboard.Manager, hub *realtime.SSEHub, reports gcp.ReportStore) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(core.Reconciler),
		Auth:      httpH.NewAuthHandler(services.Auth),
		Dashboard: httpH.NewDashboardHandler(log, stores, core.Reconciler, core.Thresholds, core.Cfg.ItemsPerPage, reports),
		User:      httpH.NewUserHandler(services.Profiles, services.Overrides),
		Subject:   httpH.NewSubjectHandler(services.Subjects),
		Feedback:  httpH.NewFeedbackHandler(services.Feedback),
		Realtime:  httpH.NewRealtimeHandler(log, hub),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, core *Core, handlers Handlers, middleware Middleware) *gin.Engine {
	serviceName := ""
	if core.Cfg.OtelEnabled {
		serviceName = core.Cfg.OtelServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:              log,
		Metrics:          observability.Current(),
		ServiceName:      serviceName,
		AllowedOrigins:   core.Cfg.CORSOrigins,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		AuthMiddleware:   middleware.Auth,
		DashboardHandler: handlers.Dashboard,
		UserHandler:      handlers.User,
		SubjectHandler:   handlers.Subject,
		FeedbackHandler:  handlers.Feedback,
		RealtimeHandler:  handlers.Realtime,
	})
}
