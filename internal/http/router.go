package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/intelliplan-admin/internal/http/handlers"
	httpMW "github.com/yungbote/intelliplan-admin/internal/http/middleware"
	"github.com/yungbote/intelliplan-admin/internal/observability"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	AuthHandler      *httpH.AuthHandler
	AuthMiddleware   *httpMW.AuthMiddleware
	DashboardHandler *httpH.DashboardHandler
	UserHandler      *httpH.UserHandler
	SubjectHandler   *httpH.SubjectHandler
	FeedbackHandler  *httpH.FeedbackHandler
	RealtimeHandler  *httpH.RealtimeHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Auth (protected)
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/events", cfg.RealtimeHandler.Stream)
		}

		// Dashboard projections
		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Report)
			protected.POST("/dashboard/reload", cfg.DashboardHandler.Reload)
			protected.GET("/overview", cfg.DashboardHandler.Overview)
			protected.GET("/charts", cfg.DashboardHandler.Charts)
			protected.GET("/charts/:key", cfg.DashboardHandler.Chart)
			protected.GET("/charts/:key/png", cfg.DashboardHandler.ChartPNG)
			protected.GET("/users", cfg.DashboardHandler.Users)
			protected.GET("/subjects", cfg.DashboardHandler.Subjects)
			protected.GET("/feedback", cfg.DashboardHandler.Feedback)
			protected.GET("/audit-logs", cfg.DashboardHandler.AuditLogs)
			protected.GET("/search", cfg.DashboardHandler.Search)
			protected.GET("/export", cfg.DashboardHandler.Export)
			protected.POST("/export", cfg.DashboardHandler.UploadExport)
		}

		// Users (live profile and overrides)
		if cfg.UserHandler != nil {
			protected.GET("/users/:id", cfg.UserHandler.Profile)
			protected.POST("/users/:id/xp", cfg.UserHandler.AdjustXP)
			protected.PUT("/users/:id/streak", cfg.UserHandler.SetStreak)
		}

		// Subjects
		if cfg.SubjectHandler != nil {
			protected.POST("/subjects", cfg.SubjectHandler.Create)
			protected.PUT("/subjects/:id", cfg.SubjectHandler.Update)
			protected.DELETE("/subjects/:id", cfg.SubjectHandler.Delete)
		}

		// Feedback
		if cfg.FeedbackHandler != nil {
			protected.GET("/feedback/:id", cfg.FeedbackHandler.Get)
			protected.POST("/feedback/:id/resolve", cfg.FeedbackHandler.Resolve)
		}
	}

	return r
}
