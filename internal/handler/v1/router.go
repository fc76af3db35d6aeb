package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labtrends/labtrends/internal/config"
	"github.com/labtrends/labtrends/internal/domain"
	"github.com/labtrends/labtrends/internal/service"
	"github.com/labtrends/labtrends/pkg/auth"
	"github.com/labtrends/labtrends/pkg/metrics"
	"go.uber.org/zap"
)

type RouterDeps struct {
	AuthSvc       *service.AuthService
	ReportSvc     *service.ReportService
	TrendSvc      *service.TrendService
	ConnectionSvc *service.ConnectionService
	ProfileSvc    *service.ProfileService
	JWTManager    *auth.JWTManager
	Collector     *metrics.Collector
	CORS          config.CORSConfig
	Log           *zap.Logger
}

// NewRouter wires the full HTTP surface.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		RequestID(),
		Recovery(deps.Log),
		RequestLogger(deps.Log),
		Metrics(deps.Collector),
		CORS(deps.CORS),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.AuthSvc)
	reportHandler := NewReportHandler(deps.ReportSvc, deps.ConnectionSvc)
	trendHandler := NewTrendHandler(deps.TrendSvc, deps.ConnectionSvc, deps.Collector)
	connectionHandler := NewConnectionHandler(deps.ConnectionSvc)
	profileHandler := NewProfileHandler(deps.ProfileSvc)
	dashboardHandler := NewDashboardHandler(deps.ReportSvc, deps.ConnectionSvc)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	authed := api.Group("", Authenticate(deps.JWTManager))

	reports := authed.Group("/reports")
	{
		reports.POST("", RequireRole(domain.RolePatient), reportHandler.Ingest)
		reports.GET("", RequireRole(domain.RolePatient), reportHandler.List)
		reports.GET("/:fileId", reportHandler.Get)
		reports.DELETE("/:fileId", reportHandler.Delete)
		reports.POST("/:fileId/comment", RequireRole(domain.RoleDoctor), reportHandler.AddComment)
	}

	trends := authed.Group("/trends", RequireRole(domain.RolePatient))
	{
		trends.GET("", trendHandler.AllTimelines)
		trends.GET("/:metric", trendHandler.Timeline)
	}
	authed.GET("/metrics-catalog", trendHandler.ListMetrics)

	connections := authed.Group("/connections")
	{
		connections.POST("/requests", RequireRole(domain.RolePatient), connectionHandler.SendRequest)
		connections.GET("/requests", RequireRole(domain.RoleDoctor), connectionHandler.Inbox)
		connections.POST("/requests/:requestId/accept", RequireRole(domain.RoleDoctor), connectionHandler.Accept)
		connections.POST("/requests/:requestId/reject", RequireRole(domain.RoleDoctor), connectionHandler.Reject)
		connections.GET("/status", RequireRole(domain.RolePatient), connectionHandler.Status)
		connections.GET("/doctor", RequireRole(domain.RolePatient), connectionHandler.AssignedDoctor)
		connections.GET("/patients", RequireRole(domain.RoleDoctor), connectionHandler.Patients)
	}

	patients := authed.Group("/patients", RequireRole(domain.RoleDoctor))
	{
		patients.GET("/:email/reports", reportHandler.PatientReports)
		patients.GET("/:email/trends", trendHandler.PatientTimelines)
	}

	profiles := authed.Group("/profile")
	{
		profiles.GET("/patient", RequireRole(domain.RolePatient), profileHandler.GetPatient)
		profiles.PUT("/patient", RequireRole(domain.RolePatient), profileHandler.SavePatient)
		profiles.GET("/doctor", RequireRole(domain.RoleDoctor), profileHandler.GetDoctor)
		profiles.PUT("/doctor", RequireRole(domain.RoleDoctor), profileHandler.SaveDoctor)
	}
	authed.GET("/doctors", profileHandler.ListDoctors)

	dashboard := authed.Group("/dashboard")
	{
		dashboard.GET("/admin", RequireRole(domain.RoleAdmin), dashboardHandler.Admin)
		dashboard.GET("/doctor", RequireRole(domain.RoleDoctor), dashboardHandler.Doctor)
	}

	admin := authed.Group("/admin", RequireRole(domain.RoleAdmin))
	{
		admin.GET("/connections/requests", connectionHandler.AllRequests)
	}

	return r
}
