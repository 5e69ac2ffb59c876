package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/middleware"
	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/logger"
	corsmiddleware "github.com/attendease/attendease-api/pkg/middleware/cors"
	reqidmiddleware "github.com/attendease/attendease-api/pkg/middleware/requestid"
)

// Handlers bundles the HTTP handlers mounted by the router.
type Handlers struct {
	Auth       *AuthHandler
	Subject    *SubjectHandler
	Session    *SessionHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
}

// NewRouter assembles the gin engine with middleware, operational endpoints
// and the API routes under the configured prefix.
func NewRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Attendance API is running"})
	})

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
	r.GET("/health", health)

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/health", health)

		api.POST("/register/teacher", h.Auth.RegisterTeacher)
		api.POST("/register/student", h.Auth.RegisterStudent)
		api.POST("/login", h.Auth.Login)

		api.GET("/teacher/subjects", h.Subject.List)
		api.POST("/teacher/subjects", h.Subject.Add)
		api.POST("/teacher/generate-qr", h.Session.GenerateQR)
		api.GET("/teacher/attendance-records", h.Report.TeacherRecords)
		if cfg.Export.Enabled {
			api.GET("/teacher/attendance-records/export", h.Report.ExportRoster)
		}

		api.POST("/student/mark-attendance", h.Attendance.Mark)
		api.GET("/student/attendance-history", h.Report.StudentHistory)
	}

	return r
}
