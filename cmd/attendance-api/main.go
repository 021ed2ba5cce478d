package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/engabdallh/attendance-registry/api/swagger"
	"github.com/engabdallh/attendance-registry/internal/handler"
	"github.com/engabdallh/attendance-registry/internal/middleware"
	"github.com/engabdallh/attendance-registry/internal/models"
	"github.com/engabdallh/attendance-registry/internal/repository"
	"github.com/engabdallh/attendance-registry/internal/service"
	"github.com/engabdallh/attendance-registry/pkg/cache"
	"github.com/engabdallh/attendance-registry/pkg/config"
	"github.com/engabdallh/attendance-registry/pkg/database"
	"github.com/engabdallh/attendance-registry/pkg/logger"
	corsmiddleware "github.com/engabdallh/attendance-registry/pkg/middleware/cors"
	reqidmiddleware "github.com/engabdallh/attendance-registry/pkg/middleware/requestid"
)

// @title Attendance Registry API
// @version 1.0.0
// @description Role-gated course registration and absence tracking
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// The cache is optional. Repositories tolerate a nil client and fall
	// through to the database.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	personRepo := repository.NewPersonRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.Auth, validate, logr)
	registrationSvc := service.NewRegistrationService(personRepo, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, cfg.Courses.StateCacheTTL, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, personRepo, cacheRepo,
		cfg.Attendance.MaxAbsences, cfg.Attendance.ReportCacheTTL, validate, logr)
	registrationSvc.SetMetrics(metricsSvc)
	attendanceSvc.SetMetrics(metricsSvc)
	exportSvc := service.NewExportService(personRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	personHandler := handler.NewPersonHandler(registrationSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	api.POST("/persons", personHandler.Register)
	api.GET("/persons", personHandler.List)
	api.GET("/persons/:name", personHandler.Get)
	api.GET("/persons/:name/absences", attendanceHandler.CheckAbsences)
	api.GET("/persons/:name/attendance", attendanceHandler.History)

	api.GET("/courses", courseHandler.List)
	api.GET("/courses/:name", courseHandler.Status)

	authed := api.Group("", middleware.JWT(authSvc))
	authed.PUT("/persons/:name", middleware.RequireRoles(models.RoleStudent), personHandler.Update)
	authed.DELETE("/persons/:name", middleware.RequireRoles(models.RoleTeacher), personHandler.Delete)
	authed.POST("/attendance", middleware.RequireRoles(models.RoleTeacher), attendanceHandler.Record)
	authed.POST("/courses/:name/open", middleware.RequireRoles(models.RoleTeacher), courseHandler.Open)
	authed.POST("/courses/:name/close", middleware.RequireRoles(models.RoleTeacher), courseHandler.Close)
	authed.GET("/persons/export", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), exportHandler.Roster)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
