package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/attendance-tracker/api/swagger"
	"github.com/noah-isme/attendance-tracker/internal/handler"
	"github.com/noah-isme/attendance-tracker/internal/middleware"
	"github.com/noah-isme/attendance-tracker/internal/repository"
	"github.com/noah-isme/attendance-tracker/internal/service"
	"github.com/noah-isme/attendance-tracker/pkg/cache"
	"github.com/noah-isme/attendance-tracker/pkg/config"
	"github.com/noah-isme/attendance-tracker/pkg/database"
	"github.com/noah-isme/attendance-tracker/pkg/logger"
	corsmiddleware "github.com/noah-isme/attendance-tracker/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/attendance-tracker/pkg/middleware/requestid"
)

// @title Attendance Tracker API
// @version 1.0.0
// @description Classroom attendance: accounts, class sections, enrollment, sessions and summaries
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

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer db.Close()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, metricsSvc, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	classSvc := service.NewClassService(classRepo, logr, metricsSvc)
	studentSvc := service.NewStudentService(classSvc, studentRepo, logr, metricsSvc)
	attendanceSvc := service.NewAttendanceService(classSvc, studentRepo, attendanceRepo, validate, logr, metricsSvc, nil)
	reportSvc := service.NewReportService(classSvc, studentRepo, attendanceRepo, logr, nil)
	exportSvc := service.NewExportService(reportSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, handler.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Session.Secure})
	classHandler := handler.NewClassHandler(classSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, reportSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	loginLimit := []gin.HandlerFunc{}
	if cfg.RateLimit.LoginEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("login rate limiting disabled, redis unavailable", zap.Error(err))
		} else {
			defer client.Close()
			limiter := cache.NewWindowLimiter(client, "login", cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow)
			loginLimit = append(loginLimit, middleware.RateLimit(limiter, logr))
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}
	r.Use(middleware.Identity(authSvc, cfg.Session.CookieName))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.GET("/", authHandler.Root)
	r.GET("/register", authHandler.RegisterForm)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", append(loginLimit, authHandler.Login)...)
	r.POST("/logout", authHandler.Logout)

	r.GET("/dashboard/:identity", classHandler.Dashboard)
	r.GET("/create_class/:identity", classHandler.CreateForm)
	r.POST("/create_class/:identity", classHandler.Create)
	r.POST("/save_class", classHandler.Create)
	r.POST("/save_class/:identity", classHandler.Create)
	r.GET("/take_attendance", classHandler.TakeAttendance)
	r.GET("/take_attendance/:identity", classHandler.TakeAttendance)

	r.GET("/student_entry/:classId", studentHandler.EntryForm)
	r.POST("/student_entry/:classId", studentHandler.Enroll)
	r.GET("/classes/:classId/students", studentHandler.List)

	r.GET("/attendance_table/:classId", attendanceHandler.Table)
	r.POST("/attendance_table/:classId", attendanceHandler.Record)

	r.GET("/attendance_calculation/:classId", reportHandler.Calculation)
	r.POST("/attendance_calculation/:classId", reportHandler.Calculation)
	r.GET("/attendance_calculation/:classId/export", reportHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db_driver", cfg.Database.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
