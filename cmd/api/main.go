package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	_ "github.com/attendease/attendease-api/api/swagger"
	"github.com/attendease/attendease-api/internal/handler"
	"github.com/attendease/attendease-api/internal/repository"
	"github.com/attendease/attendease-api/internal/service"
	"github.com/attendease/attendease-api/pkg/cache"
	"github.com/attendease/attendease-api/pkg/config"
	"github.com/attendease/attendease-api/pkg/database"
	"github.com/attendease/attendease-api/pkg/export"
	"github.com/attendease/attendease-api/pkg/logger"
	"github.com/attendease/attendease-api/pkg/qr"
)

// @title Attendease API
// @version 1.0.0
// @description QR-based attendance tracking backend
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

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.ReportsTTL, logr, true)
		}
	}

	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)

	validate := validator.New()
	encoder := qr.NewEncoder(cfg.QR.ImageSize)

	identitySvc := service.NewIdentityService(teacherRepo, studentRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	sessionSvc := service.NewSessionService(teacherRepo, subjectRepo, sessionRepo, encoder, cacheSvc, metricsSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, sessionRepo, cacheSvc, metricsSvc, validate, logr)
	reportSvc := service.NewReportService(sessionRepo, attendanceRepo, cacheSvc, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(identitySvc),
		Subject:    handler.NewSubjectHandler(subjectSvc),
		Session:    handler.NewSessionHandler(sessionSvc),
		Attendance: handler.NewAttendanceHandler(attendanceSvc),
		Report:     handler.NewReportHandler(reportSvc),
	}

	r := handler.NewRouter(cfg, logr, metricsSvc, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
