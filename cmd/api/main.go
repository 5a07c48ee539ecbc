package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusworks/ccrm-api/api/swagger"
	"github.com/campusworks/ccrm-api/internal/handler"
	"github.com/campusworks/ccrm-api/internal/middleware"
	"github.com/campusworks/ccrm-api/internal/service"
	"github.com/campusworks/ccrm-api/internal/store"
	"github.com/campusworks/ccrm-api/pkg/backup"
	"github.com/campusworks/ccrm-api/pkg/config"
	"github.com/campusworks/ccrm-api/pkg/export"
	"github.com/campusworks/ccrm-api/pkg/jobs"
	"github.com/campusworks/ccrm-api/pkg/logger"
	corsmiddleware "github.com/campusworks/ccrm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusworks/ccrm-api/pkg/middleware/requestid"
)

// @title CCRM API
// @version 1.0.0
// @description Campus course and records manager
// @BasePath /api/v1
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()

	students := store.NewStudentStore()
	courses := store.NewCourseStore()
	enrollments := store.NewEnrollmentStore()
	grades := store.NewGradeStore()

	metricsSvc := service.NewMetricsService(students, courses)
	locks := service.NewStudentLocks()

	studentSvc := service.NewStudentService(students, cfg.Academic.MaxCreditsPerSemester, validate, logr)
	courseSvc := service.NewCourseService(courses, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollments, students, courses, cfg.Academic.MaxCreditsPerSemester, locks, metricsSvc, logr)
	gradeSvc := service.NewGradeService(grades, enrollments, students, courses, locks, metricsSvc, logr)
	transcriptSvc := service.NewTranscriptService(students, grades, courses, export.NewCSVExporter(), export.NewPDFExporter(), logr)
	importExportSvc := service.NewImportExportService(studentSvc, courseSvc, enrollmentSvc, gradeSvc, cfg.Export.Directory, logr)

	backupStore, err := backup.NewStore(cfg.Backup.Directory)
	if err != nil {
		logr.Sugar().Fatalw("failed to init backup store", "error", err)
	}
	backupSvc := service.NewBackupService(importExportSvc, backupStore, cfg.Backup.KeepCount, metricsSvc, logr)

	backupQueue := jobs.NewQueue(handler.JobBackup, func(ctx context.Context, job jobs.Job) error {
		name, err := backupSvc.Create(ctx)
		if err != nil {
			return err
		}
		logr.Sugar().Infow("backup completed", "job", job.ID, "backup", name)
		_, err = backupSvc.CleanOld(ctx)
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Backup.WorkerConcurrency,
		MaxRetries: cfg.Backup.WorkerRetries,
		RetryDelay: cfg.Backup.RetryDelay,
		Logger:     logr,
	})

	studentHandler := handler.NewStudentHandler(studentSvc, enrollmentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	transcriptHandler := handler.NewTranscriptHandler(transcriptSvc)
	backupHandler := handler.NewBackupHandler(backupSvc, backupQueue)
	importExportHandler := handler.NewImportExportHandler(importExportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/students", studentHandler.List)
		api.POST("/students", studentHandler.Create)
		api.GET("/students/stats", studentHandler.Statistics)
		api.GET("/students/:id", studentHandler.Get)
		api.PUT("/students/:id", studentHandler.Update)
		api.DELETE("/students/:id", studentHandler.Delete)
		api.POST("/students/:id/deactivate", studentHandler.Deactivate)
		api.GET("/students/:id/credits", studentHandler.Credits)
		api.GET("/students/:id/enrollments", enrollmentHandler.ByStudent)
		api.GET("/students/:id/grades", gradeHandler.ByStudent)
		api.GET("/students/:id/gpa", gradeHandler.GPA)
		api.GET("/students/:id/transcript", transcriptHandler.Get)
		api.GET("/students/:id/transcript/text", transcriptHandler.Text)
		api.GET("/students/:id/transcript/csv", transcriptHandler.CSV)
		api.GET("/students/:id/transcript/pdf", transcriptHandler.PDF)

		api.GET("/courses", courseHandler.List)
		api.POST("/courses", courseHandler.Create)
		api.GET("/courses/:code", courseHandler.Get)
		api.PUT("/courses/:code", courseHandler.Update)
		api.DELETE("/courses/:code", courseHandler.Delete)
		api.POST("/courses/:code/deactivate", courseHandler.Deactivate)
		api.POST("/courses/:code/instructor", courseHandler.AssignInstructor)
		api.GET("/courses/:code/enrollments", enrollmentHandler.ByCourse)
		api.GET("/courses/:code/grades", gradeHandler.ByCourse)
		api.GET("/courses/:code/average", gradeHandler.CourseAverage)
		api.GET("/courses/:code/distribution", gradeHandler.CourseDistribution)

		api.GET("/enrollments", enrollmentHandler.List)
		api.POST("/enrollments", enrollmentHandler.Enroll)
		api.GET("/enrollments/stats", enrollmentHandler.Statistics)
		api.DELETE("/enrollments/:id/:code", enrollmentHandler.Unenroll)
		api.PUT("/enrollments/:id/:code/status", enrollmentHandler.UpdateStatus)

		api.POST("/grades", gradeHandler.Record)
		api.GET("/grades/stats", gradeHandler.Statistics)
		api.PUT("/grades/:id/:code", gradeHandler.Update)
		api.DELETE("/grades/:id/:code", gradeHandler.Delete)

		api.GET("/backups", backupHandler.List)
		api.POST("/backups", backupHandler.Create)
		api.POST("/backups/clean", backupHandler.Clean)
		api.GET("/backups/:name", backupHandler.Info)

		api.POST("/import/students", importExportHandler.ImportStudents)
		api.POST("/import/courses", importExportHandler.ImportCourses)
		api.POST("/import/enrollments", importExportHandler.ImportEnrollments)
		api.POST("/import/grades", importExportHandler.ImportGrades)
		api.POST("/export", importExportHandler.ExportAll)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backupQueue.Start(ctx)
	defer backupQueue.Stop()

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown error", "error", err)
	}
}
