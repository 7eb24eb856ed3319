package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/campushq/enroll-api/api/swagger"
	"github.com/campushq/enroll-api/internal/handler"
	"github.com/campushq/enroll-api/internal/middleware"
	"github.com/campushq/enroll-api/internal/repository"
	"github.com/campushq/enroll-api/internal/service"
	"github.com/campushq/enroll-api/pkg/cache"
	"github.com/campushq/enroll-api/pkg/config"
	"github.com/campushq/enroll-api/pkg/database"
	"github.com/campushq/enroll-api/pkg/logger"
	corsmiddleware "github.com/campushq/enroll-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushq/enroll-api/pkg/middleware/requestid"
)

// @title Course Enrollment API
// @version 1.0.0
// @description Student course-enrollment backend
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

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(database.URL(cfg.Database)); err != nil {
			logr.Sugar().Fatalw("migrations failed", "error", err)
		}
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.Auth)

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	studentSvc := service.NewStudentService(studentRepo, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, metricsSvc, cfg.Courses.CacheTTL, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseSvc, logr)

	studentHandler := handler.NewStudentHandler(studentSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	seedHandler := handler.NewSeedHandler(courseSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	// Registration happens before the subject holds a usable token, and
	// seeding is an operational bootstrap; both bypass the auth gate.
	r.POST("/register", studentHandler.Register)
	r.POST("/seed-courses", seedHandler.Seed)

	authed := r.Group("/", middleware.JWT(authSvc))
	{
		authed.GET("/students/:id", studentHandler.Get)
		authed.PUT("/students/:id", studentHandler.Update)

		authed.GET("/courses", courseHandler.List)
		authed.GET("/courses/:id", courseHandler.Get)

		authed.POST("/enrollments/enroll", enrollmentHandler.Enroll)
		authed.GET("/enrollments/student/:studentId", enrollmentHandler.ListByStudent)
		authed.DELETE("/enrollments/:id", enrollmentHandler.Drop)
	}

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
