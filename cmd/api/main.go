package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sma-scheduler-api/api/swagger"
	internalhandler "github.com/noah-isme/sma-scheduler-api/internal/handler"
	"github.com/noah-isme/sma-scheduler-api/internal/service"
	"github.com/noah-isme/sma-scheduler-api/pkg/cache"
	"github.com/noah-isme/sma-scheduler-api/pkg/config"
	"github.com/noah-isme/sma-scheduler-api/pkg/jobs"
	"github.com/noah-isme/sma-scheduler-api/pkg/logger"
	"github.com/noah-isme/sma-scheduler-api/pkg/metrics"
	corsmiddleware "github.com/noah-isme/sma-scheduler-api/pkg/middleware/cors"
	metricsmiddleware "github.com/noah-isme/sma-scheduler-api/pkg/middleware/metrics"
	reqidmiddleware "github.com/noah-isme/sma-scheduler-api/pkg/middleware/requestid"
)

// @title SMA Scheduler API
// @version 1.0.0
// @description Weekly timetable generation service
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

	m := metrics.New()

	var solveCache *cache.SolveCache
	if client, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("solve cache disabled", "error", err)
	} else {
		defer client.Close() //nolint:errcheck
		solveCache = cache.NewSolveCache(client, cfg.Scheduler.CacheTTL)
	}

	timetableSvc := service.NewTimetableService(solveCache, nil, m, logr, cfg.Scheduler.SolveBudget)

	workers := cfg.Scheduler.WorkerConcurrency
	if workers <= 0 {
		workers = 1
	}
	solveQueue := jobs.NewQueue("timetable-solve", timetableSvc.Handle, jobs.QueueConfig{
		Workers:    workers,
		BufferSize: workers * 4,
		Logger:     logr,
	})
	queueCtx, cancel := context.WithCancel(context.Background())
	solveQueue.Start(queueCtx)
	defer func() {
		cancel()
		solveQueue.Stop()
	}()
	timetableSvc.SetQueue(solveQueue)

	timetableHandler := internalhandler.NewTimetableHandler(timetableSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metricsmiddleware.Middleware(m))

	r.GET("/health", healthHandler)
	r.GET("/ready", healthHandler)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	if cfg.Scheduler.DocsEnabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	timetableGroup := api.Group("/timetable")
	timetableGroup.POST("/generate", timetableHandler.Generate)
	timetableGroup.POST("/jobs", timetableHandler.SubmitJob)
	timetableGroup.GET("/jobs/:id", timetableHandler.JobStatus)
	timetableGroup.GET("/defaults", timetableHandler.Defaults)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
