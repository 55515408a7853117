package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	cronrunner "github.com/mateuschrist/taxdeed-api/internal/cron"
	"github.com/mateuschrist/taxdeed-api/internal/handler"
	"github.com/mateuschrist/taxdeed-api/internal/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and maintenance jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve()
		},
	}
}

func (a *app) serve() error {
	if strings.EqualFold(a.cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := a.router()
	srv := &http.Server{
		Addr:              a.cfg.Server.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Cron.Enabled {
		runner := cronrunner.New(a.logger, ctx)
		a.scheduleMaintenance(runner)
		runner.Start()
		defer runner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			a.logger.Error("http server failed", zap.Error(err))
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("http shutdown failed", zap.Error(err))
	}
	a.logger.Info("http server stopped")
	return nil
}

func (a *app) router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.AccessLog(a.logger, a.metrics))
	engine.Use(middleware.RequireBearer(a.cfg.Auth.IngestToken, a.logger))

	(&handler.HealthHandler{DB: a.db.Gorm}).Register(engine)
	handler.RegisterDocs(engine)
	(&handler.IngestHandler{Ingest: a.ingest, MaxBatchSize: a.cfg.Ingest.MaxBatchSize}).Register(engine)
	(&handler.ExistenceHandler{Existence: a.existence}).Register(engine)
	(&handler.ReconcileHandler{Reconcile: a.reconcile}).Register(engine)
	(&handler.ScraperHandler{Runs: a.runs}).Register(engine)
	(&handler.PropertyHandler{Properties: a.properties}).Register(engine)

	if a.metrics.Enabled() {
		engine.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	}
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return engine
}

func (a *app) scheduleMaintenance(runner *cronrunner.Runner) {
	jobs := []cronrunner.Job{
		{
			Name:    "daily_reset",
			Spec:    a.cfg.Cron.DailyReset,
			Timeout: time.Minute,
			Run: func(ctx context.Context) error {
				_, err := a.maintenance.ResetDailyFlags(ctx)
				return err
			},
		},
		{
			Name:    "stale_run_sweep",
			Spec:    a.cfg.Cron.StaleRunSweep,
			Timeout: time.Minute,
			Run: func(ctx context.Context) error {
				_, err := a.maintenance.CloseStaleRuns(ctx)
				return err
			},
		},
	}
	for _, job := range jobs {
		if _, err := runner.Add(job); err != nil {
			a.logger.Warn("cron register failed", zap.String("job", job.Name), zap.Error(err))
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
