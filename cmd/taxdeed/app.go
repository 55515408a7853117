package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mateuschrist/taxdeed-api/internal/config"
	"github.com/mateuschrist/taxdeed-api/internal/db"
	"github.com/mateuschrist/taxdeed-api/internal/logger"
	"github.com/mateuschrist/taxdeed-api/internal/metrics"
	"github.com/mateuschrist/taxdeed-api/internal/property"
	gormrepository "github.com/mateuschrist/taxdeed-api/internal/repository/gorm"
	"github.com/mateuschrist/taxdeed-api/internal/service"
)

// app holds everything the subcommands share once config and storage are up.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	db      *db.DB
	store   *gormrepository.Store
	metrics *metrics.Metrics

	ingest      *service.IngestService
	existence   *service.ExistenceService
	reconcile   *service.ReconcileService
	runs        *service.RunStateService
	maintenance *service.MaintenanceService
	properties  *service.PropertyAdminService
}

func bootstrap(cmd *cobra.Command, migrate bool) (*app, error) {
	cfg, err := config.Load(configPath(cmd), envOnly())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log, cfg.App.Env)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		log.Error("db open failed", zap.Error(err))
		return nil, err
	}
	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		log.Warn("failed to set timezone", zap.Error(err))
	}
	if migrate {
		if err := db.AutoMigrate(dbConn); err != nil {
			log.Error("auto-migrate failed", zap.Error(err))
			_ = db.Close(dbConn)
			return nil, err
		}
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		db:      dbConn,
		store:   gormrepository.New(dbConn.Gorm),
		metrics: metrics.New(cfg.Metrics.Enabled),
	}
	a.wireServices()
	return a, nil
}

func (a *app) wireServices() {
	resolver := property.NewResolver(a.cfg.Identity.DefaultCounty, a.cfg.Identity.DefaultState)
	defaults := auctionDefaults(a.cfg.AuctionDefaults)

	a.ingest = &service.IngestService{
		Repo:     a.store,
		Resolver: resolver,
		Policy:   &property.Policy{Defaults: defaults},
		Metrics:  a.metrics,
		Logger:   a.logger,
	}
	a.existence = &service.ExistenceService{
		Repo:        a.store,
		Resolver:    resolver,
		ChunkSize:   a.cfg.Ingest.ExistenceChunkSize,
		Parallelism: a.cfg.Ingest.ExistenceParallelism,
		Metrics:     a.metrics,
		Logger:      a.logger,
	}
	a.reconcile = &service.ReconcileService{
		Repo:      a.store,
		Resolver:  resolver,
		ChunkSize: a.cfg.Ingest.ReconcileChunkSize,
		Metrics:   a.metrics,
		Logger:    a.logger,
	}
	a.runs = &service.RunStateService{
		Repo:           a.store,
		DefaultScraper: a.cfg.Scraper.DefaultName,
		Metrics:        a.metrics,
		Logger:         a.logger,
	}
	a.maintenance = &service.MaintenanceService{
		Repo:       a.store,
		StaleAfter: a.cfg.Runs.StaleAfter,
		Metrics:    a.metrics,
		Logger:     a.logger,
	}
	a.properties = &service.PropertyAdminService{
		Repo:     a.store,
		Defaults: defaults,
		Logger:   a.logger,
	}
}

func (a *app) close() {
	if err := db.Close(a.db); err != nil {
		a.logger.Warn("db close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func auctionDefaults(entries []config.AuctionDefault) property.AuctionDefaults {
	out := make([]property.AuctionDefault, 0, len(entries))
	for _, e := range entries {
		out = append(out, property.AuctionDefault{
			County:    e.County,
			State:     e.State,
			Location:  e.Location,
			StartTime: e.StartTime,
			Platform:  e.Platform,
			SourceURL: e.SourceURL,
		})
	}
	return property.NewAuctionDefaults(out)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd, true)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			sqlDB := a.db.SQL
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			a.logger.Info("schema migrated", zap.String("driver", a.db.Gorm.Dialector.Name()))
			return nil
		},
	}
}
