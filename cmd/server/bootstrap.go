package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/api"
	"github.com/charlesng35/eventboard/internal/app"
	"github.com/charlesng35/eventboard/internal/app/maintenance"
	iauth "github.com/charlesng35/eventboard/internal/auth"
	"github.com/charlesng35/eventboard/internal/database"
	"github.com/charlesng35/eventboard/internal/middleware"
	"github.com/charlesng35/eventboard/internal/services"
	"github.com/charlesng35/eventboard/pkg/logger"
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Suite     *services.NotificationSuite
	Cleaner   *maintenance.Cleaner
	RateStore middleware.RateStore
	Router    *gin.Engine
}

// bootstrapRuntime initialises the database, notification services, maintenance jobs and the HTTP router.
func bootstrapRuntime(_ context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// GIN_DEBUG=true keeps gin in debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	stack.Suite, err = services.NewNotificationSuite(stack.DB, services.SuiteOptions{
		Store:      cfg.Notifications.StoreOptions(),
		Reconciler: cfg.Notifications.ReconcilerOptions(),
	})
	if err != nil {
		return nil, fmt.Errorf("initialise notification services: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(stack.Suite.Store, stack.Suite.Reconciler, cfg.Notifications.MaintenanceOptions()...)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.RateStore = middleware.NewMemoryRateStore()

	stack.Router, err = api.NewRouter(stack.DB, jwtSvc, cfg, stack.Suite, stack.RateStore)
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown gracefully stops background jobs, drains pending cleanups and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		<-s.Cleaner.Stop().Done()
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	if s.Suite != nil {
		s.Suite.Reconciler.Wait()
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
		s.DB = nil
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := convertDatabaseConfig(cfg)
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		closeDatabase(db, logger.WithModule("database"))
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	log := logger.WithModule("database")
	log.Info("database connected", zap.String("driver", dbCfg.Driver))

	return db, nil
}

func convertDatabaseConfig(cfg *app.Config) database.Config {
	dbCfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(cfg.Database.Driver)),
		Path:   strings.TrimSpace(cfg.Database.Path),
		DSN:    strings.TrimSpace(cfg.Database.DSN),
	}

	var auth *app.DBAuthConfig
	switch dbCfg.Driver {
	case "", "sqlite":
		dbCfg.Driver = "sqlite"
	case "postgres", "postgresql":
		dbCfg.Driver = "postgres"
		auth = &cfg.Database.Postgres
	case "mysql":
		auth = &cfg.Database.MySQL
	default:
		// Leave driver as-is to surface unsupported driver error during open.
	}

	if auth != nil {
		dbCfg.Host = strings.TrimSpace(auth.Host)
		dbCfg.Port = auth.Port
		dbCfg.Name = strings.TrimSpace(auth.Database)
		dbCfg.User = strings.TrimSpace(auth.Username)
		dbCfg.Password = strings.TrimSpace(auth.Password)
		dbCfg.Options = auth.Options
	}

	return dbCfg
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
