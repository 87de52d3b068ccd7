package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/charlesng35/eventboard/internal/app"
	"github.com/charlesng35/eventboard/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	port        int
	migrateOnly bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("eventboard-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration directory or file")
	fs.IntVar(&opts.port, "port", 0, "Override server.port")
	fs.BoolVar(&opts.migrateOnly, "migrate-only", false, "Apply database migrations and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.port < 0 || opts.port > 65535 {
		return options{}, fmt.Errorf("invalid -port %d", opts.port)
	}
	return opts, nil
}

func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	defaults, err := app.ApplyRuntimeDefaults(cfg)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	log := logger.WithModule("bootstrap")
	if len(defaults.Generated) > 0 {
		log.Warn("generated ephemeral secrets; tokens will not survive a restart", zap.Strings("keys", defaults.Generated))
	}
	if len(defaults.Adjusted) > 0 {
		log.Info("applied built-in notification settings", zap.Strings("keys", defaults.Adjusted))
	}

	if err := ensureSecretsPresent(cfg); err != nil {
		return err
	}

	if opts.migrateOnly {
		db, err := initialiseDatabase(cfg)
		if err != nil {
			return err
		}
		closeDatabase(db, log)
		log.Info("migrations applied")
		return nil
	}

	stack, err := bootstrapRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}

	return serve(ctx, &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           stack.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}, stack, log)
}

// serve runs server until ctx ends or it fails, then drains the server and the runtime stack.
func serve(ctx context.Context, server *http.Server, stack *runtimeStack, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		stack.Shutdown(shutdownCtx, log)
		if err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	return nil
}
