// @title Netflix Warranty API
// @version 1.0.0
// @description Sells shared streaming accounts and replaces dead ones from the account pool.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/clock"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/handlers"
	"github.com/vunguyen00/Netflix/pkg/lock"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/notifier"
	"github.com/vunguyen00/Netflix/pkg/prober"
	"github.com/vunguyen00/Netflix/pkg/scheduler"
	"github.com/vunguyen00/Netflix/pkg/server"
	"github.com/vunguyen00/Netflix/pkg/store"
	"github.com/vunguyen00/Netflix/pkg/warranty"
)

func main() {
	configPath := flag.String("config", "", "Path to the configuration file")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this .yaml or .json file and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration written to %s\n", *writeConfig)
		return
	}

	if err := logger.InitLogger(logger.Options{
		Development: cfg.IsDevelopment(),
		Path:        cfg.App.LogFile,
		Level:       cfg.App.LogLevel,
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.NewSystem()

	db, err := store.Open(cfg.Database)
	if err != nil {
		return err
	}
	st := store.New(db, clk)
	defer func() { _ = st.Close() }()

	locker, closeLocker, err := newLocker(ctx, cfg, clk)
	if err != nil {
		return err
	}
	defer closeLocker()

	probeOpts, err := prober.OptionsFromConfig(cfg.Target, cfg.Warranty)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrTargetConfig, err)
	}

	opts := []warranty.Option{
		warranty.WithRuns(st.Runs),
		warranty.WithClock(clk),
		warranty.WithLockTTL(cfg.Warranty.LockTTL()),
	}
	deps := scheduler.Dependencies{
		Orders: st.Orders,
		Pool:   st.Credentials,
		Claims: st.Credentials,
		Clock:  clk,
	}
	if cfg.Telegram.Enabled {
		tg := notifier.NewTelegramNotifier(cfg.Telegram)
		if err := tg.TestConnection(ctx); err != nil {
			logger.Warn("Telegram bot unreachable, alerts may be lost", zap.Error(err))
		}
		opts = append(opts, warranty.WithAlerter(tg))
		deps.Alerter = tg
	}

	orch := warranty.New(
		browser.NewChromeLauncher(cfg.Browser),
		prober.New(probeOpts),
		st.Credentials,
		st.Orders,
		locker,
		opts...,
	)

	handlerSvc := handlers.NewHandlerService(cfg, st, orch)

	var sched *scheduler.TaskScheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.NewTaskScheduler(ctx, cfg.Scheduler, deps)
		if err != nil {
			return err
		}
		handlerSvc.SetScheduler(sched)
		go func() {
			if err := sched.Start(); err != nil {
				logger.Error("Scheduler stopped", zap.Error(err))
			}
		}()
	}

	srv := server.NewHTTPServer(cfg, handlerSvc)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if sched != nil {
		_ = sched.Shutdown(shutdownCtx)
	}
	return nil
}

// newLocker picks the Redis lock when configured so several replicas never
// run the same order at once
func newLocker(ctx context.Context, cfg *config.Config, clk clock.Clock) (lock.Locker, func(), error) {
	if !cfg.Redis.Enabled {
		logger.Info("Using in-process warranty lock")
		return lock.NewMemoryLocker(clk), func() {}, nil
	}

	rl := lock.NewRedisLocker(cfg.Redis)
	if err := rl.Ping(ctx); err != nil {
		_ = rl.Close()
		return nil, nil, fmt.Errorf("%w: %v", config.ErrRedisConfig, err)
	}
	logger.Info("Using Redis warranty lock", zap.String("addr", cfg.Redis.Addr))
	return rl, func() { _ = rl.Close() }, nil
}
