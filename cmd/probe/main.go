// Command probe checks one account against the live site and prints the
// verdict, without touching the database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/browser"
	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
	"github.com/vunguyen00/Netflix/pkg/prober"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to the configuration file")
		cookies     = flag.String("cookies", "", "Session cookies, or @path to read them from a file")
		password    = flag.String("password", "", "Account password; empty skips the password check")
		sessionOnly = flag.Bool("session-only", false, "Only check that the session is signed in")
		headful     = flag.Bool("headful", false, "Show the browser window")
		logLevel    = flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	)
	flag.Parse()

	if err := logger.InitLogger(logger.Options{Development: true, Level: *logLevel}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *headful {
		cfg.Browser.Headless = false
	}

	raw, err := readCookies(*cookies)
	if err != nil {
		logger.Fatal("Failed to read cookies", zap.Error(err))
	}

	opts, err := prober.OptionsFromConfig(cfg.Target, cfg.Warranty)
	if err != nil {
		logger.Fatal("Invalid target configuration", zap.Error(err))
	}
	p := prober.New(opts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var verdict prober.Verdict
	err = browser.WithSession(ctx, browser.NewChromeLauncher(cfg.Browser), func(d browser.Driver) error {
		var err error
		if *sessionOnly {
			verdict, err = p.CheckSession(ctx, d, raw)
			return err
		}
		verdict, err = p.Probe(ctx, d, prober.Target{Password: *password, Session: raw}, prober.Hooks{
			BeforePasswordCheck: func() { logger.Info("Session alive, checking password") },
		})
		return err
	})
	if err != nil {
		logger.Error("Probe aborted", zap.Error(err))
		os.Exit(2)
	}

	out, _ := json.MarshalIndent(map[string]interface{}{
		"live":             verdict.Live(),
		"session_alive":    verdict.SessionAlive,
		"password_checked": verdict.PasswordChecked,
		"password_ok":      verdict.PasswordOK,
		"reason":           verdict.Reason,
		"final_url":        verdict.FinalURL,
	}, "", "  ")
	fmt.Println(string(out))

	if !verdict.Live() {
		os.Exit(1)
	}
}

func readCookies(arg string) (string, error) {
	if !strings.HasPrefix(arg, "@") {
		return arg, nil
	}
	data, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
