package browser

import (
	"os"
	"runtime"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/vunguyen00/Netflix/pkg/config"
	"github.com/vunguyen00/Netflix/pkg/logger"
)

// chromeCandidates lists install locations probed when no exec path is configured
func chromeCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			os.Getenv("LOCALAPPDATA") + `\Google\Chrome\Application\chrome.exe`,
		}
	default:
		return []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
			"/opt/google/chrome/google-chrome",
		}
	}
}

// ChromePath returns the configured executable or the first installed one.
// An empty result lets chromedp fall back to its own lookup.
func ChromePath(configured string) string {
	if configured != "" {
		return configured
	}
	for _, path := range chromeCandidates() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// AllocatorOptions builds the exec allocator flags for cfg
func AllocatorOptions(cfg *config.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.Flag("incognito", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-features", "TranslateUI"),
		chromedp.WindowSize(1366, 900),
	}

	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	if runtime.GOOS == "linux" {
		// containers usually run without a usable sandbox
		opts = append(opts,
			chromedp.NoSandbox,
			chromedp.Flag("disable-setuid-sandbox", true),
			chromedp.Flag("no-zygote", true),
		)
	}

	if cfg.Headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	if path := ChromePath(cfg.ExecPath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
		logger.Debug("Using Chrome executable", zap.String("path", path))
	} else {
		logger.Warn("Chrome path not found, using chromedp default lookup")
	}

	return opts
}
