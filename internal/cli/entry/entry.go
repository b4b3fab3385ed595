package entry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/regenrek/metarbar/internal/cli/app"
	"github.com/regenrek/metarbar/internal/cli/root"
	"github.com/regenrek/metarbar/internal/config"
	"github.com/regenrek/metarbar/internal/identity"
	"github.com/regenrek/metarbar/internal/logging"
)

// Run starts the CLI and returns the process exit code.
func Run(args []string, version string) int {
	appName := identity.CLIName
	mode := logging.ModeFromArgs(args)

	logCfg, err := loadLogConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	closeLogger, err := logging.Init(context.Background(), logCfg, logging.InitOptions{
		App:     identity.AppSlug,
		Version: version,
		Mode:    mode,
	})
	if err != nil {
		fallbackLogger(mode, err)
	} else if closeLogger != nil {
		defer func() { _ = closeLogger() }()
	}

	deps := root.DefaultDependencies(version)
	deps.AppName = appName
	runner, err := app.NewRunner(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	if err := runner.Run(context.Background(), args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		return 1
	}
	return 0
}

// loadLogConfig pulls the logging section out of the global config,
// seeding the default file on first run. An unresolvable config path
// just means zero-value logging.
func loadLogConfig() (logging.Config, error) {
	path, err := config.DefaultConfigPath()
	if err != nil || path == "" {
		return logging.Config{}, nil
	}
	if err := config.EnsureDefaultGlobalConfig(path); err != nil {
		return logging.Config{}, fmt.Errorf("init config: %w", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return logging.Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg == nil {
		return logging.Config{}, nil
	}
	return cfg.Logging, nil
}

// fallbackLogger stands in when the file sink cannot be opened. Stderr
// writes would bleed into the alt screen once the panel takes over, so
// panel mode runs silent instead.
func fallbackLogger(mode logging.Mode, initErr error) {
	if mode == logging.ModePanel {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	slog.Error("init logging failed; using stderr fallback", "err", initErr)
}
