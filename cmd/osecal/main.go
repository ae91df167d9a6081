package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/jonamarkin/ose-calendar/internal/config"
	appLog "github.com/jonamarkin/ose-calendar/internal/log"
	"github.com/jonamarkin/ose-calendar/internal/pipeline"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	input      string
	outDir     string
	year       int
	once       bool
}

func main() {
	appLog.Info("osecal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override config file values if provided.
	if flags.input != "" {
		conf.SourceURL = flags.input
	}
	if flags.outDir != "" {
		conf.OutputDir = flags.outDir
	}
	if flags.year != 0 {
		conf.ContextYear = flags.year
	}

	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("effective config",
		"source_url", conf.SourceURL,
		"output_dir", conf.OutputDir,
		"context_year", conf.ContextYear,
		"refresh", conf.RefreshCron,
		"min_events", conf.MinEvents,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	p := pipeline.New(conf)

	if flags.once {
		if err := p.Run(ctx); err != nil {
			appLog.Error("run failed", err)
			os.Exit(1)
		}
		appLog.Info("osecal exiting")
		return
	}

	// Scheduled mode: run immediately, then on the configured cron
	// schedule until interrupted. Individual run failures are logged
	// but do not stop the scheduler.
	runOnce := func() {
		if err := p.Run(ctx); err != nil {
			appLog.Error("scheduled run failed", err)
		}
	}

	runOnce()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, runOnce); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()
	appLog.Info("osecal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "./osecal.yaml", "Path to config file")
	flag.StringVar(&cfg.input, "input", "", "Source document URL (overrides config if set)")
	flag.StringVar(&cfg.outDir, "out", "", "Output directory (overrides config if set)")
	flag.IntVar(&cfg.year, "year", 0, "Context year for date phrases without one (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch+transform cycle and exit")

	flag.Parse()

	return cfg
}
