// Package main is the entry point for the SSD health agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ssdhealthagent/internal/collector"
	"ssdhealthagent/internal/config"
	"ssdhealthagent/internal/logger"
	"ssdhealthagent/internal/scheduler"
	"ssdhealthagent/internal/sender"
	"ssdhealthagent/internal/ssd"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "conf/ssdhealthagent.json", "Path to configuration file")
		device      = flag.String("device", "", "Print a one-shot health report for the given device and exit")
		verbose     = flag.Bool("verbose", false, "Include raw tool output in the one-shot report")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ssdhealthagent %s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	if *device != "" {
		runOneShot(*device, *verbose)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log := logger.WithComponent("main")
	log.Info().
		Str("version", version).
		Str("config", *configPath).
		Msg("Starting ssdhealthagent")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *configPath); err != nil {
		log.Fatal().Err(err).Msg("Agent exited with error")
	}

	log.Info().Msg("ssdhealthagent stopped")
}

// runOneShot probes a single device and prints the report to stdout.
// Logging is kept quiet so that the report is the only output.
func runOneShot(device string, verbose bool) {
	_ = logger.Init(logger.Config{Level: "error", Console: true})

	d := ssd.New(context.Background(), device)

	fmt.Printf("Device Model : %s\n", d.Model())
	fmt.Printf("Serial       : %s\n", d.Serial())
	fmt.Printf("Firmware     : %s\n", d.Firmware())
	fmt.Printf("Health       : %s\n", formatFloat(d.Health, "%"))
	fmt.Printf("Temperature  : %s\n", formatFloat(d.Temperature, "C"))
	fmt.Printf("Power On Hours        : %s\n", formatInt(d.PowerOnHours))
	fmt.Printf("Power Cycle Count     : %s\n", formatInt(d.PowerCycleCount))
	fmt.Printf("Total Bad Block Count : %s\n", formatInt(d.TotalBadBlockCount))
	fmt.Printf("Erase Count Max       : %s\n", formatInt(d.EraseCountMax))
	fmt.Printf("Erase Count Avg       : %s\n", formatInt(d.EraseCountAvg))

	if verbose {
		fmt.Printf("\n--- Generic tool output ---\n%s\n", d.GenericOutput())
		fmt.Printf("\n--- Vendor tool output ---\n%s\n", d.VendorOutput())
	}
}

func formatFloat(get func() (float64, error), unit string) string {
	v, err := get()
	if err != nil {
		return ssd.NotAvailable
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}

func formatInt(get func() (int64, error)) string {
	v, err := get()
	if err != nil {
		return ssd.NotAvailable
	}
	return fmt.Sprintf("%d", v)
}

func run(ctx context.Context, cfg *config.Config, configPath string) error {
	log := logger.WithComponent("main")

	agentID := config.GetAgentID(cfg)
	hostname := config.GetHostname()

	log.Info().
		Str("agent_id", agentID).
		Str("hostname", hostname).
		Msg("Agent initialized")

	registry := collector.DefaultRegistry()
	if err := registry.Configure(cfg.Collectors); err != nil {
		return fmt.Errorf("failed to configure collectors: %w", err)
	}

	snd, err := sender.NewSender(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}
	defer func() {
		log.Info().Msg("Closing sender")
		if err := snd.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing sender")
		}
	}()

	sched := scheduler.New(registry, snd, agentID, hostname)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Hot reload of collector settings on config file changes.
	watcher, err := config.NewConfigWatcher(configPath, func(newCfg *config.Config) {
		log.Info().Msg("Applying configuration changes")

		if err := registry.Configure(newCfg.Collectors); err != nil {
			log.Error().Err(err).Msg("Failed to update collector configurations")
			return
		}
		if err := logger.Init(newCfg.Logging); err != nil {
			log.Error().Err(err).Msg("Failed to update logging configuration")
			return
		}
		if fs, ok := snd.(*sender.FileSender); ok {
			fs.SetConsole(newCfg.File.Console)
		}
		sched.Reconfigure()

		log.Info().Msg("Configuration updated")
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create config watcher, hot reload disabled")
	} else {
		if err := watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start config watcher")
		} else {
			defer func() {
				if err := watcher.Stop(); err != nil {
					log.Error().Err(err).Msg("Error stopping config watcher")
				}
			}()
		}
	}

	<-ctx.Done()
	log.Info().Msg("Received shutdown signal")

	sched.Stop()

	return nil
}
