package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/obsctl/cmd"
	"github.com/smazurov/obsctl/internal/config"
	"github.com/smazurov/obsctl/internal/events"
	"github.com/smazurov/obsctl/internal/logging"
	"github.com/smazurov/obsctl/internal/metrics"
	"github.com/smazurov/obsctl/internal/monitor"
	"github.com/smazurov/obsctl/internal/natsbridge"
	"github.com/smazurov/obsctl/internal/systemd"
	"github.com/smazurov/obsctl/internal/tally"
	"github.com/smazurov/obsctl/pkg/obsws"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"obsctl.toml"`

	// OBS connection settings
	ObsAddr     string `help:"OBS websocket address" default:"ws://localhost:4444" toml:"obs.addr" env:"OBS_ADDR"`
	ObsPassword string `help:"OBS websocket password" default:"" toml:"obs.password" env:"OBS_PASSWORD"`

	// Monitor settings
	MonitorPollInterval string `help:"Output status poll interval" default:"5s" toml:"monitor.poll_interval" env:"MONITOR_POLL_INTERVAL"`
	MonitorMetricsAddr  string `help:"Prometheus metrics listen address" default:":9110" toml:"monitor.metrics_addr" env:"MONITOR_METRICS_ADDR"`

	// Tally settings
	TallyConfigFile string `help:"Tally configuration file" default:"tally.toml" toml:"tally.config_file" env:"TALLY_CONFIG_FILE"`

	// NATS settings
	NatsURL string `help:"NATS server URL for event export (empty disables)" default:"" toml:"nats.url" env:"NATS_URL"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingObsws   string `help:"Websocket client logging level" default:"info" toml:"logging.obsws" env:"LOGGING_OBSWS"`
	LoggingMonitor string `help:"Monitor logging level" default:"info" toml:"logging.monitor" env:"LOGGING_MONITOR"`
	LoggingTally   string `help:"Tally logging level" default:"info" toml:"logging.tally" env:"LOGGING_TALLY"`
	LoggingNats    string `help:"NATS bridge logging level" default:"info" toml:"logging.nats" env:"LOGGING_NATS"`
}

const connectTimeout = 10 * time.Second

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, nil); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"obsws":   opts.LoggingObsws,
				"monitor": opts.LoggingMonitor,
				"tally":   opts.LoggingTally,
				"nats":    opts.LoggingNats,
			},
		})

		logger := logging.GetLogger("main")

		pollInterval, err := time.ParseDuration(opts.MonitorPollInterval)
		if err != nil || pollInterval <= 0 {
			pollInterval = 5 * time.Second
		}

		eventBus := events.New()

		// Tally light driven by bus events.
		tallyConfig, err := config.LoadTallyConfig(opts.TallyConfigFile)
		if err != nil {
			logger.Warn("Failed to load tally config", "error", err)
		}
		tallyLogger := logging.GetLogger("tally")
		tallyController := tally.New(tallyConfig, tallyLogger)
		tallyManager := tally.NewManager(tallyController, eventBus, tallyConfig, tallyLogger)

		// Hot-reload of the tally config.
		tallyWatcher := config.NewConfigWatcher(
			opts.TallyConfigFile,
			config.LoadTallyConfig,
			tallyLogger,
		)
		tallyWatcher.OnReload(func(cfg config.TallyConfig) {
			if validErr := cfg.Validate(); validErr != nil {
				tallyLogger.Warn("Ignoring invalid tally config", "error", validErr)
				return
			}
			tallyManager.ApplyConfig(cfg)
		})

		// Optional NATS export of bus events.
		var bridge *natsbridge.Bridge
		if opts.NatsURL != "" {
			bridge = natsbridge.New(opts.NatsURL, eventBus, logging.GetLogger("nats"))
		}

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", metrics.HTTPHandler())
		metricsServer := &http.Server{
			Addr:              opts.MonitorMetricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		var client *obsws.Client
		var obsMonitor *monitor.Monitor

		hooks.OnStart(func() {
			ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()

			var connectOpts []obsws.Option
			if opts.ObsPassword != "" {
				connectOpts = append(connectOpts, obsws.WithPassword(opts.ObsPassword))
			}
			connectOpts = append(connectOpts, obsws.WithLogger(logging.GetLogger("obsws")))

			client, err = obsws.Connect(ctx, opts.ObsAddr, connectOpts...)
			if err != nil {
				logger.Error("Failed to connect to OBS", "addr", opts.ObsAddr, "error", err)
				os.Exit(1)
			}

			metrics.SetConnected(true)
			eventBus.Publish(events.ConnectionStateEvent{
				Connected: true,
				Addr:      opts.ObsAddr,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			logger.Info("Connected to OBS", "addr", opts.ObsAddr)

			obsMonitor = monitor.New(client, eventBus, monitor.WithPollInterval(pollInterval))
			obsMonitor.Start()

			tallyManager.Start()

			if startErr := tallyWatcher.Start(); startErr != nil {
				tallyLogger.Warn("Failed to start tally config watcher, hot-reload disabled", "error", startErr)
			}

			if bridge != nil {
				if startErr := bridge.Start(); startErr != nil {
					logger.Warn("NATS bridge unavailable, continuing without event export", "error", startErr)
				}
			}

			logger.Info("Serving metrics", "addr", opts.MonitorMetricsAddr)
			go func() {
				if serveErr := metricsServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
					logger.Error("Metrics server failed", "error", serveErr)
				}
			}()

			if _, notifyErr := systemd.NotifyReady(); notifyErr != nil {
				logger.Debug("Failed to notify systemd", "error", notifyErr)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")
			if _, notifyErr := systemd.NotifyStopping(); notifyErr != nil {
				logger.Debug("Failed to notify systemd", "error", notifyErr)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if stopErr := metricsServer.Shutdown(shutdownCtx); stopErr != nil {
				logger.Error("Error stopping metrics server", "error", stopErr)
			}

			if bridge != nil {
				bridge.Stop()
			}

			_ = tallyWatcher.Stop()
			tallyManager.Stop()

			if obsMonitor != nil {
				obsMonitor.Stop()
			}

			if client != nil {
				if closeErr := client.Close(); closeErr != nil {
					logger.Error("Error closing OBS connection", "error", closeErr)
				}
				metrics.SetConnected(false)
				eventBus.Publish(events.ConnectionStateEvent{
					Connected: false,
					Addr:      opts.ObsAddr,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
			}
		})
	})

	cli.Root().Use = "obsctl"
	cli.Root().Short = "Remote control and monitor for OBS Studio"

	cli.Root().AddCommand(
		cmd.CreateSceneCmd(),
		cmd.CreateStreamCmd(),
		cmd.CreateMediaCmd(),
		cmd.CreateUpdateCmd(),
		cmd.CreateVersionCmd(),
	)

	cli.Run()
}
