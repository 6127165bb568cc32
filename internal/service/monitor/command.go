package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/tire-pressure-alarm/internal/config"
	"github.com/oshokin/tire-pressure-alarm/internal/domain/tpms"
	"github.com/oshokin/tire-pressure-alarm/internal/logger"
	"github.com/oshokin/tire-pressure-alarm/internal/observability"
)

// Options controls the tpms-monitor process. Non-zero fields override the config file.
type Options struct {
	// ConfigPath is the settings YAML file; empty means built-in defaults.
	ConfigPath string
	// Readings switches to a scripted sensor replaying these values.
	Readings []float64
	// Seed makes the random sensor reproducible.
	Seed *uint64
	// MaxChecks stops polling after that many checks.
	MaxChecks int
	// PollInterval overrides the delay between checks.
	PollInterval time.Duration
	// LogLevel overrides the configured log level.
	LogLevel string
	// LogOutput receives log lines; defaults to os.Stdout.
	LogOutput io.Writer
}

// metricsShutdownTimeout bounds the graceful stop of the metrics endpoint.
const metricsShutdownTimeout = 5 * time.Second

// Run loads settings, builds the sensor and polls the alarm until done.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = applyOverrides(cfg, opts); err != nil {
		return err
	}

	setupLogger(cfg, opts.LogOutput)
	defer logger.Sync()

	ctx = logger.WithName(ctx, "tpms-monitor")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := observability.NewMetrics(registry)

	if cfg.MetricsAddress != "" {
		_, stop, err := serveMetrics(ctx, cfg.MetricsAddress, registry)
		if err != nil {
			return err
		}

		defer stop()
	}

	m := New(
		newSensor(&cfg.Sensor),
		WithInterval(cfg.PollInterval),
		WithMetrics(metrics),
	)

	logger.InfoKV(
		ctx,
		"Monitoring tire pressure",
		"sensor", cfg.Sensor.Kind,
		"interval", cfg.PollInterval.String(),
		"max_checks", cfg.MaxChecks,
		"low_threshold", tpms.LowPressureThreshold,
		"high_threshold", tpms.HighPressureThreshold,
	)

	summary, err := m.Poll(ctx, cfg.MaxChecks)

	logger.InfoKV(
		ctx,
		"Monitoring finished",
		"checks", summary.Checks,
		"out_of_range", summary.OutOfRange,
		"alarm_on", summary.AlarmOn,
	)

	return err
}

// applyOverrides copies command line values over the loaded settings.
func applyOverrides(cfg *config.Config, opts *Options) error {
	if len(opts.Readings) > 0 {
		cfg.Sensor.Kind = config.SensorScripted
		cfg.Sensor.Readings = opts.Readings
	}

	if opts.Seed != nil {
		cfg.Sensor.Seed = opts.Seed
	}

	// Negative values are passed through so Validate rejects them.
	if opts.MaxChecks != 0 {
		cfg.MaxChecks = opts.MaxChecks
	}

	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("validate settings: %w", err)
	}

	return nil
}

// setupLogger installs the global logger according to the settings.
func setupLogger(cfg *config.Config, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	// Both values were checked by config.Validate.
	format, _ := logger.ParseFormat(cfg.LogFormat)
	level, _ := logger.ParseLogLevel(cfg.LogLevel)

	logger.SetLogger(logger.New(format, w))
	logger.SetLevel(level)
}

// newSensor builds the pressure sensor described by the settings.
//
//nolint:ireturn // Callers only need the capability.
func newSensor(s *config.Sensor) tpms.PressureSensor {
	if s.Kind == config.SensorScripted {
		return tpms.NewScriptedPressureSensor(s.Readings...)
	}

	var opts []tpms.RandomOption
	if s.Seed != nil {
		opts = append(opts, tpms.WithSeed(*s.Seed))
	}

	return tpms.NewRandomPressureSensor(opts...)
}

// serveMetrics exposes the registry on address.
// It returns the bound address and a function that stops the endpoint.
func serveMetrics(ctx context.Context, address string, registry *prometheus.Registry) (string, func(), error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return "", nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricsShutdownTimeout,
	}

	logger.InfoKV(ctx, "Metrics endpoint listening", "address", lis.Addr().String())

	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Metrics endpoint failed", "error", err)
		}
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Metrics endpoint shutdown failed", "error", err)
		}
	}

	return lis.Addr().String(), stop, nil
}
