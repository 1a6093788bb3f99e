package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibration/analysis"
	"github.com/cwbudde/algo-vibration/config"
	"github.com/cwbudde/algo-vibration/internal/logging"
	"github.com/cwbudde/algo-vibration/metrics"
	"github.com/cwbudde/algo-vibration/render"
	"github.com/cwbudde/algo-vibration/session"
)

// app carries what every subcommand shares once configuration is loaded.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	var configPath string

	root := &cobra.Command{
		Use:           "imuvib",
		Short:         "IMU vibration noise characterization",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default .imuvib.yaml in . or $HOME)")
	pf.String("channel", config.DefaultChannel, "channel: accel-x|y|z, gyro-x|y|z, yaw")
	pf.Float64("sampling-rate", config.DefaultSamplingRate, "sampling rate in Hz")
	pf.Int("buffer-capacity", config.DefaultBufferCapacity, "ring buffer capacity in samples")
	pf.Float64("confidence-level", config.DefaultConfidenceLevel, "confidence level of the ASD band")
	pf.Float64("degrees-of-freedom", config.DefaultDegreesOfFreedom, "chi-squared degrees of freedom of the ASD band")
	pf.String("fft-backend", config.DefaultFFTBackend, "FFT backend: auto, algofft, gonum, godsp")
	pf.String("log-level", config.DefaultLogLevel, "log level")
	pf.String("log-format", config.DefaultLogFormat, "log format: json or console")
	pf.String("format", config.DefaultOutputFormat, "report format: table, json, yaml")
	pf.String("plot", "", "write the ASD plot to this HTML file")
	pf.Bool("spectrum", false, "include the half-spectrum arrays in json and yaml output")
	pf.String("metrics-listen", "", "serve Prometheus metrics on this address")

	bindings := map[string]string{
		"channel":            "channel",
		"sampling_rate":      "sampling-rate",
		"buffer_capacity":    "buffer-capacity",
		"confidence_level":   "confidence-level",
		"degrees_of_freedom": "degrees-of-freedom",
		"fft_backend":        "fft-backend",
		"log.level":          "log-level",
		"log.format":         "log-format",
		"output.format":      "format",
		"output.plot":        "plot",
		"output.spectrum":    "spectrum",
		"metrics.listen":     "metrics-listen",
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, pf.Lookup(flag))
	}

	load := func(cmd *cobra.Command) (*app, error) {
		cfg, err := config.LoadViper(v, configPath)
		if err != nil {
			return nil, err
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, logging.WithOutput(cmd.ErrOrStderr()))
		if err != nil {
			return nil, err
		}
		return &app{cfg: cfg, logger: logger, metrics: metrics.New()}, nil
	}

	root.AddCommand(newRunCommand(v, load))
	root.AddCommand(newReplayCommand(v, load))
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "imuvib %s (commit: %s)\n", version, commit)
		},
	}
}

// serveMetrics starts the Prometheus listener when configured. The returned
// function shuts it down.
func (a *app) serveMetrics() func() {
	addr := a.cfg.Metrics.Listen
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics listener failed", zap.Error(err))
		}
	}()
	a.logger.Info("serving metrics", zap.String("listen", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// watch publishes the session counters every interval until ctx is done.
func (a *app) watch(ctx context.Context, s *session.Session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	channel := s.Config().Channel.String()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.metrics.ObserveSession(channel, s.Stats())
		}
	}
}

// emit prints the report in the configured format and writes the plot.
func (a *app) emit(w io.Writer, s *session.Session, r *analysis.Report) error {
	channel := s.Config().Channel
	meta := render.Meta{SessionID: s.ID(), Channel: channel.String(), Unit: channel.Unit()}

	a.metrics.ObserveSession(meta.Channel, s.Stats())
	a.metrics.ObserveReport(meta.Channel, r)

	doc := render.NewDocument(r, meta, a.cfg.Output.Spectrum)
	var err error
	switch a.cfg.Output.Format {
	case config.FormatJSON:
		err = render.JSON(w, doc)
	case config.FormatYAML:
		err = render.YAML(w, doc)
	default:
		err = render.Table(w, doc)
	}
	if err != nil {
		return err
	}

	if a.cfg.Output.Plot == "" {
		return nil
	}
	f, err := os.Create(a.cfg.Output.Plot)
	if err != nil {
		return fmt.Errorf("create plot: %w", err)
	}
	defer f.Close()
	if err := render.Plot(f, r, meta); err != nil {
		return err
	}
	a.logger.Info("plot written", zap.String("path", a.cfg.Output.Plot))
	return nil
}
