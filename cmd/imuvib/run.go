package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibration/session"
	"github.com/cwbudde/algo-vibration/transport/mqtt"
)

const statsInterval = time.Second

func newRunCommand(v *viper.Viper, load func(*cobra.Command) (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Collect one window from MQTT and report its noise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cmd)
		},
	}

	f := cmd.Flags()
	f.Duration("duration", 30*time.Second, "observation window")
	f.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	f.String("topic", "/imu", "MQTT topic carrying IMU messages")
	f.Int("qos", 0, "MQTT subscription QoS")
	_ = v.BindPFlag("duration", f.Lookup("duration"))
	_ = v.BindPFlag("mqtt.broker", f.Lookup("broker"))
	_ = v.BindPFlag("mqtt.topic", f.Lookup("topic"))
	_ = v.BindPFlag("mqtt.qos", f.Lookup("qos"))
	return cmd
}

func (a *app) run(ctx context.Context, cmd *cobra.Command) error {
	sc, err := a.cfg.Session()
	if err != nil {
		return err
	}
	s, err := session.New(sc, a.logger)
	if err != nil {
		return err
	}

	stopMetrics := a.serveMetrics()
	defer stopMetrics()

	sub := mqtt.New(mqtt.Config{
		Broker:   a.cfg.MQTT.Broker,
		Topic:    a.cfg.MQTT.Topic,
		QoS:      byte(a.cfg.MQTT.QoS),
		ClientID: a.cfg.MQTT.ClientID,
		Username: a.cfg.MQTT.Username,
		Password: a.cfg.MQTT.Password,
	}, s, a.logger)
	if err := sub.Start(ctx); err != nil {
		return err
	}
	defer sub.Stop()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go a.watch(watchCtx, s, statsInterval)

	report, err := s.Run(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("report ready", zap.Int("bins", report.Spectrum.Len()))
	return a.emit(cmd.OutOrStdout(), s, report)
}
