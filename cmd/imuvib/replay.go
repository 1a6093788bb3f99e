package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibration/session"
	"github.com/cwbudde/algo-vibration/transport/replay"
)

func newReplayCommand(_ *viper.Viper, load func(*cobra.Command) (*app, error)) *cobra.Command {
	var (
		skipMalformed bool
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Analyze a JSON-lines recording of IMU messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()

			sc, err := a.cfg.Session()
			if err != nil {
				return err
			}
			s, err := session.New(sc, a.logger)
			if err != nil {
				return err
			}

			opts := []replay.Option{replay.WithLimit(limit)}
			if skipMalformed {
				opts = append(opts, replay.WithSkipMalformed())
			}
			res, err := replay.ReplayFile(cmd.Context(), args[0], s, opts...)
			if err != nil {
				return err
			}
			a.logger.Info("replay finished",
				zap.String("file", args[0]),
				zap.Int("delivered", res.Delivered),
				zap.Int("skipped", res.Skipped))

			s.Close()
			report, err := s.Analyze(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), s, report)
		},
	}

	cmd.Flags().BoolVar(&skipMalformed, "skip-malformed", false, "skip undecodable lines instead of failing")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many messages (0 = all)")
	return cmd
}
