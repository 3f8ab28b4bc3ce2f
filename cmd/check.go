package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewCheckCmd() *cobra.Command {
	var (
		flags      commonFlags
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate that a destination configuration can connect and write",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := initLogger(flags.logLevel, flags.logFile); err != nil {
				return errors.Trace(err)
			}
			profile, err := Profile(flags.kind)
			if err != nil {
				return errors.Trace(err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var status destination.ConnectionStatus
			cfg, err := readConfig(configPath)
			if err != nil {
				log.Error("Failed to read configuration", zap.Error(err))
				status = destination.FailedWith(err, "")
			} else {
				status = destination.New(profile, nil, flags.validatorOption()).Check(ctx, cfg)
			}
			log.Info("Connection check finished", zap.String("destination", profile.Name),
				zap.String("status", string(status.Status)))
			return newStdoutSink().Emit(status.ToMessage())
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&configPath, "config", "", "path of the JSON configuration file")
	return cmd
}
