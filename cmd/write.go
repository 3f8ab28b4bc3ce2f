package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/metrics"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap-inc/dwsink/pkg/writer"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewWriteCmd() *cobra.Command {
	var (
		flags       commonFlags
		configPath  string
		catalogPath string
	)

	run := func(ctx context.Context) error {
		profile, err := Profile(flags.kind)
		if err != nil {
			return errors.Trace(err)
		}
		cfg, err := readConfig(configPath)
		if err != nil {
			return errors.Trace(err)
		}
		catalog, err := protocol.ReadCatalog(catalogPath)
		if err != nil {
			return errors.Trace(err)
		}
		sink := newStdoutSink()
		m := metrics.NewMetrics()
		dest := destination.New(profile, writer.NewFactory(m))
		consumer, err := dest.OpenWriter(ctx, cfg, catalog, sink)
		if err != nil {
			return errors.Trace(err)
		}
		if err := writer.Run(ctx, consumer, protocol.NewMessageReader(os.Stdin)); err != nil {
			return errors.Trace(err)
		}
		for _, s := range catalog.Streams {
			log.Info("Stream written", zap.String("stream", s.Stream.Name),
				zap.Float64("records", m.RecordsWritten(streamLabel(s.Stream))))
		}
		return nil
	}

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write the record stream read from stdin into a destination",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := initLogger(flags.logLevel, flags.logFile); err != nil {
				return errors.Trace(err)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := run(ctx); err != nil {
				log.Error("Error writing records", zap.Error(err))
				emitLog(newStdoutSink(), protocol.LogLevelError, err.Error())
				return err
			}
			return nil
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&configPath, "config", "", "path of the JSON configuration file")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path of the configured catalog")
	return cmd
}

func streamLabel(s protocol.Stream) string {
	if s.Namespace == "" {
		return s.Name
	}
	return s.Namespace + "." + s.Name
}
