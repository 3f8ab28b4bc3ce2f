package cmd

import (
	"os"
	"time"

	"github.com/pingcap-inc/dwsink/pkg/databrickssql"
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap-inc/dwsink/pkg/redshiftsql"
	"github.com/pingcap-inc/dwsink/pkg/snowsql"
	"github.com/pingcap-inc/dwsink/pkg/tidbsql"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type DestinationKind enumflag.Flag

const (
	DestinationRedshift DestinationKind = iota
	DestinationSnowflake
	DestinationDatabricks
	DestinationTiDB
)

var DestinationKindIds = map[DestinationKind][]string{
	DestinationRedshift:   {redshiftsql.DestinationName},
	DestinationSnowflake:  {snowsql.DestinationName},
	DestinationDatabricks: {databrickssql.DestinationName},
	DestinationTiDB:       {tidbsql.DestinationName},
}

// Profile returns the vendor profile of a destination kind.
func Profile(kind DestinationKind) (destination.VendorProfile, error) {
	switch kind {
	case DestinationRedshift:
		return redshiftsql.NewProfile(), nil
	case DestinationSnowflake:
		return snowsql.NewProfile(), nil
	case DestinationDatabricks:
		return databrickssql.NewProfile(), nil
	case DestinationTiDB:
		return tidbsql.NewProfile(), nil
	default:
		return destination.VendorProfile{}, errors.Errorf("unknown destination kind %d", kind)
	}
}

// AllProfiles returns the profile of every supported destination.
func AllProfiles() []destination.VendorProfile {
	return []destination.VendorProfile{
		redshiftsql.NewProfile(),
		snowsql.NewProfile(),
		databrickssql.NewProfile(),
		tidbsql.NewProfile(),
	}
}

type commonFlags struct {
	kind           DestinationKind
	logLevel       string
	logFile        string
	connectTimeout time.Duration
}

func (f *commonFlags) register(cmd *cobra.Command, withDestination bool) {
	cmd.PersistentFlags().BoolP("help", "", false, "help for this command")
	if withDestination {
		cmd.Flags().Var(enumflag.New(&f.kind, "destination", DestinationKindIds, enumflag.EnumCaseInsensitive),
			"destination", "destination: redshift, snowflake, databricks, tidb")
	}
	cmd.Flags().StringVar(&f.logLevel, "log.level", "info", "log level")
	cmd.Flags().StringVar(&f.logFile, "log.file", "", "log file path, logs go to stderr when empty")
	cmd.Flags().DurationVar(&f.connectTimeout, "connect-timeout", 30*time.Second,
		"how long a connection check waits for the destination to answer")
}

func (f *commonFlags) validatorOption() destination.Option {
	return destination.WithValidator(&destination.Validator{ConnectTimeout: f.connectTimeout})
}

// initLogger sets up the global logger. Stdout carries protocol messages, so
// logs never go there.
func initLogger(level, file string) error {
	cfg := &log.Config{Level: level}
	if file != "" {
		cfg.File = log.FileLogConfig{Filename: file}
		logger, props, err := log.InitLogger(cfg)
		if err != nil {
			return errors.Trace(err)
		}
		log.ReplaceGlobals(logger, props)
		return nil
	}
	stderr := zapcore.AddSync(os.Stderr)
	logger, props, err := log.InitLoggerWithWriteSyncer(cfg, stderr, stderr)
	if err != nil {
		return errors.Trace(err)
	}
	log.ReplaceGlobals(logger, props)
	return nil
}

func readConfig(path string) (destination.RawConfig, error) {
	if path == "" {
		return nil, destination.ErrConfiguration.GenWithStackByArgs("--config is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, destination.ErrConfiguration.GenWithStackByArgs(err.Error())
	}
	return destination.ParseRawConfig(data)
}

func newStdoutSink() protocol.OutputSink {
	return protocol.NewJSONSink(os.Stdout)
}

// emitLog forwards a log line to the orchestrator as well as the local logger.
func emitLog(sink protocol.OutputSink, level protocol.LogLevel, message string) {
	if err := sink.Emit(&protocol.Message{
		Type: protocol.MessageTypeLog,
		Log:  &protocol.Log{Level: level, Message: message},
	}); err != nil {
		log.Warn("Failed to emit log message", zap.Error(err))
	}
}
