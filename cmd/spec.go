package cmd

import (
	"github.com/pingcap-inc/dwsink/pkg/destination"
	"github.com/pingcap-inc/dwsink/pkg/protocol"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

func NewSpecCmd() *cobra.Command {
	var flags commonFlags

	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Print the configuration schema of a destination",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := initLogger(flags.logLevel, flags.logFile); err != nil {
				return errors.Trace(err)
			}
			profile, err := Profile(flags.kind)
			if err != nil {
				return errors.Trace(err)
			}
			spec := destination.New(profile, nil).Specification()
			return newStdoutSink().Emit(&protocol.Message{Type: protocol.MessageTypeSpec, Spec: spec})
		},
	}
	flags.register(cmd, true)
	return cmd
}
