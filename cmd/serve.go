package cmd

import (
	"fmt"
	"net"

	"github.com/pingcap-inc/dwsink/pkg/apiservice"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	var (
		flags commonFlags
		host  string
		port  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve connection checks for every destination over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := initLogger(flags.logLevel, flags.logFile); err != nil {
				return errors.Trace(err)
			}
			addr := net.JoinHostPort(host, fmt.Sprint(port))
			l, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Annotate(err, "Start API service failed")
			}
			return apiservice.New(AllProfiles(), flags.validatorOption()).Serve(l)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "API service listen host")
	cmd.Flags().IntVar(&port, "port", 8185, "API service listen port")
	return cmd
}
