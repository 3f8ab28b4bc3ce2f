package main

import (
	"fmt"
	"os"

	"github.com/pingcap-inc/dwsink/cmd"
	"github.com/pingcap-inc/dwsink/version"
	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

func init() {
	rootCmd = &cobra.Command{
		Use:                "dwsink",
		Short:              "A data warehouse destination that checks connectivity and writes raw records",
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			switch args[0] {
			case "--help", "-h":
				return cmd.Help()
			case "--version", "-v":
				fmt.Println(version.NewDWSinkVersion().String())
				return nil
			default:
				return fmt.Errorf("unknown flag: %s\nRun `dwsink --help` for usage.", args[0])
			}
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Print the version of dwsink")

	rootCmd.AddCommand(
		cmd.NewSpecCmd(),
		cmd.NewCheckCmd(),
		cmd.NewWriteCmd(),
		cmd.NewServeCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
