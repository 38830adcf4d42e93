// Command rustic is the Rustic-to-Rust transpiler driver. The core pipeline
// lives under internal/; this binary only handles flags, file I/O, and
// diagnostic rendering.
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/rustic-lang/rustic/internal/runtime"
)

func main() {
	defer glog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rustic",
		Short:         "Compile Rustic source files to Rust",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mapping table version in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := runtime.Default()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}
}
