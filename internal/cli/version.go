package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-posnet/protocol"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, version)
				return err
			}

			fmt.Fprintf(out, "posnetctl version %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "POSNET protocol: %s\n", protocol.ProtocolVersion)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			_, err := fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return err
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")

	return cmd
}
