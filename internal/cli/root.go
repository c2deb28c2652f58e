// Package cli implements the posnetctl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-posnet/internal/config"
	"github.com/moffa90/go-posnet/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// app is the state shared by all commands of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

// NewRootCmd builds the posnetctl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop(), closer: nopCloser{}}

	rootCmd := &cobra.Command{
		Use:   "posnetctl",
		Short: "Inspect and produce POSNET cash register traffic",
		Long: `posnetctl converts between POSNET wire traffic and JSON documents.

  decode   read SYN-escaped frames and print one JSON document per frame
  encode   read JSON documents and write SYN-escaped frames

Settings come from an optional config file and POSNET_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closer.Close()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file path (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")

	rootCmd.AddCommand(
		decodeCmd(a),
		encodeCmd(a),
		versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger. Logs go to the
// command error stream so they never mix with documents or frames.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if _, err := logging.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = a.logLevel
	}

	logger, closer, err := logging.New(cfg.Logging(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger
	a.closer = closer

	if path := cfg.Path(); path != "" {
		a.log.Debug().Str("path", path).Msg("configuration loaded")
	}
	return nil
}

// Execute runs posnetctl and exits on error. SIGINT and SIGTERM cancel the
// command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
