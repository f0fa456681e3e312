package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

const rootDesc = `Demonstrates a relay Dispatcher.

A printer owns a Dispatcher[int] and notifies it whenever it prints. A tracker
subscribes through a closure over its own state, a plain function subscribes
directly, and the tracker unsubscribes before the second print.

Flags may also be set with RELAY_* environment variables or a .env file.
`

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "relay-demo",
		Short:         "Demonstrate relay publish/subscribe",
		Long:          rootDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.AddCommand(newRunCmd(out, errOut))
	return cmd
}

func newRunCmd(out, errOut io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the printer demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			level, _ := cfg.level()
			return runDemo(cmd.Context(), out, cfg, newLogger(errOut, level))
		},
	}
	addConfigFlags(cmd.Flags())
	return cmd
}

// newLogger builds a text logger without timestamps.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
