// Package cli holds the cobra commands behind the vlistdemo and vlistreplay
// binaries.
package cli

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds the flags every command shares.
type RootOptions struct {
	LogLevel string
	LogFile  string
}

func bindRootFlags(cmd *cobra.Command, opts *RootOptions) {
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (trace|debug|info|warn|error|disabled)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write JSON logs to this file")
}

// logger builds the command's logger. Without --log-file it writes human
// readable lines to console; the returned close function is never nil.
func (o *RootOptions) logger(console io.Writer) (zerolog.Logger, func() error, error) {
	nop := func() error { return nil }
	level, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.Nop(), nop, WrapExitError(ExitCommandError, "invalid --log-level", err)
	}
	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nop, WrapExitError(ExitCommandError, "failed to open log file", err)
		}
		return zerolog.New(f).Level(level).With().Timestamp().Logger(), f.Close, nil
	}
	out := zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05.000", NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nop, nil
}
