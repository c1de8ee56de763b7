package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xqrs/vlist/replay"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	RootOptions
	Scenario string
	Gestures int
	Format   string // "text" | "json"
}

// ReplayGesture is one row of the replay report.
type ReplayGesture struct {
	Gesture  int     `json:"gesture"`
	Eager    float64 `json:"eager"`
	Flushed  float64 `json:"flushed"`
	Released string  `json:"released"`
	Settled  string  `json:"settled"`
}

// ReplayReport is the replay command's output.
type ReplayReport struct {
	Start         float64         `json:"start"`
	Gestures      []ReplayGesture `json:"gestures"`
	ClampedWrites int             `json:"clamped_writes"`
	OK            bool            `json:"ok"`
	Failures      []string        `json:"failures,omitempty"`
}

// NewReplayCommand creates the vlistreplay root command.
func NewReplayCommand() *cobra.Command {
	opts := &ReplayOptions{}

	cmd := &cobra.Command{
		Use:   "vlistreplay",
		Short: "Replay touch gestures against a reverse list and check how they settle",
		Long: `Replay scripted touch gestures against an engine running on an event loop.

Each gesture drags, releases, and waits out the flush debounce. The eager
offset is read once the frames after the release have run, the flushed
offset after the quiet period. The scenario fails if a flush with deferred
corrections leaves the list where the eager pass put it, if the list does
not move in the drag direction, or if any offset write had to be clamped.

Exit codes:
  0 - Scenario settled as expected
  1 - Scenario checks failed
  2 - Command error (bad scenario file, invalid flags)

Examples:
  vlistreplay
  vlistreplay --gestures 3
  vlistreplay --scenario ./scenario.yaml --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	bindRootFlags(cmd, &opts.RootOptions)
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "YAML scenario file (defaults to the built-in scenario)")
	cmd.Flags().IntVar(&opts.Gestures, "gestures", 0, "override the number of gestures")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	if opts.Format != "text" && opts.Format != "json" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be text or json", opts.Format))
	}
	log, closeLog, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := loadScenario(opts.Scenario)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("gestures") {
		sc.Gestures = opts.Gestures
		if err := sc.Validate(); err != nil {
			return WrapExitError(ExitCommandError, "invalid scenario", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log.Info().Int("rows", sc.Rows).Int("gestures", sc.Gestures).Msg("replaying")
	result, err := replay.Run(ctx, sc, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay failed", err)
	}

	checkErr := result.Check()
	report := newReplayReport(result, checkErr)
	if err := writeReplayReport(cmd.OutOrStdout(), opts.Format, report); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report", err)
	}
	if checkErr != nil {
		return WrapExitError(ExitFailure, "scenario checks failed", checkErr)
	}
	return nil
}

func loadScenario(path string) (replay.Scenario, error) {
	if path == "" {
		return replay.DefaultScenario(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return replay.Scenario{}, WrapExitError(ExitCommandError, "failed to open scenario", err)
	}
	defer f.Close()
	sc, err := replay.LoadScenario(f)
	if err != nil {
		return replay.Scenario{}, WrapExitError(ExitCommandError, "invalid scenario", err)
	}
	return sc, nil
}

func newReplayReport(result replay.Result, checkErr error) ReplayReport {
	report := ReplayReport{
		Start:         result.Start,
		Gestures:      make([]ReplayGesture, 0, len(result.Gestures)),
		ClampedWrites: result.ClampedWrites,
		OK:            checkErr == nil,
	}
	for i, g := range result.Gestures {
		report.Gestures = append(report.Gestures, ReplayGesture{
			Gesture:  i,
			Eager:    g.Eager,
			Flushed:  g.Flushed,
			Released: g.Released.String(),
			Settled:  g.Settled.String(),
		})
	}
	if u, ok := checkErr.(interface{ Unwrap() []error }); ok {
		for _, err := range u.Unwrap() {
			report.Failures = append(report.Failures, err.Error())
		}
	}
	return report
}

func writeReplayReport(w io.Writer, format string, report ReplayReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(w, "start offset: %.2f\n\n", report.Start)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "GESTURE\tEAGER\tFLUSHED\tDELTA\tRELEASED\tSETTLED")
	for _, g := range report.Gestures {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%+.2f\t%s\t%s\n", g.Gesture, g.Eager, g.Flushed, g.Flushed-g.Eager, g.Released, g.Settled)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nclamped writes: %d\n", report.ClampedWrites)
	if report.OK {
		fmt.Fprintln(w, "ok")
		return nil
	}
	for _, f := range report.Failures {
		fmt.Fprintln(w, "FAIL", f)
	}
	return nil
}
