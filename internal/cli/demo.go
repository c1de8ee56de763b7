package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/xqrs/vlist"
	"github.com/xqrs/vlist/term"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	RootOptions
	Config   string
	Rows     int
	Border   string
	Reverse  bool
	Estimate float64
	Wheel    float64
	Stream   time.Duration
}

// NewDemoCommand creates the vlistdemo root command.
func NewDemoCommand() *cobra.Command {
	return newDemoCommand(&DemoOptions{})
}

func newDemoCommand(opts *DemoOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vlistdemo",
		Short: "Scroll a chat-style virtual list in the terminal",
		Long: `Show a chat-style list of wrapped messages in the terminal.

Drag with the left mouse button to scroll as a touch gesture would, or use
the wheel and keys. New messages arrive at the bottom; expanding or deleting
the anchored message keeps the rest of the screen still.

Logs go to --log-file; without it they are discarded, since the terminal
belongs to the list.

Examples:
  vlistdemo
  vlistdemo --rows 5000 --border double
  vlistdemo --config ./vlist.yaml --log-file demo.log --log-level debug`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	bindRootFlags(cmd, &opts.RootOptions)
	cmd.Flags().StringVar(&opts.Config, "config", "", "YAML engine configuration")
	cmd.Flags().IntVar(&opts.Rows, "rows", 1000, "number of messages")
	cmd.Flags().StringVar(&opts.Border, "border", "round", "border style (plain|round|thick|double|hidden)")
	cmd.Flags().BoolVar(&opts.Reverse, "reverse", true, "anchor the list to its end like a chat")
	cmd.Flags().Float64Var(&opts.Estimate, "estimate", 2, "estimated lines per unmeasured message")
	cmd.Flags().Float64Var(&opts.Wheel, "wheel-step", 3, "lines scrolled per wheel notch")
	cmd.Flags().DurationVar(&opts.Stream, "stream", 0, "receive a new message at this interval (0 disables)")

	return cmd
}

// demoConfig loads --config and applies the flags on top. Without a file the
// flags' defaults apply too, since the engine's defaults are sized for
// pixels rather than lines.
func demoConfig(opts *DemoOptions, cmd *cobra.Command) (vlist.Config, error) {
	config := vlist.DefaultConfig()
	fromFile := opts.Config != ""
	if fromFile {
		f, err := os.Open(opts.Config)
		if err != nil {
			return vlist.Config{}, WrapExitError(ExitCommandError, "failed to open config", err)
		}
		defer f.Close()
		if config, err = vlist.LoadConfig(f); err != nil {
			return vlist.Config{}, WrapExitError(ExitCommandError, "invalid config", err)
		}
	}
	if !fromFile || cmd.Flags().Changed("reverse") {
		config.Reverse = opts.Reverse
	}
	if !fromFile || cmd.Flags().Changed("estimate") {
		config.EstimateSize = opts.Estimate
	}
	if err := config.Validate(); err != nil {
		return vlist.Config{}, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return config, nil
}

func runDemo(opts *DemoOptions, cmd *cobra.Command) error {
	if opts.Rows < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --rows %d: must be >= 0", opts.Rows))
	}
	if opts.Wheel <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --wheel-step %g: must be > 0", opts.Wheel))
	}
	if opts.Stream < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --stream %s: must be >= 0", opts.Stream))
	}
	borders, ok := term.BorderSetByName(opts.Border)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown border style %q", opts.Border))
	}
	config, err := demoConfig(opts, cmd)
	if err != nil {
		return err
	}
	log, closeLog, err := opts.logger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open terminal", err)
	}
	if err := screen.Init(); err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize terminal", err)
	}

	app := term.NewApplication().SetScreen(screen).SetLogger(log)
	chat := newChatView(opts.Rows, config, log)
	chat.SetWheelStep(opts.Wheel)
	chat.SetRowStyle(tcell.StyleDefault.Foreground(term.Styles.PrimaryTextColor))
	chat.ScrollBar().
		SetThumbStyle(tcell.StyleDefault.Foreground(term.Styles.GraphicsColor)).
		SetTrackStyle(tcell.StyleDefault.Foreground(term.Styles.BorderColor))
	chat.SetBorders(term.BordersAll).
		SetBorderSet(borders).
		SetBorderPadding(0, 0, 1, 0).
		SetTitle(" vlist ").
		SetTitleAlignment(term.AlignmentLeft)
	app.SetRoot(chat)
	width, height := screen.Size()
	chat.SetRect(0, 0, width, height)

	engine, err := vlist.New(vlist.Host{
		Surface:   chat.VirtualList,
		Scroller:  chat.VirtualList,
		Scheduler: app,
	}, vlist.WithConfig(config), vlist.WithLogger(log))
	if err != nil {
		screen.Fini()
		return WrapExitError(ExitCommandError, "failed to create list", err)
	}
	defer engine.Close()
	if err := chat.attach(engine); err != nil {
		screen.Fini()
		return WrapExitError(ExitCommandError, "failed to add messages", err)
	}

	done := make(chan struct{})
	defer close(done)
	if opts.Stream > 0 {
		go stream(app, chat, opts.Stream, done)
	}

	log.Info().Int("rows", opts.Rows).Bool("reverse", config.Reverse).Msg("demo started")
	if err := app.Run(); err != nil {
		return WrapExitError(ExitCommandError, "terminal error", err)
	}
	return nil
}

// stream delivers a message every interval until done is closed.
func stream(app *term.Application, chat *chatView, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			app.QueueUpdateDraw(func() { chat.receive() })
		}
	}
}
