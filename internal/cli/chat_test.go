package cli

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/vlist"
	"github.com/xqrs/vlist/term"
	"github.com/xqrs/vlist/vlisttest"
)

func newTestChat(t *testing.T, rows int) (*chatView, *vlist.Engine, *vlisttest.Scheduler) {
	t.Helper()
	config := vlist.DefaultConfig()
	config.Reverse = true
	config.EstimateSize = 2

	c := newChatView(rows, config, zerolog.Nop())
	c.SetRect(0, 0, 40, 12)
	sched := vlisttest.NewScheduler()
	e, err := vlist.New(vlist.Host{Surface: c.VirtualList, Scroller: c.VirtualList, Scheduler: sched}, vlist.WithConfig(config))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	require.NoError(t, c.attach(e))
	sched.Settle(time.Second)
	return c, e, sched
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestChatView_Rows(t *testing.T) {
	c, e, _ := newTestChat(t, 50)

	require.Equal(t, 50, e.Len())
	assert.True(t, strings.HasPrefix(c.messages[0], "#0 "))
	// Logical row 0 is drawn at the bottom.
	assert.Equal(t, c.messages[0], c.row(49))
	assert.Equal(t, c.messages[49], c.row(0))
	assert.Equal(t, "", c.row(50))
}

func TestChatView_Receive(t *testing.T) {
	c, e, sched := newTestChat(t, 50)

	cmd := c.InputHandler(runeKey('n'))
	assert.Equal(t, term.RedrawCommand{}, cmd)
	sched.Settle(time.Second)

	require.Equal(t, 51, e.Len())
	assert.True(t, strings.HasPrefix(c.messages[0], "#50 "), c.messages[0])
	assert.Equal(t, c.messages[0], c.row(50))
}

func TestChatView_Expand(t *testing.T) {
	c, e, sched := newTestChat(t, 50)
	anchor, ok := e.Anchor()
	require.True(t, ok)
	before, err := e.SizeOf(anchor.Index)
	require.NoError(t, err)

	assert.Equal(t, term.RedrawCommand{}, c.InputHandler(runeKey('e')))
	sched.Settle(time.Second)

	assert.Contains(t, c.messages[anchor.Index], "(edited)")
	after, err := e.SizeOf(anchor.Index)
	require.NoError(t, err)
	assert.Greater(t, after, before)
}

func TestChatView_Delete(t *testing.T) {
	c, e, sched := newTestChat(t, 50)
	anchor, ok := e.Anchor()
	require.True(t, ok)
	removed := c.messages[anchor.Index]

	assert.Equal(t, term.RedrawCommand{}, c.InputHandler(runeKey('d')))
	sched.Settle(time.Second)

	assert.Equal(t, 49, e.Len())
	assert.Len(t, c.messages, 49)
	assert.NotContains(t, c.messages, removed)
}

func TestChatView_Keys(t *testing.T) {
	c, _, _ := newTestChat(t, 50)

	assert.Equal(t, term.QuitCommand{}, c.InputHandler(runeKey('q')))
	assert.Equal(t, term.QuitCommand{}, c.InputHandler(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))

	offset := c.Offset()
	require.Positive(t, offset, "reverse list starts at the end")
	assert.Equal(t, term.RedrawCommand{}, c.InputHandler(runeKey('k')))
	assert.Equal(t, offset-1, c.Offset())
}

func TestChatView_ResizeRemeasures(t *testing.T) {
	c, e, sched := newTestChat(t, 50)
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(40, 12)

	c.Draw(screen)
	sched.Settle(time.Second)
	wide, err := e.SizeOf(1)
	require.NoError(t, err)

	c.SetRect(0, 0, 20, 12)
	c.Draw(screen)
	sched.Settle(time.Second)
	narrow, err := e.SizeOf(1)
	require.NoError(t, err)

	assert.Greater(t, narrow, wide, fmt.Sprintf("%q", c.messages[1]))
}
