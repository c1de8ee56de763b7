package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/xqrs/vlist"
	"github.com/xqrs/vlist/term"
)

var chatWords = strings.Fields(`the list keeps the row under your thumb still while rows
above it grow shrink or arrive from the network and every correction waits
until the finger lifts so nothing jumps`)

// chatKeyMap holds the demo's message keys.
type chatKeyMap struct {
	New    term.Binding
	Expand term.Binding
	Delete term.Binding
	Quit   term.Binding
}

func defaultChatKeyMap() chatKeyMap {
	return chatKeyMap{
		New:    term.Bind("n", "new", "n"),
		Expand: term.Bind("e", "expand", "e"),
		Delete: term.Bind("d", "delete", "d"),
		Quit:   term.Bind("q", "quit", "q", "ctrl+c"),
	}
}

func (k chatKeyMap) ShortHelp() []term.Binding {
	return []term.Binding{k.New, k.Expand, k.Delete, k.Quit}
}

// chatView is a VirtualList of chat messages. messages is indexed by logical
// row, so in a reverse list messages[0] is the newest one at the bottom.
type chatView struct {
	*term.VirtualList

	keys     chatKeyMap
	engine   *vlist.Engine
	adapter  vlist.ReverseAdapter
	messages []string
	next     int
	log      zerolog.Logger
}

func newChatView(rows int, config vlist.Config, log zerolog.Logger) *chatView {
	c := &chatView{
		keys:    defaultChatKeyMap(),
		adapter: vlist.NewReverseAdapter(config.Axis, config.Reverse, config.RTL),
		log:     log.With().Str("component", "chat").Logger(),
	}
	c.messages = make([]string, 0, rows)
	for range rows {
		c.messages = append(c.messages, c.compose())
	}
	c.VirtualList = term.NewVirtualList(c.row)
	c.SetResizedFunc(c.remeasureMounted)
	listKeys := c.KeyMap()
	help := append([]term.Binding{listKeys.LineUp, listKeys.LineDown}, c.keys.ShortHelp()...)
	c.SetFooter(" " + term.ShortHelp(help...) + " ")
	return c
}

// attach binds the view to its engine and adds the initial rows.
func (c *chatView) attach(engine *vlist.Engine) error {
	c.engine = engine
	return engine.Append(len(c.messages))
}

// compose returns the text of the next message. Lengths vary so rows wrap to
// different heights.
func (c *chatView) compose() string {
	n := c.next
	c.next++
	count := 3 + (n*7)%23
	words := make([]string, count)
	for i := range words {
		words[i] = chatWords[(n+i*5)%len(chatWords)]
	}
	return fmt.Sprintf("#%d %s", n, strings.Join(words, " "))
}

func (c *chatView) row(physical int) string {
	logical := c.adapter.ToLogicalIndex(physical, len(c.messages))
	if logical < 0 || logical >= len(c.messages) {
		return ""
	}
	return c.messages[logical]
}

// InputHandler handles the message keys and hands the rest to the list.
func (c *chatView) InputHandler(event *tcell.EventKey) term.Command {
	switch {
	case c.keys.Quit.Matches(event):
		return term.QuitCommand{}
	case c.keys.New.Matches(event):
		return c.receive()
	case c.keys.Expand.Matches(event):
		return c.expand()
	case c.keys.Delete.Matches(event):
		return c.remove()
	}
	return c.VirtualList.InputHandler(event)
}

// receive adds a message at logical index 0.
func (c *chatView) receive() term.Command {
	c.messages = slices.Insert(c.messages, 0, c.compose())
	if err := c.engine.Prepend(1); err != nil {
		c.messages = c.messages[1:]
		return nil
	}
	c.log.Debug().Int("index", 0).Int("rows", len(c.messages)).Msg("receive")
	return term.RedrawCommand{}
}

// expand lengthens the anchored message and has it measured again.
func (c *chatView) expand() term.Command {
	anchor, ok := c.engine.Anchor()
	if !ok {
		return nil
	}
	c.messages[anchor.Index] += " (edited) " + strings.Join(chatWords[:12], " ")
	c.engine.Remeasure(anchor.Index)
	c.log.Debug().Int("index", anchor.Index).Int("rows", len(c.messages)).Msg("expand")
	return term.RedrawCommand{}
}

// remove deletes the anchored message.
func (c *chatView) remove() term.Command {
	anchor, ok := c.engine.Anchor()
	if !ok {
		return nil
	}
	removed := c.messages[anchor.Index]
	c.messages = slices.Delete(c.messages, anchor.Index, anchor.Index+1)
	if err := c.engine.Remove(anchor.Index, 1); err != nil {
		c.messages = slices.Insert(c.messages, anchor.Index, removed)
		return nil
	}
	c.log.Debug().Int("index", anchor.Index).Int("rows", len(c.messages)).Msg("remove")
	return term.RedrawCommand{}
}

// remeasureMounted runs when the list's inner size changes. Wrapped rows
// change height with the width.
func (c *chatView) remeasureMounted() {
	if c.engine == nil {
		return
	}
	r := c.engine.Range()
	indices := make([]int, 0, r.Len())
	for i := r.Start; i < r.End; i++ {
		indices = append(indices, i)
	}
	c.engine.Remeasure(indices...)
}
