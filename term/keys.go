package term

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Chord is a single key press: a named key or a rune, plus modifiers.
// Control letters use the tcell control key codes with ModCtrl set.
type Chord struct {
	Key  tcell.Key
	Rune rune
	Mods tcell.ModMask
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"insert":    tcell.KeyInsert,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
}

var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
	"del":      "delete",
}

var keyNames = func() map[tcell.Key]string {
	m := make(map[tcell.Key]string, len(namedKeys))
	for name, key := range namedKeys {
		m[key] = name
	}
	return m
}()

// ParseChord reads a chord such as "j", "G", "pgdn", "ctrl+f" or "alt+x".
// Key and modifier names are case-insensitive, single runes are not.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	name := strings.TrimSpace(parts[len(parts)-1])
	if name == "" {
		return Chord{}, fmt.Errorf("term: no key in chord %q", s)
	}

	var c Chord
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl", "control":
			c.Mods |= tcell.ModCtrl
		case "alt":
			c.Mods |= tcell.ModAlt
		case "shift":
			c.Mods |= tcell.ModShift
		default:
			return Chord{}, fmt.Errorf("term: unknown modifier %q in chord %q", mod, s)
		}
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if c.Mods&tcell.ModCtrl == 0 {
			c.Key, c.Rune = tcell.KeyRune, r
			return c, nil
		}
		r = unicode.ToLower(r)
		if r < 'a' || r > 'z' {
			return Chord{}, fmt.Errorf("term: no control key for %q in chord %q", name, s)
		}
		c.Key = tcell.KeyCtrlA + tcell.Key(r-'a')
		return c, nil
	}

	lower := strings.ToLower(name)
	if alias, ok := keyAliases[lower]; ok {
		lower = alias
	}
	key, ok := namedKeys[lower]
	if !ok {
		return Chord{}, fmt.Errorf("term: unknown key %q in chord %q", name, s)
	}
	c.Key = key
	if key == tcell.KeyTab && c.Mods&tcell.ModShift != 0 {
		c.Key = tcell.KeyBacktab
		c.Mods &^= tcell.ModShift
	}
	return c, nil
}

// Matches reports whether event is this chord. Shift is ignored for runes,
// since it is already part of the rune.
func (c Chord) Matches(event *tcell.EventKey) bool {
	if event == nil {
		return false
	}
	key, mods := event.Key(), event.Modifiers()
	if key == tcell.KeyBackspace && mods&tcell.ModCtrl == 0 {
		key = tcell.KeyBackspace2
	}
	if c.Key == tcell.KeyRune || c.Key == tcell.KeyBacktab {
		mods &^= tcell.ModShift
	}
	if key != c.Key || mods != c.Mods {
		return false
	}
	return key != tcell.KeyRune || event.Rune() == c.Rune
}

// String returns the chord in the form ParseChord reads.
func (c Chord) String() string {
	var b strings.Builder
	if c.Mods&tcell.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if c.Mods&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if c.Mods&tcell.ModShift != 0 {
		b.WriteString("shift+")
	}
	switch {
	case c.Key == tcell.KeyRune:
		b.WriteRune(c.Rune)
	case c.Mods&tcell.ModCtrl != 0 && c.Key >= tcell.KeyCtrlA && c.Key <= tcell.KeyCtrlZ:
		b.WriteRune('a' + rune(c.Key-tcell.KeyCtrlA))
	default:
		b.WriteString(keyNames[c.Key])
	}
	return b.String()
}

// Binding is the set of chords that trigger one action, with the label and
// description shown for it in help.
type Binding struct {
	Label string
	Desc  string

	chords []Chord
}

// Bind returns a binding for keys. It panics on a key ParseChord rejects, so
// keys should be literals.
func Bind(label, desc string, keys ...string) Binding {
	b := Binding{Label: label, Desc: desc}
	if err := b.Rebind(keys...); err != nil {
		panic(err)
	}
	return b
}

// Rebind replaces the binding's chords. The binding is unchanged on error.
func (b *Binding) Rebind(keys ...string) error {
	chords := make([]Chord, 0, len(keys))
	for _, key := range keys {
		c, err := ParseChord(key)
		if err != nil {
			return err
		}
		chords = append(chords, c)
	}
	b.chords = chords
	return nil
}

// Keys returns the binding's chords in canonical form.
func (b Binding) Keys() []string {
	keys := make([]string, len(b.chords))
	for i, c := range b.chords {
		keys[i] = c.String()
	}
	return keys
}

// Matches reports whether event triggers the binding.
func (b Binding) Matches(event *tcell.EventKey) bool {
	for _, c := range b.chords {
		if c.Matches(event) {
			return true
		}
	}
	return false
}

// ListKeyMap holds the keys a VirtualList scrolls with.
type ListKeyMap struct {
	LineUp   Binding
	LineDown Binding
	PageUp   Binding
	PageDown Binding
	Top      Binding
	Bottom   Binding
}

// DefaultListKeyMap returns arrow, page and vi-style bindings.
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		LineUp:   Bind("↑/k", "up", "up", "k"),
		LineDown: Bind("↓/j", "down", "down", "j"),
		PageUp:   Bind("pgup", "page up", "pgup", "ctrl+b"),
		PageDown: Bind("pgdn", "page down", "pgdn", "ctrl+f"),
		Top:      Bind("g", "top", "home", "g"),
		Bottom:   Bind("G", "bottom", "end", "G"),
	}
}

// ShortHelp returns the bindings shown in a one-line help.
func (k ListKeyMap) ShortHelp() []Binding {
	return []Binding{k.LineUp, k.LineDown, k.PageUp, k.PageDown, k.Top, k.Bottom}
}

// ShortHelp renders bindings as a single line such as "↑/k up • ↓/j down".
// Bindings without a label or description are skipped.
func ShortHelp(bindings ...Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if b.Label == "" && b.Desc == "" {
			continue
		}
		parts = append(parts, strings.TrimSpace(b.Label+" "+b.Desc))
	}
	return strings.Join(parts, " • ")
}
