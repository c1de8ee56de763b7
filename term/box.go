package term

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
)

// Box is the frame every primitive in this package draws in: a background,
// optional borders, a title in the top row and a footer in the bottom row.
// Primitives embed it and draw their content into [Box.GetInnerRect].
type Box struct {
	x, y, width, height int

	// Cached inner rect. A negative innerX marks it stale.
	innerX, innerY, innerWidth, innerHeight int

	paddingTop, paddingBottom, paddingLeft, paddingRight int

	borders   Borders
	borderSet BorderSet

	title          string
	titleAlignment Alignment
	footer         string

	background  tcell.Style
	borderStyle tcell.Style
	titleStyle  tcell.Style
	footerStyle tcell.Style

	// dirty may be set from any goroutine.
	dirty atomic.Bool
}

// NewBox returns a Box without borders.
func NewBox() *Box {
	b := &Box{
		width:          15,
		height:         10,
		innerX:         -1,
		borderSet:      BorderSetPlain(),
		titleAlignment: AlignmentCenter,
		background:     tcell.StyleDefault.Background(Styles.PrimitiveBackgroundColor),
		borderStyle:    tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		titleStyle:     tcell.StyleDefault.Foreground(Styles.TitleColor),
		footerStyle:    tcell.StyleDefault.Foreground(Styles.SecondaryTextColor),
	}
	b.dirty.Store(true)
	return b
}

// SetBorderPadding sets the space between the borders and the content.
func (b *Box) SetBorderPadding(top, bottom, left, right int) *Box {
	if b.paddingTop != top || b.paddingBottom != bottom || b.paddingLeft != left || b.paddingRight != right {
		b.paddingTop, b.paddingBottom, b.paddingLeft, b.paddingRight = top, bottom, left, right
		b.relayout()
	}
	return b
}

// GetRect returns the box's position and size.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// GetInnerRect returns the content rect inside borders, caption rows and
// padding. Width and height never go below 0.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if b.innerX >= 0 {
		return b.innerX, b.innerY, b.innerWidth, b.innerHeight
	}

	x, y, width, height := b.GetRect()
	if b.title != "" || b.borders.Has(BordersTop) {
		y++
		height--
	}
	if b.footer != "" || b.borders.Has(BordersBottom) {
		height--
	}
	if b.borders.Has(BordersLeft) {
		x++
		width--
	}
	if b.borders.Has(BordersRight) {
		width--
	}

	x += b.paddingLeft
	y += b.paddingTop
	width -= b.paddingLeft + b.paddingRight
	height -= b.paddingTop + b.paddingBottom
	return x, y, max(width, 0), max(height, 0)
}

// SetRect moves and resizes the box.
func (b *Box) SetRect(x, y, width, height int) {
	if b.x != x || b.y != y || b.width != width || b.height != height {
		b.x, b.y, b.width, b.height = x, y, width, height
		b.relayout()
	}
}

// IsDirty returns whether the box needs redrawing.
func (b *Box) IsDirty() bool {
	return b.dirty.Load()
}

// MarkDirty marks the box as needing a redraw.
func (b *Box) MarkDirty() {
	b.dirty.Store(true)
}

// MarkClean marks the box as drawn.
func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

// InputHandler ignores key events.
func (b *Box) InputHandler(*tcell.EventKey) Command {
	return nil
}

// MouseHandler ignores mouse events.
func (b *Box) MouseHandler(MouseAction, *tcell.EventMouse) (Primitive, Command) {
	return nil, nil
}

// InInnerRect reports whether the cell lies inside the content rect.
func (b *Box) InInnerRect(x, y int) bool {
	rectX, rectY, width, height := b.GetInnerRect()
	return x >= rectX && x < rectX+width && y >= rectY && y < rectY+height
}

// SetBorders sets which borders to draw.
func (b *Box) SetBorders(flag Borders) *Box {
	if b.borders != flag {
		b.borders = flag
		b.relayout()
	}
	return b
}

// SetBorderSet sets the characters borders are drawn with.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	if b.borderSet != borderSet {
		b.borderSet = borderSet
		b.MarkDirty()
	}
	return b
}

// SetTitle sets the text drawn into the top row.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.relayout()
	}
	return b
}

// SetTitleAlignment sets the alignment of the title.
func (b *Box) SetTitleAlignment(alignment Alignment) *Box {
	if b.titleAlignment != alignment {
		b.titleAlignment = alignment
		b.MarkDirty()
	}
	return b
}

// SetFooter sets the left-aligned text drawn into the bottom row.
func (b *Box) SetFooter(footer string) *Box {
	if b.footer != footer {
		b.footer = footer
		b.relayout()
	}
	return b
}

func (b *Box) relayout() {
	b.innerX = -1
	b.MarkDirty()
}

// Draw fills the background and draws the borders and captions.
func (b *Box) Draw(screen tcell.Screen) {
	if b.width <= 0 || b.height <= 0 {
		return
	}

	for y := b.y; y < b.y+b.height; y++ {
		for x := b.x; x < b.x+b.width; x++ {
			screen.SetContent(x, y, ' ', nil, b.background)
		}
	}
	if b.borders != BordersNone && b.width >= 2 && b.height >= 2 {
		b.drawBorders(screen)
	}
	if b.title != "" && b.width >= 4 {
		b.drawCaption(screen, b.title, b.y, b.titleAlignment, b.titleStyle)
	}
	if b.footer != "" && b.width >= 4 {
		b.drawCaption(screen, b.footer, b.y+b.height-1, AlignmentLeft, b.footerStyle)
	}

	b.innerX = -1
	b.innerX, b.innerY, b.innerWidth, b.innerHeight = b.GetInnerRect()
}

func (b *Box) drawBorders(screen tcell.Screen) {
	left, top := b.x, b.y
	right, bottom := b.x+b.width-1, b.y+b.height-1
	set, style := b.borderSet, b.borderStyle

	if b.borders.Has(BordersTop) {
		for x := left + 1; x < right; x++ {
			screen.SetContent(x, top, set.Top, nil, style)
		}
	}
	if b.borders.Has(BordersBottom) {
		for x := left + 1; x < right; x++ {
			screen.SetContent(x, bottom, set.Bottom, nil, style)
		}
	}
	if b.borders.Has(BordersLeft) {
		for y := top + 1; y < bottom; y++ {
			screen.SetContent(left, y, set.Left, nil, style)
		}
	}
	if b.borders.Has(BordersRight) {
		for y := top + 1; y < bottom; y++ {
			screen.SetContent(right, y, set.Right, nil, style)
		}
	}

	corners := []struct {
		edges Borders
		x, y  int
		r     rune
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders&c.edges == c.edges {
			screen.SetContent(c.x, c.y, c.r, nil, style)
		}
	}
}

// drawCaption prints a title or footer into row y, marking truncation with an
// ellipsis.
func (b *Box) drawCaption(screen tcell.Screen, text string, y int, alignment Alignment, style tcell.Style) {
	start, end, _ := printWithStyle(screen, text, b.x+1, y, 0, b.width-2, alignment, style, true)
	printed := end - start
	if len(text)-printed > 0 && printed > 0 {
		xEllipsis := b.x + b.width - 2
		if alignment == AlignmentRight {
			xEllipsis = b.x + 1
		}
		_, _, existing, _ := screen.GetContent(xEllipsis, y)
		fg, _, _ := existing.Decompose()
		Print(screen, string(horizontalEllipsis), xEllipsis, y, 1, AlignmentLeft, fg)
	}
}

var _ Primitive = &Box{}
