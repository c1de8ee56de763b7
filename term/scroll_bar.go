package term

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

// Number of thumb steps per cell.
const subcell = 8

// GlyphSet defines the vertical track and fractional thumb glyphs.
type GlyphSet struct {
	TrackVertical rune

	ThumbVerticalLower [subcell]rune
	ThumbVerticalUpper [subcell]rune
}

// MinimalGlyphSet returns the minimal glyph set (space track, fractional thumbs).
func MinimalGlyphSet() GlyphSet {
	g := LegacyComputingGlyphSet()
	g.TrackVertical = ' '
	return g
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full 1/8 fractional fidelity.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: boxLightVertical,

		ThumbVerticalLower: [subcell]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		ThumbVerticalUpper: [subcell]rune{'▔', '🮂', '🮃', '▀', '🮄', '🮅', '🮆', '█'},
	}
}

// UnicodeGlyphSet returns a standard-unicode-only approximation set.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: boxLightVertical,

		ThumbVerticalLower: [subcell]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'},
		ThumbVerticalUpper: [subcell]rune{'▔', '▔', '▀', '▀', '▀', '▀', '█', '█'},
	}
}

// ScrollBar renders a vertical scroll bar for a scroll offset within a
// content extent.
type ScrollBar struct {
	*Box

	autoHide bool
	offset   float64
	content  float64
	viewport float64

	trackStyle tcell.Style
	thumbStyle tcell.Style

	glyphSet GlyphSet
}

// NewScrollBar returns a new vertical scroll bar.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:        NewBox(),
		autoHide:   true,
		trackStyle: tcell.StyleDefault.Foreground(Styles.GraphicsColor).Dim(true),
		thumbStyle: tcell.StyleDefault.Foreground(Styles.GraphicsColor),
		glyphSet:   MinimalGlyphSet(),
	}
}

// SetMetrics sets the scroll offset, the content extent and the viewport
// extent, all in the same units.
func (s *ScrollBar) SetMetrics(offset, content, viewport float64) *ScrollBar {
	if s.offset != offset || s.content != content || s.viewport != viewport {
		s.offset, s.content, s.viewport = offset, content, viewport
		s.MarkDirty()
	}
	return s
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphSet = g
	s.MarkDirty()
	return s
}

// SetAutoHide controls whether the scroll bar is hidden when there is nothing
// to scroll.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	s.autoHide = autoHide
	return s
}

// SetThumbStyle sets the thumb style.
func (s *ScrollBar) SetThumbStyle(style tcell.Style) *ScrollBar {
	s.thumbStyle = style
	return s
}

// SetTrackStyle sets the track style.
func (s *ScrollBar) SetTrackStyle(style tcell.Style) *ScrollBar {
	s.trackStyle = style
	return s
}

// OffsetAt returns the scroll offset that centers the thumb on the given
// track cell.
func (s *ScrollBar) OffsetAt(cell int) float64 {
	_, _, _, height := s.GetInnerRect()
	m := computeScrollMetrics(height, s.content, s.viewport, s.offset)
	travel := m.trackLen - m.thumbLen
	maxOffset := max(s.content-s.viewport, 0)
	if travel <= 0 || maxOffset == 0 {
		return 0
	}
	center := cell*subcell + subcell/2 - m.thumbLen/2
	frac := min(max(float64(center)/float64(travel), 0), 1)
	return frac * maxOffset
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

// computeScrollMetrics computes the thumb in subcell units.
func computeScrollMetrics(trackCells int, content, viewport, offset float64) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen <= 0 {
		return scrollMetrics{}
	}

	content = max(content, 1)
	viewport = min(max(viewport, 1), content)
	maxOffset := max(content-viewport, 0)
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	// The thumb moves in 1/8-cell steps while staying proportional to
	// viewport/content size.
	thumbLen := min(max(int(float64(trackLen)*viewport/content), subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := int(math.Round(float64(thumbTravel) * offset / maxOffset))
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

func (s *ScrollBar) shouldDraw(m scrollMetrics) bool {
	if m.trackLen == 0 || s.content <= 0 {
		return false
	}
	return !s.autoHide || s.content > s.viewport
}

// cellFill returns the thumb coverage of a track cell as a cell-local start
// and length in subcells.
func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

func (s *ScrollBar) glyphForVertical(start, fillLen int) (rune, tcell.Style) {
	if fillLen <= 0 {
		return s.glyphSet.TrackVertical, s.trackStyle
	}
	if fillLen >= subcell {
		return s.glyphSet.ThumbVerticalLower[subcell-1], s.thumbStyle
	}
	ix := fillLen - 1
	if start == 0 {
		return s.glyphSet.ThumbVerticalUpper[ix], s.thumbStyle
	}
	return s.glyphSet.ThumbVerticalLower[ix], s.thumbStyle
}

// Draw draws the scroll bar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	defer s.MarkClean()
	s.Box.Draw(screen)

	x, y, _, height := s.GetInnerRect()
	m := computeScrollMetrics(height, s.content, s.viewport, s.offset)
	if !s.shouldDraw(m) {
		return
	}
	for cell := range m.trackCells {
		start, fillLen := cellFill(m, cell)
		glyph, style := s.glyphForVertical(start, fillLen)
		screen.SetContent(x, y+cell, glyph, nil, style)
	}
}

var _ Primitive = &ScrollBar{}
