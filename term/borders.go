package term

// Box drawing characters used by borders, as \u escapes to keep the source
// ASCII-safe.
const (
	horizontalEllipsis = '\u2026' // …

	boxLightHorizontal      = '\u2500' // ─
	boxHeavyHorizontal      = '\u2501' // ━
	boxLightVertical        = '\u2502' // │
	boxHeavyVertical        = '\u2503' // ┃
	boxLightDownAndRight    = '\u250c' // ┌
	boxHeavyDownAndRight    = '\u250f' // ┏
	boxLightDownAndLeft     = '\u2510' // ┐
	boxHeavyDownAndLeft     = '\u2513' // ┓
	boxLightUpAndRight      = '\u2514' // └
	boxHeavyUpAndRight      = '\u2517' // ┗
	boxLightUpAndLeft       = '\u2518' // ┘
	boxHeavyUpAndLeft       = '\u251b' // ┛
	boxLightArcDownAndRight = '\u256d' // ╭
	boxLightArcDownAndLeft  = '\u256e' // ╮
	boxLightArcUpAndLeft    = '\u256f' // ╯
	boxLightArcUpAndRight   = '\u2570' // ╰
	boxDoubleHorizontal     = '\u2550' // ═
	boxDoubleVertical       = '\u2551' // ║
	boxDoubleDownAndRight   = '\u2554' // ╔
	boxDoubleDownAndLeft    = '\u2557' // ╗
	boxDoubleUpAndRight     = '\u255a' // ╚
	boxDoubleUpAndLeft      = '\u255d' // ╝
)

// BorderSet defines the characters used when box borders are drawn.
type BorderSet struct {
	Top         rune
	Bottom      rune
	Left        rune
	Right       rune
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
}

func BorderSetHidden() BorderSet {
	return BorderSet{
		Top:         ' ',
		Bottom:      ' ',
		Left:        ' ',
		Right:       ' ',
		TopLeft:     ' ',
		TopRight:    ' ',
		BottomLeft:  ' ',
		BottomRight: ' ',
	}
}

func BorderSetPlain() BorderSet {
	return BorderSet{
		Top:         boxLightHorizontal,
		Bottom:      boxLightHorizontal,
		Left:        boxLightVertical,
		Right:       boxLightVertical,
		TopLeft:     boxLightDownAndRight,
		TopRight:    boxLightDownAndLeft,
		BottomLeft:  boxLightUpAndRight,
		BottomRight: boxLightUpAndLeft,
	}
}

func BorderSetRound() BorderSet {
	return BorderSet{
		Top:         boxLightHorizontal,
		Bottom:      boxLightHorizontal,
		Left:        boxLightVertical,
		Right:       boxLightVertical,
		TopLeft:     boxLightArcDownAndRight,
		TopRight:    boxLightArcDownAndLeft,
		BottomLeft:  boxLightArcUpAndRight,
		BottomRight: boxLightArcUpAndLeft,
	}
}

func BorderSetThick() BorderSet {
	return BorderSet{
		Top:         boxHeavyHorizontal,
		Bottom:      boxHeavyHorizontal,
		Left:        boxHeavyVertical,
		Right:       boxHeavyVertical,
		TopLeft:     boxHeavyDownAndRight,
		TopRight:    boxHeavyDownAndLeft,
		BottomLeft:  boxHeavyUpAndRight,
		BottomRight: boxHeavyUpAndLeft,
	}
}

func BorderSetDouble() BorderSet {
	return BorderSet{
		Top:         boxDoubleHorizontal,
		Bottom:      boxDoubleHorizontal,
		Left:        boxDoubleVertical,
		Right:       boxDoubleVertical,
		TopLeft:     boxDoubleDownAndRight,
		TopRight:    boxDoubleDownAndLeft,
		BottomLeft:  boxDoubleUpAndRight,
		BottomRight: boxDoubleUpAndLeft,
	}
}

// BorderSetByName returns a border set by its configuration name.
func BorderSetByName(name string) (BorderSet, bool) {
	switch name {
	case "", "plain":
		return BorderSetPlain(), true
	case "round":
		return BorderSetRound(), true
	case "thick":
		return BorderSetThick(), true
	case "double":
		return BorderSetDouble(), true
	case "hidden":
		return BorderSetHidden(), true
	}
	return BorderSet{}, false
}

type Borders uint

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

func (b Borders) Has(flag Borders) bool {
	return b&flag != 0
}
