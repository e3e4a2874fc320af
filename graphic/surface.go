package graphic

import (
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

// Surface is a grid of cells we can paint on.
type Surface interface {
	Size() (int, int)
	SetCell(x, y int, ch rune, fg, bg termbox.Attribute)
}

// Style is a foreground/background pair.
type Style struct {
	Fg termbox.Attribute
	Bg termbox.Attribute
}

// Styles is the dashboard palette.
type Styles struct {
	Outline Style // unfilled part of a bar column
	Bar     Style // filled part of a bar column
	Normal  Style // buttons and labels
	Hover   Style // button under the pointer
}

func DefaultStyles() Styles {
	return Styles{
		Outline: Style{Fg: termbox.ColorWhite, Bg: termbox.ColorDefault},
		Bar:     Style{Fg: termbox.ColorRed, Bg: termbox.ColorDefault},
		Normal:  Style{Fg: termbox.ColorWhite, Bg: termbox.ColorDefault},
		Hover:   Style{Fg: termbox.ColorBlack, Bg: termbox.ColorCyan},
	}
}

// TextWidth is the number of columns text occupies.
func TextWidth(text string) int {
	return runewidth.StringWidth(text)
}

// Print writes text starting at column x of row y and returns the column
// after the last glyph. Cells outside the surface are skipped.
func Print(s Surface, x, y int, text string, st Style) int {
	width, height := s.Size()

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}

		if y >= 0 && y < height && x >= 0 && x+w <= width {
			s.SetCell(x, y, r, st.Fg, st.Bg)
		}

		x += w
	}

	return x
}

// HLine fills row y with ch.
func HLine(s Surface, y int, ch rune, st Style) {
	width, _ := s.Size()
	for x := 0; x < width; x++ {
		s.SetCell(x, y, ch, st.Fg, st.Bg)
	}
}
