package graphic

const (
	// BarRune fills the lit part of a column.
	BarRune rune = '█'

	// OutlineRune marks the unlit part of a column.
	OutlineRune rune = '│'
)

// Rect is an area of a surface.
type Rect struct {
	X, Y, W, H int
}

// DrawBars paints one column per value into r. Column i sits at
// r.X + i*r.W/len(values); it is lit from the bottom for value/divisor rows.
func DrawBars(s Surface, values []int, r Rect, divisor int, st Styles) {
	count := len(values)
	if count == 0 || r.W <= 0 || r.H <= 0 {
		return
	}

	if divisor < 1 {
		divisor = 1
	}

	for xBin, value := range values {
		xCol := r.X + (xBin*r.W)/count

		stop := r.H - value/divisor
		if stop < 0 {
			stop = 0
		}

		var xRow int

		for ; xRow < stop; xRow++ {
			s.SetCell(xCol, r.Y+xRow, OutlineRune, st.Outline.Fg, st.Outline.Bg)
		}

		for ; xRow < r.H; xRow++ {
			s.SetCell(xCol, r.Y+xRow, BarRune, st.Bar.Fg, st.Bar.Bg)
		}
	}
}
