package graphic

const (
	// ButtonHeight is how many rows a button's hit box covers, starting at
	// its text row.
	ButtonHeight = 2

	// ItemGap is the number of blank columns between two painted row items.
	ItemGap = 2
)

// Box is an inclusive cell rectangle.
type Box struct {
	X1, Y1, X2, Y2 int
}

// emptyBox contains no points.
var emptyBox = Box{0, 0, -1, -1}

func (b Box) Contains(x, y int) bool {
	return b.X1 <= x && x <= b.X2 && b.Y1 <= y && y <= b.Y2
}

// Button is a clickable region. Its box is recomputed every frame.
type Button struct {
	Label      string
	OnActivate func()
	Box        Box
	Hover      bool
}

func NewButton(label string, fn func()) *Button {
	return &Button{
		Label:      label,
		OnActivate: fn,
		Box:        emptyBox,
	}
}

// Place sets the hit box to width x height cells at (x, y).
func (b *Button) Place(x, y, width, height int) {
	if width < 1 {
		width = 1
	}

	if height < 1 {
		height = 1
	}

	b.Box = Box{X1: x, Y1: y, X2: x + width - 1, Y2: y + height - 1}
}

func (b *Button) Contains(x, y int) bool {
	return b.Box.Contains(x, y)
}

// Activate runs the callback, if any.
func (b *Button) Activate() {
	if b.OnActivate != nil {
		b.OnActivate()
	}
}

// Buttons is an ordered set of buttons. Order decides hit-test priority.
type Buttons []*Button

// Reset forgets all placements and hover state so nothing can be hit until
// the next layout.
func (bs Buttons) Reset() {
	for _, b := range bs {
		b.Box = emptyBox
		b.Hover = false
	}
}

// HitTest returns the first button containing (x, y), or nil.
func (bs Buttons) HitTest(x, y int) *Button {
	for _, b := range bs {
		if b.Contains(x, y) {
			return b
		}
	}
	return nil
}

// UpdateHover marks every button under (x, y).
func (bs Buttons) UpdateHover(x, y int) {
	for _, b := range bs {
		b.Hover = b.Contains(x, y)
	}
}

// RowItem is one element of a centred row. Text items carry no button.
type RowItem struct {
	Text   string
	Button *Button
}

func (it RowItem) text() string {
	if it.Button != nil && it.Text == "" {
		return it.Button.Label
	}
	return it.Text
}

// width is the painted width, padding included.
func (it RowItem) width() int {
	w := TextWidth(it.text())
	if it.Button != nil {
		w += 2
	}
	return w
}

// RowWidth is the number of columns items take once painted.
func RowWidth(items []RowItem) int {
	total := 0
	for i, it := range items {
		if i > 0 {
			total += ItemGap
		}
		total += it.width()
	}
	return total
}

// LayoutRow centres items on row y of a surface width columns wide, places
// every button's hit box over its padded text and returns the column each
// item starts painting at.
func LayoutRow(width, y int, items []RowItem) []int {
	xs := make([]int, len(items))
	x := (width - RowWidth(items)) / 2

	for i, it := range items {
		xs[i] = x

		w := it.width()
		if it.Button != nil {
			it.Button.Place(x, y, w, ButtonHeight)
		}

		x += w + ItemGap
	}

	return xs
}

// PaintRow draws items at the columns LayoutRow returned. Buttons get one
// column of padding on each side and the hover style when hovered.
func PaintRow(s Surface, y int, items []RowItem, xs []int, st Styles) {
	for i, it := range items {
		if it.Button == nil {
			Print(s, xs[i], y, it.text(), st.Normal)
			continue
		}

		style := st.Normal
		if it.Button.Hover {
			style = st.Hover
		}

		Print(s, xs[i], y, " "+it.text()+" ", style)
	}
}
