package graphic

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// Phase is the marquee state.
type Phase int

const (
	Idle Phase = iota
	Scrolling
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Scrolling:
		return "scrolling"
	default:
		return "unknown"
	}
}

// ScrollGap separates the end of a label from its next repetition.
const ScrollGap = "   "

// Scroller turns a label wider than MaxWidth columns into a wrapping
// marquee. The label sits still for Pause, then shifts one rune every Step.
type Scroller struct {
	MaxWidth int
	Pause    time.Duration
	Step     time.Duration

	text  string
	label []rune
	loop  []rune

	phase Phase
	index int
	since time.Time
}

func NewScroller(maxWidth int, pause, step time.Duration) *Scroller {
	return &Scroller{
		MaxWidth: maxWidth,
		Pause:    pause,
		Step:     step,
	}
}

func (s *Scroller) overflows() bool {
	return runewidth.StringWidth(s.text) > s.MaxWidth
}

// SetMaxWidth changes how many columns the view may take. A change restarts
// the marquee from the start of the label.
func (s *Scroller) SetMaxWidth(width int) {
	if width < 1 {
		width = 1
	}

	if width == s.MaxWidth {
		return
	}

	s.MaxWidth = width
	s.phase = Idle
	s.index = 0
}

func (s *Scroller) reset(now time.Time) {
	s.phase = Idle
	s.index = 0
	s.since = now
}

// Update advances the marquee to now. A new label always restarts from Idle
// at index 0.
func (s *Scroller) Update(label string, now time.Time) {
	if label != s.text || s.loop == nil {
		s.text = label
		s.label = []rune(label)
		s.loop = []rune(label + ScrollGap + label)
		s.reset(now)
	}

	if !s.overflows() {
		s.reset(now)
		return
	}

	switch s.phase {
	case Idle:
		if now.Sub(s.since) >= s.Pause {
			s.phase = Scrolling
			s.since = now
		}

	case Scrolling:
		if now.Sub(s.since) >= s.Step {
			s.index = (s.index + 1) % (len(s.label) + len(ScrollGap))
			s.since = now
		}
	}
}

// View is the visible part of the label.
func (s *Scroller) View() string {
	if !s.overflows() {
		return s.text
	}

	var sb strings.Builder
	width := 0

	for _, r := range s.loop[s.index:] {
		w := runewidth.RuneWidth(r)
		if width+w > s.MaxWidth {
			break
		}

		sb.WriteRune(r)
		width += w
	}

	return sb.String()
}

func (s *Scroller) Phase() Phase {
	return s.phase
}

func (s *Scroller) Index() int {
	return s.index
}
