package cavadash

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/noriah/cavadash/graphic"
	"github.com/noriah/cavadash/input"
	"github.com/noriah/cavadash/player"

	"github.com/nsf/termbox-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSurface struct {
	w, h  int
	cells map[[2]int]rune
}

func newMemSurface(w, h int) *memSurface {
	return &memSurface{w: w, h: h, cells: map[[2]int]rune{}}
}

func (m *memSurface) Size() (int, int) {
	return m.w, m.h
}

func (m *memSurface) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.cells[[2]int{x, y}] = ch
}

// line is row y, full width.
func (m *memSurface) line(y int) string {
	var sb strings.Builder
	for x := 0; x < m.w; x++ {
		ch, ok := m.cells[[2]int{x, y}]
		if !ok {
			ch = ' '
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

func (m *memSurface) row(y int) string {
	return strings.TrimRight(m.line(y), " ")
}

// find returns the column of the first rune of text on screen. Columns and
// runes line up as long as text and everything before it is single width.
func (m *memSurface) find(text string) (int, int, bool) {
	for y := 0; y < m.h; y++ {
		if x := strings.Index(m.line(y), text); x >= 0 {
			return x, y, true
		}
	}
	return 0, 0, false
}

type fakeSource struct {
	bars    int
	data    input.Snapshot
	started int
	stopped int
}

func (f *fakeSource) Start(context.Context) { f.started++ }
func (f *fakeSource) Snapshot() input.Snapshot { return f.data.Clone() }
func (f *fakeSource) Available() bool { return f.data != nil }
func (f *fakeSource) Bars() int { return f.bars }
func (f *fakeSource) Stop() { f.stopped++ }

type fakeController struct {
	mu         sync.Mutex
	volume     int
	track      string
	volumes    []int
	transports []player.Command
	polls      int
}

func (f *fakeController) Volume(context.Context) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	return f.volume
}

func (f *fakeController) SetVolume(_ context.Context, percent int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes = append(f.volumes, percent)
}

func (f *fakeController) Track(context.Context) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.track
}

func (f *fakeController) Transport(_ context.Context, cmd player.Command) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transports = append(f.transports, cmd)
}

// padded button text, so separators and track text never match.
const (
	minus = "   -   "
	plus  = "   +   "
)

type harness struct {
	d       *dashboard
	ctl     *fakeController
	sources []*fakeSource
	pending []func(context.Context)
}

func newHarness(t *testing.T, ctl Controller) *harness {
	t.Helper()

	cfg := NewZeroConfig()
	require.NoError(t, cfg.Validate())

	h := &harness{}
	if fc, ok := ctl.(*fakeController); ok {
		h.ctl = fc
	}

	h.d = newDashboard(&cfg, ctl, func(bars int) input.Source {
		src := &fakeSource{bars: bars}
		h.sources = append(h.sources, src)
		return src
	})

	// hold detached calls so tests decide when they land.
	h.d.detach = func(fn func(context.Context)) {
		h.pending = append(h.pending, fn)
	}

	h.d.start(context.Background())

	return h
}

func (h *harness) flush() {
	pending := h.pending
	h.pending = nil
	for _, fn := range pending {
		fn(context.Background())
	}
}

func (h *harness) source() *fakeSource {
	return h.sources[len(h.sources)-1]
}

func (h *harness) frame(w, ht int) *memSurface {
	s := newMemSurface(w, ht)
	h.d.draw(s, h.source().Snapshot())
	return s
}

func (h *harness) click(s *memSurface, text string) {
	x, y, ok := s.find(text)
	if !ok {
		panic("no " + text + " on screen")
	}

	h.d.handleEvent(termbox.Event{
		Type:   termbox.EventMouse,
		Key:    termbox.MouseLeft,
		MouseX: x,
		MouseY: y,
	})
}

func TestVolumeClickIsOptimistic(t *testing.T) {
	h := newHarness(t, &fakeController{volume: 50, track: "A - B"})

	s := h.frame(80, 24)
	h.click(s, plus)

	// shown before the controller has been told anything.
	assert.Equal(t, 55, h.d.state.volume)
	assert.Empty(t, h.ctl.volumes)

	s = h.frame(80, 24)
	_, _, ok := s.find("55%")
	assert.True(t, ok)

	h.flush()
	assert.Equal(t, []int{55}, h.ctl.volumes)

	h.click(s, minus)
	h.click(s, minus)
	assert.Equal(t, 45, h.d.state.volume)
}

func TestVolumeClickClamps(t *testing.T) {
	h := newHarness(t, &fakeController{volume: 98})

	s := h.frame(80, 24)
	h.click(s, plus)
	assert.Equal(t, 100, h.d.state.volume)

	h.d.state.volume = 3
	h.click(s, minus)
	assert.Equal(t, 0, h.d.state.volume)

	h.flush()
	assert.Equal(t, []int{100, 0}, h.ctl.volumes)
}

func TestDragDoesNotRepeatClick(t *testing.T) {
	h := newHarness(t, &fakeController{volume: 50})

	s := h.frame(80, 24)
	h.click(s, plus)

	box := h.d.up.Box
	for _, x := range []int{box.X1 + 1, box.X2} {
		h.d.handleEvent(termbox.Event{
			Type:   termbox.EventMouse,
			Key:    termbox.MouseLeft,
			Mod:    termbox.ModMotion,
			MouseX: x,
			MouseY: box.Y1,
		})
	}

	assert.Equal(t, 55, h.d.state.volume)
	h.flush()
	assert.Equal(t, []int{55}, h.ctl.volumes)

	// dragging still moves the hover.
	down := h.d.down.Box
	h.d.handleEvent(termbox.Event{
		Type:   termbox.EventMouse,
		Key:    termbox.MouseLeft,
		Mod:    termbox.ModMotion,
		MouseX: down.X1,
		MouseY: down.Y1,
	})
	assert.True(t, h.d.down.Hover)
	assert.False(t, h.d.up.Hover)
	assert.Equal(t, 55, h.d.state.volume)
	assert.Empty(t, h.pending)
}

func TestTransportClicks(t *testing.T) {
	h := newHarness(t, &fakeController{track: "Artist - Title"})

	s := h.frame(80, 24)
	h.click(s, "<")
	h.click(s, "Artist - Title")
	h.click(s, ">")
	h.flush()

	assert.Equal(t,
		[]player.Command{player.Previous, player.PlayPause, player.Next},
		h.ctl.transports)
}

func TestMissingControllerDoesNotCrash(t *testing.T) {
	ctl := player.NewPlayerctl("/nonexistent/playerctl", player.DefaultPlayer)
	h := newHarness(t, ctl)

	assert.Equal(t, player.NoControllerTrack, h.d.state.track)

	assert.NotPanics(t, func() {
		h.d.update(time.Now())
		s := h.frame(80, 24)
		h.click(s, plus)
		h.click(s, ">")
		h.flush()
	})

	assert.Equal(t, 5, h.d.state.volume)
}

func TestPanelLayout(t *testing.T) {
	h := newHarness(t, &fakeController{volume: 55, track: "Artist - Title"})
	h.d.update(time.Now())

	s := h.frame(80, 24)

	sepRow := 24 - PanelHeight - 1
	assert.Equal(t, strings.Repeat("-", 80), s.row(sepRow))

	_, y, ok := s.find("Artist - Title")
	require.True(t, ok)
	assert.Equal(t, sepRow+1, y)

	_, y, ok = s.find("55%")
	require.True(t, ok)
	assert.Equal(t, sepRow+4, y)
}

func TestNarrowTerminalKeepsArrowsOnScreen(t *testing.T) {
	h := newHarness(t, &fakeController{track: "Some Very Long Artist Name - A Rather Long Title"})

	s := h.frame(MinWidth, MinHeight)
	trackRow := MinHeight - PanelHeight

	line := s.line(trackRow)
	assert.Equal(t, " < ", line[:3])
	assert.Equal(t, " > ", line[MinWidth-3:])

	next := h.d.next.Box
	assert.Equal(t, MinWidth-1, next.X2)
	assert.Same(t, h.d.next, h.d.buttons.HitTest(MinWidth-2, trackRow))

	// wider terminals get the configured width back.
	h.frame(80, 24)
	assert.Equal(t, h.d.cfg.TrackWidth, h.d.scroll.MaxWidth)
}

func TestNoDataIndicator(t *testing.T) {
	h := newHarness(t, &fakeController{})

	s := h.frame(80, 24)
	assert.Equal(t, noDataText, s.row(0))

	h.source().data = input.Snapshot{100, 0}
	s = h.frame(80, 24)
	assert.NotContains(t, s.row(0), noDataText)
	assert.Contains(t, s.row(16-1), string(graphic.BarRune))
}

func TestTerminalTooSmall(t *testing.T) {
	h := newHarness(t, &fakeController{volume: 50})

	big := h.frame(80, 24)
	x, y, ok := big.find(plus)
	require.True(t, ok)

	for _, size := range [][2]int{{39, 24}, {80, 14}} {
		s := h.frame(size[0], size[1])
		assert.Equal(t, tooSmallText, strings.TrimSpace(s.row(0)))

		_, _, ok := s.find("%")
		assert.False(t, ok)
	}

	// boxes from the big frame are gone.
	assert.Nil(t, h.d.buttons.HitTest(x, y))
	h.d.handleEvent(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseLeft, MouseX: x, MouseY: y})
	assert.Equal(t, 50, h.d.state.volume)
}

func TestHover(t *testing.T) {
	h := newHarness(t, &fakeController{})

	s := h.frame(80, 24)
	x, y, ok := s.find(">")
	require.True(t, ok)

	h.d.handleEvent(termbox.Event{Type: termbox.EventMouse, Key: termbox.MouseRelease, MouseX: x, MouseY: y})
	assert.True(t, h.d.next.Hover)
	assert.False(t, h.d.prev.Hover)

	// hover survives a redraw.
	h.frame(80, 24)
	assert.True(t, h.d.next.Hover)
	assert.Empty(t, h.pending)
}

func TestBarCountKeys(t *testing.T) {
	h := newHarness(t, &fakeController{})
	require.Len(t, h.sources, 1)
	assert.Equal(t, 50, h.source().bars)

	right := termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowRight}
	left := termbox.Event{Type: termbox.EventKey, Key: termbox.KeyArrowLeft}

	h.d.handleEvent(right)
	require.Len(t, h.sources, 2)
	assert.Equal(t, 1, h.sources[0].stopped)
	assert.Equal(t, 55, h.source().bars)
	assert.Equal(t, 1, h.source().started)

	h.d.handleEvent(left)
	h.d.handleEvent(left)
	assert.Equal(t, 45, h.source().bars)

	for i := 0; i < 100; i++ {
		h.d.handleEvent(left)
	}
	assert.Equal(t, MinBars, h.d.bars)
	n := len(h.sources)
	h.d.handleEvent(left)
	assert.Len(t, h.sources, n, "no restart at the floor")

	for i := 0; i < 100; i++ {
		h.d.handleEvent(right)
	}
	assert.Equal(t, MaxBars, h.d.bars)
	assert.Equal(t, MaxBars, h.source().bars)

	for _, src := range h.sources[:len(h.sources)-1] {
		assert.Equal(t, 1, src.stopped)
	}

	h.d.stop()
	assert.Equal(t, 1, h.source().stopped)
}

func TestQuitKeys(t *testing.T) {
	h := newHarness(t, &fakeController{})

	quits := []termbox.Event{
		{Type: termbox.EventKey, Ch: 'q'},
		{Type: termbox.EventKey, Ch: 'Q'},
		{Type: termbox.EventKey, Key: termbox.KeyEsc},
		{Type: termbox.EventKey, Key: termbox.KeyCtrlC},
	}
	for _, ev := range quits {
		assert.True(t, h.d.handleEvent(ev), "%+v", ev)
	}

	others := []termbox.Event{
		{Type: termbox.EventKey, Ch: 'x'},
		{Type: termbox.EventKey, Key: termbox.KeyEnter},
		{Type: termbox.EventResize, Width: 10, Height: 10},
		{Type: termbox.EventMouse, Key: termbox.MouseLeft, MouseX: 500, MouseY: 500},
	}
	for _, ev := range others {
		assert.False(t, h.d.handleEvent(ev), "%+v", ev)
	}
}

func TestPollCadence(t *testing.T) {
	h := newHarness(t, &fakeController{volume: 10, track: "one"})
	assert.Equal(t, 1, h.ctl.polls)

	t0 := h.d.lastPoll

	h.d.update(t0.Add(100 * time.Millisecond))
	assert.Empty(t, h.pending)

	h.d.update(t0.Add(500 * time.Millisecond))
	require.Len(t, h.pending, 1)

	// one poll at a time.
	h.d.update(t0.Add(1100 * time.Millisecond))
	assert.Len(t, h.pending, 1)

	h.ctl.volume, h.ctl.track = 70, "two"
	h.flush()
	assert.Equal(t, 2, h.ctl.polls)
	assert.Equal(t, 10, h.d.state.volume, "result lands on the next tick")

	h.d.update(t0.Add(1200 * time.Millisecond))
	assert.Equal(t, 70, h.d.state.volume)
	assert.Equal(t, "two", h.d.state.track)
	assert.Empty(t, h.pending)

	h.d.update(t0.Add(1600 * time.Millisecond))
	assert.Len(t, h.pending, 1)
}

func TestLoopQuits(t *testing.T) {
	h := newHarness(t, &fakeController{})
	h.d.cfg.FrameDelay = time.Millisecond

	scr := &memScreen{memSurface: newMemSurface(80, 24), events: make(chan termbox.Event, 1)}
	scr.events <- termbox.Event{Type: termbox.EventKey, Ch: 'q'}

	require.NoError(t, h.d.loop(context.Background(), scr))
	assert.GreaterOrEqual(t, scr.flushes, 1)
}

func TestLoopStopsOnCancel(t *testing.T) {
	h := newHarness(t, &fakeController{})
	h.d.cfg.FrameDelay = time.Millisecond

	scr := &memScreen{memSurface: newMemSurface(80, 24), events: make(chan termbox.Event)}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	require.NoError(t, h.d.loop(ctx, scr))
	assert.Greater(t, scr.flushes, 1)
}

type memScreen struct {
	*memSurface
	events  chan termbox.Event
	flushes int
}

func (m *memScreen) Clear() error {
	m.cells = map[[2]int]rune{}
	return nil
}

func (m *memScreen) Flush() error {
	m.flushes++
	return nil
}

func (m *memScreen) Events() <-chan termbox.Event {
	return m.events
}

func TestValidate(t *testing.T) {
	cfg := NewZeroConfig()
	require.NoError(t, cfg.Validate())

	bad := []func(*Config){
		func(c *Config) { c.Bars = 4 },
		func(c *Config) { c.Bars = 201 },
		func(c *Config) { c.Framerate = -1 },
		func(c *Config) { c.TrackWidth = 0 },
		func(c *Config) { c.FrameDelay = 0 },
		func(c *Config) { c.PollInterval = -time.Second },
		func(c *Config) { c.ScrollStep = 0 },
		func(c *Config) { c.ScrollPause = -1 },
	}

	for i, mod := range bad {
		c := NewZeroConfig()
		mod(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}

	for _, bars := range []int{MinBars, MaxBars} {
		c := NewZeroConfig()
		c.Bars = bars
		assert.NoError(t, c.Validate())
	}
}
