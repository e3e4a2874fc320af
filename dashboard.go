package cavadash

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/noriah/cavadash/graphic"
	"github.com/noriah/cavadash/input"
	"github.com/noriah/cavadash/player"

	"github.com/nsf/termbox-go"
	"github.com/rs/zerolog/log"
)

// Controller is the media side of the dashboard. Implementations must not
// fail: they return defaults instead.
type Controller interface {
	Volume(ctx context.Context) int
	SetVolume(ctx context.Context, percent int)
	Track(ctx context.Context) string
	Transport(ctx context.Context, cmd player.Command)
}

// SourceFunc builds an unstarted source for a bar count.
type SourceFunc func(bars int) input.Source

type playerState struct {
	volume int
	track  string
}

const (
	tooSmallText = "Terminal too small"
	noDataText   = "[No data]"
)

// dashboard is the render loop state. Everything here is touched by the
// loop goroutine only, except polls which background polls write to.
type dashboard struct {
	cfg *Config
	ctl Controller

	newSource SourceFunc
	src       input.Source
	bars      int

	ctx context.Context

	state    playerState
	polls    chan playerState
	polling  atomic.Bool
	lastPoll time.Time

	scroll *graphic.Scroller

	buttons graphic.Buttons
	prev    *graphic.Button
	track   *graphic.Button
	next    *graphic.Button
	down    *graphic.Button
	up      *graphic.Button

	pointerX   int
	pointerY   int
	hasPointer bool

	// detach runs fn away from the loop. Nothing waits for it and there is
	// no ordering between two detached calls.
	detach func(fn func(context.Context))
}

func detach(fn func(context.Context)) {
	go fn(context.Background())
}

func newDashboard(cfg *Config, ctl Controller, newSource SourceFunc) *dashboard {
	d := &dashboard{
		cfg:       cfg,
		ctl:       ctl,
		newSource: newSource,
		bars:      cfg.Bars,
		polls:     make(chan playerState, 1),
		scroll:    graphic.NewScroller(cfg.TrackWidth, cfg.ScrollPause, cfg.ScrollStep),
		detach:    detach,
	}

	d.prev = graphic.NewButton("<", d.transport(player.Previous))
	d.track = graphic.NewButton("TRACK", d.transport(player.PlayPause))
	d.next = graphic.NewButton(">", d.transport(player.Next))
	d.down = graphic.NewButton("  -  ", func() { d.changeVolume(-VolumeStep) })
	d.up = graphic.NewButton("  +  ", func() { d.changeVolume(VolumeStep) })

	d.buttons = graphic.Buttons{d.prev, d.track, d.next, d.down, d.up}

	return d
}

func (d *dashboard) transport(cmd player.Command) func() {
	return func() {
		d.detach(func(ctx context.Context) {
			d.ctl.Transport(ctx, cmd)
		})
	}
}

// changeVolume shows the new volume right away and sends it in the
// background. The next poll overwrites it with whatever the player reports.
func (d *dashboard) changeVolume(delta int) {
	target := player.ClampPercent(d.state.volume + delta)
	d.state.volume = target

	d.detach(func(ctx context.Context) {
		d.ctl.SetVolume(ctx, target)
	})
}

// start launches the source and fetches the initial player state.
func (d *dashboard) start(ctx context.Context) {
	d.ctx = ctx

	d.src = d.newSource(d.bars)
	d.src.Start(ctx)

	d.state = d.fetchState(ctx)
	d.lastPoll = time.Now()
	d.scroll.Update(d.state.track, d.lastPoll)
}

func (d *dashboard) stop() {
	if d.src != nil {
		d.src.Stop()
	}
}

// setBars replaces the source. This blocks for as long as the old source
// takes to stop.
func (d *dashboard) setBars(bars int) {
	switch {
	case bars < MinBars:
		bars = MinBars
	case bars > MaxBars:
		bars = MaxBars
	}

	if bars == d.bars {
		return
	}

	d.src.Stop()

	d.bars = bars
	d.src = d.newSource(bars)
	d.src.Start(d.ctx)

	log.Debug().Int("bars", bars).Msg("bar count changed")
}

func (d *dashboard) fetchState(ctx context.Context) playerState {
	return playerState{
		volume: d.ctl.Volume(ctx),
		track:  d.ctl.Track(ctx),
	}
}

// startPoll fetches player state in the background unless a poll is
// already running.
func (d *dashboard) startPoll() {
	if !d.polling.CompareAndSwap(false, true) {
		return
	}

	d.detach(func(ctx context.Context) {
		defer d.polling.Store(false)

		st := d.fetchState(ctx)

		select {
		case d.polls <- st:
		default:
		}
	})
}

// update takes in finished polls, starts a new one when due and advances
// the marquee.
func (d *dashboard) update(now time.Time) {
	select {
	case st := <-d.polls:
		d.state = st
	default:
	}

	if now.Sub(d.lastPoll) >= d.cfg.PollInterval {
		d.lastPoll = now
		d.startPoll()
	}

	d.scroll.Update(d.state.track, now)
}

// draw paints one frame and lays out the buttons for it. Boxes from the
// previous frame are dropped first so a click can only hit what is on
// screen now.
func (d *dashboard) draw(s graphic.Surface, snap input.Snapshot) {
	st := d.cfg.Styles
	width, height := s.Size()

	d.buttons.Reset()

	if width < MinWidth || height < MinHeight {
		graphic.Print(s, 0, 0, tooSmallText, st.Normal)
		return
	}

	barsHeight := height - PanelHeight - 1

	if len(snap) > 0 {
		graphic.DrawBars(s, snap, graphic.Rect{W: width, H: barsHeight}, BarDivisor, st)
	} else {
		graphic.Print(s, 0, 0, noDataText, st.Normal)
	}

	graphic.HLine(s, barsHeight, '-', st.Normal)

	// the label gets what the arrows leave over.
	arrows := graphic.RowWidth([]graphic.RowItem{{Button: d.prev}, {Button: d.next}})
	d.scroll.SetMaxWidth(min(d.cfg.TrackWidth, width-arrows-graphic.ItemGap-2))

	trackRow := barsHeight + 1
	trackItems := []graphic.RowItem{
		{Button: d.prev},
		{Text: d.scroll.View(), Button: d.track},
		{Button: d.next},
	}

	volumeRow := trackRow + 3
	volumeItems := []graphic.RowItem{
		{Button: d.down},
		{Text: fmt.Sprintf("%d%%", d.state.volume)},
		{Button: d.up},
	}

	trackXs := graphic.LayoutRow(width, trackRow, trackItems)
	volumeXs := graphic.LayoutRow(width, volumeRow, volumeItems)

	if d.hasPointer {
		d.buttons.UpdateHover(d.pointerX, d.pointerY)
	}

	graphic.PaintRow(s, trackRow, trackItems, trackXs, st)
	graphic.PaintRow(s, volumeRow, volumeItems, volumeXs, st)
}

// handleEvent reacts to one input event and reports whether to quit.
func (d *dashboard) handleEvent(ev termbox.Event) bool {
	switch ev.Type {
	case termbox.EventKey:
		switch ev.Ch {
		case 'q', 'Q':
			return true

		case 0:
			switch ev.Key {
			case termbox.KeyEsc, termbox.KeyCtrlC:
				return true

			case termbox.KeyArrowLeft:
				d.setBars(d.bars - BarStep)

			case termbox.KeyArrowRight:
				d.setBars(d.bars + BarStep)
			}
		}

	case termbox.EventMouse:
		d.pointerX, d.pointerY, d.hasPointer = ev.MouseX, ev.MouseY, true

		// drags report MouseLeft too, with ModMotion set.
		if ev.Key == termbox.MouseLeft && ev.Mod&termbox.ModMotion == 0 {
			if b := d.buttons.HitTest(ev.MouseX, ev.MouseY); b != nil {
				b.Activate()
			}
		}

		d.buttons.UpdateHover(ev.MouseX, ev.MouseY)
	}

	return false
}
