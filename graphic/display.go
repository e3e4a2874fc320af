package graphic

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
)

// Display is the termbox-backed surface plus its input events.
type Display struct {
	events chan termbox.Event

	// terminfo is the TERMINFO value hidden from termbox, put back on Close.
	terminfo *string

	cancel context.CancelFunc
	once   sync.Once
}

var _ Surface = (*Display)(nil)

func NewDisplay() *Display {
	return &Display{
		events: make(chan termbox.Event, 1),
	}
}

// Init takes over the terminal. Close must be called to give it back.
func (d *Display) Init() error {
	if err := d.hideTmuxTerminfo(); err != nil {
		return errors.Wrap(err, "failed to adjust terminal environment")
	}

	if err := termbox.Init(); err != nil {
		d.restoreTerminfo()
		return errors.Wrap(err, "failed to init termbox")
	}

	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)
	termbox.HideCursor()

	return nil
}

// hideTmuxTerminfo unsets TERMINFO under a tmux TERM. Termbox fails to start
// with some combinations of the two.
func (d *Display) hideTmuxTerminfo() error {
	if !strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		return nil
	}

	value, ok := os.LookupEnv("TERMINFO")
	if !ok {
		return nil
	}

	if err := os.Unsetenv("TERMINFO"); err != nil {
		return err
	}

	d.terminfo = &value

	return nil
}

func (d *Display) restoreTerminfo() {
	if d.terminfo == nil {
		return
	}

	os.Setenv("TERMINFO", *d.terminfo)
	d.terminfo = nil
}

// Start runs the event poller. The returned context ends when the display
// is closed.
func (d *Display) Start(ctx context.Context) context.Context {
	ctx, d.cancel = context.WithCancel(ctx)
	go eventPoller(ctx, d.events)
	return ctx
}

// eventPoller forwards termbox events. PollEvent blocks, so this runs on its
// own goroutine and the dashboard picks events off the channel.
func eventPoller(ctx context.Context, events chan<- termbox.Event) {
	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Events delivers input events in arrival order.
func (d *Display) Events() <-chan termbox.Event {
	return d.events
}

func (d *Display) Size() (int, int) {
	return termbox.Size()
}

func (d *Display) SetCell(x, y int, ch rune, fg, bg termbox.Attribute) {
	termbox.SetCell(x, y, ch, fg, bg)
}

func (d *Display) Clear() error {
	return termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
}

func (d *Display) Flush() error {
	return termbox.Flush()
}

// Close gives the terminal back. Safe to call more than once.
func (d *Display) Close() error {
	d.once.Do(func() {
		if d.cancel != nil {
			d.cancel()
		}

		termbox.Close()
		d.restoreTerminfo()
	})

	return nil
}
