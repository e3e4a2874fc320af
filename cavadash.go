// Package cavadash draws a live audio spectrum above a small media panel in
// the terminal.
package cavadash

import (
	"context"
	"time"

	"github.com/noriah/cavadash/graphic"
	"github.com/noriah/cavadash/input"
	"github.com/noriah/cavadash/player"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// AppName is the app name
const AppName = "cavadash"

// AppDesc is the app description
const AppDesc = "Terminal spectrum and media dashboard"

// AppSite is the app website
const AppSite = "https://github.com/noriah/cavadash"

// screen is what the loop draws on and takes input from.
type screen interface {
	graphic.Surface
	Clear() error
	Flush() error
	Events() <-chan termbox.Event
}

// Run takes over the terminal and runs the dashboard until the user quits
// or ctx ends. The analyzer and the controller are optional; without them
// the dashboard still runs.
func Run(cfg *Config, ctx context.Context) error {
	analyzer, err := input.InitAnalyzer(cfg.Analyzer)
	if err != nil {
		return err
	}

	bridge, err := player.NewBridge(cfg.Controller)
	if err != nil {
		return err
	}

	if !bridge.Available() {
		log.Info().Str("binary", cfg.Controller.Binary).Msg("media controller not found, using placeholders")
	}

	newSource := func(bars int) input.Source {
		return analyzer.New(input.SourceConfig{
			Bars:      bars,
			Framerate: cfg.Framerate,
		})
	}

	display := graphic.NewDisplay()
	if err := display.Init(); err != nil {
		return err
	}
	defer display.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ctx = display.Start(ctx)

	d := newDashboard(cfg, bridge, newSource)
	d.start(ctx)
	defer d.stop()

	return d.loop(ctx, display)
}

// loop draws a frame, then waits up to one frame delay for an event.
func (d *dashboard) loop(ctx context.Context, scr screen) error {
	timer := time.NewTimer(d.cfg.FrameDelay)
	defer timer.Stop()

	for {
		d.update(time.Now())

		if err := scr.Clear(); err != nil {
			return errors.Wrap(err, "failed to clear screen")
		}

		d.draw(scr, d.src.Snapshot())

		if err := scr.Flush(); err != nil {
			return errors.Wrap(err, "failed to draw frame")
		}

		timer.Reset(d.cfg.FrameDelay)

		select {
		case <-ctx.Done():
			return nil

		case ev := <-scr.Events():
			if ev.Type == termbox.EventError {
				log.Debug().Err(ev.Err).Msg("input error")
				continue
			}

			if d.handleEvent(ev) {
				return nil
			}

		case <-timer.C:
		}
	}
}
