package cavadash

import (
	"errors"
	"fmt"
	"time"

	"github.com/noriah/cavadash/graphic"
	"github.com/noriah/cavadash/player"
)

const (
	// MinBars and MaxBars bound the bar count the arrow keys can reach.
	MinBars = 5
	MaxBars = 200
	// BarStep is how much one arrow key press changes the bar count.
	BarStep = 5

	// VolumeStep is how much one volume button press changes the volume.
	VolumeStep = 5

	// MinWidth and MinHeight are the smallest terminal we lay out in.
	MinWidth  = 40
	MinHeight = 15

	// PanelHeight is the number of rows below the separator.
	PanelHeight = 7

	// BarDivisor scales analyzer values down to rows.
	BarDivisor = 5
)

type Config struct {
	// Analyzer is the registered analyzer name. Empty picks the default.
	Analyzer string
	// Bars is the starting bar count.
	Bars int
	// Framerate is passed on to the analyzer. 0 keeps its default.
	Framerate int
	// Controller selects the media controller and the mixer.
	Controller player.Config
	// FrameDelay is the longest we wait for input before redrawing.
	FrameDelay time.Duration
	// PollInterval is the least time between player state polls.
	PollInterval time.Duration
	// TrackWidth is the widest the track label is shown before it scrolls.
	TrackWidth int
	// ScrollPause is how long an overlong label stays still before scrolling.
	ScrollPause time.Duration
	// ScrollStep is the time between one-rune shifts.
	ScrollStep time.Duration
	// Styles is the palette.
	Styles graphic.Styles
}

// NewZeroConfig returns a zero config
// it is the "default"
func NewZeroConfig() Config {
	return Config{
		Bars: 50,
		Controller: player.Config{
			Binary: player.DefaultBinary,
			Player: player.DefaultPlayer,
			Mixer:  player.DefaultMixer,
		},
		FrameDelay:   50 * time.Millisecond,
		PollInterval: 500 * time.Millisecond,
		TrackWidth:   30,
		ScrollPause:  2 * time.Second,
		ScrollStep:   300 * time.Millisecond,
		Styles:       graphic.DefaultStyles(),
	}
}

func (cfg *Config) Validate() error {
	switch {
	case cfg.Bars < MinBars:
		return fmt.Errorf("too few bars (%d min)", MinBars)

	case cfg.Bars > MaxBars:
		return fmt.Errorf("too many bars (%d max)", MaxBars)

	case cfg.Framerate < 0:
		return errors.New("framerate must not be negative")

	case cfg.TrackWidth < 1:
		return errors.New("track width too small (1 min)")

	case cfg.FrameDelay <= 0, cfg.PollInterval <= 0, cfg.ScrollStep <= 0:
		return errors.New("frame delay, poll interval and scroll step must be positive")

	case cfg.ScrollPause < 0:
		return errors.New("scroll pause must not be negative")
	}

	return nil
}
