package player

import (
	"context"

	"github.com/pkg/errors"
)

// Mixer owns the volume the dashboard shows and changes.
type Mixer interface {
	Available() bool
	// Volume returns percent in [0, 100], 0 on failure.
	Volume(ctx context.Context) int
	// SetVolume clamps percent and applies it, ignoring failures.
	SetVolume(ctx context.Context, percent int)
}

// MixerFactory builds a mixer. ctl is the player the dashboard controls.
type MixerFactory func(ctl *Playerctl) Mixer

type NamedMixer struct {
	Name string
	New  MixerFactory
}

var Mixers []NamedMixer

// RegisterMixer registers a mixer globally. This function is not
// thread-safe, and most packages should call it on init().
func RegisterMixer(name string, f MixerFactory) {
	Mixers = append(Mixers, NamedMixer{
		Name: name,
		New:  f,
	})
}

// FindMixer returns nil if no mixer has that name.
func FindMixer(name string) MixerFactory {
	for _, m := range Mixers {
		if m.Name == name {
			return m.New
		}
	}
	return nil
}

// DefaultMixer is the player's own volume.
const DefaultMixer = "player"

func init() {
	RegisterMixer(DefaultMixer, func(ctl *Playerctl) Mixer {
		return ctl
	})
}

// InitMixer builds the named mixer for ctl.
func InitMixer(name string, ctl *Playerctl) (Mixer, error) {
	if name == "" {
		name = DefaultMixer
	}

	f := FindMixer(name)
	if f == nil {
		return nil, errors.Errorf("mixer not found: %q; check list-mixers", name)
	}

	return f(ctl), nil
}
