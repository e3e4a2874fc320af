package player

import (
	"context"

	"github.com/lawl/pulseaudio"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func init() {
	RegisterMixer("pulse", func(*Playerctl) Mixer {
		return NewPulseMixer()
	})
}

type pulseSession interface {
	Volume() (float32, error)
	SetVolume(float32) error
	Close()
}

type pulseClient struct {
	c *pulseaudio.Client
}

func (p pulseClient) Volume() (float32, error) {
	return p.c.Volume()
}

func (p pulseClient) SetVolume(v float32) error {
	return p.c.SetVolume(v)
}

func (p pulseClient) Close() {
	p.c.Close()
}

func dialPulse() (pulseSession, error) {
	c, err := pulseaudio.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to pulseaudio")
	}

	return pulseClient{c}, nil
}

// PulseMixer reads and sets the default sink volume of the PulseAudio
// server. Each call uses its own short-lived connection.
type PulseMixer struct {
	available bool
	dial      func() (pulseSession, error)
}

// NewPulseMixer probes the server once.
func NewPulseMixer() *PulseMixer {
	return newPulseMixer(dialPulse)
}

func newPulseMixer(dial func() (pulseSession, error)) *PulseMixer {
	m := &PulseMixer{dial: dial}

	s, err := dial()
	if err != nil {
		log.Debug().Err(err).Msg("pulse mixer unavailable")
		return m
	}
	s.Close()

	m.available = true
	return m
}

func (m *PulseMixer) Available() bool {
	return m.available
}

func (m *PulseMixer) Volume(ctx context.Context) int {
	if !m.available || ctx.Err() != nil {
		return 0
	}

	s, err := m.dial()
	if err != nil {
		log.Debug().Err(err).Msg("volume query failed")
		return 0
	}
	defer s.Close()

	v, err := s.Volume()
	if err != nil {
		log.Debug().Err(err).Msg("volume query failed")
		return 0
	}

	return ClampPercent(int(v * 100))
}

func (m *PulseMixer) SetVolume(ctx context.Context, percent int) {
	if !m.available || ctx.Err() != nil {
		return
	}

	s, err := m.dial()
	if err != nil {
		log.Debug().Err(err).Msg("set volume failed")
		return
	}
	defer s.Close()

	if err := s.SetVolume(float32(ClampPercent(percent)) / 100); err != nil {
		log.Debug().Err(err).Int("percent", percent).Msg("set volume failed")
	}
}
