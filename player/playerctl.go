// Package player talks to the media controller. Nothing in here returns an
// error to the caller: every failure turns into a safe default.
package player

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Command is a transport command understood by playerctl.
type Command string

const (
	Previous  Command = "previous"
	Next      Command = "next"
	PlayPause Command = "play-pause"
)

const (
	DefaultBinary = "playerctl"
	DefaultPlayer = "spotify"

	// TrackFormat asks playerctl for "artist - title".
	TrackFormat = "{{artist}} - {{title}}"

	// NoControllerTrack is shown when playerctl is not installed.
	NoControllerTrack = "Demo Artist - Demo Track"

	VolumeTimeout  = time.Second
	QueryTimeout   = 2 * time.Second
	CommandTimeout = 2 * time.Second
)

// Runner runs an external command and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		var execErr *exec.ExitError
		if errors.As(err, &execErr) {
			return nil, errors.Wrapf(err, "%s failed: %s", name, strings.TrimSpace(string(execErr.Stderr)))
		}
		return nil, errors.Wrapf(err, "failed to run %s", name)
	}

	return out, nil
}

// Playerctl drives one player through the playerctl binary.
type Playerctl struct {
	binary    string
	player    string
	available bool
	run       Runner
}

// NewPlayerctl looks binary up once. When it is missing every call returns
// its default without trying to run anything.
func NewPlayerctl(binary, player string) *Playerctl {
	if binary == "" {
		binary = DefaultBinary
	}

	_, err := exec.LookPath(binary)
	if err != nil {
		log.Debug().Err(err).Msg("media controller unavailable")
	}

	return newPlayerctl(binary, player, err == nil, execRunner)
}

func newPlayerctl(binary, player string, available bool, run Runner) *Playerctl {
	return &Playerctl{
		binary:    binary,
		player:    player,
		available: available,
		run:       run,
	}
}

func (p *Playerctl) Available() bool {
	return p.available
}

// Player returns the player name commands are addressed to.
func (p *Playerctl) Player() string {
	return p.player
}

// InactiveTrack is shown when the player does not answer.
func (p *Playerctl) InactiveTrack() string {
	name := p.player
	if name == "" {
		name = "player"
	}

	return strings.ToUpper(name[:1]) + name[1:] + " not active"
}

func (p *Playerctl) call(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if p.player != "" {
		args = append([]string{"-p", p.player}, args...)
	}

	return p.run(ctx, p.binary, args...)
}

// Volume returns the player volume in percent, or 0 on any failure.
func (p *Playerctl) Volume(ctx context.Context) int {
	if !p.available {
		return 0
	}

	out, err := p.call(ctx, VolumeTimeout, "volume")
	if err != nil {
		log.Debug().Err(err).Msg("volume query failed")
		return 0
	}

	v, err := parseVolume(out)
	if err != nil {
		log.Debug().Err(err).Msg("volume query failed")
		return 0
	}

	return v
}

// SetVolume clamps percent to [0, 100] and sends it as a fraction.
func (p *Playerctl) SetVolume(ctx context.Context, percent int) {
	if !p.available {
		return
	}

	if _, err := p.call(ctx, CommandTimeout, "volume", FormatVolume(percent)); err != nil {
		log.Debug().Err(err).Int("percent", percent).Msg("set volume failed")
	}
}

// Track returns "artist - title" or a placeholder.
func (p *Playerctl) Track(ctx context.Context) string {
	if !p.available {
		return NoControllerTrack
	}

	out, err := p.call(ctx, QueryTimeout, "metadata", "--format", TrackFormat)
	if err != nil {
		log.Debug().Err(err).Msg("track query failed")
		return p.InactiveTrack()
	}

	track := strings.TrimSpace(string(out))
	if track == "" {
		return p.InactiveTrack()
	}

	return track
}

// Transport sends cmd and ignores the outcome.
func (p *Playerctl) Transport(ctx context.Context, cmd Command) {
	if !p.available {
		return
	}

	if _, err := p.call(ctx, CommandTimeout, string(cmd)); err != nil {
		log.Debug().Err(err).Str("command", string(cmd)).Msg("transport command failed")
	}
}

// ClampPercent limits v to [0, 100].
func ClampPercent(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// FormatVolume renders a clamped percentage as playerctl's 0.0-1.0 fraction.
func FormatVolume(percent int) string {
	return strconv.FormatFloat(float64(ClampPercent(percent))/100, 'f', 2, 64)
}

// parseVolume turns "0.55" into 55. Values are truncated, not rounded.
func parseVolume(out []byte) (int, error) {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return 0, errors.New("empty volume")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrap(err, "bad volume")
	}

	return ClampPercent(int(f * 100)), nil
}
