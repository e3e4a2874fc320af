package player

import "context"

// Config selects the controller binary, the player and the mixer.
type Config struct {
	Binary string
	Player string
	Mixer  string
}

// Bridge is everything the dashboard needs from the outside media world.
type Bridge struct {
	ctl   *Playerctl
	mixer Mixer
}

// NewBridge fails only when cfg names an unknown mixer.
func NewBridge(cfg Config) (*Bridge, error) {
	ctl := NewPlayerctl(cfg.Binary, cfg.Player)

	mixer, err := InitMixer(cfg.Mixer, ctl)
	if err != nil {
		return nil, err
	}

	return &Bridge{ctl: ctl, mixer: mixer}, nil
}

func (b *Bridge) Available() bool {
	return b.ctl.Available()
}

func (b *Bridge) Volume(ctx context.Context) int {
	return b.mixer.Volume(ctx)
}

func (b *Bridge) SetVolume(ctx context.Context, percent int) {
	b.mixer.SetVolume(ctx, percent)
}

func (b *Bridge) Track(ctx context.Context) string {
	return b.ctl.Track(ctx)
}

func (b *Bridge) Transport(ctx context.Context, cmd Command) {
	b.ctl.Transport(ctx, cmd)
}
