package input

import "context"

// Snapshot is one row of bar amplitudes. It is either empty or holds exactly
// the configured number of bars.
type Snapshot []int

// Clone returns a copy that does not share memory with s.
func (s Snapshot) Clone() Snapshot {
	if len(s) == 0 {
		return Snapshot{}
	}

	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Source produces spectrum snapshots in the background.
type Source interface {
	// Start begins producing. A source that cannot run stays unavailable
	// rather than failing.
	Start(ctx context.Context)
	// Snapshot never blocks on I/O. It returns the latest published row or
	// an empty snapshot.
	Snapshot() Snapshot
	// Available reports whether the source can ever produce data.
	Available() bool
	// Bars is the bar count the source was configured with.
	Bars() int
	// Stop releases everything the source owns. Calling it more than once
	// or before Start is a no-op.
	Stop()
}

// SourceConfig is what the dashboard hands to an analyzer factory.
type SourceConfig struct {
	Bars      int
	Framerate int
}
