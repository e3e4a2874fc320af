// Package cava feeds the dashboard from a cava process writing raw ascii rows
// into a FIFO.
package cava

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noriah/cavadash/input"
	"github.com/noriah/cavadash/input/common/lineread"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

func init() {
	input.RegisterAnalyzer("cava", Analyzer{})
}

// Analyzer is the registry entry for cava.
type Analyzer struct{}

func (Analyzer) Binary() string {
	return DefaultBinary
}

func (Analyzer) New(cfg input.SourceConfig) input.Source {
	return NewReader(Config{
		Bars:      cfg.Bars,
		Framerate: cfg.Framerate,
	})
}

// Reader owns one analyzer run and publishes its latest row.
type Reader struct {
	cfg Config

	mu   sync.Mutex
	data input.Snapshot

	available atomic.Bool

	// lifecycle, guarded by life.
	life    sync.Mutex
	started bool
	stopped bool
	h       *handle
	cancel  context.CancelFunc
	done    chan struct{}
}

var _ input.Source = (*Reader)(nil)

// NewReader returns an idle reader. Nothing is created until Start.
func NewReader(cfg Config) *Reader {
	cfg.setDefaults()
	return &Reader{cfg: cfg}
}

// Start provisions the FIFO, spawns the analyzer and starts ingesting.
// Any failure leaves the reader unavailable; it never returns an error.
func (r *Reader) Start(ctx context.Context) {
	r.life.Lock()
	defer r.life.Unlock()

	if r.started || r.stopped {
		return
	}
	r.started = true

	logger := log.With().Str("analyzer", r.cfg.Binary).Int("bars", r.cfg.Bars).Logger()

	if err := Supported(r.cfg.Binary); err != nil {
		logger.Debug().Err(err).Msg("spectrum disabled")
		return
	}

	h, err := openHandle(r.cfg)
	if err != nil {
		logger.Debug().Err(err).Msg("spectrum disabled")
		return
	}

	// Open our end first so the analyzer's blocking open finds a reader.
	lr, err := lineread.OpenFIFO(h.fifo, r.cfg.PollTimeout)
	if err != nil {
		h.Close()
		logger.Debug().Err(err).Msg("spectrum disabled")
		return
	}

	if err := h.spawn(r.cfg.Binary); err != nil {
		lr.Close()
		h.Close()
		logger.Debug().Err(err).Msg("spectrum disabled")
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.h = h
	r.done = make(chan struct{})
	r.available.Store(true)

	logger.Debug().Str("fifo", h.fifo).Msg("analyzer started")

	go r.ingest(ctx, lr, r.done)
}

// Stop ends ingestion, terminates the analyzer and removes its files.
func (r *Reader) Stop() {
	r.life.Lock()
	defer r.life.Unlock()

	if r.stopped {
		return
	}
	r.stopped = true

	if r.cancel != nil {
		r.cancel()
	}

	if r.done != nil {
		<-r.done
	}

	if r.h != nil {
		if err := r.h.Close(); err != nil {
			log.Debug().Err(err).Msg("analyzer cleanup incomplete")
		}
	}
}

// Snapshot returns a copy of the latest row, or an empty snapshot.
func (r *Reader) Snapshot() input.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data.Clone()
}

func (r *Reader) Available() bool {
	return r.available.Load()
}

func (r *Reader) Bars() int {
	return r.cfg.Bars
}

func (r *Reader) publish(row input.Snapshot) {
	r.mu.Lock()
	r.data = row
	r.mu.Unlock()
}

// ingest reads rows until ctx is done. Bad rows and read errors are dropped
// and the last good row stays published.
func (r *Reader) ingest(ctx context.Context, lr *lineread.Reader, done chan<- struct{}) {
	defer close(done)
	defer lr.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := lr.ReadLine()
		switch {
		case err == nil:
			row, err := ParseRow(line, r.cfg.Bars)
			if err != nil {
				log.Trace().Err(err).Msg("dropping row")
				continue
			}

			r.publish(row)

		case errors.Is(err, os.ErrDeadlineExceeded):

		case errors.Is(err, io.EOF):
			// no writer attached yet, or it went away.
			if !wait(ctx, r.cfg.PollTimeout) {
				return
			}

		default:
			log.Trace().Err(err).Msg("fifo read failed")
			if !wait(ctx, r.cfg.PollTimeout) {
				return
			}
		}
	}
}

// wait sleeps for d and reports false if ctx ended first.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
