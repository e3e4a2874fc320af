package cava

import (
	"fmt"
	"io"
	"time"
)

// Config drives one analyzer process.
type Config struct {
	// Bars is the number of values per row.
	Bars int
	// Binary is the analyzer executable. Defaults to "cava".
	Binary string
	// TempDir holds the per-process directory. Defaults to os.TempDir().
	TempDir string
	// Framerate asks the analyzer for this many rows per second. 0 keeps
	// the analyzer default.
	Framerate int
	// PollTimeout bounds each wait for a row.
	PollTimeout time.Duration
	// StopTimeout bounds the wait for the analyzer to exit after SIGTERM.
	StopTimeout time.Duration
}

const (
	DefaultBinary      = "cava"
	DefaultPollTimeout = 50 * time.Millisecond
	DefaultStopTimeout = 2 * time.Second
)

func (cfg *Config) setDefaults() {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}

	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
}

// writeAnalyzerConfig renders the analyzer's ini file: raw ascii output of
// cfg.Bars values into target.
func writeAnalyzerConfig(w io.Writer, cfg Config, target string) error {
	_, err := fmt.Fprintf(w, "[general]\nbars = %d\n", cfg.Bars)
	if err != nil {
		return err
	}

	if cfg.Framerate > 0 {
		if _, err = fmt.Fprintf(w, "framerate = %d\n", cfg.Framerate); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w,
		"\n[output]\nmethod = raw\nraw_target = %s\ndata_format = ascii\n"+
			"bar_delimiter = %d\nframe_delimiter = %d\n",
		target, Delimiter, '\n')

	return err
}
