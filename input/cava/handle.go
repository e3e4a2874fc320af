package cava

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

// handle bundles everything one analyzer run owns: a private directory with
// the FIFO and the config file, and the spawned process. Close releases all
// of it.
type handle struct {
	dir    string
	fifo   string
	config string

	cmd    *exec.Cmd
	exited chan struct{}

	stopTimeout time.Duration
}

// isTermux reports whether we run inside Termux, where the analyzer cannot
// write to a FIFO.
func isTermux() bool {
	return strings.Contains(os.Getenv("PREFIX"), "com.termux")
}

// Supported checks whether binary can be used on this host.
func Supported(binary string) error {
	if isTermux() {
		return errors.New("analyzer fifo output is unavailable under termux")
	}

	if _, err := exec.LookPath(binary); err != nil {
		return errors.Wrapf(err, "analyzer %q not found", binary)
	}

	return nil
}

// openHandle provisions the FIFO and config file. The analyzer is not
// running until spawn is called.
func openHandle(cfg Config) (*handle, error) {
	dir, err := os.MkdirTemp(cfg.TempDir, fmt.Sprintf("cavadash-%d-", os.Getpid()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create analyzer directory")
	}

	h := &handle{
		dir:         dir,
		fifo:        filepath.Join(dir, "fifo"),
		config:      filepath.Join(dir, "config"),
		stopTimeout: cfg.StopTimeout,
	}

	if err := mkfifo(h.fifo); err != nil {
		h.Close()
		return nil, errors.Wrap(err, "failed to create fifo")
	}

	f, err := os.OpenFile(h.config, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "failed to create analyzer config")
	}

	err = writeAnalyzerConfig(f, cfg, h.fifo)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		h.Close()
		return nil, errors.Wrap(err, "failed to write analyzer config")
	}

	return h, nil
}

// spawn starts binary against the config file. Its stdio is detached so it
// cannot scribble over the dashboard.
func (h *handle) spawn(binary string) error {
	cmd := exec.Command(binary, "-p", h.config)

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "failed to start "+binary)
	}

	h.cmd = cmd
	h.exited = make(chan struct{})

	go func() {
		cmd.Wait()
		close(h.exited)
	}()

	return nil
}

// Close terminates the analyzer and removes the directory. It always tries
// both steps and reports the first failure.
func (h *handle) Close() error {
	var err error

	if h.cmd != nil {
		err = h.terminate()
	}

	if rmErr := os.RemoveAll(h.dir); rmErr != nil && err == nil {
		err = errors.Wrap(rmErr, "failed to remove analyzer directory")
	}

	return err
}

func (h *handle) terminate() error {
	select {
	case <-h.exited:
		return nil
	default:
	}

	sigErr := h.cmd.Process.Signal(syscall.SIGTERM)
	if errors.Is(sigErr, os.ErrProcessDone) {
		return nil
	}

	// without SIGTERM support, go straight to kill.
	if sigErr == nil {
		timer := time.NewTimer(h.stopTimeout)
		defer timer.Stop()

		select {
		case <-h.exited:
			return nil
		case <-timer.C:
		}
	}

	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return errors.Wrap(err, "failed to kill analyzer")
	}

	select {
	case <-h.exited:
	case <-time.After(h.stopTimeout):
		return errors.New("analyzer did not exit after kill")
	}

	if sigErr != nil {
		return nil
	}

	return errors.Errorf("analyzer ignored SIGTERM for %v", h.stopTimeout)
}
