//go:build !unix

package cava

import "github.com/pkg/errors"

func mkfifo(string) error {
	return errors.New("named pipes are not supported on this platform")
}
