//go:build unix

package lineread

import "golang.org/x/sys/unix"

const nonblockFlag = unix.O_NONBLOCK
