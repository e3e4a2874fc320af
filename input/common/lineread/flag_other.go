//go:build !unix

package lineread

const nonblockFlag = 0
