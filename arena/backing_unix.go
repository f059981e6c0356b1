//go:build linux || darwin

package arena

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// mapBuffer maps n bytes of anonymous private memory. The kernel hands the
// pages out zeroed; the returned release func unmaps them.
func mapBuffer(n int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "arena: mmap %d bytes", n)
	}
	release := func() error {
		return errors.Wrap(unix.Munmap(data), "arena: munmap")
	}
	return data, release, nil
}
