//go:build !linux && !darwin

package arena

// mapBuffer falls back to heap memory on platforms without the unix mmap path.
func mapBuffer(n int) ([]byte, func() error, error) {
	return make([]byte, n), nil, nil
}
