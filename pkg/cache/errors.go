package cache

import (
	"errors"
	"fmt"
)

// ErrUnknownBackend is returned by [Open] for a backend name it does not
// know.
var ErrUnknownBackend = errors.New("unknown cache backend")

// backendError tags err with the backend and operation that produced it.
func backendError(backend Backend, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s cache %s: %w", backend, op, err)
}
