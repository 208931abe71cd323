// Package store holds the client-side state of one storefront session:
// catalog, favorites, cart and the lost & found boards.
package store

import (
	"errors"
	"fmt"

	"go-storefront/client"
)

var (
	// ErrAuthRequired is returned by operations that need a signed-in user
	ErrAuthRequired = errors.New("authentication required")
	// ErrRemote wraps network and HTTP failures of the remote API
	ErrRemote = errors.New("remote api error")
	// ErrNotFound is returned when the product or listing does not exist
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when required fields are missing
	ErrValidation = errors.New("validation failed")
)

// remoteError classifies a client error into the store taxonomy
func remoteError(op string, err error) error {
	if errors.Is(err, client.ErrNotFound) {
		return fmt.Errorf("%s: %w: %v", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrRemote, err)
}
