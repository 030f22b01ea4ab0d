// Package shell brokers OS integration for the host process: opening a file
// with its default application, revealing it in the file browser, and
// choosing a save destination for downloads.
package shell

import (
	"context"
	"errors"
)

// ErrCancelled reports that the user dismissed the destination prompt.
// Cancellation is a normal outcome, not an error to surface.
var ErrCancelled = errors.New("cancelled by user")

// Shell is the OS boundary used by the attachment service.
type Shell interface {
	OpenPath(ctx context.Context, path string) error
	RevealPath(ctx context.Context, path string) error
	ChooseSavePath(ctx context.Context, suggestedFileName string) (string, error)
}
