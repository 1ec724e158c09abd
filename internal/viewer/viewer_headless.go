//go:build headless

package viewer

import (
	"context"

	"github.com/lukaszgryglicki/lenticalib/internal/lenticalib"
)

// Run is unavailable without a display backend.
func Run(_ context.Context, _ *lenticalib.Session) error {
	return ErrNoDisplay
}
