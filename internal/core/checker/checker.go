package checker

import (
	"context"

	"github.com/handlelens/handlelens/internal/core"
)

// Checker is the interface all platform availability checkers implement.
type Checker interface {
	// Check performs the availability check for the given username.
	Check(ctx context.Context, username string) (*core.Verdict, error)

	// Platform returns the platform this checker covers.
	Platform() core.PlatformID

	// SupportsName returns true if this checker can handle the username.
	SupportsName(username string) bool
}
