package gamification

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a caller contract violation (negative points,
// empty level tables, non-positive windows).
var ErrInvalidArgument = errors.New("invalid argument")

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
