// internal/game/errors.go
package game

import "errors"

// Domain sentinels. Handlers translate these to client responses; neither is
// an infrastructure fault and neither is worth a retry.
var (
	// ErrNotFound: the room, player, card, or vote does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotAllowed: a precondition failed (not host, wrong phase, username
	// taken, room full, vote already resolved, ...). The caller gets the
	// generic per-operation rejection text, not the specific condition.
	ErrNotAllowed = errors.New("not allowed")
)

// ValidationError rejects malformed input before the store is touched. Reason
// is user-facing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
