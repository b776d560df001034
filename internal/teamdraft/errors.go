// internal/teamdraft/errors.go
package teamdraft

import "errors"

var (
	// ErrWrongPhase means the event is valid but not in the current phase.
	ErrWrongPhase = errors.New("event not valid in current phase")

	// ErrServerOnly means a client sent a variant only the server may emit.
	ErrServerOnly = errors.New("server-only event")

	// ErrUnknownPlayer means the event references a player not in the room.
	ErrUnknownPlayer = errors.New("unknown player")
)
