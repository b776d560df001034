// internal/game/validate.go
package game

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxUsernameLength = 20
	MaxMessageLength  = 500
	MaxClueLength     = 30
	GameCodeLength    = 6
)

var coordinatePattern = regexp.MustCompile(`^[A-E][1-5]$`)

// ValidateUsername trims and checks a username.
func ValidateUsername(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Reason: "Username is required"}
	}
	if len(trimmed) > MaxUsernameLength {
		return "", &ValidationError{Reason: fmt.Sprintf("Username must be %d characters or less", MaxUsernameLength)}
	}
	return trimmed, nil
}

// ValidateMessage trims and checks a chat message.
func ValidateMessage(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Reason: "Message is required"}
	}
	if len(trimmed) > MaxMessageLength {
		return "", &ValidationError{Reason: fmt.Sprintf("Message must be %d characters or less", MaxMessageLength)}
	}
	return trimmed, nil
}

// ValidateGameCode normalizes a join code to uppercase and checks its length.
func ValidateGameCode(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != GameCodeLength {
		return "", &ValidationError{Reason: fmt.Sprintf("Valid %d-character game code is required", GameCodeLength)}
	}
	return strings.ToUpper(trimmed), nil
}

// ValidateClue checks a cross-clues clue: required, one word, bounded.
func ValidateClue(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{Reason: "Clue is required"}
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return "", &ValidationError{Reason: "Clue must be a single word"}
	}
	if len(trimmed) > MaxClueLength {
		return "", &ValidationError{Reason: fmt.Sprintf("Clue must be %d characters or less", MaxClueLength)}
	}
	return trimmed, nil
}

// ValidateCoordinate checks a grid coordinate against [A-E][1-5].
func ValidateCoordinate(value string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if !coordinatePattern.MatchString(trimmed) {
		return "", &ValidationError{Reason: "Coordinate must match A-E followed by 1-5"}
	}
	return trimmed, nil
}

// ValidatePlayerID checks a player id is present.
func ValidatePlayerID(value string) (string, error) {
	if value == "" {
		return "", &ValidationError{Reason: "Player ID is required"}
	}
	return value, nil
}

// ValidateVoteID checks a vote id is present.
func ValidateVoteID(value string) (string, error) {
	if value == "" {
		return "", &ValidationError{Reason: "Vote ID is required"}
	}
	return value, nil
}
