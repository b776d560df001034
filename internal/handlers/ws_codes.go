// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the game socket handler. These give
// clients a more specific reason for closure than the standard codes.
const (
	InvalidAuthTokenError = 3001 // Frame carried a missing, invalid, or mismatched auth token.
	InvalidGameIDError    = 3002 // Frame addressed to a different game than the socket.
)
