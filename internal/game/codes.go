// internal/game/codes.go
package game

import "math/rand"

// codeAlphabet omits visually ambiguous characters (0/O, 1/I).
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns a random 6-character join code. Uniqueness against the
// store is the caller's job (retry until the code key is free).
func GenerateCode() string {
	code := make([]byte, GameCodeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}
