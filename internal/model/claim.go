package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// ClaimMinLen and ClaimMaxLen bound accepted claims, in characters.
	// Enforced at the boundaries (CLI, HTTP API, batch input), never
	// inside the pipeline.
	ClaimMinLen = 10
	ClaimMaxLen = 500
)

// ValidateClaim checks that a claim is within the accepted length range
func ValidateClaim(claim string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(claim))
	if n < ClaimMinLen {
		return fmt.Errorf("claim too short: %d characters (minimum %d)", n, ClaimMinLen)
	}
	if n > ClaimMaxLen {
		return fmt.Errorf("claim too long: %d characters (maximum %d)", n, ClaimMaxLen)
	}
	return nil
}
