// Package invite generates and validates group invite codes.
//
// Codes are 8 characters from A-Z0-9, stored and compared uppercase.
// Input is case-insensitive: Normalize before lookup or submission.
package invite

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// Length is the fixed invite code length.
const Length = 8

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// New returns a random invite code. Uniqueness against existing groups
// is the caller's responsibility.
func New() (string, error) {
	var b strings.Builder
	b.Grow(Length)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Normalize trims whitespace and uppercases a user-entered code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks a normalized code's shape. It does not check that a
// group with this code exists.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("invite code must be %d characters", Length)
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(alphabet, rune(code[i])) {
			return fmt.Errorf("invite code may only contain letters and digits")
		}
	}
	return nil
}
