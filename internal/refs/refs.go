// Package refs generates the reference codes sent to the payment provider.
package refs

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const DefaultLength = 12

// Generate returns n random uppercase hex characters. n is clamped to
// 1..32; the first 12 characters come from fully random bytes.
func Generate(n int) string {
	if n <= 0 {
		n = DefaultLength
	}
	if n > 32 {
		n = 32
	}
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:]))[:n]
}
