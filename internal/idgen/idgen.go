// Package idgen provides short, URL-safe gate ID generation backed by nanoid.
package idgen

import (
	"fmt"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix is prepended to every generated gate ID. The synthetic API only
// routes IDs carrying this prefix.
const Prefix = "gate-"

// Alphabet defines the character set used for the random portion of the ID.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters generated (excluding the prefix).
var Length = 13

// Generate returns a new unique gate ID.
func Generate() (string, error) {
	token, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return Prefix + token, nil
}

// IsGateID reports whether s matches the gate-<token> pattern. The token is
// opaque: any non-empty suffix counts, so timestamp-based IDs from older
// datasets keep resolving.
func IsGateID(s string) bool {
	return strings.HasPrefix(s, Prefix) && len(s) > len(Prefix)
}
