// Package fingerprint hashes a resolved schema so generated output can be
// checked against the live database.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/errilaz/grimo/internal/ir"
)

// ErrMismatch is matched by every *MismatchError.
var ErrMismatch = errors.New("schema fingerprint mismatch")

// Fingerprint is the SHA256 of the schema graph's JSON encoding.
type Fingerprint struct {
	Hash string `json:"hash"`
}

// Compute fingerprints a schema.
func Compute(s *ir.Schema) (*Fingerprint, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to compute schema hash: %w", err)
	}
	return &Fingerprint{Hash: fmt.Sprintf("%x", sha256.Sum256(data))}, nil
}

// Short returns the first eight hex digits.
func (f *Fingerprint) Short() string {
	if len(f.Hash) >= 8 {
		return f.Hash[:8]
	}
	return f.Hash
}

// String is the header line written into generated files.
func (f *Fingerprint) String() string {
	return "Schema fingerprint: " + f.Hash
}

var headerLine = regexp.MustCompile(`Schema fingerprint: ([0-9a-f]{64})`)

// Parse finds a fingerprint header line in text.
func Parse(text []byte) (*Fingerprint, bool) {
	m := headerLine.FindSubmatch(text)
	if m == nil {
		return nil, false
	}
	return &Fingerprint{Hash: string(m[1])}, true
}

// MismatchError reports a schema that changed since output was generated.
type MismatchError struct {
	Expected string
	Actual   string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("schema fingerprint mismatch - expected: %s, actual: %s", preview(e.Expected), preview(e.Actual))
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Compare returns a *MismatchError when the fingerprints differ.
func Compare(expected, actual *Fingerprint) error {
	if expected.Hash == actual.Hash {
		return nil
	}
	return &MismatchError{Expected: expected.Hash, Actual: actual.Hash}
}

func preview(hash string) string {
	if len(hash) > 16 {
		return hash[:16]
	}
	return hash
}
