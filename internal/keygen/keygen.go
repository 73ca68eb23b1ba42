// Package keygen draws random short keys from a fixed uppercase alphanumeric alphabet.
package keygen

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Alphabet is the set of symbols short keys are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultLength is the short key length used when none is configured.
	DefaultLength = 8
)

// ErrInvalidLength is returned when a generator is requested with a non-positive key length.
var ErrInvalidLength = errors.New("invalid short key length")

// Generator produces candidate short keys. It does not know about keys that
// were already issued; uniqueness is checked by the caller against the store.
type Generator struct {
	length int
}

// New returns a Generator for keys of the given length.
func New(length int) (*Generator, error) {
	const op = "keygen.New"

	if length <= 0 {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrInvalidLength, length)
	}

	return &Generator{length: length}, nil
}

// Length returns the length of generated keys.
func (g *Generator) Length() int {
	return g.length
}

// Generate draws a key of g.Length() symbols using a cryptographically secure source.
func (g *Generator) Generate() (string, error) {
	const op = "keygen.Generator.Generate"

	key, err := gonanoid.Generate(Alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate key: %w", op, err)
	}

	return key, nil
}
