/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package ident generates manifest record identifiers: 24 uppercase hex
// characters, collision-checked against the full set already in use.
// Truncated random identifiers do collide in practice when several tools
// stamp records into the same manifest, so uniqueness is verified rather
// than assumed.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Length is the identifier width in characters.
const Length = 24

const maxAttempts = 64

// Generator produces identifiers distinct from a caller-supplied set.
// The zero value is ready to use.
type Generator struct {
	reserved map[string]struct{}
}

// New returns a Generator with no reservations.
func New() *Generator {
	return &Generator{reserved: make(map[string]struct{})}
}

// Reserve marks an identifier as taken for subsequent Next calls, used
// when a batch mints several identifiers before any is committed.
func (g *Generator) Reserve(id string) {
	if g.reserved == nil {
		g.reserved = make(map[string]struct{})
	}
	g.reserved[id] = struct{}{}
}

// Next returns a fresh identifier absent from both existing and every
// identifier previously reserved on this generator. The new identifier
// is reserved before being returned.
func (g *Generator) Next(existing map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id, err := random()
		if err != nil {
			return "", err
		}
		if _, taken := existing[id]; taken {
			continue
		}
		if _, taken := g.reserved[id]; taken {
			continue
		}
		g.Reserve(id)
		return id, nil
	}
	return "", fmt.Errorf("identifier space exhausted after %d attempts", maxAttempts)
}

// Valid reports whether id has the expected width and alphabet.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

func random() (string, error) {
	var buf [Length / 2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(buf[:])), nil
}
