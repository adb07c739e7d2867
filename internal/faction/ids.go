// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator assigns ULIDs that are strictly monotonic within a tenant.
// Each tenant gets its own monotonic entropy source so that insertion
// order within a tenant is recoverable from the IDs themselves.
type IDGenerator struct {
	mu      sync.Mutex
	entropy map[string]io.Reader
}

// NewIDGenerator creates an IDGenerator backed by crypto/rand.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: make(map[string]io.Reader)}
}

// Next returns the next ID for the given tenant.
func (g *IDGenerator) Next(tenantID string) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	src, ok := g.entropy[tenantID]
	if !ok {
		src = ulid.Monotonic(rand.Reader, 0)
		g.entropy[tenantID] = src
	}
	return ulid.MustNew(ulid.Timestamp(time.Now()), src)
}

// ParseID parses a ULID string.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid ID %q: %w", s, err)
	}
	return id, nil
}
