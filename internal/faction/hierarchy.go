// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Influence formula weights. Influence is a pure function of the cached
// rollup counts; recalculating it never mutates stored state.
const (
	InfluenceBase            = 10.0
	InfluenceMemberWeight    = 0.5
	InfluenceResourceWeight  = 0.2
	InfluenceTerritoryWeight = 1.0
)

// Hierarchy represents one faction's position in the parent/child tree.
// The edge set is directed parent -> child over faction IDs and must stay
// acyclic; nodes are never hard-deleted while referenced by descendants.
type Hierarchy struct {
	ID             ulid.ULID
	TenantID       string
	WorldID        ulid.ULID
	FactionID      ulid.ULID
	ParentFaction  *ulid.ULID // nil for roots
	Influence      float64
	MemberCount    int
	ResourceCount  int
	TerritoryCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CalculateInfluence returns the derived influence score from the cached
// rollup counts. Callers persist the result via Save.
func (h *Hierarchy) CalculateInfluence() float64 {
	return InfluenceBase +
		InfluenceMemberWeight*float64(h.MemberCount) +
		InfluenceResourceWeight*float64(h.ResourceCount) +
		InfluenceTerritoryWeight*float64(h.TerritoryCount)
}

// Validate checks hierarchy invariants that do not require graph state.
func (h *Hierarchy) Validate() error {
	if h.TenantID == "" {
		return &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}
	if h.FactionID.IsZero() {
		return &ValidationError{Field: "faction_id", Message: "cannot be empty"}
	}
	if h.ParentFaction != nil && *h.ParentFaction == h.FactionID {
		return &CircularDependencyError{
			TenantID:  h.TenantID,
			FactionID: h.FactionID,
			Cycle:     []ulid.ULID{h.FactionID, h.FactionID},
		}
	}
	if h.MemberCount < 0 {
		return &ValidationError{Field: "member_count", Message: "cannot be negative"}
	}
	if h.ResourceCount < 0 {
		return &ValidationError{Field: "resource_count", Message: "cannot be negative"}
	}
	if h.TerritoryCount < 0 {
		return &ValidationError{Field: "territory_count", Message: "cannot be negative"}
	}
	return nil
}
