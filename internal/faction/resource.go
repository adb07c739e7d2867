// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// ResourceType is the categorical kind of a resource ledger entry.
type ResourceType string

// Well-known resource types.
const (
	ResourceGold      ResourceType = "gold"
	ResourceFood      ResourceType = "food"
	ResourceTimber    ResourceType = "timber"
	ResourceOre       ResourceType = "ore"
	ResourceInfluence ResourceType = "influence"
)

// Resource is one ledger entry for a faction. Generation events are
// append-only; aggregation across entries of the same type is a caller
// responsibility, not a running balance.
type Resource struct {
	ID          ulid.ULID
	TenantID    string
	WorldID     ulid.ULID
	FactionID   ulid.ULID
	Type        ResourceType
	Amount      float64
	GeneratedAt time.Time
}

// Validate checks resource invariants.
func (r *Resource) Validate() error {
	if r.TenantID == "" {
		return &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}
	if r.Type == "" {
		return &ValidationError{Field: "resource_type", Message: "cannot be empty"}
	}
	if r.Amount < 0 {
		return &ValidationError{Field: "amount", Message: "cannot be negative"}
	}
	return nil
}
