// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// Page bounds a list query. A non-positive Limit means unbounded.
// List results preserve insertion order for deterministic pagination.
type Page struct {
	Limit  int
	Offset int
}

// Slice applies the page bounds to an ordered slice of n elements and
// returns the half-open index range [lo, hi).
func (p Page) Slice(n int) (lo, hi int) {
	lo = p.Offset
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi = n
	if p.Limit > 0 && lo+p.Limit < hi {
		hi = lo + p.Limit
	}
	return lo, hi
}

// HierarchyRepository manages faction hierarchy persistence.
type HierarchyRepository interface {
	// Save persists a hierarchy node, assigning an ID when new. When a
	// parent is set it re-derives the full tenant edge set and rejects
	// the write with *CircularDependencyError if any cycle would result.
	Save(ctx context.Context, h *Hierarchy) error

	// FindByID retrieves a hierarchy node.
	FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*Hierarchy, error)

	// ListByWorld returns nodes in a world in insertion order.
	ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) ([]*Hierarchy, error)

	// Delete removes a node. Fails with *BusinessRuleError while any
	// other node still references the target's faction as its parent;
	// there is no cascading delete.
	Delete(ctx context.Context, tenantID string, id ulid.ULID) error

	// FactionTree returns the connected subtree below the root faction.
	FactionTree(ctx context.Context, tenantID string, rootFactionID ulid.ULID) (*FactionTree, error)
}

// IdeologyRepository manages ideology persistence.
type IdeologyRepository interface {
	Save(ctx context.Context, i *Ideology) error
	FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*Ideology, error)
	ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) ([]*Ideology, error)
	Delete(ctx context.Context, tenantID string, id ulid.ULID) error
}

// LeaderRepository manages leader persistence.
type LeaderRepository interface {
	Save(ctx context.Context, l *Leader) error
	FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*Leader, error)
	ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) ([]*Leader, error)
	ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) ([]*Leader, error)

	// Delete removes a leader record. Fails with *BusinessRuleError when
	// the record is the faction's last one: a faction must never be left
	// leaderless mid-operation.
	Delete(ctx context.Context, tenantID string, id ulid.ULID) error
}

// MembershipRepository manages membership persistence.
type MembershipRepository interface {
	Save(ctx context.Context, m *Membership) error
	FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*Membership, error)
	ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) ([]*Membership, error)
	ListByCharacter(ctx context.Context, tenantID string, characterID ulid.ULID, page Page) ([]*Membership, error)

	// Delete removes a membership. Fails with *BusinessRuleError for
	// leader-role memberships, which can only be removed through leader
	// succession.
	Delete(ctx context.Context, tenantID string, id ulid.ULID) error
}

// ResourceRepository manages resource ledger persistence.
type ResourceRepository interface {
	Save(ctx context.Context, r *Resource) error
	FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*Resource, error)
	ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) ([]*Resource, error)
	ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) ([]*Resource, error)
	Delete(ctx context.Context, tenantID string, id ulid.ULID) error

	// Transfer moves amount out of the source ledger entry and into the
	// destination faction's ledger of the same resource type, creating a
	// zero entry for the destination when none exists. Returns false
	// with both ledgers unchanged when the source is missing, does not
	// belong to fromFactionID, or holds an insufficient balance. The two
	// writes commit together.
	Transfer(ctx context.Context, tenantID string, fromFactionID, toFactionID, resourceID ulid.ULID, amount float64) (bool, error)
}

// TerritoryRepository manages territory persistence.
type TerritoryRepository interface {
	Save(ctx context.Context, t *Territory) error
	FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*Territory, error)
	ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page Page) ([]*Territory, error)
	ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page Page) ([]*Territory, error)
	Delete(ctx context.Context, tenantID string, id ulid.ULID) error

	// Claim assigns the territory to newOwnerID and resets its control
	// level to 1. Returns false when the territory already belongs to
	// newOwnerID. The influence cost is accepted but not yet debited.
	Claim(ctx context.Context, tenantID string, territoryID, newOwnerID ulid.ULID, influenceCost float64) (bool, error)
}
