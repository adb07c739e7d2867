// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loreforge/loreforge/internal/faction"
)

// Store bundles the six PostgreSQL repositories over one connection pool
// and one per-tenant monotonic ID generator.
type Store struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator

	Hierarchies *HierarchyRepository
	Ideologies  *IdeologyRepository
	Leaders     *LeaderRepository
	Memberships *MembershipRepository
	Resources   *ResourceRepository
	Territories *TerritoryRepository
}

// NewStore creates a store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	ids := faction.NewIDGenerator()
	return &Store{
		pool:        pool,
		ids:         ids,
		Hierarchies: NewHierarchyRepository(pool, ids),
		Ideologies:  NewIdeologyRepository(pool, ids),
		Leaders:     NewLeaderRepository(pool, ids),
		Memberships: NewMembershipRepository(pool, ids),
		Resources:   NewResourceRepository(pool, ids),
		Territories: NewTerritoryRepository(pool, ids),
	}
}

// ServiceConfig returns a faction.ServiceConfig wired to this store's
// repositories; callers fill in the remaining injectables.
func (s *Store) ServiceConfig() faction.ServiceConfig {
	return faction.ServiceConfig{
		Hierarchies: s.Hierarchies,
		Ideologies:  s.Ideologies,
		Leaders:     s.Leaders,
		Memberships: s.Memberships,
		Resources:   s.Resources,
		Territories: s.Territories,
	}
}
