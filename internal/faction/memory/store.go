// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

// Package memory provides mutex-guarded in-memory implementations of the
// faction repositories. It is the reference implementation: the postgres
// subpackage mirrors its semantics. All state is tenant-scoped and every
// compound operation holds the store's write lock end to end, so the
// unguarded read-modify-write sequences of earlier designs cannot occur.
package memory

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/loreforge/loreforge/internal/faction"
)

// Store bundles the six in-memory repositories behind one per-tenant
// monotonic ID generator.
type Store struct {
	ids *faction.IDGenerator

	Hierarchies *HierarchyRepository
	Ideologies  *IdeologyRepository
	Leaders     *LeaderRepository
	Memberships *MembershipRepository
	Resources   *ResourceRepository
	Territories *TerritoryRepository
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	ids := faction.NewIDGenerator()
	return &Store{
		ids:         ids,
		Hierarchies: NewHierarchyRepository(ids),
		Ideologies:  NewIdeologyRepository(ids),
		Leaders:     NewLeaderRepository(ids),
		Memberships: NewMembershipRepository(ids),
		Resources:   NewResourceRepository(ids),
		Territories: NewTerritoryRepository(ids),
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

// ulidPtr returns a detached copy of an optional ULID reference.
func ulidPtr(p *ulid.ULID) *ulid.ULID {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// timePtr returns a detached copy of an optional timestamp.
func timePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// removeID deletes the first occurrence of id from an ordered slice.
func removeID(ids []ulid.ULID, id ulid.ULID) []ulid.ULID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
