// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/loreforge/loreforge/internal/faction"
)

// HierarchyRepository implements faction.HierarchyRepository in memory.
type HierarchyRepository struct {
	mu    sync.RWMutex
	ids   *faction.IDGenerator
	nodes map[string]map[ulid.ULID]*faction.Hierarchy // tenant -> id -> node
	order map[string][]ulid.ULID                      // tenant -> insertion order
}

// NewHierarchyRepository creates an empty hierarchy repository.
func NewHierarchyRepository(ids *faction.IDGenerator) *HierarchyRepository {
	return &HierarchyRepository{
		ids:   ids,
		nodes: make(map[string]map[ulid.ULID]*faction.Hierarchy),
		order: make(map[string][]ulid.ULID),
	}
}

func cloneHierarchy(h *faction.Hierarchy) *faction.Hierarchy {
	c := *h
	c.ParentFaction = ulidPtr(h.ParentFaction)
	return &c
}

// Save persists a hierarchy node. When a parent is set, the full tenant
// edge set is re-derived and checked for cycles before anything commits:
// a rejected save leaves the prior graph untouched.
func (r *HierarchyRepository) Save(_ context.Context, h *faction.Hierarchy) error {
	if err := h.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.nodes[h.TenantID]
	if tenant == nil {
		tenant = make(map[ulid.ULID]*faction.Hierarchy)
		r.nodes[h.TenantID] = tenant
	}

	isNew := h.ID.IsZero()
	if !isNew {
		if _, ok := tenant[h.ID]; !ok {
			return oops.Code("HIERARCHY_NOT_FOUND").With("id", h.ID.String()).Wrap(faction.ErrNotFound)
		}
	}

	if h.ParentFaction != nil {
		// Edge set of every committed node except the one being replaced,
		// plus the incoming edge. A new edge can close a cycle anywhere in
		// the graph, so detection always runs over the whole tenant.
		edges := make([]faction.Edge, 0, len(tenant)+1)
		for id, n := range tenant {
			if id == h.ID {
				continue
			}
			if n.ParentFaction != nil {
				edges = append(edges, faction.Edge{Parent: *n.ParentFaction, Child: n.FactionID})
			}
		}
		edges = append(edges, faction.Edge{Parent: *h.ParentFaction, Child: h.FactionID})
		if cycle := faction.FindCycle(edges); cycle != nil {
			return &faction.CircularDependencyError{
				TenantID:  h.TenantID,
				FactionID: h.FactionID,
				Cycle:     cycle,
			}
		}
	}

	now := time.Now()
	if isNew {
		h.ID = r.ids.Next(h.TenantID)
		h.CreatedAt = now
		r.order[h.TenantID] = append(r.order[h.TenantID], h.ID)
	}
	h.UpdatedAt = now
	tenant[h.ID] = cloneHierarchy(h)
	return nil
}

// FindByID retrieves a hierarchy node.
func (r *HierarchyRepository) FindByID(_ context.Context, tenantID string, id ulid.ULID) (*faction.Hierarchy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.nodes[tenantID][id]
	if !ok {
		return nil, oops.Code("HIERARCHY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return cloneHierarchy(h), nil
}

// ListByWorld returns hierarchy nodes in insertion order.
func (r *HierarchyRepository) ListByWorld(_ context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Hierarchy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Hierarchy
	for _, id := range r.order[tenantID] {
		h := r.nodes[tenantID][id]
		if h != nil && h.WorldID == worldID {
			matched = append(matched, h)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Hierarchy, 0, hi-lo)
	for _, h := range matched[lo:hi] {
		out = append(out, cloneHierarchy(h))
	}
	return out, nil
}

// Delete removes a hierarchy node. Referential integrity is enforced
// manually: the delete is rejected while any other node references the
// target's faction as its parent. There is no cascading delete.
func (r *HierarchyRepository) Delete(_ context.Context, tenantID string, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.nodes[tenantID][id]
	if !ok {
		return oops.Code("HIERARCHY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	for otherID, n := range r.nodes[tenantID] {
		if otherID == id {
			continue
		}
		if n.ParentFaction != nil && *n.ParentFaction == target.FactionID {
			return &faction.BusinessRuleError{
				Rule:    faction.RuleReferencedParent,
				Message: "hierarchy node is still referenced as a parent",
			}
		}
	}
	delete(r.nodes[tenantID], id)
	r.order[tenantID] = removeID(r.order[tenantID], id)
	return nil
}

// FactionTree walks the parent/child adjacency breadth-first from the
// root faction and returns the connected subtree, level map, and
// aggregate influence.
func (r *HierarchyRepository) FactionTree(_ context.Context, tenantID string, rootFactionID ulid.ULID) (*faction.FactionTree, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byFaction := make(map[ulid.ULID]*faction.Hierarchy, len(r.nodes[tenantID]))
	for _, n := range r.nodes[tenantID] {
		byFaction[n.FactionID] = cloneHierarchy(n)
	}
	if _, ok := byFaction[rootFactionID]; !ok {
		return nil, oops.Code("HIERARCHY_NOT_FOUND").With("faction_id", rootFactionID.String()).Wrap(faction.ErrNotFound)
	}
	return faction.BuildFactionTree(rootFactionID, byFaction), nil
}
