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

// ResourceRepository implements faction.ResourceRepository in memory.
type ResourceRepository struct {
	mu    sync.RWMutex
	ids   *faction.IDGenerator
	items map[string]map[ulid.ULID]*faction.Resource
	order map[string][]ulid.ULID
}

// NewResourceRepository creates an empty resource repository.
func NewResourceRepository(ids *faction.IDGenerator) *ResourceRepository {
	return &ResourceRepository{
		ids:   ids,
		items: make(map[string]map[ulid.ULID]*faction.Resource),
		order: make(map[string][]ulid.ULID),
	}
}

func cloneResource(r *faction.Resource) *faction.Resource {
	c := *r
	return &c
}

// Save persists a resource ledger entry.
func (r *ResourceRepository) Save(_ context.Context, res *faction.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveLocked(res)
	return nil
}

// saveLocked upserts an already-validated entry. Callers hold the write lock.
func (r *ResourceRepository) saveLocked(res *faction.Resource) {
	tenant := r.items[res.TenantID]
	if tenant == nil {
		tenant = make(map[ulid.ULID]*faction.Resource)
		r.items[res.TenantID] = tenant
	}
	if res.ID.IsZero() {
		res.ID = r.ids.Next(res.TenantID)
		r.order[res.TenantID] = append(r.order[res.TenantID], res.ID)
	}
	tenant[res.ID] = cloneResource(res)
}

// FindByID retrieves a resource ledger entry.
func (r *ResourceRepository) FindByID(_ context.Context, tenantID string, id ulid.ULID) (*faction.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[tenantID][id]
	if !ok {
		return nil, oops.Code("RESOURCE_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return cloneResource(res), nil
}

// ListByFaction returns a faction's ledger entries in insertion order.
func (r *ResourceRepository) ListByFaction(_ context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Resource
	for _, id := range r.order[tenantID] {
		res := r.items[tenantID][id]
		if res != nil && res.FactionID == factionID {
			matched = append(matched, res)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Resource, 0, hi-lo)
	for _, res := range matched[lo:hi] {
		out = append(out, cloneResource(res))
	}
	return out, nil
}

// ListByWorld returns ledger entries in insertion order.
func (r *ResourceRepository) ListByWorld(_ context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Resource
	for _, id := range r.order[tenantID] {
		res := r.items[tenantID][id]
		if res != nil && res.WorldID == worldID {
			matched = append(matched, res)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Resource, 0, hi-lo)
	for _, res := range matched[lo:hi] {
		out = append(out, cloneResource(res))
	}
	return out, nil
}

// Delete removes a resource ledger entry.
func (r *ResourceRepository) Delete(_ context.Context, tenantID string, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tenantID][id]; !ok {
		return oops.Code("RESOURCE_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	delete(r.items[tenantID], id)
	r.order[tenantID] = removeID(r.order[tenantID], id)
	return nil
}

// Transfer moves amount from the source entry to the destination
// faction's ledger of the same resource type. The destination is resolved
// by (tenant, faction, type) rather than by the source's ID, creating a
// zero entry when the destination faction has none. Soft failures return
// false with both ledgers unchanged; both writes happen under one lock.
func (r *ResourceRepository) Transfer(_ context.Context, tenantID string, fromFactionID, toFactionID, resourceID ulid.ULID, amount float64) (bool, error) {
	if amount <= 0 {
		return false, &faction.ValidationError{Field: "amount", Message: "must be positive"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.items[tenantID][resourceID]
	if !ok || src.FactionID != fromFactionID {
		return false, nil
	}
	if src.Amount < amount {
		return false, nil
	}

	// First ledger entry of the matching type, in insertion order.
	var dst *faction.Resource
	for _, id := range r.order[tenantID] {
		res := r.items[tenantID][id]
		if res != nil && res.FactionID == toFactionID && res.Type == src.Type {
			dst = res
			break
		}
	}
	if dst == nil {
		dst = &faction.Resource{
			TenantID:    tenantID,
			WorldID:     src.WorldID,
			FactionID:   toFactionID,
			Type:        src.Type,
			Amount:      0,
			GeneratedAt: time.Now(),
		}
		r.saveLocked(dst)
		dst = r.items[tenantID][dst.ID]
	}

	src.Amount -= amount
	dst.Amount += amount
	return true, nil
}
