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

// TerritoryRepository implements faction.TerritoryRepository in memory.
type TerritoryRepository struct {
	mu    sync.RWMutex
	ids   *faction.IDGenerator
	items map[string]map[ulid.ULID]*faction.Territory
	order map[string][]ulid.ULID
}

// NewTerritoryRepository creates an empty territory repository.
func NewTerritoryRepository(ids *faction.IDGenerator) *TerritoryRepository {
	return &TerritoryRepository{
		ids:   ids,
		items: make(map[string]map[ulid.ULID]*faction.Territory),
		order: make(map[string][]ulid.ULID),
	}
}

func cloneTerritory(t *faction.Territory) *faction.Territory {
	c := *t
	c.OwnerFaction = ulidPtr(t.OwnerFaction)
	return &c
}

// Save persists a territory.
func (r *TerritoryRepository) Save(_ context.Context, t *faction.Territory) error {
	if err := t.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.items[t.TenantID]
	if tenant == nil {
		tenant = make(map[ulid.ULID]*faction.Territory)
		r.items[t.TenantID] = tenant
	}
	if t.ID.IsZero() {
		t.ID = r.ids.Next(t.TenantID)
		t.CreatedAt = time.Now()
		r.order[t.TenantID] = append(r.order[t.TenantID], t.ID)
	} else if _, ok := tenant[t.ID]; !ok {
		return oops.Code("TERRITORY_NOT_FOUND").With("id", t.ID.String()).Wrap(faction.ErrNotFound)
	}
	tenant[t.ID] = cloneTerritory(t)
	return nil
}

// FindByID retrieves a territory.
func (r *TerritoryRepository) FindByID(_ context.Context, tenantID string, id ulid.ULID) (*faction.Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[tenantID][id]
	if !ok {
		return nil, oops.Code("TERRITORY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return cloneTerritory(t), nil
}

// ListByFaction returns a faction's territories in insertion order.
func (r *TerritoryRepository) ListByFaction(_ context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Territory
	for _, id := range r.order[tenantID] {
		t := r.items[tenantID][id]
		if t != nil && t.OwnedBy(factionID) {
			matched = append(matched, t)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Territory, 0, hi-lo)
	for _, t := range matched[lo:hi] {
		out = append(out, cloneTerritory(t))
	}
	return out, nil
}

// ListByWorld returns territories in insertion order.
func (r *TerritoryRepository) ListByWorld(_ context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Territory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Territory
	for _, id := range r.order[tenantID] {
		t := r.items[tenantID][id]
		if t != nil && t.WorldID == worldID {
			matched = append(matched, t)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Territory, 0, hi-lo)
	for _, t := range matched[lo:hi] {
		out = append(out, cloneTerritory(t))
	}
	return out, nil
}

// Delete removes a territory.
func (r *TerritoryRepository) Delete(_ context.Context, tenantID string, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tenantID][id]; !ok {
		return oops.Code("TERRITORY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	delete(r.items[tenantID], id)
	r.order[tenantID] = removeID(r.order[tenantID], id)
	return nil
}

// Claim assigns the territory to newOwnerID and resets its control level
// to 1. Claiming a territory the faction already owns returns false. The
// influence cost is accepted but not debited from any ledger yet.
func (r *TerritoryRepository) Claim(_ context.Context, tenantID string, territoryID, newOwnerID ulid.ULID, _ float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[tenantID][territoryID]
	if !ok {
		return false, oops.Code("TERRITORY_NOT_FOUND").With("id", territoryID.String()).Wrap(faction.ErrNotFound)
	}
	if t.OwnedBy(newOwnerID) {
		return false, nil
	}
	owner := newOwnerID
	t.OwnerFaction = &owner
	t.ControlLevel = 1
	return true, nil
}
