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

// IdeologyRepository implements faction.IdeologyRepository in memory.
type IdeologyRepository struct {
	mu    sync.RWMutex
	ids   *faction.IDGenerator
	items map[string]map[ulid.ULID]*faction.Ideology
	order map[string][]ulid.ULID
}

// NewIdeologyRepository creates an empty ideology repository.
func NewIdeologyRepository(ids *faction.IDGenerator) *IdeologyRepository {
	return &IdeologyRepository{
		ids:   ids,
		items: make(map[string]map[ulid.ULID]*faction.Ideology),
		order: make(map[string][]ulid.ULID),
	}
}

func cloneIdeology(i *faction.Ideology) *faction.Ideology {
	c := *i
	if i.Rules != nil {
		c.Rules = make(map[string]any, len(i.Rules))
		for k, v := range i.Rules {
			c.Rules[k] = v
		}
	}
	c.Restrictions = append([]string(nil), i.Restrictions...)
	c.Benefits = append([]string(nil), i.Benefits...)
	c.Penalties = append([]string(nil), i.Penalties...)
	return &c
}

// Save persists an ideology.
func (r *IdeologyRepository) Save(_ context.Context, i *faction.Ideology) error {
	if err := i.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.items[i.TenantID]
	if tenant == nil {
		tenant = make(map[ulid.ULID]*faction.Ideology)
		r.items[i.TenantID] = tenant
	}
	if i.ID.IsZero() {
		i.ID = r.ids.Next(i.TenantID)
		i.CreatedAt = time.Now()
		r.order[i.TenantID] = append(r.order[i.TenantID], i.ID)
	} else if _, ok := tenant[i.ID]; !ok {
		return oops.Code("IDEOLOGY_NOT_FOUND").With("id", i.ID.String()).Wrap(faction.ErrNotFound)
	}
	tenant[i.ID] = cloneIdeology(i)
	return nil
}

// FindByID retrieves an ideology.
func (r *IdeologyRepository) FindByID(_ context.Context, tenantID string, id ulid.ULID) (*faction.Ideology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.items[tenantID][id]
	if !ok {
		return nil, oops.Code("IDEOLOGY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return cloneIdeology(i), nil
}

// ListByWorld returns ideologies in insertion order.
func (r *IdeologyRepository) ListByWorld(_ context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Ideology, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Ideology
	for _, id := range r.order[tenantID] {
		i := r.items[tenantID][id]
		if i != nil && i.WorldID == worldID {
			matched = append(matched, i)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Ideology, 0, hi-lo)
	for _, i := range matched[lo:hi] {
		out = append(out, cloneIdeology(i))
	}
	return out, nil
}

// Delete removes an ideology.
func (r *IdeologyRepository) Delete(_ context.Context, tenantID string, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[tenantID][id]; !ok {
		return oops.Code("IDEOLOGY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	delete(r.items[tenantID], id)
	r.order[tenantID] = removeID(r.order[tenantID], id)
	return nil
}
