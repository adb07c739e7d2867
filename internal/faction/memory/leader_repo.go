// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package memory

import (
	"context"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/loreforge/loreforge/internal/faction"
)

// LeaderRepository implements faction.LeaderRepository in memory.
type LeaderRepository struct {
	mu    sync.RWMutex
	ids   *faction.IDGenerator
	items map[string]map[ulid.ULID]*faction.Leader
	order map[string][]ulid.ULID
}

// NewLeaderRepository creates an empty leader repository.
func NewLeaderRepository(ids *faction.IDGenerator) *LeaderRepository {
	return &LeaderRepository{
		ids:   ids,
		items: make(map[string]map[ulid.ULID]*faction.Leader),
		order: make(map[string][]ulid.ULID),
	}
}

func cloneLeader(l *faction.Leader) *faction.Leader {
	c := *l
	return &c
}

// Save persists a leader record.
func (r *LeaderRepository) Save(_ context.Context, l *faction.Leader) error {
	if err := l.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.items[l.TenantID]
	if tenant == nil {
		tenant = make(map[ulid.ULID]*faction.Leader)
		r.items[l.TenantID] = tenant
	}
	if l.ID.IsZero() {
		l.ID = r.ids.Next(l.TenantID)
		r.order[l.TenantID] = append(r.order[l.TenantID], l.ID)
	} else if _, ok := tenant[l.ID]; !ok {
		return oops.Code("LEADER_NOT_FOUND").With("id", l.ID.String()).Wrap(faction.ErrNotFound)
	}
	tenant[l.ID] = cloneLeader(l)
	return nil
}

// FindByID retrieves a leader record.
func (r *LeaderRepository) FindByID(_ context.Context, tenantID string, id ulid.ULID) (*faction.Leader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[tenantID][id]
	if !ok {
		return nil, oops.Code("LEADER_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return cloneLeader(l), nil
}

// ListByFaction returns a faction's leader records in insertion order.
func (r *LeaderRepository) ListByFaction(_ context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Leader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Leader
	for _, id := range r.order[tenantID] {
		l := r.items[tenantID][id]
		if l != nil && l.FactionID == factionID {
			matched = append(matched, l)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Leader, 0, hi-lo)
	for _, l := range matched[lo:hi] {
		out = append(out, cloneLeader(l))
	}
	return out, nil
}

// ListByWorld returns leader records in insertion order.
func (r *LeaderRepository) ListByWorld(_ context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Leader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Leader
	for _, id := range r.order[tenantID] {
		l := r.items[tenantID][id]
		if l != nil && l.WorldID == worldID {
			matched = append(matched, l)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Leader, 0, hi-lo)
	for _, l := range matched[lo:hi] {
		out = append(out, cloneLeader(l))
	}
	return out, nil
}

// Delete removes a leader record. Removing the faction's last record is
// rejected: a faction must never be left leaderless mid-operation.
// Succession runs at the service layer after the delete commits.
func (r *LeaderRepository) Delete(_ context.Context, tenantID string, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	target, ok := r.items[tenantID][id]
	if !ok {
		return oops.Code("LEADER_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	remaining := 0
	for otherID, l := range r.items[tenantID] {
		if otherID != id && l.FactionID == target.FactionID {
			remaining++
		}
	}
	if remaining == 0 {
		return &faction.BusinessRuleError{
			Rule:    faction.RuleLastLeader,
			Message: "cannot delete last leader without replacement",
		}
	}
	delete(r.items[tenantID], id)
	r.order[tenantID] = removeID(r.order[tenantID], id)
	return nil
}
