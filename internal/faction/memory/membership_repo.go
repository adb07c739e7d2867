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

// MembershipRepository implements faction.MembershipRepository in memory.
type MembershipRepository struct {
	mu    sync.RWMutex
	ids   *faction.IDGenerator
	items map[string]map[ulid.ULID]*faction.Membership
	order map[string][]ulid.ULID
}

// NewMembershipRepository creates an empty membership repository.
func NewMembershipRepository(ids *faction.IDGenerator) *MembershipRepository {
	return &MembershipRepository{
		ids:   ids,
		items: make(map[string]map[ulid.ULID]*faction.Membership),
		order: make(map[string][]ulid.ULID),
	}
}

func cloneMembership(m *faction.Membership) *faction.Membership {
	c := *m
	c.BanEndDate = timePtr(m.BanEndDate)
	return &c
}

// Save persists a membership.
func (r *MembershipRepository) Save(_ context.Context, m *faction.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tenant := r.items[m.TenantID]
	if tenant == nil {
		tenant = make(map[ulid.ULID]*faction.Membership)
		r.items[m.TenantID] = tenant
	}
	if m.ID.IsZero() {
		m.ID = r.ids.Next(m.TenantID)
		m.JoinedAt = time.Now()
		r.order[m.TenantID] = append(r.order[m.TenantID], m.ID)
	} else if _, ok := tenant[m.ID]; !ok {
		return oops.Code("MEMBERSHIP_NOT_FOUND").With("id", m.ID.String()).Wrap(faction.ErrNotFound)
	}
	tenant[m.ID] = cloneMembership(m)
	return nil
}

// FindByID retrieves a membership.
func (r *MembershipRepository) FindByID(_ context.Context, tenantID string, id ulid.ULID) (*faction.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[tenantID][id]
	if !ok {
		return nil, oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return cloneMembership(m), nil
}

// ListByFaction returns a faction's memberships in insertion order.
func (r *MembershipRepository) ListByFaction(_ context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Membership
	for _, id := range r.order[tenantID] {
		m := r.items[tenantID][id]
		if m != nil && m.FactionID == factionID {
			matched = append(matched, m)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Membership, 0, hi-lo)
	for _, m := range matched[lo:hi] {
		out = append(out, cloneMembership(m))
	}
	return out, nil
}

// ListByCharacter returns a character's memberships in insertion order.
func (r *MembershipRepository) ListByCharacter(_ context.Context, tenantID string, characterID ulid.ULID, page faction.Page) ([]*faction.Membership, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*faction.Membership
	for _, id := range r.order[tenantID] {
		m := r.items[tenantID][id]
		if m != nil && m.CharacterID == characterID {
			matched = append(matched, m)
		}
	}
	lo, hi := page.Slice(len(matched))
	out := make([]*faction.Membership, 0, hi-lo)
	for _, m := range matched[lo:hi] {
		out = append(out, cloneMembership(m))
	}
	return out, nil
}

// Delete removes a membership. Leader-role memberships are protected so
// a faction cannot silently lose its registered leadership record via
// membership cleanup; removal goes through leader succession instead.
func (r *MembershipRepository) Delete(_ context.Context, tenantID string, id ulid.ULID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[tenantID][id]
	if !ok {
		return oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if m.Role == faction.RoleLeader {
		return &faction.BusinessRuleError{
			Rule:    faction.RuleLeaderMembership,
			Message: "leader memberships can only be removed through succession",
		}
	}
	delete(r.items[tenantID], id)
	r.order[tenantID] = removeID(r.order[tenantID], id)
	return nil
}
