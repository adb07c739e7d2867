// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreforge/loreforge/internal/faction"
	"github.com/loreforge/loreforge/pkg/errutil"
)

func newMembership(worldID, factionID ulid.ULID, role faction.Role) *faction.Membership {
	return &faction.Membership{
		TenantID:    tenant,
		WorldID:     worldID,
		FactionID:   factionID,
		CharacterID: ulid.Make(),
		Role:        role,
	}
}

func TestMembershipRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(faction.NewIDGenerator())

	m := newMembership(ulid.Make(), ulid.Make(), faction.RoleRecruit)
	require.NoError(t, repo.Save(ctx, m))
	require.False(t, m.ID.IsZero())
	assert.False(t, m.JoinedAt.IsZero(), "save stamps the join time")

	got, err := repo.FindByID(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.Equal(t, faction.RoleRecruit, got.Role)

	got.Role = faction.RoleOfficer
	require.NoError(t, repo.Save(ctx, got))
	again, err := repo.FindByID(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.Equal(t, faction.RoleOfficer, again.Role)
	assert.Equal(t, m.JoinedAt, again.JoinedAt, "updates keep the original join time")

	_, err = repo.FindByID(ctx, tenant, ulid.Make())
	require.ErrorIs(t, err, faction.ErrNotFound)
	errutil.AssertErrorCode(t, err, "MEMBERSHIP_NOT_FOUND")
}

func TestMembershipRepository_SaveValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(faction.NewIDGenerator())

	m := newMembership(ulid.Make(), ulid.Make(), "king")
	var verr *faction.ValidationError
	require.ErrorAs(t, repo.Save(ctx, m), &verr)
	assert.Equal(t, "role", verr.Field)
}

func TestMembershipRepository_Lists(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(faction.NewIDGenerator())
	worldID := ulid.Make()
	factionA := ulid.Make()
	factionB := ulid.Make()

	first := newMembership(worldID, factionA, faction.RoleMember)
	require.NoError(t, repo.Save(ctx, first))
	second := newMembership(worldID, factionA, faction.RoleOfficer)
	require.NoError(t, repo.Save(ctx, second))

	// The same character joins a second faction.
	cross := newMembership(worldID, factionB, faction.RoleRecruit)
	cross.CharacterID = first.CharacterID
	require.NoError(t, repo.Save(ctx, cross))

	byFaction, err := repo.ListByFaction(ctx, tenant, factionA, faction.Page{})
	require.NoError(t, err)
	require.Len(t, byFaction, 2)
	assert.Equal(t, first.ID, byFaction[0].ID)

	byCharacter, err := repo.ListByCharacter(ctx, tenant, first.CharacterID, faction.Page{})
	require.NoError(t, err)
	require.Len(t, byCharacter, 2)
	assert.Equal(t, first.ID, byCharacter[0].ID)
	assert.Equal(t, cross.ID, byCharacter[1].ID)

	paged, err := repo.ListByFaction(ctx, tenant, factionA, faction.Page{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, second.ID, paged[0].ID)
}

func TestMembershipRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(faction.NewIDGenerator())
	worldID := ulid.Make()
	factionID := ulid.Make()

	leader := newMembership(worldID, factionID, faction.RoleLeader)
	require.NoError(t, repo.Save(ctx, leader))
	member := newMembership(worldID, factionID, faction.RoleMember)
	require.NoError(t, repo.Save(ctx, member))

	err := repo.Delete(ctx, tenant, leader.ID)
	var ruleErr *faction.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, faction.RuleLeaderMembership, ruleErr.Rule)

	require.NoError(t, repo.Delete(ctx, tenant, member.ID))
	_, err = repo.FindByID(ctx, tenant, member.ID)
	require.ErrorIs(t, err, faction.ErrNotFound)

	err = repo.Delete(ctx, tenant, member.ID)
	require.ErrorIs(t, err, faction.ErrNotFound)
}

func TestMembershipRepository_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(faction.NewIDGenerator())

	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m := newMembership(ulid.Make(), ulid.Make(), faction.RoleBanned)
	m.BanEndDate = &end
	require.NoError(t, repo.Save(ctx, m))

	got, err := repo.FindByID(ctx, tenant, m.ID)
	require.NoError(t, err)
	*got.BanEndDate = got.BanEndDate.AddDate(1, 0, 0)

	fresh, err := repo.FindByID(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.Equal(t, end, *fresh.BanEndDate, "stored state is detached from returned copies")
}
