// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreforge/loreforge/internal/faction"
	"github.com/loreforge/loreforge/internal/faction/memory"
)

// fixedOffsets pins the conquest roll for deterministic outcomes.
type fixedOffsets struct{ offset int }

func (f fixedOffsets) ConquestOffset() int { return f.offset }

// stubSuccession names a fixed successor, or declines, or fails.
type stubSuccession struct {
	successor ulid.ULID
	ok        bool
	err       error
}

func (s stubSuccession) ChooseSuccessor(context.Context, string, ulid.ULID) (ulid.ULID, bool, error) {
	return s.successor, s.ok, s.err
}

type serviceFixture struct {
	svc   *faction.Service
	store *memory.Store
	now   time.Time
}

func newFixture(t *testing.T, mutate func(*faction.ServiceConfig)) *serviceFixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := store.ServiceConfig()
	cfg.Now = func() time.Time { return now }
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if mutate != nil {
		mutate(&cfg)
	}
	return &serviceFixture{svc: faction.NewService(cfg), store: store, now: now}
}

const tenant = "t1"

func TestService_HierarchyLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()

	parent := &faction.Hierarchy{TenantID: tenant, WorldID: worldID, FactionID: ulid.Make()}
	require.NoError(t, f.svc.SaveHierarchy(ctx, parent))
	require.False(t, parent.ID.IsZero())

	child := &faction.Hierarchy{
		TenantID:      tenant,
		WorldID:       worldID,
		FactionID:     ulid.Make(),
		ParentFaction: &parent.FactionID,
	}
	require.NoError(t, f.svc.SaveHierarchy(ctx, child))

	got, err := f.svc.GetHierarchy(ctx, tenant, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, parent.FactionID, got.FactionID)

	listed, err := f.svc.ListHierarchiesByWorld(ctx, tenant, worldID, faction.Page{})
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, parent.ID, listed[0].ID, "insertion order")

	// The parent is protected while the child references it.
	err = f.svc.DeleteHierarchy(ctx, tenant, parent.ID)
	var ruleErr *faction.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, faction.RuleReferencedParent, ruleErr.Rule)

	require.NoError(t, f.svc.DeleteHierarchy(ctx, tenant, child.ID))
	require.NoError(t, f.svc.DeleteHierarchy(ctx, tenant, parent.ID))
}

func TestService_SaveHierarchy_RejectsCycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()

	a := &faction.Hierarchy{TenantID: tenant, WorldID: worldID, FactionID: ulid.Make()}
	require.NoError(t, f.svc.SaveHierarchy(ctx, a))

	b := &faction.Hierarchy{
		TenantID:      tenant,
		WorldID:       worldID,
		FactionID:     ulid.Make(),
		ParentFaction: &a.FactionID,
	}
	require.NoError(t, f.svc.SaveHierarchy(ctx, b))

	// Re-parenting a under b closes a cycle; the save must be rejected
	// and the committed graph left as it was.
	a.ParentFaction = &b.FactionID
	err := f.svc.SaveHierarchy(ctx, a)
	var cycleErr *faction.CircularDependencyError
	require.ErrorAs(t, err, &cycleErr)

	got, err := f.svc.GetHierarchy(ctx, tenant, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentFaction)
}

func TestService_CalculateInfluence(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	h := &faction.Hierarchy{
		TenantID:       tenant,
		WorldID:        ulid.Make(),
		FactionID:      ulid.Make(),
		MemberCount:    10,
		ResourceCount:  5,
		TerritoryCount: 2,
	}
	require.NoError(t, f.svc.SaveHierarchy(ctx, h))

	score, err := f.svc.CalculateInfluence(ctx, tenant, h.ID)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, score, 1e-9)

	// The score is returned, not persisted.
	got, err := f.svc.GetHierarchy(ctx, tenant, h.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Influence)

	_, err = f.svc.CalculateInfluence(ctx, tenant, ulid.Make())
	assert.ErrorIs(t, err, faction.ErrNotFound)
}

func TestService_GetFactionTree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()

	root := &faction.Hierarchy{TenantID: tenant, WorldID: worldID, FactionID: ulid.Make(), Influence: 20}
	require.NoError(t, f.svc.SaveHierarchy(ctx, root))
	child := &faction.Hierarchy{
		TenantID:      tenant,
		WorldID:       worldID,
		FactionID:     ulid.Make(),
		ParentFaction: &root.FactionID,
		Influence:     12,
	}
	require.NoError(t, f.svc.SaveHierarchy(ctx, child))

	tree, err := f.svc.GetFactionTree(ctx, tenant, root.FactionID)
	require.NoError(t, err)
	assert.Len(t, tree.Nodes, 2)
	assert.InDelta(t, 32.0, tree.TotalInfluence, 1e-9)
	assert.Equal(t, []ulid.ULID{root.FactionID}, tree.Levels[0])
	assert.Equal(t, []ulid.ULID{child.FactionID}, tree.Levels[1])

	_, err = f.svc.GetFactionTree(ctx, tenant, ulid.Make())
	assert.ErrorIs(t, err, faction.ErrNotFound)
}

func TestService_CheckCompatibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()

	save := func(typ faction.IdeologyType, name string) ulid.ULID {
		i := &faction.Ideology{
			TenantID:    tenant,
			WorldID:     worldID,
			FactionID:   ulid.Make(),
			Type:        typ,
			Name:        name,
			Description: "a creed of at least ten characters",
		}
		require.NoError(t, f.svc.SaveIdeology(ctx, i))
		return i.ID
	}

	militarist := save(faction.IdeologyMilitarist, "Iron Doctrine")
	mercantile := save(faction.IdeologyMercantile, "Ledger and Lantern")
	rival := save(faction.IdeologyMilitarist, "Ashen Creed")

	ok, err := f.svc.CheckCompatibility(ctx, tenant, militarist, mercantile)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.CheckCompatibility(ctx, tenant, militarist, rival)
	require.NoError(t, err)
	assert.False(t, ok, "identical types compete for the same niche")

	_, err = f.svc.CheckCompatibility(ctx, tenant, militarist, ulid.Make())
	assert.ErrorIs(t, err, faction.ErrNotFound)
}

func TestService_GetIdeologyRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	i := &faction.Ideology{
		TenantID:     tenant,
		WorldID:      ulid.Make(),
		FactionID:    ulid.Make(),
		Type:         faction.IdeologyTheocratic,
		Name:         "The Radiant Path",
		Description:  "devotion above all else",
		Rules:        map[string]any{"tithe": 0.1},
		Restrictions: []string{"no apostasy"},
	}
	require.NoError(t, f.svc.SaveIdeology(ctx, i))

	view, err := f.svc.GetIdeologyRules(ctx, tenant, i.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"tithe": 0.1}, view.Rules)
	assert.Equal(t, []string{"no apostasy"}, view.Restrictions)

	// A missing ideology yields an empty view, not an error.
	view, err = f.svc.GetIdeologyRules(ctx, tenant, ulid.Make())
	require.NoError(t, err)
	assert.Nil(t, view.Rules)
	assert.Empty(t, view.Restrictions)
}

func TestService_AppointLeader(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()
	factionID := ulid.Make()
	characterID := ulid.Make()

	l, err := f.svc.AppointLeader(ctx, tenant, worldID, factionID, characterID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, l.AuthorityLevel)
	assert.Equal(t, f.now, l.StartDate, "start date comes from the injected clock")

	got, err := f.svc.GetLeader(ctx, tenant, l.ID)
	require.NoError(t, err)
	assert.Equal(t, characterID, got.CharacterID)

	// Appointment records leadership only; it does not write a membership.
	ms, err := f.svc.ListMembershipsByFaction(ctx, tenant, factionID, faction.Page{})
	require.NoError(t, err)
	assert.Empty(t, ms)

	for _, level := range []int{0, 11, -3} {
		_, err := f.svc.AppointLeader(ctx, tenant, worldID, factionID, characterID, level)
		var verr *faction.ValidationError
		require.ErrorAs(t, err, &verr, "level %d", level)
		assert.Equal(t, "authority_level", verr.Field)
	}
}

func TestService_RemoveLeader_LastLeaderProtected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	l, err := f.svc.AppointLeader(ctx, tenant, ulid.Make(), ulid.Make(), ulid.Make(), 5)
	require.NoError(t, err)

	err = f.svc.RemoveLeader(ctx, tenant, l.ID)
	var ruleErr *faction.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, faction.RuleLastLeader, ruleErr.Rule)
}

func TestService_RemoveLeader_Succession(t *testing.T) {
	ctx := context.Background()
	successor := ulid.Make()
	f := newFixture(t, func(cfg *faction.ServiceConfig) {
		cfg.Succession = stubSuccession{successor: successor, ok: true}
	})
	worldID := ulid.Make()
	factionID := ulid.Make()

	old, err := f.svc.AppointLeader(ctx, tenant, worldID, factionID, ulid.Make(), 8)
	require.NoError(t, err)
	_, err = f.svc.AppointLeader(ctx, tenant, worldID, factionID, ulid.Make(), 3)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveLeader(ctx, tenant, old.ID))

	_, err = f.svc.GetLeader(ctx, tenant, old.ID)
	assert.ErrorIs(t, err, faction.ErrNotFound)

	ls, err := f.svc.ListLeadersByFaction(ctx, tenant, factionID, faction.Page{})
	require.NoError(t, err)
	require.Len(t, ls, 2)
	appointed := ls[len(ls)-1]
	assert.Equal(t, successor, appointed.CharacterID)
	assert.Equal(t, 8, appointed.AuthorityLevel, "successor inherits the removed leader's authority")
}

func TestService_RemoveLeader_StrategyDeclines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil) // NopSuccession by default
	worldID := ulid.Make()
	factionID := ulid.Make()

	old, err := f.svc.AppointLeader(ctx, tenant, worldID, factionID, ulid.Make(), 5)
	require.NoError(t, err)
	_, err = f.svc.AppointLeader(ctx, tenant, worldID, factionID, ulid.Make(), 4)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveLeader(ctx, tenant, old.ID))

	ls, err := f.svc.ListLeadersByFaction(ctx, tenant, factionID, faction.Page{})
	require.NoError(t, err)
	assert.Len(t, ls, 1)
}

func TestService_RemoveLeader_StrategyFailure(t *testing.T) {
	ctx := context.Background()
	strategyErr := errors.New("election deadlocked")
	f := newFixture(t, func(cfg *faction.ServiceConfig) {
		cfg.Succession = stubSuccession{err: strategyErr}
	})
	worldID := ulid.Make()
	factionID := ulid.Make()

	old, err := f.svc.AppointLeader(ctx, tenant, worldID, factionID, ulid.Make(), 5)
	require.NoError(t, err)
	_, err = f.svc.AppointLeader(ctx, tenant, worldID, factionID, ulid.Make(), 4)
	require.NoError(t, err)

	err = f.svc.RemoveLeader(ctx, tenant, old.ID)
	require.ErrorIs(t, err, strategyErr)

	// The delete has committed even though succession failed.
	_, err = f.svc.GetLeader(ctx, tenant, old.ID)
	assert.ErrorIs(t, err, faction.ErrNotFound)
}

func TestService_CheckLeaderAuthority(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	l, err := f.svc.AppointLeader(ctx, tenant, ulid.Make(), ulid.Make(), ulid.Make(), 5)
	require.NoError(t, err)

	ok, err := f.svc.CheckLeaderAuthority(ctx, tenant, l.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.CheckLeaderAuthority(ctx, tenant, l.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	// A missing leader is simply false, not an error.
	ok, err = f.svc.CheckLeaderAuthority(ctx, tenant, ulid.Make(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_PromoteAndDemote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	m := &faction.Membership{
		TenantID:    tenant,
		WorldID:     ulid.Make(),
		FactionID:   ulid.Make(),
		CharacterID: ulid.Make(),
		Role:        faction.RoleRecruit,
	}
	require.NoError(t, f.svc.SaveMembership(ctx, m))

	require.NoError(t, f.svc.PromoteMember(ctx, tenant, m.ID, faction.RoleOfficer))
	got, err := f.svc.GetMembership(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.Equal(t, faction.RoleOfficer, got.Role)

	require.NoError(t, f.svc.DemoteMember(ctx, tenant, m.ID, faction.RoleMember))
	got, err = f.svc.GetMembership(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.Equal(t, faction.RoleMember, got.Role)

	var verr *faction.ValidationError
	require.ErrorAs(t, f.svc.PromoteMember(ctx, tenant, m.ID, "king"), &verr)
	assert.Equal(t, "role", verr.Field)

	err = f.svc.PromoteMember(ctx, tenant, ulid.Make(), faction.RoleOfficer)
	assert.ErrorIs(t, err, faction.ErrNotFound)
}

func TestService_BanMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	m := &faction.Membership{
		TenantID:    tenant,
		WorldID:     ulid.Make(),
		FactionID:   ulid.Make(),
		CharacterID: ulid.Make(),
		Role:        faction.RoleMember,
	}
	require.NoError(t, f.svc.SaveMembership(ctx, m))

	require.NoError(t, f.svc.BanMember(ctx, tenant, m.ID, "sabotage", 30))

	got, err := f.svc.GetMembership(ctx, tenant, m.ID)
	require.NoError(t, err)
	assert.Equal(t, faction.RoleBanned, got.Role)
	assert.Equal(t, "sabotage", got.BanReason)
	require.NotNil(t, got.BanEndDate)
	assert.Equal(t, f.now.AddDate(0, 0, 30), *got.BanEndDate)

	assert.False(t, got.BanExpired(f.now))
	assert.True(t, got.BanExpired(f.now.AddDate(0, 0, 31)))

	var verr *faction.ValidationError
	require.ErrorAs(t, f.svc.BanMember(ctx, tenant, m.ID, "x", 0), &verr)
	assert.Equal(t, "duration_days", verr.Field)
}

func TestService_DeleteMembership_LeaderProtected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	m := &faction.Membership{
		TenantID:    tenant,
		WorldID:     ulid.Make(),
		FactionID:   ulid.Make(),
		CharacterID: ulid.Make(),
		Role:        faction.RoleLeader,
	}
	require.NoError(t, f.svc.SaveMembership(ctx, m))

	err := f.svc.DeleteMembership(ctx, tenant, m.ID)
	var ruleErr *faction.BusinessRuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, faction.RuleLeaderMembership, ruleErr.Rule)
}

func TestService_GenerateResource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()
	factionID := ulid.Make()

	r, err := f.svc.GenerateResource(ctx, tenant, worldID, factionID, faction.ResourceGold, 250)
	require.NoError(t, err)
	assert.Equal(t, f.now, r.GeneratedAt)

	// Generation events of the same type stay separate ledger entries.
	_, err = f.svc.GenerateResource(ctx, tenant, worldID, factionID, faction.ResourceGold, 50)
	require.NoError(t, err)

	rs, err := f.svc.ListResourcesByFaction(ctx, tenant, factionID, faction.Page{})
	require.NoError(t, err)
	assert.Len(t, rs, 2)
}

func TestService_TransferResource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()
	from := ulid.Make()
	to := ulid.Make()

	src, err := f.svc.GenerateResource(ctx, tenant, worldID, from, faction.ResourceGold, 100)
	require.NoError(t, err)

	ok, err := f.svc.TransferResource(ctx, tenant, from, to, src.ID, 40)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := f.svc.GetResource(ctx, tenant, src.ID)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, got.Amount, 1e-9)

	dsts, err := f.svc.ListResourcesByFaction(ctx, tenant, to, faction.Page{})
	require.NoError(t, err)
	require.Len(t, dsts, 1)
	assert.Equal(t, faction.ResourceGold, dsts[0].Type)
	assert.InDelta(t, 40.0, dsts[0].Amount, 1e-9)

	t.Run("insufficient balance is a soft failure", func(t *testing.T) {
		ok, err := f.svc.TransferResource(ctx, tenant, from, to, src.ID, 1000)
		require.NoError(t, err)
		assert.False(t, ok)
		got, err := f.svc.GetResource(ctx, tenant, src.ID)
		require.NoError(t, err)
		assert.InDelta(t, 60.0, got.Amount, 1e-9, "ledger unchanged")
	})

	t.Run("missing source is a soft failure", func(t *testing.T) {
		ok, err := f.svc.TransferResource(ctx, tenant, from, to, ulid.Make(), 10)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("wrong source faction is a soft failure", func(t *testing.T) {
		ok, err := f.svc.TransferResource(ctx, tenant, ulid.Make(), to, src.ID, 10)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		_, err := f.svc.TransferResource(ctx, tenant, from, to, src.ID, 0)
		var verr *faction.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	})
}

func TestService_ClaimTerritory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	claimant := ulid.Make()
	rival := ulid.Make()

	tr := &faction.Territory{TenantID: tenant, WorldID: ulid.Make(), Name: "Lanternmere", Area: 4}
	require.NoError(t, f.svc.SaveTerritory(ctx, tr))

	ok, err := f.svc.ClaimTerritory(ctx, tenant, tr.ID, claimant, 5)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := f.svc.GetTerritory(ctx, tenant, tr.ID)
	require.NoError(t, err)
	assert.True(t, got.OwnedBy(claimant))
	assert.Equal(t, 1, got.ControlLevel)

	// Re-claiming what the faction already holds is a soft no-op.
	ok, err = f.svc.ClaimTerritory(ctx, tenant, tr.ID, claimant, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	// A rival can claim over the current owner.
	ok, err = f.svc.ClaimTerritory(ctx, tenant, tr.ID, rival, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.ClaimTerritory(ctx, tenant, ulid.Make(), claimant, 5)
	assert.ErrorIs(t, err, faction.ErrNotFound)
}

func TestService_ResolveConflict(t *testing.T) {
	ctx := context.Background()
	defender := ulid.Make()
	attacker := ulid.Make()

	newTerritory := func(t *testing.T, f *serviceFixture) *faction.Territory {
		t.Helper()
		owner := defender
		tr := &faction.Territory{
			TenantID:     tenant,
			WorldID:      ulid.Make(),
			Name:         "The Nexus Crossroads",
			OwnerFaction: &owner,
			ControlLevel: 3,
			Area:         12.5,
		}
		require.NoError(t, f.svc.SaveTerritory(ctx, tr))
		return tr
	}

	t.Run("attacker wins on a positive roll", func(t *testing.T) {
		f := newFixture(t, func(cfg *faction.ServiceConfig) {
			cfg.Offsets = fixedOffsets{offset: 5}
		})
		tr := newTerritory(t, f)

		outcome, err := f.svc.ResolveConflict(ctx, tenant, tr.ID, attacker, 100)
		require.NoError(t, err)
		assert.Equal(t, faction.AttackerWins, outcome)

		got, err := f.svc.GetTerritory(ctx, tenant, tr.ID)
		require.NoError(t, err)
		assert.True(t, got.OwnedBy(attacker))
		assert.Equal(t, 1, got.ControlLevel)
	})

	t.Run("defender holds on a negative roll", func(t *testing.T) {
		f := newFixture(t, func(cfg *faction.ServiceConfig) {
			cfg.Offsets = fixedOffsets{offset: -5}
		})
		tr := newTerritory(t, f)

		outcome, err := f.svc.ResolveConflict(ctx, tenant, tr.ID, attacker, 100)
		require.NoError(t, err)
		assert.Equal(t, faction.DefenderHolds, outcome)

		got, err := f.svc.GetTerritory(ctx, tenant, tr.ID)
		require.NoError(t, err)
		assert.True(t, got.OwnedBy(defender), "ownership unchanged")
		assert.Equal(t, 3, got.ControlLevel)
	})

	t.Run("tie neutralizes the territory", func(t *testing.T) {
		f := newFixture(t, func(cfg *faction.ServiceConfig) {
			cfg.Offsets = fixedOffsets{offset: 0}
		})
		tr := newTerritory(t, f)

		outcome, err := f.svc.ResolveConflict(ctx, tenant, tr.ID, attacker, 100)
		require.NoError(t, err)
		assert.Equal(t, faction.TerritoryNeutralized, outcome)

		got, err := f.svc.GetTerritory(ctx, tenant, tr.ID)
		require.NoError(t, err)
		assert.Nil(t, got.OwnerFaction)
		assert.Equal(t, 0, got.ControlLevel)
	})

	t.Run("missing territory", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.ResolveConflict(ctx, tenant, ulid.Make(), attacker, 100)
		assert.ErrorIs(t, err, faction.ErrNotFound)
	})
}

func TestService_FactionTerritorySummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	worldID := ulid.Make()
	owner := ulid.Make()

	for _, area := range []float64{12.5, 4.0} {
		o := owner
		tr := &faction.Territory{
			TenantID:     tenant,
			WorldID:      worldID,
			Name:         "holding",
			OwnerFaction: &o,
			ControlLevel: 1,
			Area:         area,
		}
		require.NoError(t, f.svc.SaveTerritory(ctx, tr))
	}
	unowned := &faction.Territory{TenantID: tenant, WorldID: worldID, Name: "wilds", Area: 99}
	require.NoError(t, f.svc.SaveTerritory(ctx, unowned))

	sum, err := f.svc.FactionTerritorySummary(ctx, tenant, owner)
	require.NoError(t, err)
	assert.Equal(t, owner, sum.FactionID)
	assert.Equal(t, 2, sum.TerritoryCount)
	assert.InDelta(t, 16.5, sum.TotalArea, 1e-9)
	assert.Empty(t, sum.Borders)
}
