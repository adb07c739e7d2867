// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package memory

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreforge/loreforge/internal/faction"
	"github.com/loreforge/loreforge/pkg/errutil"
)

func newIdeology(worldID ulid.ULID, name string) *faction.Ideology {
	return &faction.Ideology{
		TenantID:    tenant,
		WorldID:     worldID,
		FactionID:   ulid.Make(),
		Type:        faction.IdeologyMilitarist,
		Name:        name,
		Description: "strength secures the realm",
	}
}

func TestIdeologyRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeologyRepository(faction.NewIDGenerator())

	i := newIdeology(ulid.Make(), "Iron Doctrine")
	require.NoError(t, repo.Save(ctx, i))
	require.False(t, i.ID.IsZero())
	assert.False(t, i.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, tenant, i.ID)
	require.NoError(t, err)
	assert.Equal(t, "Iron Doctrine", got.Name)

	got.Name = "Iron Doctrine, Revised"
	require.NoError(t, repo.Save(ctx, got))
	again, err := repo.FindByID(ctx, tenant, i.ID)
	require.NoError(t, err)
	assert.Equal(t, "Iron Doctrine, Revised", again.Name)

	_, err = repo.FindByID(ctx, tenant, ulid.Make())
	require.ErrorIs(t, err, faction.ErrNotFound)
	errutil.AssertErrorCode(t, err, "IDEOLOGY_NOT_FOUND")
}

func TestIdeologyRepository_SaveValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeologyRepository(faction.NewIDGenerator())

	i := newIdeology(ulid.Make(), "Iron Doctrine")
	i.Description = "too short"
	var verr *faction.ValidationError
	require.ErrorAs(t, repo.Save(ctx, i), &verr)
	assert.Equal(t, "description", verr.Field)
}

func TestIdeologyRepository_ListByWorld(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeologyRepository(faction.NewIDGenerator())
	worldID := ulid.Make()

	first := newIdeology(worldID, "Iron Doctrine")
	require.NoError(t, repo.Save(ctx, first))
	second := newIdeology(worldID, "Ledger and Lantern")
	require.NoError(t, repo.Save(ctx, second))
	require.NoError(t, repo.Save(ctx, newIdeology(ulid.Make(), "Elsewhere")))

	all, err := repo.ListByWorld(ctx, tenant, worldID, faction.Page{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	paged, err := repo.ListByWorld(ctx, tenant, worldID, faction.Page{Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].ID)
}

func TestIdeologyRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeologyRepository(faction.NewIDGenerator())

	i := newIdeology(ulid.Make(), "Iron Doctrine")
	require.NoError(t, repo.Save(ctx, i))
	require.NoError(t, repo.Delete(ctx, tenant, i.ID))

	_, err := repo.FindByID(ctx, tenant, i.ID)
	require.ErrorIs(t, err, faction.ErrNotFound)

	err = repo.Delete(ctx, tenant, i.ID)
	require.ErrorIs(t, err, faction.ErrNotFound)
}

func TestIdeologyRepository_CloneIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewIdeologyRepository(faction.NewIDGenerator())

	i := newIdeology(ulid.Make(), "Iron Doctrine")
	i.Rules = map[string]any{"conscription": true}
	i.Restrictions = []string{"no desertion"}
	require.NoError(t, repo.Save(ctx, i))

	got, err := repo.FindByID(ctx, tenant, i.ID)
	require.NoError(t, err)
	got.Rules["conscription"] = false
	got.Restrictions[0] = "changed"

	fresh, err := repo.FindByID(ctx, tenant, i.ID)
	require.NoError(t, err)
	assert.Equal(t, true, fresh.Rules["conscription"], "stored state is detached from returned copies")
	assert.Equal(t, "no desertion", fresh.Restrictions[0])
}
