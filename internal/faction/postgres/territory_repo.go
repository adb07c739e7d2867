// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/loreforge/loreforge/internal/faction"
)

const territoryColumns = `id, world_id, owner_faction, name, area, control_level, created_at`

// TerritoryRepository implements faction.TerritoryRepository using PostgreSQL.
type TerritoryRepository struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator
}

// NewTerritoryRepository creates a new TerritoryRepository.
func NewTerritoryRepository(pool *pgxpool.Pool, ids *faction.IDGenerator) *TerritoryRepository {
	return &TerritoryRepository{pool: pool, ids: ids}
}

// Save persists a territory.
func (r *TerritoryRepository) Save(ctx context.Context, t *faction.Territory) error {
	if err := t.Validate(); err != nil {
		return err
	}

	if t.ID.IsZero() {
		t.ID = r.ids.Next(t.TenantID)
		t.CreatedAt = time.Now().UTC()
		_, err := r.pool.Exec(ctx, `
			INSERT INTO faction_territories (tenant_id, id, world_id, owner_faction, name,
				area, control_level, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, t.TenantID, t.ID.String(), t.WorldID.String(), ulidToStringPtr(t.OwnerFaction),
			t.Name, t.Area, t.ControlLevel, t.CreatedAt)
		if err != nil {
			return insertErr("insert territory", t.ID.String(), err)
		}
		return nil
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE faction_territories SET world_id = $3, owner_faction = $4, name = $5,
			area = $6, control_level = $7
		WHERE tenant_id = $1 AND id = $2
	`, t.TenantID, t.ID.String(), t.WorldID.String(), ulidToStringPtr(t.OwnerFaction),
		t.Name, t.Area, t.ControlLevel)
	if err != nil {
		return oops.With("operation", "update territory").With("id", t.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TERRITORY_NOT_FOUND").With("id", t.ID.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

func scanTerritory(row pgx.Row, tenantID string) (*faction.Territory, error) {
	var (
		t               faction.Territory
		idStr, worldStr string
		ownerStr        *string
	)
	err := row.Scan(&idStr, &worldStr, &ownerStr, &t.Name, &t.Area, &t.ControlLevel, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.TenantID = tenantID
	if t.ID, err = parseULID(idStr); err != nil {
		return nil, err
	}
	if t.WorldID, err = parseULID(worldStr); err != nil {
		return nil, err
	}
	if t.OwnerFaction, err = ulidFromStringPtr(ownerStr); err != nil {
		return nil, err
	}
	return &t, nil
}

// FindByID retrieves a territory.
func (r *TerritoryRepository) FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*faction.Territory, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+territoryColumns+` FROM faction_territories
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	t, err := scanTerritory(row, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("TERRITORY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get territory").With("id", id.String()).Wrap(err)
	}
	return t, nil
}

func (r *TerritoryRepository) list(ctx context.Context, tenantID, column, keyVal string, page faction.Page) ([]*faction.Territory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+territoryColumns+` FROM faction_territories
		WHERE tenant_id = $1 AND `+column+` = $2
		ORDER BY seq LIMIT $3 OFFSET $4
	`, tenantID, keyVal, limitArg(page), offsetArg(page))
	if err != nil {
		return nil, oops.With("operation", "list territories").With(column, keyVal).Wrap(err)
	}
	defer rows.Close()

	var out []*faction.Territory
	for rows.Next() {
		t, err := scanTerritory(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan territory row").Wrap(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate territories").Wrap(err)
	}
	return out, nil
}

// ListByFaction returns territories owned by a faction in insertion order.
func (r *TerritoryRepository) ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Territory, error) {
	return r.list(ctx, tenantID, "owner_faction", factionID.String(), page)
}

// ListByWorld returns territories in insertion order.
func (r *TerritoryRepository) ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Territory, error) {
	return r.list(ctx, tenantID, "world_id", worldID.String(), page)
}

// Delete removes a territory.
func (r *TerritoryRepository) Delete(ctx context.Context, tenantID string, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM faction_territories WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	if err != nil {
		return oops.With("operation", "delete territory").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("TERRITORY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

// Claim assigns the territory to newOwnerID and resets its control level
// to 1. Claiming a territory the faction already owns returns false. The
// influence cost is accepted but not debited from any ledger yet.
func (r *TerritoryRepository) Claim(ctx context.Context, tenantID string, territoryID, newOwnerID ulid.ULID, _ float64) (bool, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE faction_territories SET owner_faction = $3, control_level = 1
		WHERE tenant_id = $1 AND id = $2
			AND (owner_faction IS NULL OR owner_faction <> $3)
	`, tenantID, territoryID.String(), newOwnerID.String())
	if err != nil {
		return false, oops.With("operation", "claim territory").With("id", territoryID.String()).Wrap(err)
	}
	if result.RowsAffected() == 1 {
		return true, nil
	}

	// Zero rows is either "already owned by the claimant" or "missing".
	var exists bool
	err = r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM faction_territories WHERE tenant_id = $1 AND id = $2)
	`, tenantID, territoryID.String()).Scan(&exists)
	if err != nil {
		return false, oops.With("operation", "claim territory").With("id", territoryID.String()).Wrap(err)
	}
	if !exists {
		return false, oops.Code("TERRITORY_NOT_FOUND").With("id", territoryID.String()).Wrap(faction.ErrNotFound)
	}
	return false, nil
}
