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

const ideologyColumns = `id, world_id, faction_id, ideology_type, name, description,
	rules, restrictions, benefits, penalties, created_at`

// IdeologyRepository implements faction.IdeologyRepository using PostgreSQL.
type IdeologyRepository struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator
}

// NewIdeologyRepository creates a new IdeologyRepository.
func NewIdeologyRepository(pool *pgxpool.Pool, ids *faction.IDGenerator) *IdeologyRepository {
	return &IdeologyRepository{pool: pool, ids: ids}
}

// Save persists an ideology.
func (r *IdeologyRepository) Save(ctx context.Context, i *faction.Ideology) error {
	if err := i.Validate(); err != nil {
		return err
	}

	if i.ID.IsZero() {
		i.ID = r.ids.Next(i.TenantID)
		i.CreatedAt = time.Now().UTC()
		_, err := r.pool.Exec(ctx, `
			INSERT INTO faction_ideologies (tenant_id, id, world_id, faction_id, ideology_type,
				name, description, rules, restrictions, benefits, penalties, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, i.TenantID, i.ID.String(), i.WorldID.String(), i.FactionID.String(), string(i.Type),
			i.Name, i.Description, i.Rules, i.Restrictions, i.Benefits, i.Penalties, i.CreatedAt)
		if err != nil {
			return insertErr("insert ideology", i.ID.String(), err)
		}
		return nil
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE faction_ideologies SET world_id = $3, faction_id = $4, ideology_type = $5,
			name = $6, description = $7, rules = $8, restrictions = $9, benefits = $10, penalties = $11
		WHERE tenant_id = $1 AND id = $2
	`, i.TenantID, i.ID.String(), i.WorldID.String(), i.FactionID.String(), string(i.Type),
		i.Name, i.Description, i.Rules, i.Restrictions, i.Benefits, i.Penalties)
	if err != nil {
		return oops.With("operation", "update ideology").With("id", i.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDEOLOGY_NOT_FOUND").With("id", i.ID.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

func scanIdeology(row pgx.Row, tenantID string) (*faction.Ideology, error) {
	var (
		i                           faction.Ideology
		idStr, worldStr, factionStr string
		typeStr                     string
	)
	err := row.Scan(&idStr, &worldStr, &factionStr, &typeStr, &i.Name, &i.Description,
		&i.Rules, &i.Restrictions, &i.Benefits, &i.Penalties, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	i.TenantID = tenantID
	i.Type = faction.IdeologyType(typeStr)
	if i.ID, err = parseULID(idStr); err != nil {
		return nil, err
	}
	if i.WorldID, err = parseULID(worldStr); err != nil {
		return nil, err
	}
	if i.FactionID, err = parseULID(factionStr); err != nil {
		return nil, err
	}
	return &i, nil
}

// FindByID retrieves an ideology.
func (r *IdeologyRepository) FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*faction.Ideology, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+ideologyColumns+` FROM faction_ideologies
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	i, err := scanIdeology(row, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("IDEOLOGY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get ideology").With("id", id.String()).Wrap(err)
	}
	return i, nil
}

// ListByWorld returns ideologies in insertion order.
func (r *IdeologyRepository) ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Ideology, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+ideologyColumns+` FROM faction_ideologies
		WHERE tenant_id = $1 AND world_id = $2
		ORDER BY seq LIMIT $3 OFFSET $4
	`, tenantID, worldID.String(), limitArg(page), offsetArg(page))
	if err != nil {
		return nil, oops.With("operation", "list ideologies by world").Wrap(err)
	}
	defer rows.Close()

	var out []*faction.Ideology
	for rows.Next() {
		i, err := scanIdeology(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan ideology row").Wrap(err)
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate ideologies").Wrap(err)
	}
	return out, nil
}

// Delete removes an ideology.
func (r *IdeologyRepository) Delete(ctx context.Context, tenantID string, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM faction_ideologies WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	if err != nil {
		return oops.With("operation", "delete ideology").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("IDEOLOGY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}
