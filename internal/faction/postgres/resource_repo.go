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

const resourceColumns = `id, world_id, faction_id, resource_type, amount, generated_at`

// ResourceRepository implements faction.ResourceRepository using PostgreSQL.
type ResourceRepository struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(pool *pgxpool.Pool, ids *faction.IDGenerator) *ResourceRepository {
	return &ResourceRepository{pool: pool, ids: ids}
}

// Save persists a resource record.
func (r *ResourceRepository) Save(ctx context.Context, res *faction.Resource) error {
	if err := res.Validate(); err != nil {
		return err
	}

	if res.ID.IsZero() {
		res.ID = r.ids.Next(res.TenantID)
		_, err := r.pool.Exec(ctx, `
			INSERT INTO faction_resources (tenant_id, id, world_id, faction_id, resource_type,
				amount, generated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, res.TenantID, res.ID.String(), res.WorldID.String(), res.FactionID.String(),
			string(res.Type), res.Amount, res.GeneratedAt)
		if err != nil {
			return insertErr("insert resource", res.ID.String(), err)
		}
		return nil
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE faction_resources SET world_id = $3, faction_id = $4, resource_type = $5,
			amount = $6, generated_at = $7
		WHERE tenant_id = $1 AND id = $2
	`, res.TenantID, res.ID.String(), res.WorldID.String(), res.FactionID.String(),
		string(res.Type), res.Amount, res.GeneratedAt)
	if err != nil {
		return oops.With("operation", "update resource").With("id", res.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("RESOURCE_NOT_FOUND").With("id", res.ID.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

func scanResource(row pgx.Row, tenantID string) (*faction.Resource, error) {
	var (
		res                         faction.Resource
		idStr, worldStr, factionStr string
		typeStr                     string
	)
	err := row.Scan(&idStr, &worldStr, &factionStr, &typeStr, &res.Amount, &res.GeneratedAt)
	if err != nil {
		return nil, err
	}
	res.TenantID = tenantID
	res.Type = faction.ResourceType(typeStr)
	if res.ID, err = parseULID(idStr); err != nil {
		return nil, err
	}
	if res.WorldID, err = parseULID(worldStr); err != nil {
		return nil, err
	}
	if res.FactionID, err = parseULID(factionStr); err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByID retrieves a resource record.
func (r *ResourceRepository) FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*faction.Resource, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+resourceColumns+` FROM faction_resources
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	res, err := scanResource(row, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("RESOURCE_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get resource").With("id", id.String()).Wrap(err)
	}
	return res, nil
}

func (r *ResourceRepository) list(ctx context.Context, tenantID, column, keyVal string, page faction.Page) ([]*faction.Resource, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+resourceColumns+` FROM faction_resources
		WHERE tenant_id = $1 AND `+column+` = $2
		ORDER BY seq LIMIT $3 OFFSET $4
	`, tenantID, keyVal, limitArg(page), offsetArg(page))
	if err != nil {
		return nil, oops.With("operation", "list resources").With(column, keyVal).Wrap(err)
	}
	defer rows.Close()

	var out []*faction.Resource
	for rows.Next() {
		res, err := scanResource(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan resource row").Wrap(err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate resources").Wrap(err)
	}
	return out, nil
}

// ListByFaction returns a faction's resources in insertion order.
func (r *ResourceRepository) ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Resource, error) {
	return r.list(ctx, tenantID, "faction_id", factionID.String(), page)
}

// ListByWorld returns resources in insertion order.
func (r *ResourceRepository) ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Resource, error) {
	return r.list(ctx, tenantID, "world_id", worldID.String(), page)
}

// Delete removes a resource record.
func (r *ResourceRepository) Delete(ctx context.Context, tenantID string, id ulid.ULID) error {
	result, err := r.pool.Exec(ctx, `
		DELETE FROM faction_resources WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	if err != nil {
		return oops.With("operation", "delete resource").With("id", id.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("RESOURCE_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

// Transfer moves amount from the source record to the destination
// faction's record of the same resource type, inside one transaction.
// It returns false without error when the source is missing, belongs to
// a different faction, or holds less than the requested amount. The
// destination record is created at zero when the destination faction
// has none of that type yet.
func (r *ResourceRepository) Transfer(ctx context.Context, tenantID string, fromFactionID, toFactionID, resourceID ulid.ULID, amount float64) (bool, error) {
	if amount <= 0 {
		return false, &faction.ValidationError{Field: "amount", Message: "must be positive"}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, oops.With("operation", "transfer resource").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var (
		srcFactionStr, srcWorldStr, srcTypeStr string
		srcAmount                              float64
	)
	err = tx.QueryRow(ctx, `
		SELECT faction_id, world_id, resource_type, amount FROM faction_resources
		WHERE tenant_id = $1 AND id = $2 FOR UPDATE
	`, tenantID, resourceID.String()).Scan(&srcFactionStr, &srcWorldStr, &srcTypeStr, &srcAmount)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, oops.With("operation", "lock source resource").With("id", resourceID.String()).Wrap(err)
	}
	if srcFactionStr != fromFactionID.String() || srcAmount < amount {
		return false, nil
	}

	var dstID string
	err = tx.QueryRow(ctx, `
		SELECT id FROM faction_resources
		WHERE tenant_id = $1 AND faction_id = $2 AND resource_type = $3
		ORDER BY seq LIMIT 1 FOR UPDATE
	`, tenantID, toFactionID.String(), srcTypeStr).Scan(&dstID)
	if errors.Is(err, pgx.ErrNoRows) {
		dstID = r.ids.Next(tenantID).String()
		_, err = tx.Exec(ctx, `
			INSERT INTO faction_resources (tenant_id, id, world_id, faction_id, resource_type,
				amount, generated_at)
			VALUES ($1, $2, $3, $4, $5, 0, $6)
		`, tenantID, dstID, srcWorldStr, toFactionID.String(), srcTypeStr, time.Now().UTC())
	}
	if err != nil {
		return false, oops.With("operation", "resolve destination resource").Wrap(err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE faction_resources SET amount = amount - $3
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, resourceID.String(), amount); err != nil {
		return false, oops.With("operation", "debit source resource").Wrap(err)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE faction_resources SET amount = amount + $3
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, dstID, amount); err != nil {
		return false, oops.With("operation", "credit destination resource").Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, oops.With("operation", "transfer resource").Wrap(err)
	}
	return true, nil
}
