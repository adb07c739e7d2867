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

const hierarchyColumns = `id, world_id, faction_id, parent_faction, influence,
	member_count, resource_count, territory_count, created_at, updated_at`

// HierarchyRepository implements faction.HierarchyRepository using PostgreSQL.
type HierarchyRepository struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator
}

// NewHierarchyRepository creates a new HierarchyRepository.
func NewHierarchyRepository(pool *pgxpool.Pool, ids *faction.IDGenerator) *HierarchyRepository {
	return &HierarchyRepository{pool: pool, ids: ids}
}

// Save persists a hierarchy node, running global cycle detection inside
// the transaction when a parent is set. A rejected save commits nothing.
func (r *HierarchyRepository) Save(ctx context.Context, h *faction.Hierarchy) error {
	if err := h.Validate(); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.With("operation", "save hierarchy").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if h.ParentFaction != nil {
		edges, err := loadEdges(ctx, tx, h.TenantID, h.ID)
		if err != nil {
			return err
		}
		edges = append(edges, faction.Edge{Parent: *h.ParentFaction, Child: h.FactionID})
		if cycle := faction.FindCycle(edges); cycle != nil {
			return &faction.CircularDependencyError{
				TenantID:  h.TenantID,
				FactionID: h.FactionID,
				Cycle:     cycle,
			}
		}
	}

	now := time.Now().UTC()
	if h.ID.IsZero() {
		h.ID = r.ids.Next(h.TenantID)
		h.CreatedAt = now
		h.UpdatedAt = now
		_, err = tx.Exec(ctx, `
			INSERT INTO faction_hierarchies (tenant_id, id, world_id, faction_id, parent_faction,
				influence, member_count, resource_count, territory_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, h.TenantID, h.ID.String(), h.WorldID.String(), h.FactionID.String(),
			ulidToStringPtr(h.ParentFaction), h.Influence,
			h.MemberCount, h.ResourceCount, h.TerritoryCount, h.CreatedAt, h.UpdatedAt)
		if err != nil {
			return insertErr("insert hierarchy", h.ID.String(), err)
		}
	} else {
		h.UpdatedAt = now
		result, err := tx.Exec(ctx, `
			UPDATE faction_hierarchies SET world_id = $3, faction_id = $4, parent_faction = $5,
				influence = $6, member_count = $7, resource_count = $8, territory_count = $9,
				updated_at = $10
			WHERE tenant_id = $1 AND id = $2
		`, h.TenantID, h.ID.String(), h.WorldID.String(), h.FactionID.String(),
			ulidToStringPtr(h.ParentFaction), h.Influence,
			h.MemberCount, h.ResourceCount, h.TerritoryCount, h.UpdatedAt)
		if err != nil {
			return oops.With("operation", "update hierarchy").With("id", h.ID.String()).Wrap(err)
		}
		if result.RowsAffected() == 0 {
			return oops.Code("HIERARCHY_NOT_FOUND").With("id", h.ID.String()).Wrap(faction.ErrNotFound)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.With("operation", "save hierarchy").With("id", h.ID.String()).Wrap(err)
	}
	return nil
}

// loadEdges reads the tenant's parent/child edge set, excluding the node
// being replaced. The rows are locked so a concurrent save cannot slip a
// conflicting edge in underneath the cycle check.
func loadEdges(ctx context.Context, tx pgx.Tx, tenantID string, excludeID ulid.ULID) ([]faction.Edge, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, faction_id, parent_faction FROM faction_hierarchies
		WHERE tenant_id = $1 FOR UPDATE
	`, tenantID)
	if err != nil {
		return nil, oops.With("operation", "load hierarchy edges").Wrap(err)
	}
	defer rows.Close()

	var edges []faction.Edge
	for rows.Next() {
		var idStr, factionStr string
		var parentStr *string
		if err := rows.Scan(&idStr, &factionStr, &parentStr); err != nil {
			return nil, oops.With("operation", "scan hierarchy edge").Wrap(err)
		}
		id, err := parseULID(idStr)
		if err != nil {
			return nil, err
		}
		if id == excludeID || parentStr == nil {
			continue
		}
		child, err := parseULID(factionStr)
		if err != nil {
			return nil, err
		}
		parent, err := parseULID(*parentStr)
		if err != nil {
			return nil, err
		}
		edges = append(edges, faction.Edge{Parent: parent, Child: child})
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate hierarchy edges").Wrap(err)
	}
	return edges, nil
}

func scanHierarchy(row pgx.Row, tenantID string) (*faction.Hierarchy, error) {
	var (
		h                           faction.Hierarchy
		idStr, worldStr, factionStr string
		parentStr                   *string
	)
	err := row.Scan(&idStr, &worldStr, &factionStr, &parentStr, &h.Influence,
		&h.MemberCount, &h.ResourceCount, &h.TerritoryCount, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.TenantID = tenantID
	if h.ID, err = parseULID(idStr); err != nil {
		return nil, err
	}
	if h.WorldID, err = parseULID(worldStr); err != nil {
		return nil, err
	}
	if h.FactionID, err = parseULID(factionStr); err != nil {
		return nil, err
	}
	if h.ParentFaction, err = ulidFromStringPtr(parentStr); err != nil {
		return nil, err
	}
	return &h, nil
}

// FindByID retrieves a hierarchy node.
func (r *HierarchyRepository) FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*faction.Hierarchy, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+hierarchyColumns+` FROM faction_hierarchies
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	h, err := scanHierarchy(row, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("HIERARCHY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get hierarchy").With("id", id.String()).Wrap(err)
	}
	return h, nil
}

// ListByWorld returns hierarchy nodes in insertion order.
func (r *HierarchyRepository) ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Hierarchy, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+hierarchyColumns+` FROM faction_hierarchies
		WHERE tenant_id = $1 AND world_id = $2
		ORDER BY seq LIMIT $3 OFFSET $4
	`, tenantID, worldID.String(), limitArg(page), offsetArg(page))
	if err != nil {
		return nil, oops.With("operation", "list hierarchies by world").Wrap(err)
	}
	defer rows.Close()

	var out []*faction.Hierarchy
	for rows.Next() {
		h, err := scanHierarchy(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan hierarchy row").Wrap(err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate hierarchies").Wrap(err)
	}
	return out, nil
}

// Delete removes a hierarchy node unless another node still references
// its faction as a parent.
func (r *HierarchyRepository) Delete(ctx context.Context, tenantID string, id ulid.ULID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.With("operation", "delete hierarchy").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var factionStr string
	err = tx.QueryRow(ctx, `
		SELECT faction_id FROM faction_hierarchies WHERE tenant_id = $1 AND id = $2 FOR UPDATE
	`, tenantID, id.String()).Scan(&factionStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("HIERARCHY_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return oops.With("operation", "delete hierarchy").With("id", id.String()).Wrap(err)
	}

	var referenced bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM faction_hierarchies
			WHERE tenant_id = $1 AND parent_faction = $2 AND id <> $3
		)
	`, tenantID, factionStr, id.String()).Scan(&referenced)
	if err != nil {
		return oops.With("operation", "check hierarchy references").Wrap(err)
	}
	if referenced {
		return &faction.BusinessRuleError{
			Rule:    faction.RuleReferencedParent,
			Message: "hierarchy node is still referenced as a parent",
		}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM faction_hierarchies WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String()); err != nil {
		return oops.With("operation", "delete hierarchy").With("id", id.String()).Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.With("operation", "delete hierarchy").With("id", id.String()).Wrap(err)
	}
	return nil
}

// FactionTree loads the tenant's nodes and walks breadth-first from the
// root faction.
func (r *HierarchyRepository) FactionTree(ctx context.Context, tenantID string, rootFactionID ulid.ULID) (*faction.FactionTree, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+hierarchyColumns+` FROM faction_hierarchies WHERE tenant_id = $1 ORDER BY seq
	`, tenantID)
	if err != nil {
		return nil, oops.With("operation", "load faction tree").Wrap(err)
	}
	defer rows.Close()

	byFaction := make(map[ulid.ULID]*faction.Hierarchy)
	for rows.Next() {
		h, err := scanHierarchy(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan hierarchy row").Wrap(err)
		}
		byFaction[h.FactionID] = h
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate hierarchies").Wrap(err)
	}
	if _, ok := byFaction[rootFactionID]; !ok {
		return nil, oops.Code("HIERARCHY_NOT_FOUND").With("faction_id", rootFactionID.String()).Wrap(faction.ErrNotFound)
	}
	return faction.BuildFactionTree(rootFactionID, byFaction), nil
}
