// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/loreforge/loreforge/internal/faction"
)

const leaderColumns = `id, world_id, faction_id, character_id, authority_level, start_date`

// LeaderRepository implements faction.LeaderRepository using PostgreSQL.
type LeaderRepository struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator
}

// NewLeaderRepository creates a new LeaderRepository.
func NewLeaderRepository(pool *pgxpool.Pool, ids *faction.IDGenerator) *LeaderRepository {
	return &LeaderRepository{pool: pool, ids: ids}
}

// Save persists a leader record.
func (r *LeaderRepository) Save(ctx context.Context, l *faction.Leader) error {
	if err := l.Validate(); err != nil {
		return err
	}

	if l.ID.IsZero() {
		l.ID = r.ids.Next(l.TenantID)
		_, err := r.pool.Exec(ctx, `
			INSERT INTO faction_leaders (tenant_id, id, world_id, faction_id, character_id,
				authority_level, start_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, l.TenantID, l.ID.String(), l.WorldID.String(), l.FactionID.String(),
			l.CharacterID.String(), l.AuthorityLevel, l.StartDate)
		if err != nil {
			return insertErr("insert leader", l.ID.String(), err)
		}
		return nil
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE faction_leaders SET world_id = $3, faction_id = $4, character_id = $5,
			authority_level = $6, start_date = $7
		WHERE tenant_id = $1 AND id = $2
	`, l.TenantID, l.ID.String(), l.WorldID.String(), l.FactionID.String(),
		l.CharacterID.String(), l.AuthorityLevel, l.StartDate)
	if err != nil {
		return oops.With("operation", "update leader").With("id", l.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("LEADER_NOT_FOUND").With("id", l.ID.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

func scanLeader(row pgx.Row, tenantID string) (*faction.Leader, error) {
	var (
		l                                         faction.Leader
		idStr, worldStr, factionStr, characterStr string
	)
	err := row.Scan(&idStr, &worldStr, &factionStr, &characterStr, &l.AuthorityLevel, &l.StartDate)
	if err != nil {
		return nil, err
	}
	l.TenantID = tenantID
	if l.ID, err = parseULID(idStr); err != nil {
		return nil, err
	}
	if l.WorldID, err = parseULID(worldStr); err != nil {
		return nil, err
	}
	if l.FactionID, err = parseULID(factionStr); err != nil {
		return nil, err
	}
	if l.CharacterID, err = parseULID(characterStr); err != nil {
		return nil, err
	}
	return &l, nil
}

// FindByID retrieves a leader record.
func (r *LeaderRepository) FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*faction.Leader, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leaderColumns+` FROM faction_leaders
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	l, err := scanLeader(row, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("LEADER_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get leader").With("id", id.String()).Wrap(err)
	}
	return l, nil
}

func (r *LeaderRepository) list(ctx context.Context, tenantID, column, keyVal string, page faction.Page) ([]*faction.Leader, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leaderColumns+` FROM faction_leaders
		WHERE tenant_id = $1 AND `+column+` = $2
		ORDER BY seq LIMIT $3 OFFSET $4
	`, tenantID, keyVal, limitArg(page), offsetArg(page))
	if err != nil {
		return nil, oops.With("operation", "list leaders").With(column, keyVal).Wrap(err)
	}
	defer rows.Close()

	var out []*faction.Leader
	for rows.Next() {
		l, err := scanLeader(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan leader row").Wrap(err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate leaders").Wrap(err)
	}
	return out, nil
}

// ListByFaction returns a faction's leader records in insertion order.
func (r *LeaderRepository) ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Leader, error) {
	return r.list(ctx, tenantID, "faction_id", factionID.String(), page)
}

// ListByWorld returns leader records in insertion order.
func (r *LeaderRepository) ListByWorld(ctx context.Context, tenantID string, worldID ulid.ULID, page faction.Page) ([]*faction.Leader, error) {
	return r.list(ctx, tenantID, "world_id", worldID.String(), page)
}

// Delete removes a leader record unless it is the faction's last one.
func (r *LeaderRepository) Delete(ctx context.Context, tenantID string, id ulid.ULID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.With("operation", "delete leader").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var factionStr string
	err = tx.QueryRow(ctx, `
		SELECT faction_id FROM faction_leaders WHERE tenant_id = $1 AND id = $2 FOR UPDATE
	`, tenantID, id.String()).Scan(&factionStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("LEADER_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return oops.With("operation", "delete leader").With("id", id.String()).Wrap(err)
	}

	var remaining int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM faction_leaders
		WHERE tenant_id = $1 AND faction_id = $2 AND id <> $3
	`, tenantID, factionStr, id.String()).Scan(&remaining)
	if err != nil {
		return oops.With("operation", "count faction leaders").Wrap(err)
	}
	if remaining == 0 {
		return &faction.BusinessRuleError{
			Rule:    faction.RuleLastLeader,
			Message: "cannot delete last leader without replacement",
		}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM faction_leaders WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String()); err != nil {
		return oops.With("operation", "delete leader").With("id", id.String()).Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.With("operation", "delete leader").With("id", id.String()).Wrap(err)
	}
	return nil
}
