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

const membershipColumns = `id, world_id, faction_id, character_id, role, ban_reason,
	ban_end_date, joined_at`

// MembershipRepository implements faction.MembershipRepository using PostgreSQL.
type MembershipRepository struct {
	pool *pgxpool.Pool
	ids  *faction.IDGenerator
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(pool *pgxpool.Pool, ids *faction.IDGenerator) *MembershipRepository {
	return &MembershipRepository{pool: pool, ids: ids}
}

// Save persists a membership.
func (r *MembershipRepository) Save(ctx context.Context, m *faction.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}

	if m.ID.IsZero() {
		m.ID = r.ids.Next(m.TenantID)
		m.JoinedAt = time.Now().UTC()
		_, err := r.pool.Exec(ctx, `
			INSERT INTO faction_memberships (tenant_id, id, world_id, faction_id, character_id,
				role, ban_reason, ban_end_date, joined_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, m.TenantID, m.ID.String(), m.WorldID.String(), m.FactionID.String(),
			m.CharacterID.String(), string(m.Role), m.BanReason, m.BanEndDate, m.JoinedAt)
		if err != nil {
			return insertErr("insert membership", m.ID.String(), err)
		}
		return nil
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE faction_memberships SET world_id = $3, faction_id = $4, character_id = $5,
			role = $6, ban_reason = $7, ban_end_date = $8
		WHERE tenant_id = $1 AND id = $2
	`, m.TenantID, m.ID.String(), m.WorldID.String(), m.FactionID.String(),
		m.CharacterID.String(), string(m.Role), m.BanReason, m.BanEndDate)
	if err != nil {
		return oops.With("operation", "update membership").With("id", m.ID.String()).Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("MEMBERSHIP_NOT_FOUND").With("id", m.ID.String()).Wrap(faction.ErrNotFound)
	}
	return nil
}

func scanMembership(row pgx.Row, tenantID string) (*faction.Membership, error) {
	var (
		m                                         faction.Membership
		idStr, worldStr, factionStr, characterStr string
		roleStr                                   string
	)
	err := row.Scan(&idStr, &worldStr, &factionStr, &characterStr, &roleStr,
		&m.BanReason, &m.BanEndDate, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	m.TenantID = tenantID
	m.Role = faction.Role(roleStr)
	if m.ID, err = parseULID(idStr); err != nil {
		return nil, err
	}
	if m.WorldID, err = parseULID(worldStr); err != nil {
		return nil, err
	}
	if m.FactionID, err = parseULID(factionStr); err != nil {
		return nil, err
	}
	if m.CharacterID, err = parseULID(characterStr); err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByID retrieves a membership.
func (r *MembershipRepository) FindByID(ctx context.Context, tenantID string, id ulid.ULID) (*faction.Membership, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+` FROM faction_memberships
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String())
	m, err := scanMembership(row, tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get membership").With("id", id.String()).Wrap(err)
	}
	return m, nil
}

func (r *MembershipRepository) list(ctx context.Context, tenantID, column, keyVal string, page faction.Page) ([]*faction.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+membershipColumns+` FROM faction_memberships
		WHERE tenant_id = $1 AND `+column+` = $2
		ORDER BY seq LIMIT $3 OFFSET $4
	`, tenantID, keyVal, limitArg(page), offsetArg(page))
	if err != nil {
		return nil, oops.With("operation", "list memberships").With(column, keyVal).Wrap(err)
	}
	defer rows.Close()

	var out []*faction.Membership
	for rows.Next() {
		m, err := scanMembership(rows, tenantID)
		if err != nil {
			return nil, oops.With("operation", "scan membership row").Wrap(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate memberships").Wrap(err)
	}
	return out, nil
}

// ListByFaction returns a faction's memberships in insertion order.
func (r *MembershipRepository) ListByFaction(ctx context.Context, tenantID string, factionID ulid.ULID, page faction.Page) ([]*faction.Membership, error) {
	return r.list(ctx, tenantID, "faction_id", factionID.String(), page)
}

// ListByCharacter returns a character's memberships in insertion order.
func (r *MembershipRepository) ListByCharacter(ctx context.Context, tenantID string, characterID ulid.ULID, page faction.Page) ([]*faction.Membership, error) {
	return r.list(ctx, tenantID, "character_id", characterID.String(), page)
}

// Delete removes a membership. Leader-role memberships are protected and
// must be removed through leader succession.
func (r *MembershipRepository) Delete(ctx context.Context, tenantID string, id ulid.ULID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return oops.With("operation", "delete membership").Wrap(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var roleStr string
	err = tx.QueryRow(ctx, `
		SELECT role FROM faction_memberships WHERE tenant_id = $1 AND id = $2 FOR UPDATE
	`, tenantID, id.String()).Scan(&roleStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("MEMBERSHIP_NOT_FOUND").With("id", id.String()).Wrap(faction.ErrNotFound)
	}
	if err != nil {
		return oops.With("operation", "delete membership").With("id", id.String()).Wrap(err)
	}
	if faction.Role(roleStr) == faction.RoleLeader {
		return &faction.BusinessRuleError{
			Rule:    faction.RuleLeaderMembership,
			Message: "leader memberships can only be removed through succession",
		}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM faction_memberships WHERE tenant_id = $1 AND id = $2
	`, tenantID, id.String()); err != nil {
		return oops.With("operation", "delete membership").With("id", id.String()).Wrap(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return oops.With("operation", "delete membership").With("id", id.String()).Wrap(err)
	}
	return nil
}
