// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Role is a character's standing within a faction.
type Role string

// Membership roles.
const (
	RoleLeader  Role = "leader"
	RoleOfficer Role = "officer"
	RoleMember  Role = "member"
	RoleRecruit Role = "recruit"
	RoleBanned  Role = "banned"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Validate checks that the role is one of the enumerated values.
func (r Role) Validate() error {
	switch r {
	case RoleLeader, RoleOfficer, RoleMember, RoleRecruit, RoleBanned:
		return nil
	default:
		return &ValidationError{Field: "role", Message: fmt.Sprintf("invalid role %q", string(r))}
	}
}

// Membership is one character's relationship to one faction. A membership
// with the leader role cannot be deleted through the membership path;
// removal must go through leader succession.
type Membership struct {
	ID          ulid.ULID
	TenantID    string
	WorldID     ulid.ULID
	FactionID   ulid.ULID
	CharacterID ulid.ULID
	Role        Role
	BanReason   string
	BanEndDate  *time.Time
	JoinedAt    time.Time
}

// Validate checks membership invariants. At least one of faction or
// character must be set.
func (m *Membership) Validate() error {
	if m.TenantID == "" {
		return &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}
	if m.FactionID.IsZero() && m.CharacterID.IsZero() {
		return &ValidationError{Field: "faction_id", Message: "faction or character must be set"}
	}
	if err := m.Role.Validate(); err != nil {
		return err
	}
	return nil
}

// BanExpired reports whether a ban has lapsed at the given time. Expiry
// is never swept in the background; callers check it explicitly.
func (m *Membership) BanExpired(now time.Time) bool {
	return m.Role == RoleBanned && m.BanEndDate != nil && now.After(*m.BanEndDate)
}
