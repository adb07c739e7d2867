// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Authority level bounds.
const (
	MinAuthorityLevel = 1
	MaxAuthorityLevel = 10
)

// Leader is a current or historical officeholder. Steady state is exactly
// one active leader per faction; multiple concurrent records exist only
// transiently during succession.
type Leader struct {
	ID             ulid.ULID
	TenantID       string
	WorldID        ulid.ULID
	FactionID      ulid.ULID
	CharacterID    ulid.ULID
	AuthorityLevel int // 0 means unset, otherwise 1..10
	StartDate      time.Time
}

// Validate checks leader invariants.
func (l *Leader) Validate() error {
	if l.TenantID == "" {
		return &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}
	if l.FactionID.IsZero() {
		return &ValidationError{Field: "faction_id", Message: "cannot be empty"}
	}
	if l.CharacterID.IsZero() {
		return &ValidationError{Field: "character_id", Message: "cannot be empty"}
	}
	if l.AuthorityLevel != 0 &&
		(l.AuthorityLevel < MinAuthorityLevel || l.AuthorityLevel > MaxAuthorityLevel) {
		return &ValidationError{
			Field:   "authority_level",
			Message: fmt.Sprintf("must be between %d and %d", MinAuthorityLevel, MaxAuthorityLevel),
		}
	}
	return nil
}

// HasAuthority reports whether the leader meets the required level.
func (l *Leader) HasAuthority(required int) bool {
	return l.AuthorityLevel >= required
}

// SuccessionStrategy selects a successor after a leader record has been
// removed. The removal has already committed when the strategy runs;
// cross-store flows are not transactional and callers must tolerate a
// faction briefly keeping only its remaining leader records.
type SuccessionStrategy interface {
	// ChooseSuccessor returns the character to appoint, or ok=false when
	// the strategy declines to name one.
	ChooseSuccessor(ctx context.Context, tenantID string, factionID ulid.ULID) (characterID ulid.ULID, ok bool, err error)
}

// NopSuccession is the default strategy: it never names a successor.
// Selecting one (seniority, authority, election) is an open extension
// point and deliberately not guessed here.
type NopSuccession struct{}

// ChooseSuccessor declines to name a successor.
func (NopSuccession) ChooseSuccessor(context.Context, string, ulid.ULID) (ulid.ULID, bool, error) {
	return ulid.ULID{}, false, nil
}
