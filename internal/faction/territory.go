// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"math/rand/v2"
	"time"

	"github.com/oklog/ulid/v2"
)

// Conquest roll bounds. The attack offset is drawn uniformly from
// [MinConquestOffset, MaxConquestOffset] inclusive.
const (
	MinConquestOffset = -10
	MaxConquestOffset = 10
)

// Territory is one controlled location. A nil owner means the territory
// is neutral.
type Territory struct {
	ID           ulid.ULID
	TenantID     string
	WorldID      ulid.ULID
	Name         string
	OwnerFaction *ulid.ULID
	ControlLevel int
	Area         float64
	CreatedAt    time.Time
}

// Validate checks territory invariants.
func (t *Territory) Validate() error {
	if t.TenantID == "" {
		return &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}
	if t.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if t.Area < 0 {
		return &ValidationError{Field: "area", Message: "cannot be negative"}
	}
	return nil
}

// OwnedBy reports whether the territory is owned by the given faction.
func (t *Territory) OwnedBy(factionID ulid.ULID) bool {
	return t.OwnerFaction != nil && *t.OwnerFaction == factionID
}

// ConflictOutcome is the three-way result of a conquest attempt.
type ConflictOutcome int

// Conquest outcomes.
const (
	// DefenderHolds: attack strength was strictly below defense; ownership
	// is unchanged.
	DefenderHolds ConflictOutcome = iota
	// AttackerWins: attack strength exceeded defense; ownership transfers
	// to the attacker.
	AttackerWins
	// TerritoryNeutralized: attack and defense were exactly equal; the
	// territory falls to neither side and ownership clears to neutral.
	TerritoryNeutralized
)

// String returns the string representation of the outcome.
func (o ConflictOutcome) String() string {
	switch o {
	case AttackerWins:
		return "attacker_wins"
	case TerritoryNeutralized:
		return "neutralized"
	default:
		return "defender_holds"
	}
}

// ResolveConflict applies the conquest rule: the attack strength is the
// defense strength plus the rolled offset. Strictly greater means the
// attacker wins, strictly less means the defender holds, and exactly
// equal neutralizes the territory.
func ResolveConflict(defenseStrength, offset int) ConflictOutcome {
	attack := defenseStrength + offset
	switch {
	case attack > defenseStrength:
		return AttackerWins
	case attack < defenseStrength:
		return DefenderHolds
	default:
		return TerritoryNeutralized
	}
}

// OffsetSource supplies conquest roll offsets. Injecting the source keeps
// the one nondeterministic path in the faction system testable.
type OffsetSource interface {
	// ConquestOffset returns a value in [MinConquestOffset, MaxConquestOffset].
	ConquestOffset() int
}

// RandomOffsets draws offsets uniformly from math/rand/v2.
type RandomOffsets struct{}

// ConquestOffset returns a uniform offset in [-10, 10] inclusive.
func (RandomOffsets) ConquestOffset() int {
	return rand.IntN(MaxConquestOffset-MinConquestOffset+1) + MinConquestOffset
}

// TerritorySummary aggregates a faction's holdings. Borders is a
// documented stub and is always empty.
type TerritorySummary struct {
	FactionID      ulid.ULID
	TerritoryCount int
	TotalArea      float64
	Borders        []ulid.ULID
}
