// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// IdeologyType is the categorical niche an ideology occupies. Types are
// open-ended; only the neutral type carries special compatibility rules.
type IdeologyType string

// Well-known ideology types.
const (
	IdeologyNeutral     IdeologyType = "neutral"
	IdeologyMilitarist  IdeologyType = "militarist"
	IdeologyMercantile  IdeologyType = "mercantile"
	IdeologyTheocratic  IdeologyType = "theocratic"
	IdeologyEgalitarian IdeologyType = "egalitarian"
)

// MinIdeologyDescription is the minimum description length in bytes.
const MinIdeologyDescription = 10

// Ideology is a faction's belief profile. Immutable once created except
// via explicit rule updates.
type Ideology struct {
	ID           ulid.ULID
	TenantID     string
	WorldID      ulid.ULID
	FactionID    ulid.ULID
	Type         IdeologyType
	Name         string
	Description  string
	Rules        map[string]any
	Restrictions []string
	Benefits     []string
	Penalties    []string
	CreatedAt    time.Time
}

// Validate checks ideology invariants.
func (i *Ideology) Validate() error {
	if i.TenantID == "" {
		return &ValidationError{Field: "tenant_id", Message: "cannot be empty"}
	}
	if i.Name == "" {
		return &ValidationError{Field: "name", Message: "cannot be empty"}
	}
	if i.Type == "" {
		return &ValidationError{Field: "ideology_type", Message: "cannot be empty"}
	}
	if len(i.Description) < MinIdeologyDescription {
		return &ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("must be at least %d characters", MinIdeologyDescription),
		}
	}
	return nil
}

// Compatible reports whether two ideologies can ally. Mirror ideologies
// sharing the identical type compete for the same niche and cannot ally;
// that rule is checked first, so two neutral ideologies are incompatible.
// Otherwise a neutral party is compatible with anyone, and everything
// else defaults to compatible. The default is a deliberate placeholder
// for a richer compatibility matrix. The relation is symmetric.
func Compatible(a, b *Ideology) bool {
	if a.Type == b.Type {
		return false
	}
	if a.Type == IdeologyNeutral || b.Type == IdeologyNeutral {
		return true
	}
	return true
}

// RulesView is a read-only projection of an ideology's rule set.
type RulesView struct {
	Rules        map[string]any
	Restrictions []string
	Benefits     []string
	Penalties    []string
}

// RulesView projects the ideology's rules into a detached read-only view.
func (i *Ideology) RulesView() RulesView {
	v := RulesView{
		Restrictions: append([]string(nil), i.Restrictions...),
		Benefits:     append([]string(nil), i.Benefits...),
		Penalties:    append([]string(nil), i.Penalties...),
	}
	if len(i.Rules) > 0 {
		v.Rules = make(map[string]any, len(i.Rules))
		for k, val := range i.Rules {
			v.Rules[k] = val
		}
	}
	return v
}
