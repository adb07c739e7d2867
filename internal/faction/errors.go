// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when an entity is not found.
var ErrNotFound = errors.New("not found")

// ValidationError represents an input validation error.
// It is always raised before any mutation takes place.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BusinessRuleError represents an operation that is individually
// well-formed but violates a cross-cutting rule, such as deleting a
// faction's last leader or a hierarchy node still referenced as a parent.
// It is always raised before any mutation takes place.
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Rule, e.Message)
}

// Business rule identifiers.
const (
	RuleLastLeader       = "last_leader"
	RuleReferencedParent = "referenced_parent"
	RuleLeaderMembership = "leader_membership"
)

// CircularDependencyError is returned when a hierarchy save would
// introduce a cycle in the faction parent/child graph. The attempted
// edge is never persisted.
type CircularDependencyError struct {
	TenantID  string
	FactionID ulid.ULID
	Cycle     []ulid.ULID
}

func (e *CircularDependencyError) Error() string {
	if len(e.Cycle) == 0 {
		return fmt.Sprintf("faction %s would create a hierarchy cycle", e.FactionID)
	}
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = id.String()
	}
	return fmt.Sprintf("faction %s would create a hierarchy cycle: %s", e.FactionID, strings.Join(parts, " -> "))
}
