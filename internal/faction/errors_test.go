// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"fmt"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "name", Message: "cannot be empty"}
	assert.Equal(t, "name: cannot be empty", err.Error())
}

func TestBusinessRuleError_Error(t *testing.T) {
	err := &BusinessRuleError{Rule: RuleLastLeader, Message: "faction would be leaderless"}
	assert.Equal(t, "last_leader: faction would be leaderless", err.Error())
}

func TestCircularDependencyError_Error(t *testing.T) {
	gen := NewIDGenerator()
	a := gen.Next("t1")
	b := gen.Next("t1")

	t.Run("with cycle path", func(t *testing.T) {
		err := &CircularDependencyError{
			TenantID:  "t1",
			FactionID: a,
			Cycle:     []ulid.ULID{a, b, a},
		}
		want := fmt.Sprintf("faction %s would create a hierarchy cycle: %s -> %s -> %s", a, a, b, a)
		assert.Equal(t, want, err.Error())
	})

	t.Run("without cycle path", func(t *testing.T) {
		err := &CircularDependencyError{TenantID: "t1", FactionID: a}
		assert.Equal(t, fmt.Sprintf("faction %s would create a hierarchy cycle", a), err.Error())
	})
}
