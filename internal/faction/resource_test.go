// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

package faction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_Validate(t *testing.T) {
	valid := func() *Resource {
		return &Resource{TenantID: "t1", Type: ResourceGold, Amount: 100}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("zero amount is allowed", func(t *testing.T) {
		r := valid()
		r.Amount = 0
		assert.NoError(t, r.Validate())
	})

	t.Run("custom type is allowed", func(t *testing.T) {
		r := valid()
		r.Type = "obsidian"
		assert.NoError(t, r.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*Resource)
		field  string
	}{
		{"missing tenant", func(r *Resource) { r.TenantID = "" }, "tenant_id"},
		{"missing type", func(r *Resource) { r.Type = "" }, "resource_type"},
		{"negative amount", func(r *Resource) { r.Amount = -0.01 }, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			var verr *ValidationError
			require.ErrorAs(t, r.Validate(), &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
