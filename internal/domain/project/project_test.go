package project

import (
	"strings"
	"testing"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewProject(t *testing.T) {
	t.Run("creates project", func(t *testing.T) {
		p, err := NewProject("Website", strPtr("Landing page"))

		require.NoError(t, err)
		assert.Equal(t, "Website", p.Name)
		require.NotNil(t, p.Description)
		assert.Equal(t, "Landing page", *p.Description)
	})

	t.Run("empty description becomes nil", func(t *testing.T) {
		p, err := NewProject("Website", strPtr("   "))

		require.NoError(t, err)
		assert.Nil(t, p.Description)
	})

	t.Run("fails without name", func(t *testing.T) {
		p, err := NewProject("  ", nil)

		assert.Nil(t, p)
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"The name field is required."}, verr.Fields["name"])
	})

	t.Run("accepts 255 characters", func(t *testing.T) {
		_, err := NewProject(strings.Repeat("a", 255), nil)
		assert.NoError(t, err)
	})

	t.Run("rejects 256 characters", func(t *testing.T) {
		_, err := NewProject(strings.Repeat("a", 256), nil)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "name")
	})
}

func TestProject_RenameKeepsDescription(t *testing.T) {
	p, err := NewProject("Website", strPtr("Landing page"))
	require.NoError(t, err)

	require.NoError(t, p.Rename("Portal"))

	assert.Equal(t, "Portal", p.Name)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Landing page", *p.Description)

	p.Describe(nil)
	assert.Nil(t, p.Description)
}

func TestProject_CustomerIDs(t *testing.T) {
	p := &Project{Customers: []partner.Customer{{ID: 4}, {ID: 9}}}
	assert.Equal(t, []uint{4, 9}, p.CustomerIDs())
}

func TestSyncCustomerIDs(t *testing.T) {
	tests := []struct {
		name       string
		current    []uint
		target     []uint
		wantAttach []uint
		wantDetach []uint
	}{
		{"replace one", []uint{1, 2}, []uint{2, 3}, []uint{3}, []uint{1}},
		{"attach all", nil, []uint{1, 2}, []uint{1, 2}, []uint{}},
		{"detach all", []uint{1, 2}, []uint{}, []uint{}, []uint{1, 2}},
		{"unchanged", []uint{5}, []uint{5}, []uint{}, []uint{}},
		{"duplicates in target", []uint{1}, []uint{2, 2, 1}, []uint{2}, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := SyncCustomerIDs(tt.current, tt.target)

			assert.ElementsMatch(t, tt.wantAttach, plan.Attach)
			assert.ElementsMatch(t, tt.wantDetach, plan.Detach)
		})
	}

	t.Run("empty plan", func(t *testing.T) {
		assert.True(t, SyncCustomerIDs([]uint{1}, []uint{1}).IsEmpty())
	})
}
