package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultInventoryPolicy(t *testing.T) {
	policy := DefaultInventoryPolicy()

	assert.Equal(t, "pcs", policy.DefaultUnit)
	assert.Equal(t, int64(5), policy.DefaultThreshold)
	assert.Equal(t, 200, policy.MaxNoteLength)
	assert.Equal(t, 100, policy.MaxNameLength)
	assert.NoError(t, validateInventoryPolicy(policy))
}

func TestValidateInventoryPolicy(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*InventoryPolicy)
	}{
		{"blank unit", func(p *InventoryPolicy) { p.DefaultUnit = "  " }},
		{"negative threshold", func(p *InventoryPolicy) { p.DefaultThreshold = -1 }},
		{"zero note length", func(p *InventoryPolicy) { p.MaxNoteLength = 0 }},
		{"zero name length", func(p *InventoryPolicy) { p.MaxNameLength = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := DefaultInventoryPolicy()
			tc.mutate(&policy)
			assert.Error(t, validateInventoryPolicy(policy))
		})
	}
}

func TestPolicyHolderDefaultsWhenFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	holder, err := NewPolicyHolder()
	require.NoError(t, err)
	assert.Equal(t, DefaultInventoryPolicy(), holder.Get())
}

func TestPolicyHolderPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "inventory.yml"),
		[]byte("inventory:\n  defaultThreshold: 9\n"),
		0o644,
	))

	holder, err := NewPolicyHolder()
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, int64(9), policy.DefaultThreshold)
	assert.Equal(t, "pcs", policy.DefaultUnit)
	assert.Equal(t, 200, policy.MaxNoteLength)
	assert.Equal(t, 100, policy.MaxNameLength)
}

func TestStaticPolicyHolder(t *testing.T) {
	policy := DefaultInventoryPolicy()
	policy.DefaultThreshold = 12

	holder := NewStaticPolicyHolder(policy)
	assert.Equal(t, policy, holder.Get())
}
