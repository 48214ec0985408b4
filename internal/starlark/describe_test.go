package starlark

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/inference"
)

func TestDescribe(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "za_postcode.star", zaPostcode)

	hooks, err := NewLoader(dir, nil).Load()
	require.NoError(t, err)

	registry := inference.DefaultRegistry()
	require.NoError(t, Register(registry, hooks))

	infos := Describe(registry)
	require.Len(t, infos, 6)
	assert.Equal(t, HookInfo{ID: "allowed_values", Kind: KindBuiltin}, infos[0])
	assert.Equal(t, HookInfo{ID: "numeric_values", Kind: KindBuiltin}, infos[4])
	assert.Equal(t, HookInfo{
		ID:   "za_postcode",
		Kind: KindCustom,
		Path: filepath.Join(dir, "za_postcode.star"),
	}, infos[5])
}
