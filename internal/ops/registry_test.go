/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return &Registry{
		commands:   make(map[string]*CommandRegistration),
		groupIndex: make(map[CommandGroup][]*CommandRegistration),
	}
}

func TestRegisterAndGet(t *testing.T) {
	r := newTestRegistry()
	cmd := &cobra.Command{Use: "add-file"}

	require.NoError(t, r.Register("add-file", GroupEdit, true, cmd, "Add a file"))

	reg, ok := r.GetCommand("add-file")
	require.True(t, ok)
	assert.Equal(t, "add-file", reg.Name)
	assert.Equal(t, GroupEdit, reg.Group)
	assert.True(t, reg.Mutating)
	assert.Same(t, cmd, reg.Command)

	_, ok = r.GetCommand("unknown")
	assert.False(t, ok)
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRegistry()
	cmd := &cobra.Command{Use: "verify"}

	require.NoError(t, r.Register("verify", GroupAudit, false, cmd, "Verify"))
	err := r.Register("verify", GroupAudit, false, cmd, "Verify again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestGetCommandsByGroup(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Register("add-file", GroupEdit, true, &cobra.Command{Use: "add-file"}, "Add"))
	require.NoError(t, r.Register("remove-file", GroupEdit, true, &cobra.Command{Use: "remove-file"}, "Remove"))
	require.NoError(t, r.Register("verify", GroupAudit, false, &cobra.Command{Use: "verify"}, "Verify"))

	edit := r.GetCommandsByGroup(GroupEdit)
	assert.Len(t, edit, 2)
	audit := r.GetCommandsByGroup(GroupAudit)
	require.Len(t, audit, 1)
	assert.Equal(t, "verify", audit[0].Name)
	assert.Empty(t, r.GetCommandsByGroup(GroupSupport))
}

func TestGetMutatingCommands(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.Register("add-file", GroupEdit, true, &cobra.Command{Use: "add-file"}, "Add"))
	require.NoError(t, r.Register("dedupe", GroupEdit, true, &cobra.Command{Use: "dedupe"}, "Dedupe"))
	require.NoError(t, r.Register("verify", GroupAudit, false, &cobra.Command{Use: "verify"}, "Verify"))
	require.NoError(t, r.Register("version", GroupSupport, false, &cobra.Command{Use: "version"}, "Version"))

	mutating := r.GetMutatingCommands()
	require.Len(t, mutating, 2)
	for _, reg := range mutating {
		assert.True(t, reg.Mutating)
		assert.Equal(t, GroupEdit, reg.Group)
	}
}

func TestGlobalRegistry(t *testing.T) {
	assert.Same(t, globalRegistry, GetRegistry())
}
