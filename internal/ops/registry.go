/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package ops

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

// CommandGroup represents the operational classification of commands
type CommandGroup string

const (
	GroupEdit    CommandGroup = "edit"    // add-file, remove-file, dedupe
	GroupAudit   CommandGroup = "audit"   // verify, info
	GroupSupport CommandGroup = "support" // version, help
)

// CommandRegistration represents a registered command with its classification
type CommandRegistration struct {
	Name        string
	Group       CommandGroup
	Command     *cobra.Command
	Description string
	Mutating    bool // whether the command writes the manifest
}

// Registry manages command classifications and registrations
type Registry struct {
	mu         sync.RWMutex
	commands   map[string]*CommandRegistration
	groupIndex map[CommandGroup][]*CommandRegistration
}

// Global registry instance
var globalRegistry = &Registry{
	commands:   make(map[string]*CommandRegistration),
	groupIndex: make(map[CommandGroup][]*CommandRegistration),
}

// GetRegistry returns the global command registry
func GetRegistry() *Registry {
	return globalRegistry
}

// RegisterCommand registers a command with its operational classification
func RegisterCommand(name string, group CommandGroup, mutating bool, cmd *cobra.Command, description string) error {
	reg := GetRegistry()
	return reg.Register(name, group, mutating, cmd, description)
}

// Register adds a command to the registry
func (r *Registry) Register(name string, group CommandGroup, mutating bool, cmd *cobra.Command, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("command %s already registered", name)
	}

	registration := &CommandRegistration{
		Name:        name,
		Group:       group,
		Command:     cmd,
		Description: description,
		Mutating:    mutating,
	}

	r.commands[name] = registration
	r.groupIndex[group] = append(r.groupIndex[group], registration)

	return nil
}

// GetCommand returns a registered command by name
func (r *Registry) GetCommand(name string) (*CommandRegistration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetCommandsByGroup returns all commands in a specific group
func (r *Registry) GetCommandsByGroup(group CommandGroup) []*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groupIndex[group]
}

// GetMutatingCommands returns every command that writes the manifest.
// The root command attaches the shared --manifest and --backup flags to
// exactly this set.
func (r *Registry) GetMutatingCommands() []*CommandRegistration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*CommandRegistration
	for _, group := range []CommandGroup{GroupEdit, GroupAudit, GroupSupport} {
		for _, reg := range r.groupIndex[group] {
			if reg.Mutating {
				out = append(out, reg)
			}
		}
	}
	return out
}
