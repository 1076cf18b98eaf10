/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package buildinfo resolves the goproj version reported by the version
// command and embedded in verification reports.
package buildinfo

import "runtime/debug"

// BinaryVersion is set at build time via -ldflags. Defaults to "dev".
var BinaryVersion = "dev"

// ModuleVersion returns the module version embedded by the Go toolchain
// (when available).
func ModuleVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return ""
}

// Version resolves the version to report: the ldflags-injected binary
// version when set, otherwise the toolchain-embedded module version.
func Version() string {
	if BinaryVersion != "dev" {
		return BinaryVersion
	}
	if mod := ModuleVersion(); mod != "" {
		return mod
	}
	return BinaryVersion
}
