package tree

import (
	"path/filepath"
	"strings"
)

// hiddenEntryPrefix marks entries hidden by convention on Unix-like systems.
const hiddenEntryPrefix = "."

// IgnorePolicy decides which entries are rendered and which directories are descended into.
// A policy is immutable once constructed.
type IgnorePolicy struct {
	ignoredNames    []string
	suppressedNames map[string]struct{}
	reservedName    string
	disabled        bool
	showHidden      bool
}

// PolicyOptions lists the inputs used to construct an IgnorePolicy.
type PolicyOptions struct {
	// IgnoredNames are entry names excluded from rendering and recursion.
	// Each value is compared with the entry name exactly and as a filepath.Match pattern.
	IgnoredNames []string
	// SuppressedNames are directory names rendered without their contents.
	SuppressedNames []string
	// ReservedName is the output artifact name, excluded unless ignoring is disabled.
	ReservedName string
	// Disabled turns off exclusion by ignored and reserved names.
	Disabled bool
	// ShowHidden keeps dot-prefixed entries.
	ShowHidden bool
}

// NewIgnorePolicy builds an IgnorePolicy from the provided options.
func NewIgnorePolicy(options PolicyOptions) IgnorePolicy {
	ignoredNames := make([]string, 0, len(options.IgnoredNames))
	for _, ignoredName := range options.IgnoredNames {
		trimmedName := strings.TrimSpace(ignoredName)
		if trimmedName == "" {
			continue
		}
		ignoredNames = append(ignoredNames, trimmedName)
	}
	suppressedNames := make(map[string]struct{}, len(options.SuppressedNames))
	for _, suppressedName := range options.SuppressedNames {
		trimmedName := strings.TrimSpace(suppressedName)
		if trimmedName == "" {
			continue
		}
		suppressedNames[trimmedName] = struct{}{}
	}
	return IgnorePolicy{
		ignoredNames:    ignoredNames,
		suppressedNames: suppressedNames,
		reservedName:    options.ReservedName,
		disabled:        options.Disabled,
		showHidden:      options.ShowHidden,
	}
}

// Excludes reports whether the entry name must be skipped entirely.
func (policy IgnorePolicy) Excludes(entryName string) bool {
	if !policy.showHidden && strings.HasPrefix(entryName, hiddenEntryPrefix) {
		return true
	}
	if policy.disabled {
		return false
	}
	if policy.reservedName != "" && entryName == policy.reservedName {
		return true
	}
	for _, ignoredName := range policy.ignoredNames {
		if entryName == ignoredName {
			return true
		}
		isMatched, matchError := filepath.Match(ignoredName, entryName)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}

// Suppresses reports whether the contents of the named directory must not be listed.
func (policy IgnorePolicy) Suppresses(directoryName string) bool {
	_, suppressed := policy.suppressedNames[directoryName]
	return suppressed
}
