// Package filter provides the filter chain for pasted link validation.
package filter

import (
	"context"
	"sort"

	"github.com/osa030/harmony/internal/domain/track"
)

// LinkRequest represents a pasted link to be validated.
type LinkRequest struct {
	Link   string
	Origin track.Origin
	Seen   []string // Links already accepted from the same submission
}

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "blank_link", "duplicate_link", "host_not_allowed"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for link filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this filter should be applied to links of the given origin.
	AppliesTo(origin track.Origin) bool
	// Check performs the filter check.
	Check(ctx context.Context, req LinkRequest) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}

// RegisteredNames returns the names of all registered filters in sorted order.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
