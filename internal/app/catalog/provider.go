// Package catalog provides the curated static list.
package catalog

import "context"

// DefaultLinks is the curated list used when no provider is configured.
var DefaultLinks = []string{
	"https://www.youtube.com/watch?v=gkCKTuR-ECI",
	"https://www.youtube.com/watch?v=NbWKYgaWzbI",
	"https://www.youtube.com/watch?v=Umqb9KENgmk",
}

// Provider is the interface for curated link providers.
type Provider interface {
	// Links returns the curated links in list order.
	Links(ctx context.Context) ([]string, error)

	// Name returns the provider name (used in config).
	Name() string
}
