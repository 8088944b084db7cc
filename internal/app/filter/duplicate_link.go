package filter

import (
	"context"

	"github.com/osa030/harmony/internal/domain/track"
)

// DuplicateLinkFilter drops links repeated within one submission.
// Links naming the same video are duplicates even when their query
// parameters are ordered differently.
type DuplicateLinkFilter struct{}

// NewDuplicateLinkFilter creates a new duplicate link filter.
func NewDuplicateLinkFilter() *DuplicateLinkFilter {
	return &DuplicateLinkFilter{}
}

// Name returns the filter name.
func (f *DuplicateLinkFilter) Name() string {
	return "duplicate_link"
}

// Description returns the filter description.
func (f *DuplicateLinkFilter) Description() string {
	return "Drops links already entered earlier in the same list"
}

// ReturnCodes returns possible return codes.
func (f *DuplicateLinkFilter) ReturnCodes() []string {
	return []string{"duplicate_link"}
}

// AppliesTo returns which origins this filter applies to.
func (f *DuplicateLinkFilter) AppliesTo(origin track.Origin) bool {
	// Only multi-link submissions can repeat
	return origin == track.OriginAdHocMulti
}

// ValidateConfig validates the filter configuration.
func (f *DuplicateLinkFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

// Check checks if the link was already accepted.
func (f *DuplicateLinkFilter) Check(ctx context.Context, req LinkRequest) Result {
	for _, seen := range req.Seen {
		if isSameMedia(seen, req.Link) {
			return Reject("duplicate_link")
		}
	}
	return Accept()
}

// isSameMedia reports whether two links address the same media.
func isSameMedia(a, b string) bool {
	if a == b {
		return true
	}
	idA, idB := track.VideoID(a), track.VideoID(b)
	if idA == "" || idB == "" {
		return false
	}
	return idA == idB && track.PlaylistID(a) == track.PlaylistID(b)
}

func init() {
	Register("duplicate_link", func() Filter {
		return NewDuplicateLinkFilter()
	})
}
