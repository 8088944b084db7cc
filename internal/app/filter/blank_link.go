package filter

import (
	"context"

	"github.com/osa030/harmony/internal/domain/track"
)

// BlankLinkFilter drops empty and whitespace-only entries. It is part of
// every chain and cannot be disabled.
type BlankLinkFilter struct{}

func (f *BlankLinkFilter) Name() string {
	return "blank_link"
}

func (f *BlankLinkFilter) Description() string {
	return "Drops empty and whitespace-only links (always enabled)"
}

func (f *BlankLinkFilter) ReturnCodes() []string {
	return []string{"blank_link"}
}

func (f *BlankLinkFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *BlankLinkFilter) AppliesTo(origin track.Origin) bool {
	return true
}

func (f *BlankLinkFilter) Check(ctx context.Context, req LinkRequest) Result {
	if !track.Pending(req.Link, req.Origin).IsPlayable() {
		return Reject("blank_link")
	}
	return Accept()
}
