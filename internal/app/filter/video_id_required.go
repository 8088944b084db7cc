package filter

import (
	"context"

	"github.com/osa030/harmony/internal/domain/track"
)

// VideoIDRequiredFilter rejects links without a parseable video or playlist id.
type VideoIDRequiredFilter struct{}

func (f *VideoIDRequiredFilter) Name() string {
	return "video_id_required"
}

func (f *VideoIDRequiredFilter) Description() string {
	return "Rejects links that carry neither a video id nor a playlist id"
}

func (f *VideoIDRequiredFilter) ReturnCodes() []string {
	return []string{"video_id_missing"}
}

func (f *VideoIDRequiredFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *VideoIDRequiredFilter) AppliesTo(origin track.Origin) bool {
	return true
}

func (f *VideoIDRequiredFilter) Check(ctx context.Context, req LinkRequest) Result {
	if track.VideoID(req.Link) == "" && track.PlaylistID(req.Link) == "" {
		return Reject("video_id_missing")
	}
	return Accept()
}

func init() {
	Register("video_id_required", func() Filter {
		return &VideoIDRequiredFilter{}
	})
}
