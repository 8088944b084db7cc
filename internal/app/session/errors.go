package session

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/harmony/internal/app/playback"
	"github.com/osa030/harmony/internal/app/source"
)

// Errors surfaced to the user as notices.
var (
	ErrLoginRequired = errors.New("login required")
	ErrNotAdmin      = errors.New("not an administrator")
	ErrFetchFailed   = errors.New("song service unavailable")
	ErrNoValidLinks  = errors.New("no valid links")
	ErrNotRunning    = errors.New("session is not running")
)

// Code returns the message code for err. A nil error is "success".
func Code(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrLoginRequired):
		return "login_required"
	case errors.Is(err, ErrNotAdmin):
		return "not_admin"
	case errors.Is(err, ErrFetchFailed):
		return "fetch_failed"
	case errors.Is(err, ErrNoValidLinks):
		return "no_valid_links"
	case errors.Is(err, source.ErrInvalidMode):
		return "invalid_mode"
	case errors.Is(err, playback.ErrInvalidIndex):
		return "invalid_index"
	default:
		return "default_error"
	}
}
