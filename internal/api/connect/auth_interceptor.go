// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"crypto/subtle"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/infra/config"
)

var errInvalidWidgetToken = errors.New("invalid widget token")

// NewWidgetAuthInterceptor creates an interceptor that validates the widget
// token header of WidgetService calls. Without a configured token every call
// is rejected.
func NewWidgetAuthInterceptor(cfg *config.Config) connect.UnaryInterceptorFunc {
	expected := []byte(cfg.Playback.WidgetToken)
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token := req.Header().Get(playerv1.WidgetTokenHeader)
			if token == "" || len(expected) == 0 {
				return nil, connect.NewError(connect.CodeUnauthenticated, errInvalidWidgetToken)
			}

			if subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
				return nil, connect.NewError(connect.CodeUnauthenticated, errInvalidWidgetToken)
			}

			return next(ctx, req)
		}
	}
}
