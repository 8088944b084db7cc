package connect

import (
	"context"

	"connectrpc.com/connect"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/app/session"
	"github.com/osa030/harmony/internal/infra/config"
)

// SessionService implements the SessionService RPC.
type SessionService struct {
	session *session.Manager
	config  *config.Config
}

// NewSessionService creates a new SessionService.
func NewSessionService(session *session.Manager, cfg *config.Config) *SessionService {
	return &SessionService{
		session: session,
		config:  cfg,
	}
}

// Ensure SessionService implements the interface.
var _ playerv1.SessionServiceHandler = (*SessionService)(nil)

// GetSession returns the session info.
func (s *SessionService) GetSession(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.SessionInfo], error) {
	status := s.session.GetStatus()
	return connect.NewResponse(&playerv1.SessionInfo{
		SessionID:     status.SessionID,
		Mode:          status.Mode.String(),
		Authenticated: status.Authenticated,
	}), nil
}

// LoginURL returns the external login URL.
func (s *SessionService) LoginURL(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.LoginURLResponse], error) {
	return connect.NewResponse(&playerv1.LoginURLResponse{URL: s.session.LoginURL()}), nil
}

// Logout clears the credential and returns to the static list.
func (s *SessionService) Logout(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.Result], error) {
	return connect.NewResponse(newResult(s.config, s.session.Logout(), "success")), nil
}
