package session

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	clienterrors "github.com/yutingli1123/plumasphere-go/internal/errors"
)

// TokenSource exposes the manager as an oauth2.TokenSource so the session
// can back any client stack built on golang.org/x/oauth2 (e.g.
// oauth2.NewClient). Unlike GetAccessToken, Token fails loudly when no
// credential is available, because TokenSource consumers have no
// "proceed unauthenticated" path.
func (m *Manager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &managerTokenSource{ctx: ctx, manager: m}
}

type managerTokenSource struct {
	ctx     context.Context
	manager *Manager
}

func (s *managerTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.manager.GetAccessToken(s.ctx)
	if err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, errors.Wrap(clienterrors.ErrNoToken, "[managerTokenSource.Token]")
	}

	token := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}

	s.manager.lock.Lock()
	if s.manager.pair != nil && s.manager.pair.AccessToken.ExpiresAt != nil {
		token.Expiry = *s.manager.pair.AccessToken.ExpiresAt
	}
	s.manager.lock.Unlock()

	return token, nil
}
