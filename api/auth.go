package api

import (
	"context"

	"github.com/yutingli1123/plumasphere-go/session"
	"github.com/yutingli1123/plumasphere-go/transport"
)

var _ session.AuthClient = (*AuthAPI)(nil)

// AuthAPI wraps the remote auth endpoints. None of them require
// authentication; they are what produces the credentials in the first place.
type AuthAPI struct {
	client *transport.Client
}

func NewAuthAPI(client *transport.Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type loginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// wrappedValue is the single-field body shape used by endpoints that take
// one opaque string.
type wrappedValue struct {
	Value string `json:"value"`
}

// Login exchanges credentials for a token pair.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (*session.TokenPair, error) {
	var pair session.TokenPair
	err := a.client.Post(ctx, Path(EndpointLogin, nil), loginParams{Username: username, Password: password}, false, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken mints a new token pair from a refresh token.
func (a *AuthAPI) RefreshToken(ctx context.Context, refreshToken string) (*session.TokenPair, error) {
	var pair session.TokenPair
	err := a.client.Post(ctx, Path(EndpointTokenRefresh, nil), wrappedValue{Value: refreshToken}, false, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// GetIdentity obtains an anonymous token pair.
func (a *AuthAPI) GetIdentity(ctx context.Context) (*session.TokenPair, error) {
	var pair session.TokenPair
	err := a.client.Get(ctx, Path(EndpointIdentity, nil), nil, false, &pair)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}
