package api

import (
	"context"
	"strconv"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// UserAPI wraps the user profile endpoints.
type UserAPI struct {
	client *transport.Client
}

func NewUserAPI(client *transport.Client) *UserAPI {
	return &UserAPI{client: client}
}

// GetMe fetches the current user's profile. Requires authentication.
func (u *UserAPI) GetMe(ctx context.Context) (*User, error) {
	var user User
	if err := u.client.Get(ctx, Path(EndpointUserMe, nil), nil, true, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsers lists one page of users. Requires authentication.
func (u *UserAPI) GetUsers(ctx context.Context, page int64) ([]User, error) {
	var users []User
	if err := u.client.Get(ctx, Path(EndpointUsers, nil), pageQuery(page), true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUserByID fetches a user's public profile.
func (u *UserAPI) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	var user User
	path := Path(EndpointUserByID, map[string]string{"userId": strconv.FormatInt(userID, 10)})
	if err := u.client.Get(ctx, path, nil, false, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
