package api

import (
	"context"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// TagAPI wraps the tag endpoints.
type TagAPI struct {
	client *transport.Client
}

func NewTagAPI(client *transport.Client) *TagAPI {
	return &TagAPI{client: client}
}

// GetAllTags lists every tag with its post count.
func (t *TagAPI) GetAllTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := t.client.Get(ctx, Path(EndpointTags, nil), nil, false, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// AddTag creates a tag. Requires authentication.
func (t *TagAPI) AddTag(ctx context.Context, tag Tag) error {
	return t.client.Post(ctx, Path(EndpointTags, nil), tag, true, nil)
}
