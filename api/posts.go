package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// PostAPI wraps the post browsing, search, and authoring endpoints.
type PostAPI struct {
	client *transport.Client
}

func NewPostAPI(client *transport.Client) *PostAPI {
	return &PostAPI{client: client}
}

func pageQuery(page int64) url.Values {
	query := url.Values{}
	query.Set("page", strconv.FormatInt(page, 10))
	return query
}

// GetPosts lists posts for one page.
func (p *PostAPI) GetPosts(ctx context.Context, page int64) ([]Article, error) {
	var posts []Article
	if err := p.client.Get(ctx, Path(EndpointPosts, nil), pageQuery(page), false, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostByID fetches one post with its full content.
func (p *PostAPI) GetPostByID(ctx context.Context, id int64) (*Article, error) {
	var post Article
	path := Path(EndpointPostByID, map[string]string{"id": strconv.FormatInt(id, 10)})
	if err := p.client.Get(ctx, path, nil, false, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPageStats fetches the post total and page counts.
func (p *PostAPI) GetPageStats(ctx context.Context) (*PageStats, error) {
	var stats PageStats
	if err := p.client.Get(ctx, Path(EndpointPostPageCount, nil), nil, false, &stats.TotalPages); err != nil {
		return nil, err
	}
	if err := p.client.Get(ctx, Path(EndpointPostCount, nil), nil, false, &stats.TotalCount); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreatePost publishes a new post. Requires authentication.
func (p *PostAPI) CreatePost(ctx context.Context, post ArticleRequest) error {
	return p.client.Post(ctx, Path(EndpointPosts, nil), post, true, nil)
}

// UpdatePost edits an existing post. Requires authentication.
func (p *PostAPI) UpdatePost(ctx context.Context, post ArticleRequest) error {
	return p.client.Put(ctx, Path(EndpointPosts, nil), post, true, nil)
}

// DeletePost removes a post. Requires authentication.
func (p *PostAPI) DeletePost(ctx context.Context, id int64) error {
	path := Path(EndpointPostByID, map[string]string{"id": strconv.FormatInt(id, 10)})
	return p.client.Delete(ctx, path, nil, true, nil)
}

// GetPostsByTag lists posts carrying a tag.
func (p *PostAPI) GetPostsByTag(ctx context.Context, tagName string, page int64) ([]Article, error) {
	query := pageQuery(page)
	query.Set("tagName", tagName)

	var posts []Article
	if err := p.client.Get(ctx, Path(EndpointPostsByTag, nil), query, false, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetTagPageStats fetches totals for a tag listing.
func (p *PostAPI) GetTagPageStats(ctx context.Context, tagName string) (*PageStats, error) {
	query := url.Values{}
	query.Set("tagName", tagName)

	var stats PageStats
	if err := p.client.Get(ctx, Path(EndpointPostPagesByTag, nil), query, false, &stats.TotalPages); err != nil {
		return nil, err
	}
	if err := p.client.Get(ctx, Path(EndpointPostCountByTag, nil), query, false, &stats.TotalCount); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SearchPosts runs a full-text search over posts.
func (p *PostAPI) SearchPosts(ctx context.Context, keyword string, page int64) ([]Article, error) {
	query := pageQuery(page)
	query.Set("keyword", keyword)

	var posts []Article
	if err := p.client.Get(ctx, Path(EndpointPostSearch, nil), query, false, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetSearchPageStats fetches totals for a search result set.
func (p *PostAPI) GetSearchPageStats(ctx context.Context, keyword string) (*PageStats, error) {
	query := url.Values{}
	query.Set("keyword", keyword)

	var stats PageStats
	if err := p.client.Get(ctx, Path(EndpointPostSearchPages, nil), query, false, &stats.TotalPages); err != nil {
		return nil, err
	}
	if err := p.client.Get(ctx, Path(EndpointPostSearchCount, nil), query, false, &stats.TotalCount); err != nil {
		return nil, err
	}
	return &stats, nil
}
