package api

import (
	"context"
	"strconv"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// CommentAPI wraps the comment and threaded-reply endpoints.
type CommentAPI struct {
	client *transport.Client
}

func NewCommentAPI(client *transport.Client) *CommentAPI {
	return &CommentAPI{client: client}
}

// GetCommentByID fetches a single comment.
func (c *CommentAPI) GetCommentByID(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	path := Path(EndpointCommentByID, map[string]string{"id": strconv.FormatInt(id, 10)})
	if err := c.client.Get(ctx, path, nil, false, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID lists one page of a post's comments.
func (c *CommentAPI) GetCommentsByPostID(ctx context.Context, postID, page int64) ([]Comment, error) {
	var comments []Comment
	path := Path(EndpointPostComments, map[string]string{"postId": strconv.FormatInt(postID, 10)})
	if err := c.client.Get(ctx, path, pageQuery(page), false, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// GetCommentPageStats fetches comment totals for a post.
func (c *CommentAPI) GetCommentPageStats(ctx context.Context, postID int64) (*PageStats, error) {
	params := map[string]string{"postId": strconv.FormatInt(postID, 10)}

	var stats PageStats
	if err := c.client.Get(ctx, Path(EndpointPostCommentPages, params), nil, false, &stats.TotalPages); err != nil {
		return nil, err
	}
	if err := c.client.Get(ctx, Path(EndpointPostCommentCount, params), nil, false, &stats.TotalCount); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AddComment posts a comment. Requires a token (anonymous identity is
// enough), so callers ensure one via the session manager first.
func (c *CommentAPI) AddComment(ctx context.Context, postID int64, comment CommentRequest) error {
	path := Path(EndpointPostComments, map[string]string{"postId": strconv.FormatInt(postID, 10)})
	return c.client.Post(ctx, path, comment, true, nil)
}

// GetReplies lists a comment's replies.
func (c *CommentAPI) GetReplies(ctx context.Context, commentID int64) ([]Comment, error) {
	var replies []Comment
	path := Path(EndpointCommentReplies, map[string]string{"commentId": strconv.FormatInt(commentID, 10)})
	if err := c.client.Get(ctx, path, nil, false, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

// AddReply posts a threaded reply to a comment.
func (c *CommentAPI) AddReply(ctx context.Context, commentID int64, reply CommentRequest) error {
	path := Path(EndpointCommentReplies, map[string]string{"commentId": strconv.FormatInt(commentID, 10)})
	return c.client.Post(ctx, path, reply, true, nil)
}

// DeleteComment removes a comment. Requires authentication.
func (c *CommentAPI) DeleteComment(ctx context.Context, commentID int64) error {
	path := Path(EndpointCommentDelete, map[string]string{"commentId": strconv.FormatInt(commentID, 10)})
	return c.client.Delete(ctx, path, nil, true, nil)
}
