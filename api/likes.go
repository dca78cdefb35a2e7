package api

import (
	"context"
	"strconv"

	"github.com/yutingli1123/plumasphere-go/transport"
)

// LikeAPI wraps the like counters and toggles for posts and comments.
type LikeAPI struct {
	client *transport.Client
}

func NewLikeAPI(client *transport.Client) *LikeAPI {
	return &LikeAPI{client: client}
}

func postParams(postID int64) map[string]string {
	return map[string]string{"postId": strconv.FormatInt(postID, 10)}
}

func commentParams(commentID int64) map[string]string {
	return map[string]string{"commentId": strconv.FormatInt(commentID, 10)}
}

// GetPostLikes returns the number of likes on a post.
func (l *LikeAPI) GetPostLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := l.client.Get(ctx, Path(EndpointPostLikes, postParams(postID)), nil, false, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetCommentLikes returns the number of likes on a comment.
func (l *LikeAPI) GetCommentLikes(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	if err := l.client.Get(ctx, Path(EndpointCommentLikes, commentParams(commentID)), nil, false, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// GetPostLikeState reports whether the current identity liked the post.
func (l *LikeAPI) GetPostLikeState(ctx context.Context, postID int64) (bool, error) {
	var liked bool
	if err := l.client.Get(ctx, Path(EndpointPostLikeState, postParams(postID)), nil, true, &liked); err != nil {
		return false, err
	}
	return liked, nil
}

// GetCommentLikeState reports whether the current identity liked the comment.
func (l *LikeAPI) GetCommentLikeState(ctx context.Context, commentID int64) (bool, error) {
	var liked bool
	if err := l.client.Get(ctx, Path(EndpointCommentLikeState, commentParams(commentID)), nil, true, &liked); err != nil {
		return false, err
	}
	return liked, nil
}

// LikePost toggles a like on a post.
func (l *LikeAPI) LikePost(ctx context.Context, postID int64) error {
	return l.client.Post(ctx, Path(EndpointPostLikes, postParams(postID)), nil, true, nil)
}

// LikeComment toggles a like on a comment.
func (l *LikeAPI) LikeComment(ctx context.Context, commentID int64) error {
	return l.client.Post(ctx, Path(EndpointCommentLikes, commentParams(commentID)), nil, true, nil)
}
