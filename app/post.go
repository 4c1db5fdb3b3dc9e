package app

import (
	"context"

	"github.com/CrestNiraj12/medplus/domain"
)

// PostService reads and mutates posts and their comments.
type PostService interface {
	// FetchPosts lists posts from path ("/posts" when empty) filtered by query.
	FetchPosts(ctx context.Context, path string, query map[string]any) ([]domain.Post, error)

	// UserPosts lists the posts authored by a single user.
	UserPosts(ctx context.Context, userID string) ([]domain.Post, error)

	// Like toggles the authenticated user's like on a post.
	Like(ctx context.Context, id string) error

	// Delete removes a post by ID.
	Delete(ctx context.Context, id string) error

	// Comments returns the full comment list of a post.
	Comments(ctx context.Context, postID string) ([]domain.Comment, error)

	// AddComment creates a top-level comment, or a reply when c.ReplyAt is set.
	AddComment(ctx context.Context, postID string, c domain.NewComment) error
}
