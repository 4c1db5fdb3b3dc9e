package api

import (
	"context"
	"net/url"

	"github.com/CrestNiraj12/medplus/domain"
)

// DefaultFeedPath lists posts when the caller does not supply a path.
const DefaultFeedPath = "/posts"

// postService implements app.PostService using the Medplus API. Its methods
// return the client's *Failure unwrapped so callers can show the server
// message as-is.
type postService struct {
	client *Client
}

// NewPostService creates a PostService backed by the Medplus API.
func NewPostService(client *Client) *postService {
	return &postService{client: client}
}

type postsResponse struct {
	Data []apiPost `json:"data"`
}

type commentsResponse struct {
	Data []apiComment `json:"data"`
}

type commentPayload struct {
	Comment string  `json:"comment"`
	From    string  `json:"from"`
	ReplyAt *string `json:"replyAt"`
}

func (s *postService) FetchPosts(ctx context.Context, path string, query map[string]any) ([]domain.Post, error) {
	if path == "" {
		path = DefaultFeedPath
	}
	if query == nil {
		query = map[string]any{}
	}

	var res postsResponse
	if err := s.client.Post(ctx, path, query, &res); err != nil {
		return nil, err
	}
	return mapPosts(res.Data), nil
}

func (s *postService) UserPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	var res postsResponse
	path := "/posts/get-user-post/" + url.PathEscape(userID)
	if err := s.client.Post(ctx, path, nil, &res); err != nil {
		return nil, err
	}
	return mapPosts(res.Data), nil
}

func (s *postService) Like(ctx context.Context, id string) error {
	return s.client.Post(ctx, "/posts/like/"+url.PathEscape(id), nil, nil)
}

func (s *postService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/posts/"+url.PathEscape(id), nil)
}

func (s *postService) Comments(ctx context.Context, postID string) ([]domain.Comment, error) {
	var res commentsResponse
	if err := s.client.Get(ctx, "/posts/comments/"+url.PathEscape(postID), &res); err != nil {
		return nil, err
	}
	return mapComments(postID, res.Data), nil
}

// AddComment posts to /posts/comment/:id, or /posts/reply-comment/:id when
// the comment answers another one. replyAt is sent as null for top-level
// comments.
func (s *postService) AddComment(ctx context.Context, postID string, c domain.NewComment) error {
	payload := commentPayload{Comment: c.Comment, From: c.From}
	path := "/posts/comment/" + url.PathEscape(postID)
	if c.ReplyAt != "" {
		replyAt := c.ReplyAt
		payload.ReplyAt = &replyAt
		path = "/posts/reply-comment/" + url.PathEscape(postID)
	}

	return s.client.Post(ctx, path, payload, nil)
}
