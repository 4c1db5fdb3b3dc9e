package feed

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) fetchPosts(gen int) tea.Cmd {
	ctx, posts, path, query := m.ctx, m.posts, m.path, m.query
	return func() tea.Msg {
		list, err := posts.FetchPosts(ctx, path, query)
		if err != nil {
			return PostsErrorMsg{Err: err, Gen: gen}
		}
		return PostsLoadedMsg{Posts: list, Gen: gen}
	}
}

func (m Model) fetchComments(c Card) tea.Cmd {
	ctx, posts, id, gen := c.ctx, m.posts, c.Post.ID, m.gen
	return func() tea.Msg {
		comments, err := posts.Comments(ctx, id)
		if err != nil {
			return CommentsErrorMsg{PostID: id, Err: err, Gen: gen}
		}
		return CommentsLoadedMsg{PostID: id, Comments: comments, Gen: gen}
	}
}

func (m Model) likePost(c Card) tea.Cmd {
	ctx, posts, id, gen := c.ctx, m.posts, c.Post.ID, m.gen
	return func() tea.Msg {
		return LikeResultMsg{PostID: id, Err: posts.Like(ctx, id), Gen: gen}
	}
}

func (m Model) deletePost(c Card) tea.Cmd {
	ctx, posts, id, gen := c.ctx, m.posts, c.Post.ID, m.gen
	return func() tea.Msg {
		return DeleteResultMsg{PostID: id, Err: posts.Delete(ctx, id), Gen: gen}
	}
}

func markViewed(ids []string) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(ids))
	for _, id := range ids {
		cmds = append(cmds, func() tea.Msg { return PostViewedMsg{PostID: id} })
	}
	return tea.Batch(cmds...)
}

// cancelled reports errors caused by the feed tearing down a request.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
