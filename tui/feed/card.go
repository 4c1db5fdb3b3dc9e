package feed

import (
	"context"

	"github.com/CrestNiraj12/medplus/domain"
)

// Card is the view state of one rendered post. Every card is independent:
// toggling, loading, and view tracking on one never touches another.
type Card struct {
	Post domain.Post

	// CommentsVisible is flipped by the comment action.
	CommentsVisible bool
	// Comments is replaced wholesale by each fetch, never merged.
	Comments []domain.Comment
	// Loading is true while a comment fetch is in flight.
	Loading bool
	// Viewed latches once the card was seen or opened.
	Viewed bool
	// Expanded shows the full description instead of the preview.
	Expanded bool
	// Open is set by opening the card header.
	Open bool

	commentCursor int // -1 when no comment is selected

	ctx    context.Context
	cancel context.CancelFunc
}

func newCard(parent context.Context, p domain.Post) Card {
	ctx, cancel := context.WithCancel(parent)
	return Card{
		Post:          p,
		commentCursor: -1,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// close cancels any request still running on behalf of the card.
func (c *Card) close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// toggleComments flips comment visibility and reports whether a fetch
// should start (only when they were just shown).
func (c *Card) toggleComments() bool {
	c.CommentsVisible = !c.CommentsVisible
	if !c.CommentsVisible {
		c.commentCursor = -1
		return false
	}
	c.Loading = true
	return true
}

// markViewed latches Viewed and bumps the local counter. It reports false,
// and changes nothing, when the card was already viewed.
func (c *Card) markViewed() bool {
	if c.Viewed {
		return false
	}
	c.Viewed = true
	c.Post.Views++
	return true
}

// setComments replaces the list and keeps the selection in range.
func (c *Card) setComments(comments []domain.Comment) {
	c.Comments = comments
	c.Loading = false
	if c.commentCursor >= len(comments) {
		c.commentCursor = len(comments) - 1
	}
}

// Description returns the text to display and, when the description is
// long enough, the label of the show more/less toggle.
func (c Card) Description() (text, toggle string) {
	if !c.Post.HasMoreDescription() {
		return c.Post.Description, ""
	}
	if c.Expanded {
		return c.Post.Description, "Show Less"
	}
	return c.Post.DescriptionPreview(), "Show More"
}

func (c *Card) moveCommentCursor(delta int) {
	if !c.CommentsVisible || len(c.Comments) == 0 {
		return
	}
	next := c.commentCursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(c.Comments) {
		next = len(c.Comments) - 1
	}
	c.commentCursor = next
}

// SelectedComment returns the comment a reply would target.
func (c Card) SelectedComment() (domain.Comment, bool) {
	if !c.CommentsVisible || c.commentCursor < 0 || c.commentCursor >= len(c.Comments) {
		return domain.Comment{}, false
	}
	return c.Comments[c.commentCursor], true
}
