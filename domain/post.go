package domain

import (
	"time"
	"unicode/utf8"
)

const (
	// DescriptionPreviewLen is how many characters of a description a collapsed card shows.
	DescriptionPreviewLen = 300

	// descriptionToggleAt is the length a description must exceed before a
	// show more/less toggle is offered.
	descriptionToggleAt = 301
)

// Post is a single feed entry as delivered by the server.
type Post struct {
	ID          string
	Author      User
	Title       string
	Description string
	Image       string // Optional hosted image URL
	CreatedAt   time.Time
	Likes       []string // User IDs; membership means "liked by"
	Views       int
	Comments    []string // Comment IDs
}

// LikedBy reports whether userID is in the post's like set.
func (p Post) LikedBy(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// LikesCount returns the number of likes.
func (p Post) LikesCount() int { return len(p.Likes) }

// ToggleLike adds or removes userID from the like set.
func (p *Post) ToggleLike(userID string) {
	if userID == "" {
		return
	}
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
			return
		}
	}
	p.Likes = append(p.Likes, userID)
}

// HasMoreDescription reports whether the description is long enough to need
// a show more/less toggle.
func (p Post) HasMoreDescription() bool {
	return utf8.RuneCountInString(p.Description) > descriptionToggleAt
}

// DescriptionPreview returns the collapsed form of the description.
func (p Post) DescriptionPreview() string {
	return truncateRunes(p.Description, DescriptionPreviewLen)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Comment is a comment or threaded reply on a post.
type Comment struct {
	ID        string
	PostID    string
	Author    User
	Comment   string
	From      string // Display name captured at submit time
	ReplyAt   string // Parent comment ID; empty for top-level comments
	CreatedAt time.Time
}

// IsReply reports whether the comment answers another comment.
func (c Comment) IsReply() bool {
	return c.ReplyAt != ""
}

// NewComment is the payload for creating a comment or reply.
type NewComment struct {
	Comment string
	From    string
	ReplyAt string
}
