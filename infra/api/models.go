package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/CrestNiraj12/medplus/domain"
)

// apiUser is the backend's user document. Posts and comments populate it
// under "userId"; unpopulated references arrive as a bare ID string.
type apiUser struct {
	ID         string `json:"_id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	ProfileURL string `json:"profileUrl"`
	Location   string `json:"location"`
	Profession string `json:"profession"`
	Friends    refIDs `json:"friends"`
	Views      refIDs `json:"views"`
	Verified   bool   `json:"verified"`
}

// userRef accepts either a populated user object or a bare ID.
type userRef struct {
	apiUser
}

func (u *userRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &u.ID)
	}
	return json.Unmarshal(data, &u.apiUser)
}

// refIDs accepts an array of IDs or of documents carrying "_id".
type refIDs []string

func (r *refIDs) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || bytes.Equal(item, []byte("null")) {
			continue
		}
		if item[0] == '"' {
			var id string
			if err := json.Unmarshal(item, &id); err != nil {
				return err
			}
			out = append(out, id)
			continue
		}
		var doc struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(item, &doc); err != nil {
			return err
		}
		if doc.ID != "" {
			out = append(out, doc.ID)
		}
	}
	*r = out
	return nil
}

type apiPost struct {
	ID          string  `json:"_id"`
	User        userRef `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	CreatedAt   string  `json:"createdAt"`
	Likes       refIDs  `json:"likes"`
	Views       int     `json:"views"`
	Comments    refIDs  `json:"comments"`
}

type apiComment struct {
	ID        string       `json:"_id"`
	PostID    string       `json:"postId"`
	User      userRef      `json:"userId"`
	Comment   string       `json:"comment"`
	From      string       `json:"from"`
	ReplyAt   string       `json:"replyAt"`
	CreatedAt string       `json:"createdAt"`
	Replies   []apiComment `json:"replies"`
}

func mapUser(u apiUser) domain.User {
	return domain.User{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		ProfileURL: u.ProfileURL,
		Location:   u.Location,
		Profession: u.Profession,
		Friends:    []string(u.Friends),
		Views:      []string(u.Views),
		Verified:   u.Verified,
	}
}

func mapPosts(in []apiPost) []domain.Post {
	out := make([]domain.Post, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Post{
			ID:          p.ID,
			Author:      mapUser(p.User.apiUser),
			Title:       p.Title,
			Description: p.Description,
			Image:       p.Image,
			CreatedAt:   parseTime(p.CreatedAt),
			Likes:       []string(p.Likes),
			Views:       p.Views,
			Comments:    []string(p.Comments),
		})
	}
	return out
}

// mapComments flattens nested replies into the list, each reply placed
// right after its parent and tagged with ReplyAt.
func mapComments(postID string, in []apiComment) []domain.Comment {
	out := make([]domain.Comment, 0, len(in))
	var walk func(cs []apiComment, parent string)
	walk = func(cs []apiComment, parent string) {
		for _, c := range cs {
			replyAt := c.ReplyAt
			if replyAt == "" {
				replyAt = parent
			}
			pid := c.PostID
			if pid == "" {
				pid = postID
			}
			out = append(out, domain.Comment{
				ID:        c.ID,
				PostID:    pid,
				Author:    mapUser(c.User.apiUser),
				Comment:   c.Comment,
				From:      c.From,
				ReplyAt:   replyAt,
				CreatedAt: parseTime(c.CreatedAt),
			})
			walk(c.Replies, c.ID)
		}
	}
	walk(in, "")
	return out
}

// parseTime accepts RFC 3339 timestamps; anything else maps to zero.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
