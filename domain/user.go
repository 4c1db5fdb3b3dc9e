package domain

import "strings"

// User is an author reference or a full profile, depending on the endpoint
// that produced it. Posts and comments embed the author so rendering never
// needs a separate fetch.
type User struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	ProfileURL string
	Location   string
	Profession string
	Friends    []string
	Views      []string
	Verified   bool
}

// FullName composes the display name from first and last name.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsFriend reports whether id is in the user's friend list.
func (u User) IsFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// Session is the locally persisted login state. An empty Token means
// requests go out unauthenticated.
type Session struct {
	Token string
	User  User
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.Token) != ""
}
