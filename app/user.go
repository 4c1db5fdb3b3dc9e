package app

import (
	"context"

	"github.com/CrestNiraj12/medplus/domain"
)

// UserService provides profile lookups and friend operations.
type UserService interface {
	// GetUser returns the authenticated user when id is empty, otherwise the
	// user with that ID. It returns domain.ErrSessionExpired after clearing
	// the local session when the backend rejects the token.
	GetUser(ctx context.Context, id string) (domain.User, error)

	// SendFriendRequest asks user id to become a friend.
	SendFriendRequest(ctx context.Context, id string) (string, error)

	// ViewProfile records a profile view of user id.
	ViewProfile(ctx context.Context, id string) error

	// AcceptFriendRequest accepts a pending request sent by user id.
	AcceptFriendRequest(ctx context.Context, id string) (string, error)

	// Unfriend removes user id from the friend list.
	Unfriend(ctx context.Context, id string) (string, error)
}

// SessionStore persists the local login state.
type SessionStore interface {
	Load() (domain.Session, error)
	Save(s domain.Session) error
	Clear() error
}
