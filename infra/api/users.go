package api

import (
	"context"
	"net/url"

	"github.com/CrestNiraj12/medplus/app"
	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
)

// authFailedMessage is what the backend's auth middleware answers when the
// bearer token is missing, malformed, or expired.
const authFailedMessage = "Authentication failed"

// userService implements app.UserService using the Medplus API.
type userService struct {
	client  *Client
	session app.SessionStore
	log     *logging.Logger
}

// NewUserService creates a UserService. session is cleared when GetUser
// detects an expired login; it may be nil.
func NewUserService(client *Client, session app.SessionStore, log *logging.Logger) *userService {
	return &userService{client: client, session: session, log: log.With("component", "users")}
}

type userResponse struct {
	Message string  `json:"message"`
	User    apiUser `json:"user"`
}

type ackResponse struct {
	Message string `json:"message"`
}

// GetUser fetches the current user (empty id) or another user's profile.
// This is the only call that tears the session down: an authentication
// failure clears the stored session and yields domain.ErrSessionExpired.
func (s *userService) GetUser(ctx context.Context, id string) (domain.User, error) {
	path := "/users/get-user"
	if id != "" {
		path += "/" + url.PathEscape(id)
	}

	var res userResponse
	err := s.client.Post(ctx, path, nil, &res)
	if isAuthFailure(err) || (err == nil && res.Message == authFailedMessage) {
		s.expireSession()
		return domain.User{}, domain.ErrSessionExpired
	}
	if err != nil {
		return domain.User{}, err
	}
	return mapUser(res.User), nil
}

func isAuthFailure(err error) bool {
	f, ok := AsFailure(err)
	return ok && f.Message == authFailedMessage
}

func (s *userService) expireSession() {
	s.log.Warn("session expired; clearing local session")
	if s.session == nil {
		return
	}
	if err := s.session.Clear(); err != nil {
		s.log.Error("clearing session failed", "err", err)
	}
}

func (s *userService) SendFriendRequest(ctx context.Context, id string) (string, error) {
	return s.ack(ctx, "/users/friend-request", map[string]string{"requestTo": id})
}

func (s *userService) ViewProfile(ctx context.Context, id string) error {
	_, err := s.ack(ctx, "/users/profile-view", map[string]string{"id": id})
	return err
}

func (s *userService) AcceptFriendRequest(ctx context.Context, id string) (string, error) {
	return s.ack(ctx, "/users/accept-request", map[string]string{"requestFrom": id})
}

func (s *userService) Unfriend(ctx context.Context, id string) (string, error) {
	return s.ack(ctx, "/users/unfriend-user", map[string]string{"id": id})
}

func (s *userService) ack(ctx context.Context, path string, body map[string]string) (string, error) {
	var res ackResponse
	if err := s.client.Post(ctx, path, body, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
