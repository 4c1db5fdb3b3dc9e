package profile

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
	"github.com/CrestNiraj12/medplus/tui/common"
)

var (
	viewer = domain.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}
	grace  = domain.User{ID: "u2", FirstName: "Grace", LastName: "Hopper", Profession: "Cardiologist", Friends: []string{"u1"}}
)

type stubUsers struct {
	mu      sync.Mutex
	calls   []string
	user    domain.User
	userErr error
	ackErr  error
}

func (s *stubUsers) record(c string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *stubUsers) GetUser(_ context.Context, id string) (domain.User, error) {
	s.record("get:" + id)
	return s.user, s.userErr
}

func (s *stubUsers) SendFriendRequest(_ context.Context, id string) (string, error) {
	s.record("request:" + id)
	return "Friend request sent", s.ackErr
}

func (s *stubUsers) ViewProfile(_ context.Context, id string) error {
	s.record("view:" + id)
	return nil
}

func (s *stubUsers) AcceptFriendRequest(_ context.Context, id string) (string, error) {
	s.record("accept:" + id)
	return "Friend request accepted", s.ackErr
}

func (s *stubUsers) Unfriend(_ context.Context, id string) (string, error) {
	s.record("unfriend:" + id)
	return "Unfriended", s.ackErr
}

type stubPosts struct {
	posts []domain.Post
	asked []string
	mu    sync.Mutex
}

func (s *stubPosts) FetchPosts(context.Context, string, map[string]any) ([]domain.Post, error) {
	return nil, nil
}

func (s *stubPosts) UserPosts(_ context.Context, id string) ([]domain.Post, error) {
	s.mu.Lock()
	s.asked = append(s.asked, id)
	s.mu.Unlock()
	return s.posts, nil
}

func (s *stubPosts) Like(context.Context, string) error                         { return nil }
func (s *stubPosts) Delete(context.Context, string) error                       { return nil }
func (s *stubPosts) Comments(context.Context, string) ([]domain.Comment, error) { return nil, nil }
func (s *stubPosts) AddComment(context.Context, string, domain.NewComment) error {
	return nil
}

func hasCall(calls []string, want string) bool {
	for _, c := range calls {
		if c == want {
			return true
		}
	}
	return false
}

func loadModel(t *testing.T, users *stubUsers, posts *stubPosts, userID string) Model {
	t.Helper()
	m := New(users, posts, viewer, userID, logging.Nop())
	m, _ = m.Update(m.load()())
	return m
}

func TestLoadOtherProfile(t *testing.T) {
	users := &stubUsers{user: grace}
	posts := &stubPosts{posts: []domain.Post{{ID: "p1", Title: "Heart health"}}}
	m := loadModel(t, users, posts, "u2")

	if m.Own() || m.Loading() {
		t.Fatal("expected loaded foreign profile")
	}
	if m.User().ID != "u2" || len(m.Posts()) != 1 {
		t.Fatalf("unexpected profile %+v posts %d", m.User(), len(m.Posts()))
	}
	if posts.asked[0] != "u2" {
		t.Fatalf("expected posts for u2, got %v", posts.asked)
	}
	view := m.View()
	for _, want := range []string{"Grace Hopper", "Cardiologist", "Heart health", "Friends"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
}

func TestOwnProfileUsesViewerID(t *testing.T) {
	users := &stubUsers{user: viewer}
	posts := &stubPosts{}
	m := loadModel(t, users, posts, "u1")

	if !m.Own() {
		t.Fatal("expected own profile")
	}
	if !hasCall(users.calls, "get:") || posts.asked[0] != "u1" {
		t.Fatalf("unexpected calls %v %v", users.calls, posts.asked)
	}
}

func TestOwnProfileWithoutCachedUser(t *testing.T) {
	users := &stubUsers{user: viewer}
	posts := &stubPosts{}
	m := New(users, posts, domain.User{}, "", logging.Nop())
	m, _ = m.Update(m.load()())

	if m.User().ID != "u1" || posts.asked[0] != "u1" {
		t.Fatalf("expected posts fetched after user, got %v", posts.asked)
	}
}

func TestSessionExpiryEmitsMessage(t *testing.T) {
	users := &stubUsers{userErr: domain.ErrSessionExpired}
	m := New(users, &stubPosts{}, viewer, "u2", logging.Nop())

	_, cmd := m.Update(m.load()())
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(common.SessionExpiredMsg); !ok {
		t.Fatal("expected SessionExpiredMsg")
	}
}

func TestInitRecordsViewForOthersOnly(t *testing.T) {
	users := &stubUsers{user: grace}
	m := New(users, &stubPosts{}, viewer, "u2", logging.Nop())
	view := m.recordView()
	_, _ = m.Update(view())
	if !hasCall(users.calls, "view:u2") {
		t.Fatalf("expected view recorded, got %v", users.calls)
	}

	own := New(users, &stubPosts{}, viewer, "", logging.Nop())
	if !own.Own() {
		t.Fatal("expected own profile")
	}
}

func TestFriendActions(t *testing.T) {
	tests := []struct {
		key  string
		call string
		msg  string
	}{
		{key: "f", call: "request:u2", msg: "Friend request sent"},
		{key: "A", call: "accept:u2", msg: "Friend request accepted"},
		{key: "u", call: "unfriend:u2", msg: "Unfriended"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			users := &stubUsers{user: grace}
			m := loadModel(t, users, &stubPosts{}, "u2")

			m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
			if cmd == nil {
				t.Fatal("expected action command")
			}
			m, reload := m.Update(cmd())
			if !hasCall(users.calls, tt.call) {
				t.Fatalf("expected %s, got %v", tt.call, users.calls)
			}
			if m.Status() != tt.msg {
				t.Fatalf("expected status %q, got %q", tt.msg, m.Status())
			}
			if reload == nil {
				t.Fatal("expected profile reload after a successful action")
			}
		})
	}
}

func TestFriendActionFailureIsInline(t *testing.T) {
	users := &stubUsers{user: grace, ackErr: errors.New("Request already sent")}
	m := loadModel(t, users, &stubPosts{}, "u2")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	m, reload := m.Update(cmd())
	if reload != nil {
		t.Fatal("expected no reload after failure")
	}
	if !strings.Contains(m.View(), "Request already sent") {
		t.Fatal("expected failure in view")
	}
}

func TestFriendActionForAnotherProfileIgnored(t *testing.T) {
	users := &stubUsers{user: grace}
	m := loadModel(t, users, &stubPosts{}, "u2")

	m, reload := m.Update(ActionMsg{UserID: "u3", Action: ActionUnfriend, Message: "Unfriended"})
	if reload != nil || m.Status() != "" {
		t.Fatalf("expected result for u3 ignored, got status %q", m.Status())
	}

	m, reload = m.Update(ActionMsg{UserID: "u2", Action: ActionRequest, Err: context.Canceled})
	if reload != nil || m.Status() != "" {
		t.Fatalf("expected cancelled action ignored, got status %q", m.Status())
	}
}

func TestFriendActionsDisabledOnOwnProfile(t *testing.T) {
	users := &stubUsers{user: viewer}
	m := loadModel(t, users, &stubPosts{}, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if cmd != nil {
		t.Fatal("expected no action on own profile")
	}
}

func TestBackClosesAndCancels(t *testing.T) {
	m := loadModel(t, &stubUsers{user: grace}, &stubPosts{}, "u2")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(ClosedMsg); !ok {
		t.Fatal("expected ClosedMsg")
	}
	if m.ctx.Err() == nil {
		t.Fatal("expected context cancelled")
	}
}
