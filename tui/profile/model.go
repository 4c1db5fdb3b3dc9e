// Package profile shows a user's profile with their posts and friend actions.
package profile

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/app"
	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
	"github.com/CrestNiraj12/medplus/tui/common"
)

// Friend action names carried by ActionMsg.
const (
	ActionRequest  = "request"
	ActionAccept   = "accept"
	ActionUnfriend = "unfriend"
)

// LoadedMsg carries the profile and its posts.
type LoadedMsg struct {
	UserID string
	User   domain.User
	Posts  []domain.Post
	Err    error
}

// ActionMsg is the result of a friend action.
type ActionMsg struct {
	UserID  string
	Action  string
	Message string
	Err     error
}

// ClosedMsg is sent when the user leaves the profile.
type ClosedMsg struct{}

type viewRecordedMsg struct {
	err error
}

// Model is the profile screen. An empty userID shows the viewer's own profile.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	users  app.UserService
	posts  app.PostService
	log    *logging.Logger

	viewer domain.User
	userID string

	user    domain.User
	list    []domain.Post
	loading bool
	err     error
	status  string
	failed  bool
	busy    bool
	cursor  int
	width   int

	spinner spinner.Model
	keys    common.KeyMap
}

// New creates a profile screen for userID as seen by viewer.
func New(users app.UserService, posts app.PostService, viewer domain.User, userID string, log *logging.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	if userID == viewer.ID {
		userID = ""
	}
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		users:   users,
		posts:   posts,
		log:     log.With("component", "profile"),
		viewer:  viewer,
		userID:  userID,
		loading: true,
		width:   80,
		spinner: s,
		keys:    common.DefaultKeyMap(),
	}
}

// Init loads the profile and, for another user's profile, records the view.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.load(), m.spinner.Tick}
	if !m.Own() {
		cmds = append(cmds, m.recordView())
	}
	return tea.Batch(cmds...)
}

// Close cancels pending requests.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Own reports whether this is the viewer's own profile.
func (m Model) Own() bool { return m.userID == "" }

// User returns the loaded profile.
func (m Model) User() domain.User { return m.user }

// Posts returns the loaded posts.
func (m Model) Posts() []domain.Post { return m.list }

// Loading reports whether the profile is loading.
func (m Model) Loading() bool { return m.loading }

// Status returns the last friend action message.
func (m Model) Status() string { return m.status }

// Err returns the load error, if any.
func (m Model) Err() error { return m.err }

// SetWidth sets the render width.
func (m *Model) SetWidth(w int) { m.width = w }

func (m Model) load() tea.Cmd {
	ctx, users, posts := m.ctx, m.users, m.posts
	userID, viewerID := m.userID, m.viewer.ID
	return func() tea.Msg {
		postsOf := userID
		if postsOf == "" {
			postsOf = viewerID
		}
		if postsOf == "" {
			// Own profile without a cached user: the ID comes from GetUser.
			u, err := users.GetUser(ctx, "")
			if err != nil {
				return LoadedMsg{UserID: userID, Err: err}
			}
			list, err := posts.UserPosts(ctx, u.ID)
			return LoadedMsg{UserID: userID, User: u, Posts: list, Err: err}
		}

		var (
			user domain.User
			list []domain.Post
			uerr error
			perr error
		)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			user, uerr = users.GetUser(ctx, userID)
		}()
		go func() {
			defer wg.Done()
			list, perr = posts.UserPosts(ctx, postsOf)
		}()
		wg.Wait()
		if uerr != nil {
			return LoadedMsg{UserID: userID, Err: uerr}
		}
		if perr != nil {
			return LoadedMsg{UserID: userID, Err: perr}
		}
		return LoadedMsg{UserID: userID, User: user, Posts: list}
	}
}

func (m Model) recordView() tea.Cmd {
	ctx, users, id := m.ctx, m.users, m.userID
	return func() tea.Msg {
		return viewRecordedMsg{err: users.ViewProfile(ctx, id)}
	}
}

func (m Model) friendAction(action string) tea.Cmd {
	ctx, users, id := m.ctx, m.users, m.userID
	return func() tea.Msg {
		var (
			msg string
			err error
		)
		switch action {
		case ActionRequest:
			msg, err = users.SendFriendRequest(ctx, id)
		case ActionAccept:
			msg, err = users.AcceptFriendRequest(ctx, id)
		case ActionUnfriend:
			msg, err = users.Unfriend(ctx, id)
		}
		return ActionMsg{UserID: id, Action: action, Message: msg, Err: err}
	}
}

// Update handles messages for the profile screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.UserID != m.userID {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, domain.ErrSessionExpired) {
				return m, func() tea.Msg { return common.SessionExpiredMsg{} }
			}
			if errors.Is(msg.Err, context.Canceled) {
				return m, nil
			}
			m.err = msg.Err
			m.log.Error("profile load failed", "user", m.userID, "err", msg.Err)
			return m, nil
		}
		m.err = nil
		m.user = msg.User
		m.list = msg.Posts
		if m.cursor >= len(m.list) {
			m.cursor = max(len(m.list)-1, 0)
		}
		return m, nil

	case viewRecordedMsg:
		if msg.err != nil {
			m.log.Warn("profile view not recorded", "user", m.userID, "err", msg.err)
		}
		return m, nil

	case ActionMsg:
		if msg.UserID != m.userID || errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.busy = false
		if msg.Err != nil {
			m.failed = true
			m.status = msg.Err.Error()
			m.log.Error("friend action failed", "action", msg.Action, "user", m.userID, "err", msg.Err)
			return m, nil
		}
		m.failed = false
		m.status = msg.Message
		// Friend lists changed on the server.
		return m, m.load()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.Close()
		return m, func() tea.Msg { return ClosedMsg{} }
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.load()
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
		return m, nil
	}

	if m.Own() || m.busy || m.loading {
		return m, nil
	}
	var action string
	switch {
	case key.Matches(msg, m.keys.FriendRequest):
		action = ActionRequest
	case key.Matches(msg, m.keys.AcceptRequest):
		action = ActionAccept
	case key.Matches(msg, m.keys.Unfriend):
		action = ActionUnfriend
	default:
		return m, nil
	}
	m.busy = true
	m.status = ""
	return m, m.friendAction(action)
}
