package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/medplus/app"
	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
	"github.com/CrestNiraj12/medplus/tui/comment"
	"github.com/CrestNiraj12/medplus/tui/common"
	"github.com/CrestNiraj12/medplus/tui/feed"
	"github.com/CrestNiraj12/medplus/tui/hero"
	"github.com/CrestNiraj12/medplus/tui/login"
	"github.com/CrestNiraj12/medplus/tui/profile"
	"github.com/CrestNiraj12/medplus/tui/symptoms"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Posts    app.PostService
	Users    app.UserService
	Symptoms app.SymptomService
	Session  app.SessionStore
	Editor   comment.Editor // Optional; enables ctrl+e in comment forms
	Log      *logging.Logger
	FeedPath string
	// SessionExpired starts on the login screen with the expiry notice.
	SessionExpired bool
}

type activeView int

const (
	feedView activeView = iota
	profileView
	symptomsView
	loginView
)

// userLoadedMsg carries the authenticated user.
type userLoadedMsg struct {
	User  domain.User
	Err   error
	Login bool // Result of a login attempt rather than startup
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps     Deps
	log      *logging.Logger
	active   activeView
	session  domain.Session
	feed     feed.Model
	hero     hero.Model
	profile  profile.Model
	symptoms symptoms.Model
	login    login.Model
	keys     common.KeyMap
	status   string // Transient status message
	width    int
	height   int
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	log := deps.Log.With("component", "tui")
	a := App{
		deps: deps,
		log:  log,
		feed: newFeed(deps),
		hero: hero.New(),
		keys: common.DefaultKeyMap(),
	}

	session, err := deps.Session.Load()
	if err != nil {
		log.Error("loading session failed", "err", err)
	}
	a.session = session

	switch {
	case deps.SessionExpired:
		a.showLogin(login.ExpiredNotice)
	case !session.Authenticated():
		a.showLogin("")
	default:
		a.feed.SetUser(session.User)
	}
	return a
}

func newFeed(deps Deps) feed.Model {
	f := feed.New(deps.Posts, deps.FeedPath, deps.Log)
	if deps.Editor != nil {
		f.SetEditor(deps.Editor)
	}
	return f
}

// Init starts the active view. With a session, it loads the feed and
// refreshes the current user.
func (a App) Init() tea.Cmd {
	if a.active == loginView {
		return tea.Batch(a.login.Init(), a.hero.Init())
	}
	return tea.Batch(
		a.feed.Init(),
		a.hero.Init(),
		a.fetchUser(false),
	)
}

func (a App) fetchUser(fromLogin bool) tea.Cmd {
	users := a.deps.Users
	return func() tea.Msg {
		u, err := users.GetUser(context.Background(), "")
		return userLoadedMsg{User: u, Err: err, Login: fromLogin}
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.hero.SetWidth(msg.Width)
		a.profile.SetWidth(msg.Width)
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(a.feedSize())
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.active == feedView && !a.feed.Composing() {
			switch {
			case key.Matches(msg, a.keys.Quit) && !a.feed.InDetail():
				return a.quit()
			case key.Matches(msg, a.keys.MyProfile):
				return a.openProfile("")
			case key.Matches(msg, a.keys.Symptoms):
				a.active = symptomsView
				a.status = ""
				a.symptoms = symptoms.New(a.deps.Symptoms, a.session.User, a.deps.Log)
				return a, a.symptoms.Init()
			}
		}

	case userLoadedMsg:
		return a.handleUser(msg)

	case common.SessionExpiredMsg:
		return a.expire()

	case login.SubmittedMsg:
		a.session = domain.Session{Token: msg.Token}
		if err := a.deps.Session.Save(a.session); err != nil {
			a.log.Error("saving session failed", "err", err)
			a.login.Fail("Could not save session: " + err.Error())
			return a, nil
		}
		return a, a.fetchUser(true)

	case feed.OpenProfileMsg:
		return a.openProfile(msg.UserID)

	case profile.ClosedMsg, symptoms.ClosedMsg:
		a.active = feedView
		return a, nil

	case hero.TickMsg:
		var cmd tea.Cmd
		a.hero, cmd = a.hero.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		cmds = append(cmds, cmd)
		switch a.active {
		case profileView:
			a.profile, cmd = a.profile.Update(msg)
			cmds = append(cmds, cmd)
		case symptomsView:
			a.symptoms, cmd = a.symptoms.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case feed.PostsLoadedMsg, feed.PostsErrorMsg, feed.CommentsLoadedMsg, feed.CommentsErrorMsg,
		feed.LikeResultMsg, feed.PostViewedMsg, feed.DeleteResultMsg:
		// Feed results land even while another view is on top.
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, cmd
	}

	// Delegate to the active sub-model.
	var cmd tea.Cmd
	switch a.active {
	case feedView:
		a.feed, cmd = a.feed.Update(msg)
	case profileView:
		a.profile, cmd = a.profile.Update(msg)
	case symptomsView:
		a.symptoms, cmd = a.symptoms.Update(msg)
	case loginView:
		a.login, cmd = a.login.Update(msg)
	}
	return a, cmd
}

func (a App) handleUser(msg userLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, domain.ErrSessionExpired) {
			if msg.Login {
				a.login.Fail("Authentication failed")
				return a, nil
			}
			return a.expire()
		}
		a.log.Error("loading current user failed", "err", msg.Err)
		if msg.Login {
			a.login.Fail(msg.Err.Error())
			return a, nil
		}
		a.status = "Could not load your profile: " + msg.Err.Error()
		return a, nil
	}

	a.session.User = msg.User
	if err := a.deps.Session.Save(a.session); err != nil {
		a.log.Warn("caching user failed", "err", err)
	}
	a.feed.SetUser(msg.User)
	if !msg.Login {
		return a, nil
	}

	a.log.Info("logged in", "user", msg.User.ID)
	a.active = feedView
	a.status = "Welcome, " + msg.User.FullName()
	return a, a.feed.Init()
}

// expire is the single forced-logout path: it drops the session, stops
// feed requests, and shows the login screen.
func (a App) expire() (tea.Model, tea.Cmd) {
	if err := a.deps.Session.Clear(); err != nil {
		a.log.Error("clearing session failed", "err", err)
	}
	a.log.Info("session expired")
	a.session = domain.Session{}
	a.feed.Teardown()
	a.profile.Close()
	a.symptoms.Close()

	a.feed = newFeed(a.deps)
	a.feed, _ = a.feed.Update(a.feedSize())
	a.showLogin(login.ExpiredNotice)
	return a, a.login.Init()
}

func (a *App) showLogin(notice string) {
	a.active = loginView
	a.status = ""
	a.login = login.New(notice)
}

func (a App) openProfile(userID string) (tea.Model, tea.Cmd) {
	a.profile.Close()
	a.active = profileView
	a.status = ""
	a.profile = profile.New(a.deps.Users, a.deps.Posts, a.session.User, userID, a.deps.Log)
	a.profile.SetWidth(a.width)
	return a, a.profile.Init()
}

func (a App) quit() (tea.Model, tea.Cmd) {
	a.feed.Teardown()
	a.profile.Close()
	a.symptoms.Close()
	return a, tea.Quit
}

// feedSize is the window size left for the feed under the hero banner.
func (a App) feedSize() tea.WindowSizeMsg {
	h := a.height - lipgloss.Height(a.hero.View()) - 1
	return tea.WindowSizeMsg{Width: a.width, Height: h}
}

// View renders the active sub-model.
func (a App) View() string {
	var s string

	switch a.active {
	case feedView:
		if a.feed.InDetail() {
			s = a.feed.View()
		} else {
			s = a.hero.View() + "\n" + a.feed.View()
		}
	case profileView:
		s = a.profile.View()
	case symptomsView:
		s = a.symptoms.View()
	case loginView:
		s = a.login.View()
	}

	// Append transient status if present.
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}

	return s
}
