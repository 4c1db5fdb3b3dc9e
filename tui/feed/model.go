package feed

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/medplus/app"
	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
	"github.com/CrestNiraj12/medplus/tui/comment"
	"github.com/CrestNiraj12/medplus/tui/common"
)

const (
	// viewedThreshold is the share of a card that must be on screen for it
	// to count as viewed.
	viewedThreshold = 0.5

	defaultWidth  = 80
	defaultHeight = 24
)

// generations is shared by every feed instance, so a result from a
// torn-down feed never matches the generation of its replacement.
var generations atomic.Int64

func nextGen() int { return int(generations.Add(1)) }

// PostsLoadedMsg is sent when the feed fetch completes successfully.
type PostsLoadedMsg struct {
	Posts []domain.Post
	Gen   int
}

// PostsErrorMsg is sent when the feed fetch fails.
type PostsErrorMsg struct {
	Err error
	Gen int
}

// CommentsLoadedMsg carries a full comment list for one post.
type CommentsLoadedMsg struct {
	PostID   string
	Comments []domain.Comment
	Gen      int
}

// CommentsErrorMsg is sent when a comment fetch fails.
type CommentsErrorMsg struct {
	PostID string
	Err    error
	Gen    int
}

// LikeResultMsg is sent after a like attempt.
type LikeResultMsg struct {
	PostID string
	Err    error
	Gen    int
}

// PostViewedMsg marks a post as viewed. It is the only way the view
// counter changes; repeated messages for the same post are no-ops.
type PostViewedMsg struct {
	PostID string
}

// DeleteResultMsg is sent after a delete attempt.
type DeleteResultMsg struct {
	PostID string
	Err    error
	Gen    int
}

// OpenProfileMsg asks the root model to show a profile. An empty UserID
// means the authenticated user.
type OpenProfileMsg struct {
	UserID string
}

// Model holds the state for the post feed.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	posts app.PostService
	log   *logging.Logger
	path  string
	query map[string]any
	user  domain.User

	cards   []Card
	cursor  int
	offset  int // First visible line of the card list
	width   int
	height  int
	loading bool
	err     error
	gen     int

	form          *comment.Model
	editor        comment.Editor
	confirmDelete bool
	status        string

	spinner spinner.Model
	keys    common.KeyMap
	now     func() time.Time
}

// New creates a feed model listing posts from path ("/posts" when empty).
func New(posts app.PostService, path string, log *logging.Logger) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AA2F7"))

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		posts:   posts,
		log:     log.With("component", "feed"),
		path:    path,
		loading: true,
		gen:     nextGen(),
		width:   defaultWidth,
		height:  defaultHeight,
		spinner: s,
		keys:    common.DefaultKeyMap(),
		now:     time.Now,
	}
}

// Init starts the initial feed fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchPosts(m.gen),
		m.spinner.Tick,
	)
}

// Refresh drops every card, cancelling their pending requests, and
// re-fetches the feed.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.closeCards()
	m.gen = nextGen()
	m.loading = true
	m.err = nil
	m.form = nil
	m.confirmDelete = false
	return m, m.fetchPosts(m.gen)
}

// Teardown cancels every request started by the feed. Results that still
// arrive afterwards are ignored.
func (m Model) Teardown() {
	if m.cancel != nil {
		m.cancel()
	}
}

// SetUser records the authenticated user, used for like state, ownership,
// and the comment author name.
func (m *Model) SetUser(u domain.User) {
	m.user = u
}

// SetEditor enables external-editor drafting in comment forms.
func (m *Model) SetEditor(e comment.Editor) {
	m.editor = e
}

// SetQuery replaces the filter object sent with the feed request.
func (m *Model) SetQuery(q map[string]any) {
	m.query = q
}

// Cards returns the current cards for external access.
func (m Model) Cards() []Card {
	return m.cards
}

// Card returns the card for a post ID.
func (m Model) Card(id string) (Card, bool) {
	if i := m.indexOf(id); i >= 0 {
		return m.cards[i], true
	}
	return Card{}, false
}

// Loading reports whether the feed itself is loading.
func (m Model) Loading() bool { return m.loading }

// Err returns the last feed error, if any.
func (m Model) Err() error { return m.err }

// Cursor returns the index of the selected card.
func (m Model) Cursor() int { return m.cursor }

// Status returns the transient status line.
func (m Model) Status() string { return m.status }

// Composing reports whether the comment form has focus.
func (m Model) Composing() bool { return m.form != nil }

// InDetail reports whether a card is opened full-screen.
func (m Model) InDetail() bool {
	c, ok := m.selected()
	return ok && c.Open
}

func (m Model) indexOf(id string) int {
	for i := range m.cards {
		if m.cards[i].Post.ID == id {
			return i
		}
	}
	return -1
}

func (m Model) selected() (Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return Card{}, false
	}
	return m.cards[m.cursor], true
}

func (m *Model) closeCards() {
	for i := range m.cards {
		m.cards[i].close()
	}
	m.cards = nil
	m.cursor = 0
	m.offset = 0
}
