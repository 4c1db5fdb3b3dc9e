package feed

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/tui/comment"
)

// Update handles messages for the feed. Every pass re-checks which cards
// crossed the visibility threshold.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return m, cmd
	}

	m, cmd := m.update(msg)
	return m, tea.Batch(cmd, markViewed(m.newlyVisible()))
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case PostsLoadedMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.closeCards()
		m.loading = false
		m.err = nil
		m.cards = make([]Card, 0, len(msg.Posts))
		for _, p := range msg.Posts {
			m.cards = append(m.cards, newCard(m.ctx, p))
		}
		m.log.Debug("feed loaded", "posts", len(msg.Posts))
		return m, nil

	case PostsErrorMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.loading = false
		m.err = msg.Err
		m.log.Error("feed fetch failed", "err", msg.Err)
		return m, nil

	case CommentsLoadedMsg:
		i := m.indexOf(msg.PostID)
		if msg.Gen != m.gen || i < 0 {
			return m, nil
		}
		m.cards[i].setComments(msg.Comments)
		return m, nil

	case CommentsErrorMsg:
		i := m.indexOf(msg.PostID)
		if msg.Gen != m.gen || i < 0 || cancelled(msg.Err) {
			return m, nil
		}
		m.cards[i].Loading = false
		m.log.Error("comments fetch failed", "post", msg.PostID, "err", msg.Err)
		return m, nil

	case LikeResultMsg:
		return m.handleLikeResult(msg)

	case PostViewedMsg:
		if i := m.indexOf(msg.PostID); i >= 0 {
			m.cards[i].markViewed()
		}
		return m, nil

	case DeleteResultMsg:
		return m.handleDeleteResult(msg)

	case comment.SubmittedMsg:
		i := m.indexOf(msg.PostID)
		if i < 0 {
			return m, nil
		}
		m.cards[i].Loading = true
		return m, m.fetchComments(m.cards[i])

	case comment.CancelledMsg:
		m.form = nil
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	m.form = &form
	return m, cmd
}

// handleLikeResult applies a successful like locally, then refetches the
// post's comments whether or not the like succeeded.
func (m Model) handleLikeResult(msg LikeResultMsg) (Model, tea.Cmd) {
	i := m.indexOf(msg.PostID)
	if msg.Gen != m.gen || i < 0 {
		return m, nil
	}
	card := &m.cards[i]
	if msg.Err != nil {
		if cancelled(msg.Err) {
			return m, nil
		}
		m.log.Error("like failed", "post", msg.PostID, "err", msg.Err)
		m.status = "Error: " + msg.Err.Error()
	} else {
		card.Post.ToggleLike(m.user.ID)
		m.status = ""
	}
	card.Loading = true
	return m, m.fetchComments(*card)
}

func (m Model) handleDeleteResult(msg DeleteResultMsg) (Model, tea.Cmd) {
	i := m.indexOf(msg.PostID)
	if msg.Gen != m.gen || i < 0 || cancelled(msg.Err) {
		return m, nil
	}
	if msg.Err != nil {
		m.log.Error("delete failed", "post", msg.PostID, "err", msg.Err)
		m.status = "Error: " + msg.Err.Error()
		return m, nil
	}
	m.cards[i].close()
	m.cards = append(m.cards[:i], m.cards[i+1:]...)
	if m.cursor >= len(m.cards) && m.cursor > 0 {
		m.cursor = len(m.cards) - 1
	}
	m.status = "Post deleted"
	m.ensureCursorVisible()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m.Refresh()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.closeDetail()
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.cards)-1 {
			m.closeDetail()
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.closeDetail()
		return m, nil
	}

	if m.cursor < 0 || m.cursor >= len(m.cards) {
		return m, nil
	}
	card := &m.cards[m.cursor]

	switch {
	case key.Matches(msg, m.keys.Open):
		card.Open = true
		id := card.Post.ID
		return m, func() tea.Msg { return PostViewedMsg{PostID: id} }

	case key.Matches(msg, m.keys.Like):
		return m, m.likePost(*card)

	case key.Matches(msg, m.keys.ToggleComments):
		if card.toggleComments() {
			return m, m.fetchComments(*card)
		}
		if m.form != nil && m.form.PostID() == card.Post.ID {
			m.form = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Comment):
		return m.openForm("")

	case key.Matches(msg, m.keys.Reply):
		c, ok := card.SelectedComment()
		if !ok {
			m.status = "Select a comment with [ and ] to reply"
			return m, nil
		}
		return m.openForm(c.ID)

	case key.Matches(msg, m.keys.PrevComment):
		card.moveCommentCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.NextComment):
		card.moveCommentCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.ShowMore):
		if card.Post.HasMoreDescription() {
			card.Expanded = !card.Expanded
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.user.ID == "" || card.Post.Author.ID != m.user.ID {
			return m, nil
		}
		m.confirmDelete = true
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		id := card.Post.Author.ID
		return m, func() tea.Msg { return OpenProfileMsg{UserID: id} }
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.confirmDelete = false
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.status = "Deleting..."
		return m, m.deletePost(c)
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Back):
		m.confirmDelete = false
	}
	return m, nil
}

// openForm shows the selected card's comments and focuses a form under
// them. replyAt targets a comment; "" comments on the post.
func (m Model) openForm(replyAt string) (Model, tea.Cmd) {
	card := &m.cards[m.cursor]
	var cmds []tea.Cmd
	if !card.CommentsVisible {
		card.toggleComments()
		cmds = append(cmds, m.fetchComments(*card))
	}
	form := comment.New(card.ctx, m.posts, m.user, card.Post.ID, replyAt)
	if m.editor != nil {
		form = form.WithEditor(m.editor)
	}
	m.form = &form
	m.status = ""
	cmds = append(cmds, form.Init())
	return m, tea.Batch(cmds...)
}

func (m *Model) closeDetail() {
	if m.cursor >= 0 && m.cursor < len(m.cards) {
		m.cards[m.cursor].Open = false
	}
}
