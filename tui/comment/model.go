// Package comment implements the single-field comment and reply form shown
// under an open post card.
package comment

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"

	"github.com/CrestNiraj12/medplus/app"
	"github.com/CrestNiraj12/medplus/domain"
)

const charLimit = 1000

var validate = validator.New()

// input is the validated form value.
type input struct {
	Comment string `validate:"required"`
}

// SubmittedMsg is sent after the backend accepted a comment. The parent
// refetches the comment list; nothing is appended locally.
type SubmittedMsg struct {
	PostID  string
	ReplyAt string
}

// CancelledMsg is sent when the user closes the form.
type CancelledMsg struct {
	PostID string
}

// Editor prepares an external editor session for long drafts.
type Editor interface {
	Cmd(content, replyTo string) (*exec.Cmd, string, error)
	ReadContent(path string) (string, error)
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	postID  string
	tmpPath string
	err     error
}

// submitResultMsg carries the backend outcome back to the form.
type submitResultMsg struct {
	postID string
	err    error
}

// Model is the comment form for one post, optionally targeting a comment.
type Model struct {
	ctx     context.Context
	posts   app.PostService
	user    domain.User
	postID  string
	replyAt string
	input   textinput.Model
	editor  Editor
	loading bool
	errMsg  string
}

// New creates a focused form. An empty replyAt creates a top-level comment.
// ctx is the owning card's lifetime; cancelling it aborts a pending submit.
func New(ctx context.Context, posts app.PostService, user domain.User, postID, replyAt string) Model {
	ti := textinput.New()
	ti.CharLimit = charLimit
	ti.Width = 60
	ti.Placeholder = "Comment this post"
	if replyAt != "" {
		ti.Placeholder = "Reply @" + replyAt
	}
	ti.Focus()

	return Model{
		ctx:     ctx,
		posts:   posts,
		user:    user,
		postID:  postID,
		replyAt: replyAt,
		input:   ti,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// WithEditor enables drafting in an external editor with ctrl+e.
func (m Model) WithEditor(e Editor) Model {
	m.editor = e
	return m
}

// PostID returns the post the form comments on.
func (m Model) PostID() string { return m.postID }

// ReplyAt returns the targeted comment ID, or "" for a top-level comment.
func (m Model) ReplyAt() string { return m.replyAt }

// Value returns the current draft.
func (m Model) Value() string { return m.input.Value() }

// Loading reports whether a submit is in flight.
func (m Model) Loading() bool { return m.loading }

// Err returns the inline error shown under the field.
func (m Model) Err() string { return m.errMsg }

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		if msg.postID != m.postID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			// Keep the draft so the user can retry.
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.input.Reset()
		m.errMsg = ""
		postID, replyAt := m.postID, m.replyAt
		return m, func() tea.Msg { return SubmittedMsg{PostID: postID, ReplyAt: replyAt} }

	case editorFinishedMsg:
		if msg.postID != m.postID || m.editor == nil {
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("editor: %v", msg.err)
			return m, nil
		}
		content, err := m.editor.ReadContent(msg.tmpPath)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		if content != "" {
			m.input.SetValue(content)
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+e":
			cmd := m.launchEditor()
			return m, cmd
		case "esc":
			// The form stays open until the submit settles.
			if m.loading {
				return m, nil
			}
			postID := m.postID
			return m, func() tea.Msg { return CancelledMsg{PostID: postID} }
		case "enter":
			return m.submit()
		}
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// launchEditor opens the draft in $EDITOR, suspending the program while
// it runs.
func (m *Model) launchEditor() tea.Cmd {
	if m.editor == nil || m.loading {
		return nil
	}
	replyTo := ""
	if m.replyAt != "" {
		replyTo = "@" + m.replyAt
	}
	cmd, tmpPath, err := m.editor.Cmd(m.input.Value(), replyTo)
	if err != nil {
		m.errMsg = fmt.Sprintf("preparing editor: %v", err)
		return nil
	}
	postID := m.postID
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{postID: postID, tmpPath: tmpPath, err: err}
	})
}

// submit validates the field and, when it is non-empty, posts it.
func (m Model) submit() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if err := validate.Struct(input{Comment: text}); err != nil {
		m.errMsg = domain.ErrEmptyComment.Error()
		return m, nil
	}

	m.loading = true
	m.errMsg = ""

	ctx, posts, postID := m.ctx, m.posts, m.postID
	payload := domain.NewComment{
		Comment: text,
		From:    m.user.FirstName + " " + m.user.LastName,
		ReplyAt: m.replyAt,
	}
	return m, func() tea.Msg {
		err := posts.AddComment(ctx, postID, payload)
		return submitResultMsg{postID: postID, err: err}
	}
}
