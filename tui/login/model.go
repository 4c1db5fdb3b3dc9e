// Package login is the token prompt shown at startup without a session and
// after the backend expires one.
package login

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/infra/auth"
	"github.com/CrestNiraj12/medplus/tui/common"
)

// ExpiredNotice is shown when the session was torn down by the backend.
const ExpiredNotice = "Session expired, please login again"

// SubmittedMsg carries the token the user entered.
type SubmittedMsg struct {
	Token string
}

// Model is the login prompt.
type Model struct {
	input  textinput.Model
	notice string
	errMsg string
	busy   bool
	now    func() time.Time
}

// New creates a focused prompt. notice is shown above the field.
func New(notice string) Model {
	ti := textinput.New()
	ti.Placeholder = "Paste your access token"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Width = 60
	ti.Focus()

	return Model{input: ti, notice: notice, now: time.Now}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Notice returns the banner text.
func (m Model) Notice() string { return m.notice }

// Err returns the inline error.
func (m Model) Err() string { return m.errMsg }

// Fail re-enables the prompt with an inline error after a rejected token.
func (m *Model) Fail(msg string) {
	m.busy = false
	m.errMsg = msg
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return m.submit()
	}
	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	token := strings.TrimSpace(m.input.Value())
	switch {
	case token == "":
		m.errMsg = "Token can not be empty"
		return m, nil
	case auth.Expired(token, m.now()):
		m.errMsg = "This token has already expired"
		return m, nil
	}
	m.errMsg = ""
	m.busy = true
	return m, func() tea.Msg { return SubmittedMsg{Token: token} }
}

// View renders the prompt.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("Medplus"))
	b.WriteString("\n")
	b.WriteString(common.TaglineStyle.Render("Connecting Patients with Trusted Medical Professionals"))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(common.ErrorStyle.Render(m.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(common.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(common.TimestampStyle.Render("Signing in..."))
	} else {
		b.WriteString(common.TimestampStyle.Render("enter: login • ctrl+c: quit"))
	}
	return b.String()
}
