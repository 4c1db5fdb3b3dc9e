// Package symptoms implements the "connect to a doctor" search panel.
package symptoms

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/medplus/app"
	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/infra/logging"
	"github.com/CrestNiraj12/medplus/tui/common"
)

// FetchErrorText replaces the recommendation when the lookup fails.
const FetchErrorText = "Error fetching recommendation. Please try again later."

// ClosedMsg is sent when the user leaves the panel.
type ClosedMsg struct{}

type resultMsg struct {
	query          string
	recommendation string
	err            error
}

// Model is the symptom search panel.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	service app.SymptomService
	log     *logging.Logger
	user    domain.User

	input          textinput.Model
	spinner        spinner.Model
	searching      bool
	query          string
	recommendation string
	errMsg         string
}

// New creates a focused search panel.
func New(service app.SymptomService, user domain.User, log *logging.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your symptoms (separated by commas)"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot

	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ctx:     ctx,
		cancel:  cancel,
		service: service,
		log:     log.With("component", "symptoms"),
		user:    user,
		input:   ti,
		spinner: s,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close aborts a pending search.
func (m Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Recommendation returns the text shown under "Recommended Doctor:".
func (m Model) Recommendation() string { return m.recommendation }

// Searching reports whether a lookup is in flight.
func (m Model) Searching() bool { return m.searching }

// Update handles messages for the panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.log.Error("recommendation failed", "err", msg.err)
			m.recommendation = FetchErrorText
			return m, nil
		}
		m.recommendation = msg.recommendation
		return m, nil

	case spinner.TickMsg:
		if !m.searching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Close()
			return m, func() tea.Msg { return ClosedMsg{} }
		case "enter":
			return m.search()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) search() (Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.errMsg = "Please enter at least one symptom."
		return m, nil
	}
	m.errMsg = ""
	m.query = query
	m.searching = true

	ctx, service := m.ctx, m.service
	return m, tea.Batch(
		func() tea.Msg {
			rec, err := service.Recommend(ctx, query)
			return resultMsg{query: query, recommendation: rec, err: err}
		},
		m.spinner.Tick,
	)
}

// View renders the panel.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.TitleStyle.Render("How are you feeling?"))
	if name := m.user.FullName(); name != "" {
		b.WriteString("  " + common.AuthorStyle.Render(name))
	}
	b.WriteString("\n")
	b.WriteString(common.ContentStyle.Render("Let's connect you to a doctor."))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(common.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	switch {
	case m.searching:
		b.WriteString("\n" + m.spinner.View() + " Searching...")
	case m.recommendation != "":
		b.WriteString("\n" + common.AuthorStyle.Render("Recommended Doctor:") + "\n")
		b.WriteString(common.ContentStyle.Render(m.recommendation))
	}
	b.WriteString("\n\n")
	b.WriteString(common.TimestampStyle.Render("enter: search • esc: back"))
	return common.PanelStyle.Render(b.String())
}
