// Package hero renders the rotating welcome banner above the feed.
package hero

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/medplus/tui/common"
)

// Interval is the autoplay delay between slides.
const Interval = 5 * time.Second

// Slide is one banner page.
type Slide struct {
	Title    string
	Subtitle string
	Buttons  []string
}

// DefaultSlides are the two marketing slides.
var DefaultSlides = []Slide{
	{
		Title:    "Welcome to Medplus Health",
		Subtitle: "Connecting Patients with Trusted Medical Professionals",
		Buttons:  []string{"Learn More", "Contact Us"},
	},
	{
		Title:    "Join Our Network of Medical Professionals",
		Subtitle: "Connect, collaborate, and share knowledge to enhance overall health.",
		Buttons:  []string{"Learn More", "Join Now"},
	},
}

var lastID int64

// TickMsg advances the carousel owned by ID.
type TickMsg struct {
	ID  int
	tag int
}

// Model is the carousel. Its only state is the current slide.
type Model struct {
	slides []Slide
	index  int
	width  int
	id     int
	tag    int
}

// New creates a carousel over slides, or DefaultSlides when none are given.
func New(slides ...Slide) Model {
	if len(slides) == 0 {
		slides = DefaultSlides
	}
	return Model{
		slides: slides,
		width:  80,
		id:     int(atomic.AddInt64(&lastID, 1)),
	}
}

// Init starts autoplay.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Index returns the current slide index.
func (m Model) Index() int { return m.index }

// SetWidth sets the render width.
func (m *Model) SetWidth(w int) { m.width = w }

// Update advances on its own ticks and ignores everything else.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || tick.tag != m.tag {
		return m, nil
	}
	m.index = (m.index + 1) % len(m.slides)
	m.tag++
	return m, m.tick()
}

func (m Model) tick() tea.Cmd {
	id, tag := m.id, m.tag
	return tea.Tick(Interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}

// View renders the current slide and the dot indicator.
func (m Model) View() string {
	s := m.slides[m.index]
	inner := max(m.width-6, 20)

	var buttons []string
	for _, b := range s.Buttons {
		buttons = append(buttons, common.ButtonStyle.Render(b))
	}
	center := lipgloss.NewStyle().Width(inner).Align(lipgloss.Center)
	body := lipgloss.JoinVertical(lipgloss.Center,
		center.Render(common.AppTitleStyle.UnsetPadding().Render(s.Title)),
		center.Render(common.TaglineStyle.UnsetMargins().Render(s.Subtitle)),
		"",
		center.Render(strings.Join(buttons, " ")),
		center.Render(m.dots()),
	)
	return common.PanelStyle.Padding(0, 2).Render(body)
}

func (m Model) dots() string {
	var b strings.Builder
	for i := range m.slides {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == m.index {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}
