package common

import "github.com/charmbracelet/lipgloss"

const accent = lipgloss.Color("#0444A4")

var (
	// AppTitleStyle styles the application title.
	AppTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7AA2F7")).
			Padding(1, 2, 0, 1)

	// TaglineStyle styles the app's tagline.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Italic(true).
			MarginLeft(1)

	// AuthorStyle styles author names.
	AuthorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7DC4E4"))

	// TitleStyle styles post titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	// TimestampStyle styles timestamps and locations.
	TimestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D"))

	// ContentStyle styles post and comment text.
	ContentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CAD3F5"))

	// LinkStyle styles inline toggles like "Show More".
	LinkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8AADF4")).
			Bold(true)

	// MetadataStyle styles the likes/views/comments row.
	MetadataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A5ADCB"))

	// LikeActiveStyle highlights a like by the current user.
	LikeActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5B8DEF")).
			Bold(true)

	// ViewsStyle tints the view counter.
	ViewsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F5BDE6"))

	// SelectedStyle highlights the currently selected card.
	SelectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7AA2F7")).
			Padding(0, 1)

	// UnselectedStyle gives unselected cards a subtle border.
	UnselectedStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	// CommentStyle indents the comment block under a card.
	CommentStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(lipgloss.Color("#666666"))

	// SelectedCommentStyle marks the comment a reply would target.
	SelectedCommentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F5A97F")).
				Bold(true)

	// StatusBarStyle styles the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E738D")).
			Padding(1, 0, 0, 0)

	// ConfirmStyle styles confirmation prompts.
	ConfirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ED8796")).
			Bold(true).
			Padding(0, 1)

	// ErrorStyle styles error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F64949")).
			Bold(true)

	// SuccessStyle styles success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2BA150")).
			Bold(true)

	// ButtonStyle renders a call-to-action label.
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accent).
			Padding(0, 2).
			Bold(true)

	// PanelStyle frames standalone widgets (hero, symptom search).
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)
