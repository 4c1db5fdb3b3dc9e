package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/medplus/domain"
	"github.com/CrestNiraj12/medplus/tui/common"
)

// View renders the feed: header, the scrolled card list, and the footer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.TitleStyle.Render("Latest posts"))
	b.WriteString("\n\n")
	b.WriteString(m.body())
	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) body() string {
	switch {
	case m.loading && len(m.cards) == 0:
		return m.spinner.View() + " Loading feed..."
	case m.err != nil && len(m.cards) == 0:
		return common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n" +
			common.TimestampStyle.Render("Press r to retry.")
	case len(m.cards) == 0:
		return common.TimestampStyle.Render("No posts yet.")
	}

	var lines []string
	offset := m.offset
	if m.InDetail() {
		lines = strings.Split(m.renderCard(m.cursor), "\n")
		offset = 0
	} else {
		for i := range m.cards {
			lines = append(lines, strings.Split(m.renderCard(i), "\n")...)
		}
	}

	vh := m.viewportHeight()
	if offset > len(lines) {
		offset = len(lines)
	}
	end := min(offset+vh, len(lines))
	visible := lines[offset:end]
	for i, l := range visible {
		visible[i] = ansi.Truncate(l, m.width, "")
	}
	return strings.Join(visible, "\n")
}

func (m Model) footer() string {
	var status string
	switch {
	case m.confirmDelete:
		status = common.ConfirmStyle.Render("Delete this post? (y/n)")
	case m.status != "":
		status = common.TimestampStyle.Render(m.status)
	}

	k := m.keys
	var help string
	switch {
	case m.form != nil:
		help = "typing a comment"
	case m.InDetail():
		help = common.HelpLine(k.Back, k.Like, k.ToggleComments, k.Comment, k.Reply, k.ShowMore)
	default:
		help = common.HelpLine(k.Up, k.Down, k.Open, k.Like, k.ToggleComments, k.Comment,
			k.ShowMore, k.Profile, k.MyProfile, k.Symptoms, k.Refresh, k.Quit)
	}
	return status + "\n" + common.TimestampStyle.Render(ansi.Truncate(help, m.width, "…"))
}

func (m Model) cardWidth() int {
	w := m.width - 2
	if w < 20 {
		return 20
	}
	return w
}

// renderCard draws one post card with its comment block.
func (m Model) renderCard(i int) string {
	c := m.cards[i]
	p := c.Post
	inner := m.cardWidth() - 2
	now := m.now()

	var b strings.Builder

	author := common.AuthorStyle.Render(p.Author.FullName())
	if p.Author.Location != "" {
		author += " " + common.TimestampStyle.Render("· "+p.Author.Location)
	}
	b.WriteString(author + "  " + common.TimestampStyle.Render(common.FromNow(p.CreatedAt, now)))
	b.WriteString("\n")

	if p.Title != "" {
		b.WriteString(common.TitleStyle.Width(inner).Render(p.Title))
		b.WriteString("\n")
	}

	text, toggle := c.Description()
	if text != "" {
		b.WriteString(common.ContentStyle.Width(inner).Render(text))
		b.WriteString("\n")
	}
	if toggle != "" {
		b.WriteString(common.LinkStyle.Render("m: " + toggle))
		b.WriteString("\n")
	}
	if p.Image != "" {
		b.WriteString(common.TimestampStyle.Render("image: ") + common.LinkStyle.Render(p.Image))
		b.WriteString("\n")
	}

	b.WriteString(m.renderMetadata(p))

	if i == m.cursor && m.confirmDelete {
		b.WriteString("\n")
		b.WriteString(common.ConfirmStyle.Render("Delete this post? (y/n)"))
	}

	if c.CommentsVisible {
		b.WriteString("\n")
		b.WriteString(common.CommentStyle.Width(inner).Render(m.renderComments(c, inner)))
	}

	style := common.UnselectedStyle
	if i == m.cursor {
		style = common.SelectedStyle
	}
	return style.Width(m.cardWidth()).Render(b.String())
}

func (m Model) renderMetadata(p domain.Post) string {
	likes := fmt.Sprintf("♥ %d", p.LikesCount())
	if p.LikedBy(m.user.ID) {
		likes = common.LikeActiveStyle.Render(likes)
	} else {
		likes = common.MetadataStyle.Render(likes)
	}
	views := common.ViewsStyle.Render(fmt.Sprintf("%d views", p.Views))
	comments := common.MetadataStyle.Render(fmt.Sprintf("%d comments", len(p.Comments)))

	row := likes + "  " + views + "  " + comments
	if m.user.ID != "" && p.Author.ID == m.user.ID {
		row += "  " + common.TimestampStyle.Render("d: delete")
	}
	return row
}

func (m Model) renderComments(c Card, width int) string {
	var b strings.Builder

	if m.form != nil && m.form.PostID() == c.Post.ID {
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}

	switch {
	case c.Loading:
		b.WriteString(m.spinner.View() + " Loading comments...")
	case len(c.Comments) == 0:
		b.WriteString(common.TimestampStyle.Render("No Comments, be the first to comment"))
	default:
		now := m.now()
		for i, cm := range c.Comments {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderComment(cm, i == c.commentCursor, width, now))
		}
	}
	return b.String()
}

func renderComment(cm domain.Comment, selected bool, width int, now time.Time) string {
	indent := ""
	if cm.IsReply() {
		indent = "  ↳ "
	}
	name := strings.TrimSpace(cm.From)
	if name == "" {
		name = cm.Author.FullName()
	}
	head := common.AuthorStyle.Render(name) + " " +
		common.TimestampStyle.Render(common.FromNow(cm.CreatedAt, now))
	if selected {
		head = common.SelectedCommentStyle.Render("> ") + head
	}
	body := common.ContentStyle.Width(max(width-lipgloss.Width(indent), 10)).Render(cm.Comment)
	return indent + head + "\n" + lipgloss.NewStyle().PaddingLeft(lipgloss.Width(indent)).Render(body)
}
