package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/medplus/tui/common"
)

// View renders the profile header, friend status, and post list.
func (m Model) View() string {
	if m.loading && m.user.ID == "" {
		return m.spinner.View() + " Loading profile..."
	}
	if m.err != nil && m.user.ID == "" {
		return common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n" +
			common.TimestampStyle.Render("r: retry • esc: back")
	}

	u := m.user
	var b strings.Builder

	name := common.AuthorStyle.Render(u.FullName())
	if u.Verified {
		name += " " + common.SuccessStyle.Render("✓")
	}
	b.WriteString(name + "\n")
	if u.Profession != "" {
		b.WriteString(common.ContentStyle.Render(u.Profession) + "\n")
	}
	if u.Location != "" {
		b.WriteString(common.TimestampStyle.Render(u.Location) + "\n")
	}
	if u.Email != "" {
		b.WriteString(common.LinkStyle.Render(u.Email) + "\n")
	}
	b.WriteString(common.MetadataStyle.Render(fmt.Sprintf("%d friends • %d profile views", len(u.Friends), len(u.Views))))
	if !m.Own() && u.IsFriend(m.viewer.ID) {
		b.WriteString("  " + common.SuccessStyle.Render("Friends"))
	}
	header := common.PanelStyle.Render(b.String())

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")

	if m.status != "" {
		style := common.SuccessStyle
		if m.failed {
			style = common.ErrorStyle
		}
		out.WriteString(style.Render(m.status) + "\n")
	}

	out.WriteString("\n" + common.TitleStyle.Render("Posts") + "\n")
	if len(m.list) == 0 {
		out.WriteString(common.TimestampStyle.Render("No posts yet.") + "\n")
	}
	now := time.Now()
	for i, p := range m.list {
		prefix := "  "
		if i == m.cursor {
			prefix = common.SelectedCommentStyle.Render("> ")
		}
		line := prefix + common.TitleStyle.Render(p.Title) + "  " +
			common.MetadataStyle.Render(fmt.Sprintf("♥ %d • %d views", p.LikesCount(), p.Views)) + "  " +
			common.TimestampStyle.Render(common.FromNow(p.CreatedAt, now))
		out.WriteString(ansi.Truncate(line, m.width, "…") + "\n")
	}

	k := m.keys
	help := common.HelpLine(k.Up, k.Down, k.Refresh, k.Back)
	if !m.Own() {
		help = common.HelpLine(k.FriendRequest, k.AcceptRequest, k.Unfriend, k.Refresh, k.Back)
	}
	out.WriteString("\n" + common.TimestampStyle.Render(help))
	return out.String()
}
