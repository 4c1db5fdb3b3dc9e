package comment

import (
	"strings"

	"github.com/CrestNiraj12/medplus/tui/common"
)

// View renders the field, the inline error, and the submit hint.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(common.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString(common.TimestampStyle.Render("Submitting..."))
	} else {
		hint := "enter: submit • esc: cancel"
		if m.editor != nil {
			hint += " • ctrl+e: editor"
		}
		b.WriteString(common.TimestampStyle.Render(hint))
	}
	return b.String()
}
