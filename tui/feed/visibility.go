package feed

import "github.com/charmbracelet/lipgloss"

const (
	headerLines = 2 // title and a blank line
	footerLines = 2 // status and help
	minViewport = 3
)

func (m Model) viewportHeight() int {
	h := m.height - headerLines - footerLines
	if h < minViewport {
		return minViewport
	}
	return h
}

// cardHeights returns the rendered line count of each card in feed order.
func (m Model) cardHeights() []int {
	heights := make([]int, len(m.cards))
	for i := range m.cards {
		heights[i] = lipgloss.Height(m.renderCard(i))
	}
	return heights
}

// newlyVisible returns the IDs of unviewed cards that have at least
// viewedThreshold of their lines inside the viewport.
func (m Model) newlyVisible() []string {
	if len(m.cards) == 0 || m.InDetail() {
		return nil
	}
	top, bottom := m.offset, m.offset+m.viewportHeight()

	var ids []string
	start := 0
	for i, h := range m.cardHeights() {
		end := start + h
		if start >= bottom {
			break
		}
		c := m.cards[i]
		if !c.Viewed && h > 0 {
			shown := overlap(start, end, top, bottom)
			if float64(shown) >= viewedThreshold*float64(h) {
				ids = append(ids, c.Post.ID)
			}
		}
		start = end
	}
	return ids
}

// ensureCursorVisible scrolls so the selected card's top line is on screen,
// showing as much of the card as fits.
func (m *Model) ensureCursorVisible() {
	if len(m.cards) == 0 {
		m.offset = 0
		return
	}
	heights := m.cardHeights()
	start := 0
	for i := 0; i < m.cursor && i < len(heights); i++ {
		start += heights[i]
	}
	end := start + heights[m.cursor]
	vh := m.viewportHeight()

	switch {
	case start < m.offset:
		m.offset = start
	case end > m.offset+vh:
		m.offset = end - vh
		if m.offset > start {
			m.offset = start
		}
	}
}

func overlap(aStart, aEnd, bStart, bEnd int) int {
	lo := max(aStart, bStart)
	hi := min(aEnd, bEnd)
	if hi < lo {
		return 0
	}
	return hi - lo
}
