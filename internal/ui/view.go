package ui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	if m.done {
		return ""
	}
	return m.viewHeader() + "\n\n" + m.viewSlots()
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("tuber")
	sub := m.styles.Subtitle.Render(fmt.Sprintf("Completed: %d • dest: %s • q: quit", m.countFinished(), m.settings.Destination))
	return title + "  " + sub
}

func (m Model) viewSlots() string {
	snap := m.board.Snapshot()
	var b strings.Builder
	for i, slot := range snap {
		b.WriteString(m.viewSlot(i, slot))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewSlot(i int, slot string) string {
	label := m.styles.SlotName.Render(fmt.Sprintf("worker %d", i))
	if strings.TrimSpace(slot) == "" {
		return m.styles.Box.Render(label + "\n" + m.spinners[i].View() + " " + m.styles.Faint.Render("waiting"))
	}
	return m.styles.Box.Render(label + "\n" + strings.TrimRight(slot, "\n"))
}
