package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/secops/internal/ui"
)

// View implements tea.Model.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.Render())
	return v
}

// Render renders the panel as a string.
func (m *Model) Render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := ui.HeaderStyle.Render("SecOps Scan") + " " +
		ui.ListMutedStyle.Render(ui.TruncateName(m.path, max(m.width-16, 1)))

	status := ""
	if n, ok := m.toasts.Latest(); ok {
		status = ui.RenderToast(n, m.width)
	} else if m.Scanning() {
		status = ui.ListMutedStyle.Render("Scanning...")
	}

	footer := ui.FooterStyle.Render(m.help.View(m.keyMap))

	// header, status and footer take one line each, the border two more
	bodyHeight := max(m.height-5, 1)
	lines := strings.Split(m.preview, "\n")
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	body := ui.PanelStyle.
		Width(m.width).
		Height(bodyHeight + 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}
