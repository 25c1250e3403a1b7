package ui

import (
	"charm.land/bubbles/v2/help"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/secops/internal/config"
)

// FormTheme returns a huh theme matching the palette.
func FormTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

		t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(ColorPrimary).SetString("> ")
		t.Focused.Option = lipgloss.NewStyle().Foreground(ColorText)
		t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.Help = help.New().Styles
		return t
	})
}

// threadLabelWidth caps thread names in pickers and listings.
const threadLabelWidth = 32

// ThreadLabel renders a thread as a fixed-width name column followed by its
// draft size.
func ThreadLabel(t config.Thread) string {
	name := PadRight(TruncateName(t.Name, threadLabelWidth), threadLabelWidth)
	return name + "  " + FormatBytes(len(t.Draft))
}

// ThreadSelect builds a picker over threads that stores the chosen ID in
// value. The active thread is preselected when value already holds its ID.
func ThreadSelect(threads []config.Thread, value *string) *huh.Form {
	opts := make([]huh.Option[string], len(threads))
	for i, t := range threads {
		opts[i] = huh.NewOption(ThreadLabel(t), t.ID)
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Select thread").
			Description("Scans are inserted into the active thread").
			Options(opts...).
			Filtering(true).
			Value(value),
	)).WithTheme(FormTheme())
}
