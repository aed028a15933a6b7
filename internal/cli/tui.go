package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vitrinhq/vitrin/pkg/header"
	"github.com/vitrinhq/vitrin/pkg/templates"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// HeaderModel - Interactive header playground
// =============================================================================

// Playground rows.
const (
	rowLogo = iota
	rowTitle
	rowSize
	rowCount
)

// HeaderModel is the bubbletea model for the header playground. Each row
// cycles through one setting and the band below is re-resolved on every
// change.
type HeaderModel struct {
	Template templates.Template
	Cursor   int

	logos  []header.LogoPosition
	titles []header.TitlePosition
	tiers  []header.SizeTier
	choice [rowCount]int
	Width  int
}

// NewHeaderModel creates a playground for tpl starting from header-left,
// title left and the medium tier.
func NewHeaderModel(tpl templates.Template) HeaderModel {
	m := HeaderModel{
		Template: tpl,
		logos:    header.LogoPositions(),
		titles:   header.TitlePositions(),
		tiers:    header.Tiers(),
		Width:    60,
	}
	m.choice[rowSize] = 1
	return m
}

func (m HeaderModel) Init() tea.Cmd {
	return nil
}

func (m HeaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < rowCount-1 {
				m.Cursor++
			}
		case "right", "l", "enter", " ":
			m.choice[m.Cursor] = (m.choice[m.Cursor] + 1) % m.options(m.Cursor)
		case "left", "h":
			n := m.options(m.Cursor)
			m.choice[m.Cursor] = (m.choice[m.Cursor] + n - 1) % n
		}
	case tea.WindowSizeMsg:
		m.Width = min(max(msg.Width-4, 30), 90)
	}
	return m, nil
}

func (m HeaderModel) options(row int) int {
	switch row {
	case rowLogo:
		return len(m.logos)
	case rowTitle:
		return len(m.titles)
	}
	return len(m.tiers)
}

// Logo returns the selected logo position.
func (m HeaderModel) Logo() header.LogoPosition { return m.logos[m.choice[rowLogo]] }

// Title returns the selected title position.
func (m HeaderModel) Title() header.TitlePosition { return m.titles[m.choice[rowTitle]] }

// Tier returns the selected size tier.
func (m HeaderModel) Tier() header.SizeTier { return m.tiers[m.choice[rowSize]] }

// Frame resolves the header for the current selection.
func (m HeaderModel) Frame() templates.HeaderFrame {
	return previewFrame(m.Template, m.Logo(), m.Title(), m.Tier(), m.Template.Name)
}

func (m HeaderModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Header Playground"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.Template.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ←/→ change  q quit"))
	b.WriteString("\n\n")

	rows := [rowCount][2]string{
		{"Logo", string(m.Logo())},
		{"Title", string(m.Title())},
		{"Size", fmt.Sprintf("%s (%dpx)", m.Tier(), header.LogoHeight(m.Tier()))},
	}
	for i, r := range rows {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(fmt.Sprintf("%-6s ‹ %s ›", r[0], r[1])))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	f := m.Frame()
	b.WriteString(drawBand(f, m.Width))
	b.WriteString("\n")

	l := f.Layout
	status := StyleSuccess.Render("no collision")
	switch {
	case l.Stacked:
		status = StyleWarning.Render("collision: logo and title stacked")
	case l.Overridden:
		status = StyleWarning.Render(fmt.Sprintf("collision: title moved to %s", l.TitleAnchor))
	}
	b.WriteString("  " + status + listDimStyle.Render(fmt.Sprintf("  ·  band %dpx", f.BandHeight)))
	b.WriteString("\n")

	return b.String()
}
