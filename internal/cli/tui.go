package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/salesmap/pkg/hierarchy"
	"github.com/matzehuels/salesmap/pkg/pipeline"
	"github.com/matzehuels/salesmap/pkg/render/color"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// Rows
// =============================================================================

// platformRow is one top-level group of the treemap.
type platformRow struct {
	Key   string
	Name  string
	Label string
	Color string
	Total float64
	Games []gameRow
}

// gameRow is one tile inside a platform.
type gameRow struct {
	Name     string
	Category string
	Value    string
}

// platformRows lists the root's children in layout order with their legend
// label and tile colour.
func platformRows(s pipeline.Scene) []platformRow {
	labels := make(map[string]string, len(s.Legend))
	for _, e := range s.Legend {
		labels[e.Key] = e.Label
	}

	rows := make([]platformRow, 0, len(s.Root.Children))
	for _, child := range s.Root.Children {
		colorKey := child.Key()
		if child.IsLeaf() {
			colorKey = color.GroupKey(child)
		}
		label, ok := labels[child.Key()]
		if !ok {
			label = child.Name()
		}
		rows = append(rows, platformRow{
			Key:   child.Key(),
			Name:  child.Name(),
			Label: label,
			Color: s.Scale.Color(colorKey),
			Total: child.Value,
			Games: gameRows(child),
		})
	}
	return rows
}

func gameRows(n *hierarchy.Node) []gameRow {
	leaves := n.Leaves()
	out := make([]gameRow, len(leaves))
	for i, leaf := range leaves {
		out[i] = gameRow{
			Name:     leaf.Name(),
			Category: leaf.Data.DisplayCategory(),
			Value:    leaf.Data.DisplayValue(),
		}
	}
	return out
}

// =============================================================================
// ExploreModel - Interactive platform browser
// =============================================================================

// ExploreModel is the bubbletea model for browsing platforms and their games.
// Enter opens the selected platform; esc returns to the list.
type ExploreModel struct {
	Platforms []platformRow
	Cursor    int
	Offset    int
	Height    int
	Open      *platformRow
	Total     float64
}

// NewExploreModel creates the model for a laid-out scene.
func NewExploreModel(s pipeline.Scene) ExploreModel {
	return ExploreModel{
		Platforms: platformRows(s),
		Height:    15,
		Total:     s.Root.Value,
	}
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.Open == nil {
				return m, tea.Quit
			}
			m.Open = nil
		case "esc", "backspace", "left", "h":
			if m.Open == nil {
				return m, tea.Quit
			}
			m.Open = nil
		case "up", "k":
			if m.Open == nil && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Open == nil && m.Cursor < len(m.Platforms)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			if m.Open == nil && len(m.Platforms) > 0 {
				p := m.Platforms[m.Cursor]
				m.Open = &p
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ExploreModel) View() string {
	if m.Open != nil {
		return m.platformView(*m.Open)
	}
	return m.listView()
}

func (m ExploreModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Video Game Sales by Platform"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Platforms))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Platforms[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("■")
		rows = append(rows, []string{cursor, swatch, p.Label, fmt.Sprintf("%d", len(p.Games)), fmt.Sprintf("%.2f", p.Total), share(p.Total, m.Total)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "", "Platform", "Games", "Sales", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor && col != 1 {
				return listSelectedStyle
			}
			if col >= 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Platforms))))

	return b.String()
}

func (m ExploreModel) platformView(p platformRow) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(p.Label))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(salesFigure(p.Total) + " total"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  ctrl+c quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(p.Games))
	for i, g := range p.Games {
		rows[i] = []string{g.Name, g.Category, g.Value}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Game", "Category", "Sales").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
			}
			if col == 2 {
				return StyleNumber
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

// share formats part as a percentage of whole.
func share(part, whole float64) string {
	if whole <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", part/whole*100)
}
