package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dzazaleo/layerforge/pkg/design"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LayerListModel - Interactive layer tree browser
// =============================================================================

// layerRow is one flattened entry of the layer tree.
type layerRow struct {
	layer *design.Layer
	depth int
	role  design.Role
}

// LayerListModel is the bubbletea model for browsing a document's layers.
type LayerListModel struct {
	Rows   []layerRow
	Cursor int
	Height int
	Offset int
}

// NewLayerListModel flattens the document's layer tree (depth-first, paint
// order) and annotates rows with their strategy roles.
func NewLayerListModel(doc *design.Document, overrides []design.Override) LayerListModel {
	roles := make(map[string]design.Role, len(overrides))
	for _, ov := range overrides {
		if _, ok := roles[ov.LayerID]; !ok {
			roles[ov.LayerID] = ov.LayoutRole
		}
	}

	var rows []layerRow
	var flatten func(l *design.Layer, depth int)
	flatten = func(l *design.Layer, depth int) {
		rows = append(rows, layerRow{layer: l, depth: depth, role: roles[l.ID]})
		for i := range l.Children {
			flatten(&l.Children[i], depth+1)
		}
	}
	for i := range doc.Layers {
		flatten(&doc.Layers[i], 0)
	}

	return LayerListModel{Rows: rows, Height: 15}
}

func (m LayerListModel) Init() tea.Cmd {
	return nil
}

func (m LayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m LayerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layer Tree"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := strings.Repeat("  ", r.depth) + r.layer.ID
		role := "—"
		if r.role != design.RoleNone {
			role = string(r.role)
		}
		visible := "✓"
		if !r.layer.Visible {
			visible = ""
		}

		rows = append(rows, []string{
			cursor,
			name,
			r.layer.Kind,
			r.layer.Bounds.String(),
			fmt.Sprintf("%.2f", r.layer.Opacity),
			visible,
			role,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Layer", "Kind", "Bounds", "Opacity", "Visible", "Role").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			r := m.Rows[actualIdx]

			base := lipgloss.NewStyle()
			if actualIdx == m.Cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			if !r.layer.Visible {
				return base.Foreground(colorDim)
			}
			if r.layer.Kind == design.KindGroup {
				return base.Foreground(colorYellow)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
