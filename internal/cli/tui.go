package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/emojiqr/pkg/presets"
	"github.com/matzehuels/emojiqr/pkg/render/qr/styles"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// LookPickerModel - Interactive preset look selection
// =============================================================================

// LookChoice identifies one look in the preset library.
type LookChoice struct {
	Type    string
	Index   int
	Caption string
	Style   styles.Config
}

// lookChoices flattens the library, optionally limited to one type.
func lookChoices(lib *presets.Library, kind string) []LookChoice {
	var out []LookChoice
	for _, t := range lib.Types {
		if kind != "" && !strings.EqualFold(t.Name, kind) {
			continue
		}
		for i, l := range t.Looks {
			out = append(out, LookChoice{Type: t.Name, Index: i, Caption: l.Caption, Style: l.Config()})
		}
	}
	return out
}

// LookPickerModel is the bubbletea model for interactive look selection.
type LookPickerModel struct {
	Choices  []LookChoice
	Cursor   int
	Selected *LookChoice
	Height   int
	Offset   int
}

// NewLookPickerModel creates a picker over choices.
func NewLookPickerModel(choices []LookChoice) LookPickerModel {
	return LookPickerModel{Choices: choices, Height: 15}
}

func (m LookPickerModel) Init() tea.Cmd {
	return nil
}

func (m LookPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Choices) == 0 {
				return m, tea.Quit
			}
			choice := m.Choices[m.Cursor]
			m.Selected = &choice
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m LookPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Look"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Choices))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		c := m.Choices[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, c.Type, fmt.Sprint(c.Index), c.Caption, swatch(c.Style), describeFill(c.Style)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "#", "Caption", "Colors", "Fill").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Choices))))

	return b.String()
}

// swatch draws the body and background colors as two blocks.
func swatch(c styles.Config) string {
	block := func(color string) string {
		color = styles.NormalizeColor(color)
		if styles.IsNone(color) {
			return listDimStyle.Render("░░")
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██")
	}
	return block(c.Colors.Body) + block(c.Colors.Background)
}

func describeFill(c styles.Config) string {
	parts := []string{string(c.ModuleShape)}
	if c.ModuleFill == styles.FillEmoji {
		parts = []string{c.ModuleEmoji}
	}
	if c.WantsCenterOverlay() {
		parts = append(parts, "center "+c.CenterEmoji)
	}
	return strings.Join(parts, ", ")
}
