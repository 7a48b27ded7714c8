package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/doraemoncito/tap2bin/types"
)

// chromeLines is the number of screen lines used by everything except the
// block list: title, stat boxes, detail pane and help.
const chromeLines = 18

// InspectModel is a Bubble Tea model browsing the blocks of one input.
type InspectModel struct {
	data     *types.Inspection
	stats    BlockStats
	cursor   int
	top      int
	width    int
	height   int
	quitting bool
}

// NewInspectModel creates a new inspect model.
func NewInspectModel(data *types.Inspection) InspectModel {
	return InspectModel{
		data:   data,
		stats:  NewBlockStats(data),
		height: 24,
		width:  80,
	}
}

// Cursor returns the index of the selected block.
func (m InspectModel) Cursor() int { return m.cursor }

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scroll()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Up):
			m.move(-1)
		case key.Matches(msg, keys.Down):
			m.move(1)
		case key.Matches(msg, keys.PageUp):
			m.move(-m.listHeight())
		case key.Matches(msg, keys.PageDown):
			m.move(m.listHeight())
		case key.Matches(msg, keys.Home):
			m.move(-len(m.data.Blocks))
		case key.Matches(msg, keys.End):
			m.move(len(m.data.Blocks))
		}
	}

	return m, nil
}

func (m *InspectModel) move(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.data.Blocks)-1))
	m.scroll()
}

// scroll keeps the cursor inside the visible window.
func (m *InspectModel) scroll() {
	h := m.listHeight()
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
}

func (m InspectModel) listHeight() int {
	return max(1, m.height-chromeLines)
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Blocks of %s", m.data.Source)))
	b.WriteString("\n")
	b.WriteString(renderStats(m.stats))
	b.WriteString("\n")

	if len(m.data.Blocks) == 0 {
		b.WriteString(WarningStyle.Render("No blocks found"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(m.renderDetail(m.data.Blocks[m.cursor]))
	}

	b.WriteString("\n")
	b.WriteString(LabelStyle.Width(0).Render("End: "))
	b.WriteString(ValueStyle.Render(string(m.data.End)))

	help := HelpStyle.Render("↑/k up • ↓/j down • pgup/pgdn page • g/G first/last • q quit")
	return b.String() + "\n" + help
}

func (m InspectModel) renderList() string {
	var rows []string
	end := min(m.top+m.listHeight(), len(m.data.Blocks))
	for i := m.top; i < end; i++ {
		blk := m.data.Blocks[i]
		line := fmt.Sprintf("%4d  %8d  %-12s %-16s %6d", blk.Index, blk.Offset, blk.Kind, displayName(blk), blk.Length)
		if i == m.cursor {
			rows = append(rows, SelectedStyle.Render(line))
			continue
		}
		rows = append(rows, KindStyle(blk.Kind).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func displayName(blk types.BlockInfo) string {
	switch blk.Kind {
	case "header":
		return fmt.Sprintf("%s '%s'", blk.Subtype, blk.Name)
	case "data":
		return fmt.Sprintf("%d bytes", blk.PayloadSize)
	default:
		return blk.Note
	}
}

func (m InspectModel) renderDetail(blk types.BlockInfo) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render(label+":"), ValueStyle.Render(value)))
	}

	row("Block", fmt.Sprintf("%d", blk.Index))
	row("Offset", fmt.Sprintf("%d", blk.Offset))
	row("Length", fmt.Sprintf("%d", blk.Length))
	b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Kind:"), KindStyle(blk.Kind).Render(blk.Kind)))
	switch blk.Kind {
	case "header":
		row("Type", blk.Subtype)
		row("Name", "'"+blk.Name+"'")
		row("Data length", fmt.Sprintf("%d bytes", blk.DataLength))
		row("Param1", fmt.Sprintf("0x%04X", blk.Param1))
		row("Param2", fmt.Sprintf("0x%04X", blk.Param2))
	case "data":
		row("Payload", fmt.Sprintf("%d bytes", blk.PayloadSize))
	}
	if blk.Note != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", LabelStyle.Render("Note:"), NoteStyle(blk.Note).Render(blk.Note)))
	}

	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// keyMap defines key bindings.
type keyMap struct {
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "f", " "),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "last"),
	),
}

// RunInspectTUI runs the block browser.
func RunInspectTUI(data any) error {
	in, ok := data.(*types.Inspection)
	if !ok {
		return fmt.Errorf("invalid data type for %s: %T", ViewInspectBlocks, data)
	}
	p := tea.NewProgram(NewInspectModel(in), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderInspectStatic renders the browser's first screen without a terminal.
func RenderInspectStatic(data *types.Inspection) string {
	return lipgloss.NewStyle().Padding(1, 2).Render(NewInspectModel(data).View())
}
