package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/doraemoncito/tap2bin/types"
)

func TestIsTUISupported(t *testing.T) {
	tests := []struct {
		viewType string
		want     bool
	}{
		{"inspect_blocks", true},

		{"decode", false},
		{"batch", false},
		{"catalog_list", false},
		{"version", false},
		{"unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.viewType, func(t *testing.T) {
			got := IsTUISupported(tt.viewType)
			if got != tt.want {
				t.Errorf("IsTUISupported(%q) = %v, want %v", tt.viewType, got, tt.want)
			}
		})
	}
}

func TestSupportedTUIViews(t *testing.T) {
	for _, v := range SupportedTUIViews() {
		if !IsTUISupported(v) {
			t.Errorf("SupportedTUIViews() returned %q but IsTUISupported returns false", v)
		}
	}
}

func TestRun_UnsupportedViewType(t *testing.T) {
	err := Run("catalog_list", nil)
	if err == nil {
		t.Error("Expected error for unsupported view type")
	}
}

func TestRun_InvalidData(t *testing.T) {
	err := Run(ViewInspectBlocks, "not an inspection")
	if err == nil {
		t.Error("Expected error for wrong data type")
	}
}

func sampleInspection() *types.Inspection {
	return &types.Inspection{
		Source: "game.tap",
		End:    types.EndOfStream,
		Blocks: []types.BlockInfo{
			{Index: 1, Offset: 2, Length: 19, Kind: "header", Subtype: "Program", Name: "loader", DataLength: 120},
			{Index: 2, Offset: 23, Length: 122, Kind: "data", PayloadSize: 120},
			{Index: 3, Offset: 147, Length: 19, Kind: "header", Subtype: "Code", Name: "screen", DataLength: 6912, Param1: 0x4000, Note: "code payload"},
			{Index: 4, Offset: 168, Length: 6914, Kind: "data", PayloadSize: 6912, Note: "code payload"},
			{Index: 5, Offset: 7084, Length: 19, Kind: "header", Subtype: "Code", Name: "orphan", Note: "unpaired code header"},
			{Index: 6, Offset: 7105, Length: 3, Kind: "unrecognized", Note: "unknown flag"},
		},
	}
}

func TestNewBlockStats(t *testing.T) {
	s := NewBlockStats(sampleInspection())
	want := BlockStats{Total: 6, Headers: 3, Data: 2, Unrecognized: 1, CodePayloads: 2, Unpaired: 1}
	if s != want {
		t.Errorf("NewBlockStats() = %+v, want %+v", s, want)
	}
}

func press(m InspectModel, msgs ...tea.Msg) (InspectModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(InspectModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInspectModel_Navigation(t *testing.T) {
	m := NewInspectModel(sampleInspection())

	tests := []struct {
		name string
		msgs []tea.Msg
		want int
	}{
		{"down", []tea.Msg{tea.KeyMsg{Type: tea.KeyDown}}, 1},
		{"j twice", []tea.Msg{runes("j"), runes("j")}, 2},
		{"up clamps at top", []tea.Msg{tea.KeyMsg{Type: tea.KeyUp}}, 0},
		{"end", []tea.Msg{runes("G")}, 5},
		{"past end clamps", []tea.Msg{runes("G"), runes("j")}, 5},
		{"home after end", []tea.Msg{runes("G"), runes("g")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := press(m, tt.msgs...)
			if got.Cursor() != tt.want {
				t.Errorf("cursor = %d, want %d", got.Cursor(), tt.want)
			}
		})
	}
}

func TestInspectModel_ScrollFollowsCursor(t *testing.T) {
	m := NewInspectModel(sampleInspection())
	m, _ = press(m, tea.WindowSizeMsg{Width: 80, Height: chromeLines + 2})
	m, _ = press(m, runes("G"))

	view := m.View()
	if strings.Contains(view, "loader") {
		t.Errorf("first block still visible after scrolling to the end:\n%s", view)
	}
	if !strings.Contains(view, "unknown flag") {
		t.Errorf("last block not visible:\n%s", view)
	}
}

func TestInspectModel_Quit(t *testing.T) {
	m, cmd := press(NewInspectModel(sampleInspection()), runes("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() = %T, want tea.QuitMsg", cmd())
	}
	if m.View() != "" {
		t.Errorf("View() after quit = %q, want empty", m.View())
	}
}

func TestInspectModel_ViewShowsDetail(t *testing.T) {
	m, _ := press(NewInspectModel(sampleInspection()), runes("j"), runes("j"))
	view := m.View()

	for _, want := range []string{"game.tap", "'screen'", "0x4000", "6912 bytes", "code payload", "end_of_stream"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestRenderInspectStatic_Empty(t *testing.T) {
	out := RenderInspectStatic(&types.Inspection{Source: "empty.tap", End: types.EndOfStream})
	if !strings.Contains(out, "No blocks found") {
		t.Errorf("static render = %q", out)
	}
}
