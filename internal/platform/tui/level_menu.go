package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vovakirdan/gemfusion/internal/core"
	"github.com/vovakirdan/gemfusion/internal/registry"
	"github.com/vovakirdan/gemfusion/internal/storage"
)

const levelNameWidth = 24

// LevelMenuModel is the level picker shown before a game starts.
type LevelMenuModel struct {
	title        string
	levels       []registry.LevelInfo
	progress     map[string]storage.LevelProgress
	cursor       int
	scrollOffset int
	width        int
	height       int
	keyMapper    *KeyMapper
	selected     string
	quitting     bool
	scoreboard   bool
}

// NewLevelMenuModel creates a picker over the levels of a game. The cursor
// starts on the first level without a win. store may be nil.
func NewLevelMenuModel(title string, picker registry.LevelPicker, store *storage.Store, width, height int) LevelMenuModel {
	m := LevelMenuModel{
		title:     title,
		levels:    picker.Levels(),
		progress:  map[string]storage.LevelProgress{},
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
	if store != nil {
		if p, err := store.AllProgress(); err == nil {
			m.progress = p
		}
	}

	for i, l := range m.levels {
		if m.progress[l.ID].Wins == 0 {
			m.cursor = i
			break
		}
	}
	m.updateScroll()
	return m
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.levels)-1 {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		if len(m.levels) > 0 {
			m.selected = m.levels[m.cursor].ID
			return m, tea.Quit
		}
	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LevelMenuModel) visibleItems() int {
	return max(m.height-10, 3)
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *LevelMenuModel) updateScroll() {
	visible := m.visibleItems()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
}

// View renders the level list.
func (m LevelMenuModel) View() string {
	if m.quitting || m.selected != "" || m.scoreboard {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(theme.MenuTitle.Render(spaced(m.title)), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(theme.MenuDescription.Render("Select a level"), m.width))
	b.WriteString("\n\n")

	if len(m.levels) == 0 {
		b.WriteString(centerText(theme.MenuDescription.Render("No levels found"), m.width))
		b.WriteString("\n")
	}

	end := min(m.scrollOffset+m.visibleItems(), len(m.levels))
	if m.scrollOffset > 0 {
		b.WriteString(centerText(theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	for i := m.scrollOffset; i < end; i++ {
		b.WriteString(centerText(m.renderItem(i), m.width))
		b.WriteString("\n")
	}
	if end < len(m.levels) {
		b.WriteString(centerText(theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(theme.Controls.Render(controls), m.width))
	b.WriteString("\n")
	return b.String()
}

func (m LevelMenuModel) renderItem(i int) string {
	l := m.levels[i]
	cursor, style := "  ", theme.MenuItemNormal
	if i == m.cursor {
		cursor, style = "> ", theme.MenuItemActive
	}

	name := runewidth.FillRight(runewidth.Truncate(l.Name, levelNameWidth, "…"), levelNameWidth)
	line := style.Render(fmt.Sprintf("%s%2d. %s", cursor, i+1, name))

	p, played := m.progress[l.ID]
	if !played || p.Wins == 0 {
		return line + " " + theme.MenuDescription.Render(starBar(0)+"          ")
	}
	return line + " " + theme.Stars.Render(starBar(p.BestStars)) + " " +
		theme.Cleared.Render(fmt.Sprintf("%9d", p.BestScore))
}

// starBar renders earned stars out of three.
func starBar(n int) string {
	n = core.Clamp(n, 0, 3)
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

// spaced puts a space between the letters of a title.
func spaced(s string) string {
	return strings.Join(strings.Split(strings.ToUpper(s), ""), " ")
}

// centerText centers text within given width. Styled text is measured
// without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// Selected returns the chosen level ID, or "" if none was chosen.
func (m LevelMenuModel) Selected() string {
	return m.selected
}

// WantsScoreboard returns true if the player asked for the scoreboard.
func (m LevelMenuModel) WantsScoreboard() bool {
	return m.scoreboard
}

// LevelMenuResult holds the outcome of the level picker.
type LevelMenuResult struct {
	LevelID         string
	WantsScoreboard bool
	Quit            bool
}

// RunLevelMenu shows the level picker and returns the player's choice.
func RunLevelMenu(title string, picker registry.LevelPicker, store *storage.Store, cfg core.RuntimeConfig) (LevelMenuResult, error) {
	p := tea.NewProgram(
		NewLevelMenuModel(title, picker, store, cfg.ScreenW, cfg.ScreenH),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return LevelMenuResult{}, err
	}
	m, ok := finalModel.(LevelMenuModel)
	if !ok {
		return LevelMenuResult{Quit: true}, nil
	}

	switch {
	case m.WantsScoreboard():
		return LevelMenuResult{WantsScoreboard: true}, nil
	case m.Selected() != "":
		return LevelMenuResult{LevelID: m.Selected()}, nil
	default:
		return LevelMenuResult{Quit: true}, nil
	}
}
