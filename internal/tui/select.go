// Package tui provides interactive terminal UI components.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/barky/internal/bookmarks"
	barkyerrors "github.com/lepinkainen/barky/internal/errors"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
	dateLayout        = "2006-01-02"
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the selection UI.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user selected an item.
	ActionSelected
	// ActionSkipped indicates the user skipped the selection.
	ActionSkipped
	// ActionStopped indicates the user stopped processing entirely.
	ActionStopped
)

// SelectionResult holds the result of a TUI selection.
type SelectionResult struct {
	Action    SelectionAction
	Selection *bookmarks.Bookmark
}

type bookmarkItem struct {
	bookmarks.Bookmark
}

func (i bookmarkItem) FilterValue() string {
	return i.Bookmark.Title + " " + i.URL
}

type itemStyles struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	idStyle  lipgloss.Style
	title    lipgloss.Style
	url      lipgloss.Style
	notes    lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		idStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110")),
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		url: lipgloss.NewStyle().
			Foreground(lipgloss.Color("75")),
		notes: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")).
			Faint(true),
	}
}

type bookmarkDelegate struct {
	styles itemStyles
}

func newDelegate() bookmarkDelegate {
	return bookmarkDelegate{styles: newItemStyles()}
}

func (d bookmarkDelegate) Height() int                         { return 5 }
func (d bookmarkDelegate) Spacing() int                        { return 1 }
func (d bookmarkDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookmarkDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	b, ok := item.(bookmarkItem)
	if !ok {
		return
	}
	width := m.Width() - 4

	header := d.styles.idStyle.Render(formatHeader(b.Bookmark))
	title := d.styles.title.Render(truncate(b.Bookmark.Title, width))
	url := d.styles.url.Render(truncate(b.URL, width))
	notes := d.styles.notes.Render(truncate(b.Notes, width))

	content := lipgloss.JoinVertical(lipgloss.Left, header, title, url, notes)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

func formatHeader(b bookmarks.Bookmark) string {
	if b.DateAdded.IsZero() {
		return fmt.Sprintf("#%d", b.ID)
	}
	return fmt.Sprintf("#%d | added %s", b.ID, b.DateAdded.Format(dateLayout))
}

type model struct {
	list   list.Model
	prompt string
	result SelectionResult
}

func newModel(prompt string, items []bookmarks.Bookmark) *model {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = bookmarkItem{Bookmark: item}
	}

	l := list.New(listItems, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &model{
		list:   l,
		prompt: prompt,
		result: SelectionResult{Action: ActionNone},
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(bookmarkItem); ok {
				chosen := selected.Bookmark
				m.result = SelectionResult{Action: ActionSelected, Selection: &chosen}
				return m, tea.Quit
			}
		case "s", "esc":
			m.result = SelectionResult{Action: ActionSkipped}
			return m, tea.Quit
		case "ctrl+c", "q":
			m.result = SelectionResult{Action: ActionStopped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	header := headerStyle.Render(m.prompt)
	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		skipButtonStyle.Render(" Skip "),
		lipgloss.NewStyle().Padding(0, 2).Render(""),
		stopButtonStyle.Render(" Stop "),
	)
	help := helpStyle.Render("Up/Down navigate | Enter select | s skip | q stop")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), buttons, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	skipButtonStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("178")).
			Foreground(lipgloss.Color("0")).
			Bold(true)

	stopButtonStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("161")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectBookmark lets the user pick one of items. Quitting the picker
// returns a StopProcessingError alongside an ActionStopped result.
func SelectBookmark(prompt string, items []bookmarks.Bookmark) (SelectionResult, error) {
	if len(items) == 0 {
		return SelectionResult{Action: ActionSkipped}, nil
	}

	finalModel, err := runProgram(newModel(prompt, items))
	if err != nil {
		return SelectionResult{}, fmt.Errorf("failed to run bookmark picker: %w", err)
	}

	typed, ok := finalModel.(*model)
	if !ok {
		return SelectionResult{}, fmt.Errorf("unexpected program result")
	}
	if typed.result.Action == ActionStopped {
		return typed.result, barkyerrors.NewStopProcessingError("bookmark selection stopped by user")
	}
	return typed.result, nil
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
