// Package habitlist is the dashboard's habit panel: today's check-in
// status for every habit in the becoming lane.
package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/becominglabs/becoming/internal/models"
)

type AddHabitMsg struct{}

type CheckInMsg struct {
	ID string
}

type MissMsg struct {
	ID string
}

type GraduateMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit     models.Habit
	Recorded  bool
	Completed bool
}

func (i Item) Title() string {
	title := i.Habit.Title
	if i.Habit.Graduated() {
		return "★ " + title
	}
	if i.Recorded {
		if i.Completed {
			return "✓ " + title
		}
		return "− " + title
	}
	return "○ " + title
}

func (i Item) Description() string {
	if i.Habit.Graduated() {
		return "graduated — i am"
	}
	desc := fmt.Sprintf("day %d/%d · streak %d", i.Habit.CurrentDay, i.Habit.RequiredDays, i.Habit.CurrentStreak)
	if i.Recorded {
		if i.Completed {
			return desc + " · done today"
		}
		return desc + " · missed today"
	}
	return desc + " · not recorded today"
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add      key.Binding
	CheckIn  key.Binding
	Miss     key.Binding
	Graduate key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "check in"),
		),
		Miss: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "record miss"),
		),
		Graduate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "graduate"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list     list.Model
	keys     KeyMap
	recorded map[string]bool // habitID -> completed for today's check-in
}

func New(habits []models.Habit, checkIns []models.DailyCheckIn, width, height int) Model {
	m := Model{keys: DefaultKeyMap()}

	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	keys := m.keys
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn, keys.Miss, keys.Graduate, keys.Delete}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys
	m.list = l

	m.SetHabits(habits, checkIns)
	return m
}

func (m *Model) SetHabits(habits []models.Habit, checkIns []models.DailyCheckIn) {
	m.recorded = make(map[string]bool, len(checkIns))
	for _, ci := range checkIns {
		m.recorded[ci.HabitID] = ci.Completed
	}

	items := make([]list.Item, len(habits))
	for i, h := range habits {
		completed, recorded := m.recorded[h.ID]
		items[i] = Item{
			Habit:     h,
			Recorded:  recorded,
			Completed: completed,
		}
	}
	m.list.SetItems(items)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.CheckIn):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if !i.Recorded && !i.Habit.Graduated() {
					return m, func() tea.Msg { return CheckInMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Miss):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if !i.Recorded && !i.Habit.Graduated() {
					return m, func() tea.Msg { return MissMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Graduate):
			if i, ok := m.list.SelectedItem().(Item); ok {
				if !i.Habit.Graduated() {
					return m, func() tea.Msg { return GraduateMsg{ID: i.Habit.ID} }
				}
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to start one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the currently highlighted habit, if any.
func (m Model) Selected() (models.Habit, bool) {
	if i, ok := m.list.SelectedItem().(Item); ok {
		return i.Habit, true
	}
	return models.Habit{}, false
}
