// Package tui is the interactive dashboard: today's habit check-ins and
// the growth-edge panel, with huh forms for adding habits and qualities.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/habit"
	"github.com/becominglabs/becoming/internal/identity"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
	"github.com/becominglabs/becoming/internal/tui/habitlist"
	"github.com/becominglabs/becoming/internal/utils"
)

type HabitFormModel struct {
	Title       string
	Description string
	Frequency   constants.HabitFrequency
	TargetDays  string
	Tiny        string
}

type QualityFormModel struct {
	Name     string
	Category string
}

type CheckInFormModel struct {
	Note string
	Tiny bool
}

type KeyMap struct {
	Tab  key.Binding
	Help key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch panel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type Model struct {
	store   storage.Provider
	tracker *habit.Tracker
	ledger  *identity.Ledger
	userID  string

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model

	form        *huh.Form
	habitForm   *HabitFormModel
	qualityForm *QualityFormModel
	checkInForm *CheckInFormModel

	// Habit a form or confirmation is acting on
	pendingHabitID string
	confirmMessage string
	confirmAction  func() error

	edge      models.GrowthEdgeReport
	qualities []models.Quality

	statusMessage string
	formError     string
	quitting      bool
	width         int
	height        int
}

func NewModel(store storage.Provider, tracker *habit.Tracker, ledger *identity.Ledger, userID string) Model {
	m := Model{
		store:   store,
		tracker: tracker,
		ledger:  ledger,
		userID:  userID,
		state:   constants.StateHabits,
		keys:    DefaultKeyMap(),
		help:    help.New(),
	}

	habits, checkIns := m.loadHabits()
	m.habitList = habitlist.New(habits, checkIns, 0, 0)
	m.refreshEdge()

	return m
}

// loadHabits fetches all habits plus today's check-ins. Errors degrade to
// empty panels rather than crashing the dashboard.
func (m *Model) loadHabits() ([]models.Habit, []models.DailyCheckIn) {
	habits, err := m.store.GetAllHabits(m.userID, "")
	if err != nil {
		habits = []models.Habit{}
	}

	var checkIns []models.DailyCheckIn
	if settings, err := m.store.GetSettings(); err == nil {
		if today, err := utils.GetTodayFromSettings(settings); err == nil {
			checkIns, _ = m.store.GetCheckInsForDay(m.userID, today)
		}
	}

	return habits, checkIns
}

func (m *Model) refreshHabits() {
	habits, checkIns := m.loadHabits()
	m.habitList.SetHabits(habits, checkIns)
}

func (m *Model) refreshEdge() {
	if edge, err := m.ledger.GrowthEdge(m.userID); err == nil {
		m.edge = edge
	}
	if qualities, err := m.ledger.ListQualities(m.userID); err == nil {
		m.qualities = qualities
	}
}

// ShortHelp implements help.KeyMap.
func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Help, m.keys.Quit}
}

// FullHelp implements help.KeyMap.
func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.keys.Tab, m.keys.Help, m.keys.Quit}}
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(huh.ValidateNotEmpty()),
			huh.NewText().
				Title("Description").
				Value(&f.Description).
				Lines(2),
			huh.NewSelect[constants.HabitFrequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
					huh.NewOption("Custom", constants.FrequencyCustom),
				).
				Value(&f.Frequency),
			huh.NewInput().
				Title("Days per week (custom frequency only)").
				Value(&f.TargetDays),
			huh.NewInput().
				Title("Tiny version for hard days").
				Value(&f.Tiny),
		),
	)
}

func newQualityForm(f *QualityFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Quality name").
				Value(&f.Name).
				Validate(huh.ValidateNotEmpty()),
			huh.NewInput().
				Title("Category").
				Value(&f.Category).
				Placeholder("character"),
		),
	)
}

func newCheckInForm(f *CheckInFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Note (optional)").
				Value(&f.Note),
			huh.NewConfirm().
				Title("Used the tiny version?").
				Value(&f.Tiny),
		),
	)
}
