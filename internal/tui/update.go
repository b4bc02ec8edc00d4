package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/habit"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/tui/habitlist"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.habitList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case constants.StateAddHabit, constants.StateAddQuality, constants.StateCheckInNote:
			return m.updateForm(msg)
		case constants.StateConfirmation, constants.StateConfirmDelete:
			return m.updateConfirmation(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.state == constants.StateHabits {
				m.state = constants.StateEdge
				m.refreshEdge()
			} else {
				m.state = constants.StateHabits
				m.refreshHabits()
			}
			m.statusMessage = ""
			return m, nil
		}

		if m.state == constants.StateEdge {
			if msg.String() == "a" {
				m.qualityForm = &QualityFormModel{}
				m.form = newQualityForm(m.qualityForm)
				m.previousState = m.state
				m.state = constants.StateAddQuality
				return m, m.form.Init()
			}
			return m, nil
		}

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{Frequency: constants.FrequencyDaily}
		m.form = newHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.CheckInMsg:
		m.checkInForm = &CheckInFormModel{}
		m.form = newCheckInForm(m.checkInForm)
		m.pendingHabitID = msg.ID
		m.previousState = m.state
		m.state = constants.StateCheckInNote
		return m, m.form.Init()

	case habitlist.MissMsg:
		habitID := msg.ID
		m.confirmMessage = "Record a miss for this habit today?"
		m.confirmAction = func() error {
			_, err := m.tracker.CheckIn(m.userID, habitID, habit.CheckInInput{Completed: false})
			return err
		}
		m.previousState = m.state
		m.state = constants.StateConfirmation
		return m, nil

	case habitlist.GraduateMsg:
		habitID := msg.ID
		m.confirmMessage = "Graduate this habit to the \"I am\" lane? This cannot be undone."
		m.confirmAction = func() error {
			_, err := m.tracker.Graduate(m.userID, habitID, true, "")
			return err
		}
		m.previousState = m.state
		m.state = constants.StateConfirmation
		return m, nil

	case habitlist.DeleteHabitMsg:
		habitID := msg.ID
		m.confirmMessage = "Delete this habit and all its check-in history?"
		m.confirmAction = func() error {
			return m.tracker.Delete(m.userID, habitID)
		}
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil
	}

	// Non-key messages (ticks, cursor blinks) still belong to the active form
	switch m.state {
	case constants.StateAddHabit, constants.StateAddQuality, constants.StateCheckInNote:
		return m.updateForm(msg)
	}

	if m.state == constants.StateHabits {
		var cmd tea.Cmd
		m.habitList, cmd = m.habitList.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.state = m.previousState
		m.form = nil
		m.formError = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		var err error
		switch m.state {
		case constants.StateAddHabit:
			err = m.submitHabitForm()
		case constants.StateAddQuality:
			err = m.submitQualityForm()
		case constants.StateCheckInNote:
			err = m.submitCheckInForm()
		}

		if err != nil {
			m.formError = err.Error()
		} else {
			m.formError = ""
		}
		m.state = m.previousState
		m.form = nil
		m.refreshHabits()
		m.refreshEdge()
		return m, nil
	}

	return m, cmd
}

func (m *Model) submitHabitForm() error {
	freq := models.Frequency{Type: m.habitForm.Frequency}
	if freq.Type == constants.FrequencyCustom {
		target, err := strconv.Atoi(m.habitForm.TargetDays)
		if err != nil {
			return fmt.Errorf("days per week must be a number")
		}
		freq.TargetDays = target
	}

	_, err := m.tracker.Create(m.userID, habit.CreateInput{
		Title:           m.habitForm.Title,
		Description:     m.habitForm.Description,
		Frequency:       freq,
		TinyHabitOption: m.habitForm.Tiny,
	})
	if err == nil {
		m.statusMessage = fmt.Sprintf("Started habit %q", m.habitForm.Title)
	}
	return err
}

func (m *Model) submitQualityForm() error {
	_, err := m.ledger.TrackQuality(m.userID, m.qualityForm.Name, m.qualityForm.Category)
	if err == nil {
		m.statusMessage = fmt.Sprintf("Now tracking %q", m.qualityForm.Name)
	}
	return err
}

func (m *Model) submitCheckInForm() error {
	_, err := m.tracker.CheckIn(m.userID, m.pendingHabitID, habit.CheckInInput{
		Completed:     true,
		TinyHabitUsed: m.checkInForm.Tiny,
		Note:          m.checkInForm.Note,
	})
	if err == nil {
		m.statusMessage = "Check-in recorded"
	}
	return err
}

func (m Model) updateConfirmation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.confirmAction != nil {
			if err := m.confirmAction(); err != nil {
				m.formError = err.Error()
			} else {
				m.formError = ""
				m.statusMessage = "Done"
			}
		}
		m.confirmAction = nil
		m.state = m.previousState
		m.refreshHabits()
		m.refreshEdge()
		return m, nil
	case "n", "N", "esc":
		m.confirmAction = nil
		m.state = m.previousState
		return m, nil
	}
	return m, nil
}
