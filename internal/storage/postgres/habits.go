package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

const habitColumns = `id, user_id, title, description, frequency_type, frequency_target_days,
	frequency_specific_days, tiny_habit_option, lane, required_days, current_day, missed_days,
	grace_days_used, current_streak, longest_streak, total_completions, start_date,
	graduation_date, last_check_in, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var freqType, specificDays, startDate, createdAt, updatedAt string
	var graduationDate, lastCheckIn sql.NullString

	err := row.Scan(
		&h.ID, &h.UserID, &h.Title, &h.Description, &freqType, &h.Frequency.TargetDays,
		&specificDays, &h.TinyHabitOption, &h.Lane, &h.RequiredDays, &h.CurrentDay, &h.MissedDays,
		&h.GraceDaysUsed, &h.CurrentStreak, &h.LongestStreak, &h.TotalCompletions, &startDate,
		&graduationDate, &lastCheckIn, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Habit{}, err
	}

	h.Frequency.Type = constants.HabitFrequency(freqType)

	var weekdays []int
	if err := unmarshalJSON("frequency_specific_days", specificDays, &weekdays); err != nil {
		return models.Habit{}, err
	}
	for _, w := range weekdays {
		h.Frequency.SpecificDays = append(h.Frequency.SpecificDays, time.Weekday(w))
	}

	if h.StartDate, err = parseTime("start_date", startDate); err != nil {
		return models.Habit{}, err
	}
	if h.GraduationDate, err = parseNullTime("graduation_date", graduationDate); err != nil {
		return models.Habit{}, err
	}
	if h.LastCheckIn, err = parseNullTime("last_check_in", lastCheckIn); err != nil {
		return models.Habit{}, err
	}
	if h.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Habit{}, err
	}

	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) GetHabit(userID, id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1 AND user_id = $2`, id, userID)

	habit, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	return habit, err
}

func (s *Store) GetHabitByTitle(userID, title string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 AND title = $2`, userID, title)

	habit, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	return habit, err
}

func (s *Store) GetAllHabits(userID string, lane constants.HabitLane) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = $1`
	args := []any{userID}
	if lane != "" {
		query += ` AND lane = $2`
		args = append(args, string(lane))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}

	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	weekdays := make([]int, 0, len(habit.Frequency.SpecificDays))
	for _, w := range habit.Frequency.SpecificDays {
		weekdays = append(weekdays, int(w))
	}
	specificDays, err := marshalJSON(weekdays)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			frequency_type = excluded.frequency_type,
			frequency_target_days = excluded.frequency_target_days,
			frequency_specific_days = excluded.frequency_specific_days,
			tiny_habit_option = excluded.tiny_habit_option,
			lane = excluded.lane,
			required_days = excluded.required_days,
			current_day = excluded.current_day,
			missed_days = excluded.missed_days,
			grace_days_used = excluded.grace_days_used,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			total_completions = excluded.total_completions,
			graduation_date = excluded.graduation_date,
			last_check_in = excluded.last_check_in,
			updated_at = excluded.updated_at`,
		habit.ID, habit.UserID, habit.Title, habit.Description, string(habit.Frequency.Type),
		habit.Frequency.TargetDays, specificDays, habit.TinyHabitOption, string(habit.Lane),
		habit.RequiredDays, habit.CurrentDay, habit.MissedDays, habit.GraceDaysUsed,
		habit.CurrentStreak, habit.LongestStreak, habit.TotalCompletions, formatTime(habit.StartDate),
		nullTime(habit.GraduationDate), nullTime(habit.LastCheckIn),
		formatTime(habit.CreatedAt), formatTime(habit.UpdatedAt))

	return err
}

func (s *Store) DeleteHabit(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return storage.ErrNotFound
	}

	return nil
}
