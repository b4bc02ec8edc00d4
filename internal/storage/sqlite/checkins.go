package sqlite

import (
	"database/sql"
	"errors"

	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

const checkInColumns = `id, habit_id, check_in_date, completed, tiny_habit_used, note, created_at`

func scanCheckIn(row rowScanner) (models.DailyCheckIn, error) {
	var ci models.DailyCheckIn
	var createdAt string

	err := row.Scan(&ci.ID, &ci.HabitID, &ci.CheckInDate, &ci.Completed, &ci.TinyHabitUsed, &ci.Note, &createdAt)
	if err != nil {
		return models.DailyCheckIn{}, err
	}

	if ci.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.DailyCheckIn{}, err
	}
	return ci, nil
}

func (s *Store) AddCheckIn(checkIn models.DailyCheckIn) error {
	_, err := s.db.Exec(`
		INSERT INTO checkins (`+checkInColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		checkIn.ID, checkIn.HabitID, checkIn.CheckInDate, checkIn.Completed,
		checkIn.TinyHabitUsed, checkIn.Note, formatTime(checkIn.CreatedAt))
	return err
}

func (s *Store) GetCheckIn(habitID, day string) (models.DailyCheckIn, error) {
	row := s.db.QueryRow(`SELECT `+checkInColumns+` FROM checkins WHERE habit_id = ? AND check_in_date = ?`,
		habitID, day)

	checkIn, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DailyCheckIn{}, storage.ErrNotFound
	}
	return checkIn, err
}

func (s *Store) GetCheckInsForHabit(habitID string) ([]models.DailyCheckIn, error) {
	rows, err := s.db.Query(`SELECT `+checkInColumns+` FROM checkins WHERE habit_id = ? ORDER BY check_in_date`,
		habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCheckIns(rows)
}

func (s *Store) GetCheckInsForDay(userID, day string) ([]models.DailyCheckIn, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.habit_id, c.check_in_date, c.completed, c.tiny_habit_used, c.note, c.created_at
		FROM checkins c
		JOIN habits h ON h.id = c.habit_id
		WHERE h.user_id = ? AND c.check_in_date = ?
		ORDER BY c.created_at`, userID, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCheckIns(rows)
}

func collectCheckIns(rows *sql.Rows) ([]models.DailyCheckIn, error) {
	var checkIns []models.DailyCheckIn
	for rows.Next() {
		checkIn, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		checkIns = append(checkIns, checkIn)
	}
	return checkIns, rows.Err()
}
