package sqlite

import (
	"database/sql"
	"errors"

	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

const challengeColumns = `id, user_id, quality_target_id, title, description, difficulty,
	daily_quests, wisdom_quotes, status, completed_days, current_day, xp_earned,
	created_at, completed_at`

func scanChallenge(row rowScanner) (models.Challenge, error) {
	var c models.Challenge
	var status, dailyQuests, wisdomQuotes, completedDays, createdAt string
	var completedAt sql.NullString

	err := row.Scan(&c.ID, &c.UserID, &c.QualityTargetID, &c.Title, &c.Description,
		&c.Difficulty, &dailyQuests, &wisdomQuotes, &status, &completedDays,
		&c.CurrentDay, &c.XPEarned, &createdAt, &completedAt)
	if err != nil {
		return models.Challenge{}, err
	}

	c.Status = constants.ChallengeStatus(status)
	if err := unmarshalJSON("daily_quests", dailyQuests, &c.DailyQuests); err != nil {
		return models.Challenge{}, err
	}
	if err := unmarshalJSON("wisdom_quotes", wisdomQuotes, &c.WisdomQuotes); err != nil {
		return models.Challenge{}, err
	}
	if err := unmarshalJSON("completed_days", completedDays, &c.CompletedDays); err != nil {
		return models.Challenge{}, err
	}

	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Challenge{}, err
	}
	if c.CompletedAt, err = parseNullTime("completed_at", completedAt); err != nil {
		return models.Challenge{}, err
	}

	return c, nil
}

func (s *Store) AddChallenge(challenge models.Challenge) error {
	return s.UpdateChallenge(challenge)
}

func (s *Store) GetChallenge(userID, id string) (models.Challenge, error) {
	row := s.db.QueryRow(`SELECT `+challengeColumns+` FROM challenges WHERE id = ? AND user_id = ?`, id, userID)

	challenge, err := scanChallenge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Challenge{}, storage.ErrNotFound
	}
	return challenge, err
}

func (s *Store) GetAllChallenges(userID string, status constants.ChallengeStatus) ([]models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE user_id = ?`
	args := []any{userID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []models.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, challenge)
	}

	return challenges, rows.Err()
}

func (s *Store) GetActiveChallengeForQuality(userID, qualityID string) (models.Challenge, error) {
	row := s.db.QueryRow(`
		SELECT `+challengeColumns+` FROM challenges
		WHERE user_id = ? AND quality_target_id = ? AND status = ?
		ORDER BY created_at LIMIT 1`,
		userID, qualityID, string(constants.ChallengeActive))

	challenge, err := scanChallenge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Challenge{}, storage.ErrNotFound
	}
	return challenge, err
}

func (s *Store) UpdateChallenge(challenge models.Challenge) error {
	dailyQuests, err := marshalJSON(challenge.DailyQuests)
	if err != nil {
		return err
	}
	wisdomQuotes, err := marshalJSON(challenge.WisdomQuotes)
	if err != nil {
		return err
	}
	completedDays, err := marshalJSON(challenge.CompletedDays)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO challenges (`+challengeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			difficulty = excluded.difficulty,
			daily_quests = excluded.daily_quests,
			wisdom_quotes = excluded.wisdom_quotes,
			status = excluded.status,
			completed_days = excluded.completed_days,
			current_day = excluded.current_day,
			xp_earned = excluded.xp_earned,
			completed_at = excluded.completed_at`,
		challenge.ID, challenge.UserID, challenge.QualityTargetID, challenge.Title,
		challenge.Description, challenge.Difficulty, dailyQuests, wisdomQuotes,
		string(challenge.Status), completedDays, challenge.CurrentDay, challenge.XPEarned,
		formatTime(challenge.CreatedAt), nullTime(challenge.CompletedAt))

	return err
}
