package sqlite

import (
	"time"

	"github.com/becominglabs/becoming/internal/models"
)

const evidenceColumns = `id, user_id, quality_id, evidence_type, action, description,
	task_id, habit_id, challenge_id, impact_score, created_at`

func (s *Store) AddEvidence(evidence models.Evidence) error {
	_, err := s.db.Exec(`
		INSERT INTO evidence (`+evidenceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		evidence.ID, evidence.UserID, evidence.QualityID, evidence.EvidenceType,
		evidence.Action, evidence.Description, evidence.TaskID, evidence.HabitID,
		evidence.ChallengeID, evidence.ImpactScore, formatTime(evidence.CreatedAt))
	return err
}

func (s *Store) GetEvidence(userID, qualityID string, limit int) ([]models.Evidence, error) {
	query := `SELECT ` + evidenceColumns + ` FROM evidence WHERE user_id = ?`
	args := []any{userID}
	if qualityID != "" {
		query += ` AND quality_id = ?`
		args = append(args, qualityID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Evidence
	for rows.Next() {
		var e models.Evidence
		var createdAt string

		err := rows.Scan(&e.ID, &e.UserID, &e.QualityID, &e.EvidenceType, &e.Action,
			&e.Description, &e.TaskID, &e.HabitID, &e.ChallengeID, &e.ImpactScore, &createdAt)
		if err != nil {
			return nil, err
		}
		if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}

		records = append(records, e)
	}

	return records, rows.Err()
}

func (s *Store) CountEvidenceSince(qualityID string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM evidence WHERE quality_id = ? AND created_at >= ?`,
		qualityID, formatTime(since)).Scan(&count)
	return count, err
}
