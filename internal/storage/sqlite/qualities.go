package sqlite

import (
	"database/sql"
	"errors"

	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

const qualityColumns = `id, user_id, quality_name, category, strength, evidence_count,
	last_evidence, growth_rate, created_at, updated_at`

func scanQuality(row rowScanner) (models.Quality, error) {
	var q models.Quality
	var createdAt, updatedAt string
	var lastEvidence sql.NullString

	err := row.Scan(&q.ID, &q.UserID, &q.QualityName, &q.Category, &q.Strength,
		&q.EvidenceCount, &lastEvidence, &q.GrowthRate, &createdAt, &updatedAt)
	if err != nil {
		return models.Quality{}, err
	}

	if q.LastEvidence, err = parseNullTime("last_evidence", lastEvidence); err != nil {
		return models.Quality{}, err
	}
	if q.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Quality{}, err
	}
	if q.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Quality{}, err
	}

	return q, nil
}

func (s *Store) AddQuality(quality models.Quality) error {
	return s.UpdateQuality(quality)
}

func (s *Store) GetQuality(userID, id string) (models.Quality, error) {
	row := s.db.QueryRow(`SELECT `+qualityColumns+` FROM qualities WHERE id = ? AND user_id = ?`, id, userID)

	quality, err := scanQuality(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Quality{}, storage.ErrNotFound
	}
	return quality, err
}

func (s *Store) GetQualityByName(userID, name string) (models.Quality, error) {
	row := s.db.QueryRow(`SELECT `+qualityColumns+` FROM qualities WHERE user_id = ? AND quality_name = ?`,
		userID, name)

	quality, err := scanQuality(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Quality{}, storage.ErrNotFound
	}
	return quality, err
}

func (s *Store) GetAllQualities(userID string) ([]models.Quality, error) {
	rows, err := s.db.Query(`SELECT `+qualityColumns+` FROM qualities WHERE user_id = ? ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qualities []models.Quality
	for rows.Next() {
		quality, err := scanQuality(rows)
		if err != nil {
			return nil, err
		}
		qualities = append(qualities, quality)
	}

	return qualities, rows.Err()
}

func (s *Store) UpdateQuality(quality models.Quality) error {
	_, err := s.db.Exec(`
		INSERT INTO qualities (`+qualityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			strength = excluded.strength,
			evidence_count = excluded.evidence_count,
			last_evidence = excluded.last_evidence,
			growth_rate = excluded.growth_rate,
			updated_at = excluded.updated_at`,
		quality.ID, quality.UserID, quality.QualityName, quality.Category, quality.Strength,
		quality.EvidenceCount, nullTime(quality.LastEvidence), quality.GrowthRate,
		formatTime(quality.CreatedAt), formatTime(quality.UpdatedAt))

	return err
}
