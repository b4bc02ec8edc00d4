package sqlite

import (
	"strconv"

	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

const insightColumns = `id, user_id, insight_type, title, content, related_qualities,
	action_items, priority, fingerprint, is_read, created_at`

// Fingerprints are uint64 hashes; they are stored as decimal TEXT because
// SQLite integers are signed.
func (s *Store) AddInsight(insight models.Insight) error {
	relatedQualities, err := marshalJSON(insight.RelatedQualities)
	if err != nil {
		return err
	}
	actionItems, err := marshalJSON(insight.ActionItems)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO insights (`+insightColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		insight.ID, insight.UserID, insight.InsightType, insight.Title, insight.Content,
		relatedQualities, actionItems, insight.Priority,
		strconv.FormatUint(insight.Fingerprint, 10), insight.IsRead,
		formatTime(insight.CreatedAt))
	return err
}

func (s *Store) GetAllInsights(userID string, unreadOnly bool) ([]models.Insight, error) {
	query := `SELECT ` + insightColumns + ` FROM insights WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []models.Insight
	for rows.Next() {
		var in models.Insight
		var relatedQualities, actionItems, fingerprint, createdAt string

		err := rows.Scan(&in.ID, &in.UserID, &in.InsightType, &in.Title, &in.Content,
			&relatedQualities, &actionItems, &in.Priority, &fingerprint, &in.IsRead, &createdAt)
		if err != nil {
			return nil, err
		}
		if err := unmarshalJSON("related_qualities", relatedQualities, &in.RelatedQualities); err != nil {
			return nil, err
		}
		if err := unmarshalJSON("action_items", actionItems, &in.ActionItems); err != nil {
			return nil, err
		}
		if in.Fingerprint, err = strconv.ParseUint(fingerprint, 10, 64); err != nil {
			return nil, err
		}
		if in.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}

		insights = append(insights, in)
	}

	return insights, rows.Err()
}

func (s *Store) HasInsightFingerprint(userID string, fingerprint uint64) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT count(*) FROM insights WHERE user_id = ? AND fingerprint = ?`,
		userID, strconv.FormatUint(fingerprint, 10)).Scan(&count)
	return count > 0, err
}

func (s *Store) MarkInsightRead(userID, id string) error {
	result, err := s.db.Exec(`UPDATE insights SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
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
