package sqlite

import (
	"database/sql"
	"errors"

	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

const statementColumns = `id, user_id, text, statement_order, active, strength,
	related_habit_ids, created_at, updated_at`

func scanStatement(row rowScanner) (models.Statement, error) {
	var st models.Statement
	var relatedHabitIDs, createdAt, updatedAt string

	err := row.Scan(&st.ID, &st.UserID, &st.Text, &st.Order, &st.Active, &st.Strength,
		&relatedHabitIDs, &createdAt, &updatedAt)
	if err != nil {
		return models.Statement{}, err
	}

	if err := unmarshalJSON("related_habit_ids", relatedHabitIDs, &st.RelatedHabitIDs); err != nil {
		return models.Statement{}, err
	}
	if st.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return models.Statement{}, err
	}
	if st.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return models.Statement{}, err
	}

	return st, nil
}

func (s *Store) AddStatement(statement models.Statement) error {
	return s.UpdateStatement(statement)
}

func (s *Store) GetStatement(userID, id string) (models.Statement, error) {
	row := s.db.QueryRow(`SELECT `+statementColumns+` FROM statements WHERE id = ? AND user_id = ?`, id, userID)

	statement, err := scanStatement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Statement{}, storage.ErrNotFound
	}
	return statement, err
}

func (s *Store) GetAllStatements(userID string) ([]models.Statement, error) {
	rows, err := s.db.Query(`SELECT `+statementColumns+` FROM statements WHERE user_id = ? ORDER BY statement_order, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []models.Statement
	for rows.Next() {
		statement, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}

	return statements, rows.Err()
}

func (s *Store) UpdateStatement(statement models.Statement) error {
	relatedHabitIDs, err := marshalJSON(statement.RelatedHabitIDs)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO statements (`+statementColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			statement_order = excluded.statement_order,
			active = excluded.active,
			strength = excluded.strength,
			related_habit_ids = excluded.related_habit_ids,
			updated_at = excluded.updated_at`,
		statement.ID, statement.UserID, statement.Text, statement.Order, statement.Active,
		statement.Strength, relatedHabitIDs, formatTime(statement.CreatedAt), formatTime(statement.UpdatedAt))

	return err
}

func (s *Store) DeleteStatement(userID, id string) error {
	result, err := s.db.Exec(`DELETE FROM statements WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
