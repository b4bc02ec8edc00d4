package identity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/models"
)

// AddStatement records a new "I am ..." statement at the end of the user's
// display order. Each user keeps at most constants.MaxStatements.
func (l *Ledger) AddStatement(userID, text string) (models.Statement, error) {
	if len(text) < constants.StatementTextMinLen || len(text) > constants.StatementTextMaxLen {
		return models.Statement{}, fmt.Errorf("statement text must be %d-%d characters: %w",
			constants.StatementTextMinLen, constants.StatementTextMaxLen, apperrors.ErrValidation)
	}

	existing, err := l.store.GetAllStatements(userID)
	if err != nil {
		return models.Statement{}, fmt.Errorf("failed to list statements: %w", err)
	}
	if len(existing) >= constants.MaxStatements {
		return models.Statement{}, fmt.Errorf("user %s: %w", userID, apperrors.ErrStatementLimit)
	}

	now := l.now()
	statement := models.Statement{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		Order:     len(existing),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := l.store.AddStatement(statement); err != nil {
		return models.Statement{}, fmt.Errorf("failed to save statement: %w", err)
	}

	logger.Debug("Added identity statement", "statement_id", statement.ID, "order", statement.Order)
	return statement, nil
}

// ListStatements returns the user's statements in display order.
func (l *Ledger) ListStatements(userID string) ([]models.Statement, error) {
	return l.store.GetAllStatements(userID)
}

// UpdateStatement changes a statement's text or active flag. Nil fields are
// left untouched.
func (l *Ledger) UpdateStatement(userID, statementID string, text *string, active *bool) (models.Statement, error) {
	statement, err := l.store.GetStatement(userID, statementID)
	if err != nil {
		return models.Statement{}, err
	}

	if text != nil {
		if len(*text) < constants.StatementTextMinLen || len(*text) > constants.StatementTextMaxLen {
			return models.Statement{}, fmt.Errorf("statement text must be %d-%d characters: %w",
				constants.StatementTextMinLen, constants.StatementTextMaxLen, apperrors.ErrValidation)
		}
		statement.Text = *text
	}
	if active != nil {
		statement.Active = *active
	}
	statement.UpdatedAt = l.now()

	if err := l.store.UpdateStatement(statement); err != nil {
		return models.Statement{}, fmt.Errorf("failed to update statement: %w", err)
	}
	return statement, nil
}

// DeleteStatement removes a statement and closes the gap in the remaining
// display order.
func (l *Ledger) DeleteStatement(userID, statementID string) error {
	if _, err := l.store.GetStatement(userID, statementID); err != nil {
		return err
	}
	if err := l.store.DeleteStatement(userID, statementID); err != nil {
		return fmt.Errorf("failed to delete statement: %w", err)
	}

	remaining, err := l.store.GetAllStatements(userID)
	if err != nil {
		return fmt.Errorf("failed to list statements: %w", err)
	}
	now := l.now()
	for i, st := range remaining {
		if st.Order == i {
			continue
		}
		st.Order = i
		st.UpdatedAt = now
		if err := l.store.UpdateStatement(st); err != nil {
			return fmt.Errorf("failed to reorder statement %s: %w", st.ID, err)
		}
	}
	return nil
}

// StrengthenStatement links a habit to a statement. Each distinct habit adds
// a fixed strength step, capped; relinking the same habit is a no-op.
func (l *Ledger) StrengthenStatement(userID, statementID, habitID string) (models.Statement, error) {
	statement, err := l.store.GetStatement(userID, statementID)
	if err != nil {
		return models.Statement{}, err
	}
	if _, err := l.store.GetHabit(userID, habitID); err != nil {
		return models.Statement{}, fmt.Errorf("habit %s: %w", habitID, err)
	}

	if statement.LinkedTo(habitID) {
		return statement, nil
	}

	statement.RelatedHabitIDs = append(statement.RelatedHabitIDs, habitID)
	statement.Strength = len(statement.RelatedHabitIDs) * constants.StatementStrengthPerHabit
	if statement.Strength > constants.StatementStrengthCap {
		statement.Strength = constants.StatementStrengthCap
	}
	statement.UpdatedAt = l.now()

	if err := l.store.UpdateStatement(statement); err != nil {
		return models.Statement{}, fmt.Errorf("failed to update statement: %w", err)
	}

	logger.Debug("Strengthened identity statement", "statement_id", statementID,
		"habit_id", habitID, "strength", statement.Strength)
	return statement, nil
}
