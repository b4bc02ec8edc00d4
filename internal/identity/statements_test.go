package identity

import (
	"fmt"
	"testing"
	"time"

	"github.com/becominglabs/becoming/internal/constants"
	apperrors "github.com/becominglabs/becoming/internal/errors"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage/memory"
)

func setupStatementLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewLedger(store, &captureSink{}, clock.Now), store
}

func TestAddStatementAssignsOrder(t *testing.T) {
	ledger, _ := setupStatementLedger(t)

	first, err := ledger.AddStatement("user1", "I am a writer")
	if err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}
	second, err := ledger.AddStatement("user1", "I am a runner")
	if err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}

	if first.Order != 0 || second.Order != 1 {
		t.Errorf("expected orders 0 and 1, got %d and %d", first.Order, second.Order)
	}
	if first.Strength != 0 || !first.Active {
		t.Errorf("expected new statement active at strength 0, got strength %d active %v",
			first.Strength, first.Active)
	}
}

func TestAddStatementLimit(t *testing.T) {
	ledger, _ := setupStatementLedger(t)

	for i := 0; i < constants.MaxStatements; i++ {
		if _, err := ledger.AddStatement("user1", fmt.Sprintf("I am statement %d", i)); err != nil {
			t.Fatalf("failed to add statement %d: %v", i, err)
		}
	}

	if _, err := ledger.AddStatement("user1", "I am one too many"); !apperrors.Is(err, apperrors.ErrStatementLimit) {
		t.Errorf("expected statement limit error, got %v", err)
	}

	// The cap is per user.
	if _, err := ledger.AddStatement("user2", "I am someone else"); err != nil {
		t.Errorf("another user should not hit the cap: %v", err)
	}
}

func TestAddStatementTextValidation(t *testing.T) {
	ledger, _ := setupStatementLedger(t)

	if _, err := ledger.AddStatement("user1", "I am"); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for short text, got %v", err)
	}
}

func TestStrengthenStatement(t *testing.T) {
	ledger, store := setupStatementLedger(t)

	statement, err := ledger.AddStatement("user1", "I am disciplined")
	if err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}

	habits := make([]models.Habit, 6)
	for i := range habits {
		habits[i] = models.Habit{
			ID:     fmt.Sprintf("habit-%d", i),
			UserID: "user1",
			Title:  fmt.Sprintf("Habit %d", i),
			Lane:   constants.LaneBecoming,
		}
		if err := store.AddHabit(habits[i]); err != nil {
			t.Fatalf("failed to add habit: %v", err)
		}
	}

	got, err := ledger.StrengthenStatement("user1", statement.ID, habits[0].ID)
	if err != nil {
		t.Fatalf("failed to strengthen statement: %v", err)
	}
	if got.Strength != 20 {
		t.Errorf("expected strength 20 after one habit, got %d", got.Strength)
	}

	// Relinking the same habit changes nothing.
	got, err = ledger.StrengthenStatement("user1", statement.ID, habits[0].ID)
	if err != nil {
		t.Fatalf("failed to re-strengthen statement: %v", err)
	}
	if got.Strength != 20 || len(got.RelatedHabitIDs) != 1 {
		t.Errorf("relink should be a no-op, got strength %d with %d links",
			got.Strength, len(got.RelatedHabitIDs))
	}

	// Strength caps at 100 even past five linked habits.
	for _, h := range habits[1:] {
		if got, err = ledger.StrengthenStatement("user1", statement.ID, h.ID); err != nil {
			t.Fatalf("failed to strengthen statement: %v", err)
		}
	}
	if got.Strength != constants.StatementStrengthCap {
		t.Errorf("expected strength capped at %d, got %d", constants.StatementStrengthCap, got.Strength)
	}
	if len(got.RelatedHabitIDs) != len(habits) {
		t.Errorf("expected %d linked habits, got %d", len(habits), len(got.RelatedHabitIDs))
	}
}

func TestStrengthenStatementUnknownHabit(t *testing.T) {
	ledger, _ := setupStatementLedger(t)

	statement, err := ledger.AddStatement("user1", "I am disciplined")
	if err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}

	if _, err := ledger.StrengthenStatement("user1", statement.ID, "no-such-habit"); err == nil {
		t.Error("expected error for unknown habit")
	}
}

func TestDeleteStatementReorders(t *testing.T) {
	ledger, _ := setupStatementLedger(t)

	var ids []string
	for _, text := range []string{"I am a writer", "I am a runner", "I am a reader"} {
		st, err := ledger.AddStatement("user1", text)
		if err != nil {
			t.Fatalf("failed to add statement: %v", err)
		}
		ids = append(ids, st.ID)
	}

	if err := ledger.DeleteStatement("user1", ids[0]); err != nil {
		t.Fatalf("failed to delete statement: %v", err)
	}

	remaining, err := ledger.ListStatements("user1")
	if err != nil {
		t.Fatalf("failed to list statements: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(remaining))
	}
	for i, st := range remaining {
		if st.Order != i {
			t.Errorf("expected statement %d at order %d, got %d", i, i, st.Order)
		}
	}
	if remaining[0].Text != "I am a runner" || remaining[1].Text != "I am a reader" {
		t.Errorf("unexpected remaining statements: %q, %q", remaining[0].Text, remaining[1].Text)
	}
}

func TestUpdateStatement(t *testing.T) {
	ledger, _ := setupStatementLedger(t)

	statement, err := ledger.AddStatement("user1", "I am a writer")
	if err != nil {
		t.Fatalf("failed to add statement: %v", err)
	}

	text := "I am a published writer"
	active := false
	got, err := ledger.UpdateStatement("user1", statement.ID, &text, &active)
	if err != nil {
		t.Fatalf("failed to update statement: %v", err)
	}
	if got.Text != text || got.Active {
		t.Errorf("expected updated text and inactive flag, got %q active=%v", got.Text, got.Active)
	}

	short := "I am"
	if _, err := ledger.UpdateStatement("user1", statement.ID, &short, nil); !apperrors.Is(err, apperrors.ErrValidation) {
		t.Errorf("expected validation error for short text, got %v", err)
	}
}
