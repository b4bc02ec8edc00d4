package identity

import (
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

// StoreSink is the default MilestoneSink: it persists milestones straight
// into the storage provider.
type StoreSink struct {
	Store storage.Provider
}

func (s StoreSink) Record(m models.Milestone) error {
	return s.Store.AddMilestone(m)
}

// ListMilestones returns every milestone recorded for the user.
func (l *Ledger) ListMilestones(userID string) ([]models.Milestone, error) {
	return l.store.GetAllMilestones(userID)
}
