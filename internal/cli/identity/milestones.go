package identity

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/cli"
)

// MilestonesCmd lists earned milestones, newest last.
type MilestonesCmd struct{}

func (c *MilestonesCmd) Run(ctx *cli.Context) error {
	milestones, err := ctx.Ledger.ListMilestones(ctx.UserID)
	if err != nil {
		return err
	}

	if len(milestones) == 0 {
		fmt.Println("No milestones yet. Complete a 7-day challenge to earn one.")
		return nil
	}

	totalXP := 0
	for _, m := range milestones {
		fmt.Printf("%s  %s (+%d XP)\n", m.CreatedAt.Format("2006-01-02"), m.Title, m.XPReward)
		totalXP += m.XPReward
	}
	fmt.Printf("\nTotal milestone XP: %d\n", totalXP)

	return nil
}
