package identity

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/cli"
)

// EdgeCmd prints the growth-edge report: the weakest tracked quality and
// what to do about it.
type EdgeCmd struct{}

func (c *EdgeCmd) Run(ctx *cli.Context) error {
	report, err := ctx.Ledger.GrowthEdge(ctx.UserID)
	if err != nil {
		return err
	}

	fmt.Printf("Growth edge: %s\n", report.QualityName)
	if report.QualityID != "" {
		fmt.Printf("  Strength:  %.1f / 100 (%s)\n", report.Strength, report.Tier)
		fmt.Printf("  Evidence:  %d records\n", report.EvidenceCount)
	}
	fmt.Printf("\n%s\n", report.Recommendation)
	if len(report.SuggestedActions) > 0 {
		fmt.Println("\nSuggested next steps:")
		for _, action := range report.SuggestedActions {
			fmt.Printf("  • %s\n", action)
		}
	}

	return nil
}
