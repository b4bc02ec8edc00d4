package identity

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/cli"
)

type QualityCmd struct {
	Track  QualityTrackCmd  `cmd:"" help:"Start tracking an identity quality."`
	List   QualityListCmd   `cmd:"" help:"List tracked qualities."`
	Show   QualityShowCmd   `cmd:"" help:"Show one quality in detail."`
	Update QualityUpdateCmd `cmd:"" help:"Update a quality's strength or category."`
}

type QualityTrackCmd struct {
	Name     string `arg:"" help:"Quality name (e.g. disciplined, patient)."`
	Category string `help:"Category for the quality." default:"character"`
}

func (c *QualityTrackCmd) Run(ctx *cli.Context) error {
	quality, err := ctx.Ledger.TrackQuality(ctx.UserID, c.Name, c.Category)
	if err != nil {
		return err
	}

	fmt.Printf("Now tracking quality %q (%s)\n", quality.QualityName, quality.Category)
	return nil
}

type QualityListCmd struct{}

func (c *QualityListCmd) Run(ctx *cli.Context) error {
	qualities, err := ctx.Ledger.ListQualities(ctx.UserID)
	if err != nil {
		return err
	}

	if len(qualities) == 0 {
		fmt.Println("No qualities tracked yet. Start with 'becoming quality track <name>'.")
		return nil
	}

	for _, q := range qualities {
		bar := cli.ProgressBar(q.Strength/100, 20)
		fmt.Printf("%-20s %s %5.1f  (%d evidence)\n", q.QualityName, bar, q.Strength, q.EvidenceCount)
	}

	return nil
}

type QualityShowCmd struct {
	Name string `arg:"" help:"Quality name."`
}

func (c *QualityShowCmd) Run(ctx *cli.Context) error {
	quality, err := ctx.Store.GetQualityByName(ctx.UserID, c.Name)
	if err != nil {
		return fmt.Errorf("quality %q not found", c.Name)
	}

	fmt.Printf("%s\n", quality.QualityName)
	fmt.Printf("  Category:  %s\n", quality.Category)
	fmt.Printf("  Strength:  %.1f / 100\n", quality.Strength)
	fmt.Printf("  Evidence:  %d records\n", quality.EvidenceCount)
	if quality.LastEvidence != nil {
		fmt.Printf("  Last seen: %s\n", quality.LastEvidence.Format("2006-01-02 15:04"))
	}

	evidence, err := ctx.Ledger.ListEvidence(ctx.UserID, quality.ID, 5)
	if err != nil {
		return err
	}
	if len(evidence) > 0 {
		fmt.Println("\n  Recent evidence:")
		for _, e := range evidence {
			fmt.Printf("    %s  %s (+%.1f)\n", e.CreatedAt.Format("2006-01-02"), e.Action, e.ImpactScore)
		}
	}

	return nil
}

type QualityUpdateCmd struct {
	Name     string   `arg:"" help:"Quality name."`
	Strength *float64 `help:"New strength (clamped to 0-100)."`
	Category *string  `help:"New category."`
}

func (c *QualityUpdateCmd) Run(ctx *cli.Context) error {
	quality, err := ctx.Store.GetQualityByName(ctx.UserID, c.Name)
	if err != nil {
		return fmt.Errorf("quality %q not found", c.Name)
	}

	updated, err := ctx.Ledger.UpdateQuality(ctx.UserID, quality.ID, c.Strength, c.Category)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %q: strength %.1f, category %s\n", updated.QualityName, updated.Strength, updated.Category)
	return nil
}
