package identity

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/cli"
	ledger "github.com/becominglabs/becoming/internal/identity"
)

type EvidenceCmd struct {
	Record EvidenceRecordCmd `cmd:"" help:"Record evidence for a quality."`
	List   EvidenceListCmd   `cmd:"" help:"List evidence records, newest first."`
}

type EvidenceRecordCmd struct {
	Quality     string  `arg:"" help:"Quality name the evidence supports."`
	Action      string  `arg:"" help:"What you did."`
	Type        string  `help:"Evidence type." default:"action"`
	Description string  `help:"Optional details."`
	Impact      float64 `help:"Impact score (defaults to 1.0)." default:"0"`
}

func (c *EvidenceRecordCmd) Run(ctx *cli.Context) error {
	quality, err := ctx.Store.GetQualityByName(ctx.UserID, c.Quality)
	if err != nil {
		return fmt.Errorf("quality %q not found", c.Quality)
	}

	evidence, err := ctx.Ledger.RecordEvidence(ctx.UserID, ledger.EvidenceInput{
		QualityID:    quality.ID,
		EvidenceType: c.Type,
		Action:       c.Action,
		Description:  c.Description,
		ImpactScore:  c.Impact,
	})
	if err != nil {
		return err
	}

	updated, err := ctx.Ledger.GetQuality(ctx.UserID, quality.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Evidence recorded for %q (+%.1f strength, now %.1f)\n",
		quality.QualityName, evidence.ImpactScore, updated.Strength)
	return nil
}

type EvidenceListCmd struct {
	Quality string `help:"Filter by quality name."`
	Limit   int    `help:"Maximum records to show." default:"20"`
}

func (c *EvidenceListCmd) Run(ctx *cli.Context) error {
	qualityID := ""
	if c.Quality != "" {
		quality, err := ctx.Store.GetQualityByName(ctx.UserID, c.Quality)
		if err != nil {
			return fmt.Errorf("quality %q not found", c.Quality)
		}
		qualityID = quality.ID
	}

	evidence, err := ctx.Ledger.ListEvidence(ctx.UserID, qualityID, c.Limit)
	if err != nil {
		return err
	}

	if len(evidence) == 0 {
		fmt.Println("No evidence recorded yet.")
		return nil
	}

	for _, e := range evidence {
		fmt.Printf("%s  [%s]  %s (+%.1f)\n",
			e.CreatedAt.Format("2006-01-02 15:04"), e.EvidenceType, e.Action, e.ImpactScore)
	}

	return nil
}
