package identity

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/cli"
)

type InsightsCmd struct {
	Generate InsightsGenerateCmd `cmd:"" help:"Generate new insights from your identity data."`
	List     InsightsListCmd     `cmd:"" help:"List insights."`
	Read     InsightsReadCmd     `cmd:"" help:"Mark an insight as read."`
}

type InsightsGenerateCmd struct{}

func (c *InsightsGenerateCmd) Run(ctx *cli.Context) error {
	insights, err := ctx.Ledger.GenerateInsights(ctx.UserID)
	if err != nil {
		return err
	}

	if len(insights) == 0 {
		fmt.Println("No new insights. Keep recording evidence.")
		return nil
	}

	fmt.Printf("Generated %d insight(s):\n\n", len(insights))
	for _, in := range insights {
		fmt.Printf("[%s] %s\n", in.InsightType, in.Title)
		fmt.Printf("  %s\n", in.Content)
	}

	return nil
}

type InsightsListCmd struct {
	All bool `help:"Include insights already marked as read."`
}

func (c *InsightsListCmd) Run(ctx *cli.Context) error {
	insights, err := ctx.Ledger.ListInsights(ctx.UserID, !c.All)
	if err != nil {
		return err
	}

	if len(insights) == 0 {
		fmt.Println("No insights.")
		return nil
	}

	for _, in := range insights {
		marker := " "
		if !in.IsRead {
			marker = "*"
		}
		fmt.Printf("%s %s  [%s/p%d]  %s\n", marker, in.ID[:8], in.InsightType, in.Priority, in.Title)
		fmt.Printf("    %s\n", in.Content)
	}

	return nil
}

type InsightsReadCmd struct {
	ID string `arg:"" help:"Insight ID (or unique prefix from 'insights list')."`
}

func (c *InsightsReadCmd) Run(ctx *cli.Context) error {
	id := c.ID
	if len(id) < 36 {
		// Resolve a prefix against the unread list
		insights, err := ctx.Ledger.ListInsights(ctx.UserID, false)
		if err != nil {
			return err
		}
		matched := ""
		for _, in := range insights {
			if len(in.ID) >= len(id) && in.ID[:len(id)] == id {
				if matched != "" {
					return fmt.Errorf("insight ID prefix %q is ambiguous", id)
				}
				matched = in.ID
			}
		}
		if matched == "" {
			return fmt.Errorf("no insight matches %q", id)
		}
		id = matched
	}

	if err := ctx.Ledger.MarkInsightRead(ctx.UserID, id); err != nil {
		return err
	}

	fmt.Println("Insight marked as read.")
	return nil
}
