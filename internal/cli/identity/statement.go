package identity

import (
	"fmt"
	"strings"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/constants"
)

type StatementCmd struct {
	Add        StatementAddCmd        `cmd:"" help:"Add an identity statement."`
	List       StatementListCmd       `cmd:"" help:"List identity statements."`
	Update     StatementUpdateCmd     `cmd:"" help:"Update a statement's text or active flag."`
	Delete     StatementDeleteCmd     `cmd:"" help:"Delete a statement."`
	Strengthen StatementStrengthenCmd `cmd:"" help:"Link a habit to strengthen a statement."`
}

type StatementAddCmd struct {
	Text string `arg:"" help:"Statement text (e.g. \"I am a writer\")."`
}

func (c *StatementAddCmd) Run(ctx *cli.Context) error {
	statement, err := ctx.Ledger.AddStatement(ctx.UserID, c.Text)
	if err != nil {
		return err
	}

	fmt.Printf("Added statement %d: %q\n", statement.Order+1, statement.Text)
	return nil
}

type StatementListCmd struct{}

func (c *StatementListCmd) Run(ctx *cli.Context) error {
	statements, err := ctx.Ledger.ListStatements(ctx.UserID)
	if err != nil {
		return err
	}

	if len(statements) == 0 {
		fmt.Println("No identity statements yet. Add one with 'becoming statement add'.")
		return nil
	}

	for _, st := range statements {
		marker := " "
		if !st.Active {
			marker = "-"
		}
		fmt.Printf("%s %s  %q\n", marker, st.ID[:8], st.Text)
		fmt.Printf("    strength %s %d/%d", cli.ProgressBar(float64(st.Strength)/float64(constants.StatementStrengthCap), 20),
			st.Strength, constants.StatementStrengthCap)
		if n := len(st.RelatedHabitIDs); n > 0 {
			fmt.Printf("  ·  %d linked habit(s)", n)
		}
		fmt.Println()
	}

	return nil
}

type StatementUpdateCmd struct {
	ID     string  `arg:"" help:"Statement ID (or unique prefix from 'statement list')."`
	Text   *string `help:"New statement text."`
	Active *bool   `help:"Set whether the statement is shown (true/false)."`
}

func (c *StatementUpdateCmd) Run(ctx *cli.Context) error {
	id, err := resolveStatement(ctx, c.ID)
	if err != nil {
		return err
	}

	statement, err := ctx.Ledger.UpdateStatement(ctx.UserID, id, c.Text, c.Active)
	if err != nil {
		return err
	}

	fmt.Printf("Updated statement: %q\n", statement.Text)
	return nil
}

type StatementDeleteCmd struct {
	ID string `arg:"" help:"Statement ID (or unique prefix from 'statement list')."`
}

func (c *StatementDeleteCmd) Run(ctx *cli.Context) error {
	id, err := resolveStatement(ctx, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Ledger.DeleteStatement(ctx.UserID, id); err != nil {
		return err
	}

	fmt.Println("Statement deleted.")
	return nil
}

type StatementStrengthenCmd struct {
	ID    string `arg:"" help:"Statement ID (or unique prefix from 'statement list')."`
	Habit string `arg:"" help:"Title of the habit that supports this statement."`
}

func (c *StatementStrengthenCmd) Run(ctx *cli.Context) error {
	id, err := resolveStatement(ctx, c.ID)
	if err != nil {
		return err
	}

	h, err := ctx.Store.GetHabitByTitle(ctx.UserID, c.Habit)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Habit)
	}

	statement, err := ctx.Ledger.StrengthenStatement(ctx.UserID, id, h.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%q now strengthens %q (strength %d/%d)\n",
		h.Title, statement.Text, statement.Strength, constants.StatementStrengthCap)
	return nil
}

func resolveStatement(ctx *cli.Context, id string) (string, error) {
	if len(id) >= 36 {
		return id, nil
	}

	statements, err := ctx.Ledger.ListStatements(ctx.UserID)
	if err != nil {
		return "", err
	}
	matched := ""
	for _, st := range statements {
		if strings.HasPrefix(st.ID, id) {
			if matched != "" {
				return "", fmt.Errorf("statement ID prefix %q is ambiguous", id)
			}
			matched = st.ID
		}
	}
	if matched == "" {
		return "", fmt.Errorf("no statement matches %q", id)
	}
	return matched, nil
}
