package challenges

import (
	"fmt"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/identity"
	"github.com/becominglabs/becoming/internal/models"
)

type ChallengeCmd struct {
	Start       ChallengeStartCmd       `cmd:"" help:"Start a 7-day challenge for a quality."`
	List        ChallengeListCmd        `cmd:"" help:"List challenges."`
	Show        ChallengeShowCmd        `cmd:"" help:"Show a challenge's quests and progress."`
	CompleteDay ChallengeCompleteDayCmd `cmd:"" name:"complete-day" help:"Complete one day of an active challenge."`
}

type ChallengeStartCmd struct {
	Quality     string   `arg:"" help:"Quality the challenge targets."`
	Title       string   `arg:"" help:"Challenge title."`
	Description string   `help:"Optional description."`
	Difficulty  string   `help:"beginner, intermediate, or advanced." default:"beginner"`
	Quest       []string `help:"Daily quest, repeatable up to 7 times (day order)."`
}

func (c *ChallengeStartCmd) Run(ctx *cli.Context) error {
	quality, err := ctx.Store.GetQualityByName(ctx.UserID, c.Quality)
	if err != nil {
		return fmt.Errorf("quality %q not found", c.Quality)
	}

	quests := make([]models.DailyQuest, 0, len(c.Quest))
	for i, title := range c.Quest {
		quests = append(quests, models.DailyQuest{Day: i + 1, Title: title})
	}

	challenge, err := ctx.Ledger.StartChallenge(ctx.UserID, identity.ChallengeInput{
		QualityTargetID: quality.ID,
		Title:           c.Title,
		Description:     c.Description,
		Difficulty:      c.Difficulty,
		DailyQuests:     quests,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Started challenge %q targeting %s (%s)\n",
		challenge.Title, quality.QualityName, challenge.Difficulty)
	fmt.Println("Complete all 7 days to earn a milestone and bonus XP.")
	return nil
}

type ChallengeListCmd struct {
	Status string `help:"Filter by status: active or completed." default:""`
}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	challenges, err := ctx.Ledger.ListChallenges(ctx.UserID, constants.ChallengeStatus(c.Status))
	if err != nil {
		return err
	}

	if len(challenges) == 0 {
		fmt.Println("No challenges found.")
		return nil
	}

	for _, ch := range challenges {
		fmt.Printf("%s  %-30s [%s]  %d/7 days  %d XP\n",
			ch.ID[:8], ch.Title, ch.Status, len(ch.CompletedDays), ch.XPEarned)
	}

	return nil
}

type ChallengeShowCmd struct {
	ID string `arg:"" help:"Challenge ID (or unique prefix)."`
}

func (c *ChallengeShowCmd) Run(ctx *cli.Context) error {
	challenge, err := resolveChallenge(ctx, c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s [%s, %s]\n", challenge.Title, challenge.Status, challenge.Difficulty)
	if challenge.Description != "" {
		fmt.Printf("  %s\n", challenge.Description)
	}
	fmt.Printf("  Progress: %d/7 days, %d XP earned\n\n", len(challenge.CompletedDays), challenge.XPEarned)

	for _, quest := range challenge.DailyQuests {
		marker := "[ ]"
		if challenge.DayCompleted(quest.Day) {
			marker = "[x]"
		}
		fmt.Printf("  %s Day %d: %s\n", marker, quest.Day, quest.Title)
	}

	for _, quote := range challenge.WisdomQuotes {
		fmt.Printf("\n  “%s”", quote.Quote)
		if quote.Author != "" {
			fmt.Printf(" — %s", quote.Author)
		}
		fmt.Println()
	}

	return nil
}

type ChallengeCompleteDayCmd struct {
	ID  string `arg:"" help:"Challenge ID (or unique prefix)."`
	Day int    `arg:"" help:"Day number to complete (1-7)."`
}

func (c *ChallengeCompleteDayCmd) Run(ctx *cli.Context) error {
	challenge, err := resolveChallenge(ctx, c.ID)
	if err != nil {
		return err
	}

	updated, xp, err := ctx.Ledger.CompleteDay(ctx.UserID, challenge.ID, c.Day)
	if err != nil {
		return err
	}

	fmt.Printf("Day %d complete! +%d XP (%d/7 days)\n", c.Day, xp, len(updated.CompletedDays))
	if updated.Status == constants.ChallengeCompleted {
		fmt.Printf("🏆 Challenge %q completed! Milestone earned, %d XP total.\n", updated.Title, updated.XPEarned)
	}

	return nil
}

// resolveChallenge looks a challenge up by full ID or unique prefix.
func resolveChallenge(ctx *cli.Context, id string) (models.Challenge, error) {
	if len(id) >= 36 {
		return ctx.Ledger.GetChallenge(ctx.UserID, id)
	}

	challenges, err := ctx.Ledger.ListChallenges(ctx.UserID, "")
	if err != nil {
		return models.Challenge{}, err
	}

	var match models.Challenge
	found := false
	for _, ch := range challenges {
		if len(ch.ID) >= len(id) && ch.ID[:len(id)] == id {
			if found {
				return models.Challenge{}, fmt.Errorf("challenge ID prefix %q is ambiguous", id)
			}
			match = ch
			found = true
		}
	}
	if !found {
		return models.Challenge{}, fmt.Errorf("no challenge matches %q", id)
	}
	return match, nil
}
