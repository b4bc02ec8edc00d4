package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/notifier"
	"github.com/becominglabs/becoming/internal/utils"
)

// RemindCmd pushes scheduled reminders through the desktop tray app. It is
// meant to run from a cron/systemd timer at minute granularity.
type RemindCmd struct {
	DryRun bool `help:"Print reminders to stdout instead of sending them."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.RemindersEnabled {
		if c.DryRun {
			fmt.Println("Reminders are disabled in settings.")
		}
		return nil
	}

	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return fmt.Errorf("failed to resolve timezone: %w", err)
	}
	current := now.Format(constants.TimeFormat)

	var messages []string
	if settings.MorningRitual && current == settings.MorningTime {
		msg, err := c.morningMessage(ctx)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}
	if settings.EveningReview && current == settings.EveningTime {
		msg, err := c.eveningMessage(ctx, now)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if len(messages) == 0 {
		if c.DryRun {
			fmt.Printf("No reminder due at %s.\n", current)
		}
		return nil
	}

	n := notifier.New()
	for _, msg := range messages {
		if c.DryRun {
			fmt.Println("[DryRun] " + msg)
			continue
		}
		if err := n.Notify(msg); err != nil {
			fmt.Printf("Failed to send notification: %v\n", err)
		}
	}

	return nil
}

func (c *RemindCmd) morningMessage(ctx *cli.Context) (string, error) {
	habits, err := ctx.Store.GetAllHabits(ctx.UserID, constants.LaneBecoming)
	if err != nil {
		return "", err
	}

	if len(habits) == 0 {
		return "Morning ritual: who are you becoming today?", nil
	}

	titles := make([]string, 0, len(habits))
	for _, h := range habits {
		titles = append(titles, h.Title)
	}
	return fmt.Sprintf("Morning ritual: %d habit(s) waiting — %s", len(habits), strings.Join(titles, ", ")), nil
}

func (c *RemindCmd) eveningMessage(ctx *cli.Context, now time.Time) (string, error) {
	habits, err := ctx.Store.GetAllHabits(ctx.UserID, constants.LaneBecoming)
	if err != nil {
		return "", err
	}

	today := utils.DayString(now)
	checkIns, err := ctx.Store.GetCheckInsForDay(ctx.UserID, today)
	if err != nil {
		return "", err
	}
	recorded := make(map[string]bool, len(checkIns))
	for _, ci := range checkIns {
		recorded[ci.HabitID] = true
	}

	pending := 0
	for _, h := range habits {
		if !recorded[h.ID] {
			pending++
		}
	}

	if pending == 0 {
		return "Evening review: every habit recorded. Well done.", nil
	}
	return fmt.Sprintf("Evening review: %d habit(s) still need a check-in today.", pending), nil
}
