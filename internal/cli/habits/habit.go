package habits

import (
	"fmt"
	"strings"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/habit"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/utils"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Start tracking a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits."`
	CheckIn  HabitCheckInCmd  `cmd:"" name:"checkin" help:"Record today's check-in for a habit."`
	Today    HabitTodayCmd    `cmd:"" help:"Show today's check-in status."`
	Stats    HabitStatsCmd    `cmd:"" help:"Show progress statistics for a habit."`
	Graduate HabitGraduateCmd `cmd:"" help:"Graduate a habit to the i_am lane."`
	Edit     HabitEditCmd     `cmd:"" help:"Edit a habit's definition."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its check-in history."`
}

type HabitAddCmd struct {
	Title       string `arg:"" help:"Habit title."`
	Frequency   string `help:"Frequency: daily, weekly, or custom." default:"daily"`
	TargetDays  int    `help:"Days per week for custom frequency (1-7)." default:"0"`
	Days        string `help:"Comma-separated weekdays for custom frequency (e.g. mon,wed,fri)."`
	Description string `help:"Optional description."`
	Tiny        string `help:"Tiny fallback version of the habit for hard days."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	freq := models.Frequency{Type: constants.HabitFrequency(c.Frequency)}
	if freq.Type == constants.FrequencyCustom {
		freq.TargetDays = c.TargetDays
		if c.Days != "" {
			days, err := cli.ParseWeekdays(c.Days)
			if err != nil {
				return err
			}
			freq.SpecificDays = days
			if freq.TargetDays == 0 {
				freq.TargetDays = len(days)
			}
		}
	}

	created, err := ctx.Tracker.Create(ctx.UserID, habit.CreateInput{
		Title:           c.Title,
		Description:     c.Description,
		Frequency:       freq,
		TinyHabitOption: c.Tiny,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Started habit %q (%s)\n", created.Title, cli.FormatFrequency(created.Frequency))
	fmt.Printf("Graduates to \"I am\" after %d days of consistent practice.\n", created.RequiredDays)
	return nil
}

type HabitListCmd struct {
	Lane string `help:"Filter by lane: becoming or i_am." default:""`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.List(ctx.UserID, constants.HabitLane(c.Lane))
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		lane := "becoming"
		if h.Graduated() {
			lane = "i am"
		}
		bar := cli.ProgressBar(float64(h.CurrentDay)/float64(h.RequiredDays), 20)
		fmt.Printf("[%s] %-30s %s %d/%d  streak %d\n",
			lane, h.Title, bar, h.CurrentDay, h.RequiredDays, h.CurrentStreak)
	}

	return nil
}

type HabitCheckInCmd struct {
	Title  string `arg:"" help:"Habit title."`
	Missed bool   `help:"Record a miss instead of a completion."`
	Tiny   bool   `help:"The tiny fallback version was used."`
	Note   string `help:"Optional note for this check-in."`
}

func (c *HabitCheckInCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabitByTitle(ctx.UserID, c.Title)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Title)
	}

	checkIn, err := ctx.Tracker.CheckIn(ctx.UserID, h.ID, habit.CheckInInput{
		Completed:     !c.Missed,
		TinyHabitUsed: c.Tiny,
		Note:          c.Note,
	})
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.Get(ctx.UserID, h.ID)
	if err != nil {
		return err
	}

	if checkIn.Completed {
		fmt.Printf("✓ Checked in %q for %s (streak: %d, day %d/%d)\n",
			h.Title, checkIn.CheckInDate, updated.CurrentStreak, updated.CurrentDay, updated.RequiredDays)

		// A full week of unbroken practice earns identity evidence for
		// the "consistent" quality.
		if updated.CurrentStreak > 0 && updated.CurrentStreak%7 == 0 {
			if _, err := ctx.Ledger.AutoEvidenceForHabit(ctx.UserID, h.ID); err != nil {
				logger.Warn("Failed to record streak evidence", "habit_id", h.ID, "error", err)
			} else {
				fmt.Printf("  %d-day streak! Evidence recorded for your consistency.\n", updated.CurrentStreak)
			}
		}
	} else {
		fmt.Printf("Recorded a miss for %q on %s", h.Title, checkIn.CheckInDate)
		if updated.CurrentStreak > 0 {
			fmt.Printf(" (grace day used, streak preserved at %d)", updated.CurrentStreak)
		}
		fmt.Println()
	}

	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Tracker.List(ctx.UserID, constants.LaneBecoming)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits in the becoming lane.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return err
	}

	checkIns, err := ctx.Store.GetCheckInsForDay(ctx.UserID, today)
	if err != nil {
		return err
	}
	recordedFor := make(map[string]bool)
	for _, ci := range checkIns {
		recordedFor[ci.HabitID] = ci.Completed
	}

	fmt.Printf("Habits for %s:\n\n", today)
	recorded := 0
	for _, h := range habits {
		status := "[ ]"
		if done, ok := recordedFor[h.ID]; ok {
			recorded++
			if done {
				status = "[x]"
			} else {
				status = "[-]"
			}
		}
		fmt.Printf("%s %s\n", status, h.Title)
	}
	fmt.Printf("\nRecorded: %d/%d\n", recorded, len(habits))

	return nil
}

type HabitStatsCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabitByTitle(ctx.UserID, c.Title)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Title)
	}

	stats, err := ctx.Tracker.Stats(ctx.UserID, h.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", h.Title)
	fmt.Printf("  Lane:            %s\n", h.Lane)
	fmt.Printf("  Progress:        day %d of %d\n", h.CurrentDay, h.RequiredDays)
	fmt.Printf("  Consistency:     %.0f%%\n", stats.ConsistencyRate*100)
	fmt.Printf("  Current streak:  %d\n", stats.CurrentStreak)
	fmt.Printf("  Longest streak:  %d\n", stats.LongestStreak)
	fmt.Printf("  Completions:     %d\n", stats.CompletedDays)
	fmt.Printf("  Per week (avg):  %.1f\n", stats.AverageCompletionsPerWeek)
	fmt.Printf("  Last 7 days:     %s\n", historyLine(stats.Last7Days))
	fmt.Printf("  Last 30 days:    %s\n", historyLine(stats.Last30Days))

	return nil
}

// historyLine renders completion booleans oldest-to-newest.
func historyLine(days []bool) string {
	var b strings.Builder
	for i := len(days) - 1; i >= 0; i-- {
		if days[i] {
			b.WriteString("x")
		} else {
			b.WriteString(".")
		}
	}
	return b.String()
}

type HabitGraduateCmd struct {
	Title string `arg:"" help:"Habit title."`
	Auto  bool   `help:"Require the automatic threshold (full required days + 80% consistency)."`
	Note  string `help:"Optional graduation note."`
}

func (c *HabitGraduateCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabitByTitle(ctx.UserID, c.Title)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Title)
	}

	graduated, err := ctx.Tracker.Graduate(ctx.UserID, h.ID, !c.Auto, c.Note)
	if err != nil {
		return err
	}

	fmt.Printf("🎓 %q graduated after %d days. You are no longer becoming — you are.\n",
		graduated.Title, graduated.CurrentDay)
	return nil
}

type HabitEditCmd struct {
	Title          string `arg:"" help:"Habit title."`
	NewTitle       string `help:"New title."`
	NewDescription string `help:"New description."`
	NewTiny        string `help:"New tiny fallback version."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabitByTitle(ctx.UserID, c.Title)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Title)
	}

	var in habit.UpdateInput
	if c.NewTitle != "" {
		in.Title = &c.NewTitle
	}
	if c.NewDescription != "" {
		in.Description = &c.NewDescription
	}
	if c.NewTiny != "" {
		in.TinyHabitOption = &c.NewTiny
	}

	updated, err := ctx.Tracker.Update(ctx.UserID, h.ID, in)
	if err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", updated.Title)
	return nil
}

type HabitDeleteCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Store.GetHabitByTitle(ctx.UserID, c.Title)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Title)
	}

	if err := ctx.Tracker.Delete(ctx.UserID, h.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit %q and its check-in history.\n", h.Title)
	return nil
}
