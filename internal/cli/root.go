package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/becominglabs/becoming/internal/backup"
	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/habit"
	"github.com/becominglabs/becoming/internal/identity"
	"github.com/becominglabs/becoming/internal/logger"
	"github.com/becominglabs/becoming/internal/models"
	"github.com/becominglabs/becoming/internal/storage"
)

// Context is passed to every command by kong.
type Context struct {
	Store   storage.Provider
	Tracker *habit.Tracker
	Ledger  *identity.Ledger
	UserID  string
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		// Try parsing as number (0=Sunday, 6=Saturday)
		num, err := strconv.Atoi(part)
		if err == nil && num >= 0 && num <= 6 {
			weekdays = append(weekdays, time.Weekday(num))
		} else {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
	}

	return weekdays, nil
}

// FormatFrequency formats a habit frequency into a human-readable string
func FormatFrequency(freq models.Frequency) string {
	switch freq.Type {
	case constants.FrequencyDaily:
		return "daily"
	case constants.FrequencyWeekly:
		return "weekly"
	case constants.FrequencyCustom:
		if len(freq.SpecificDays) > 0 {
			var days []string
			for _, wd := range freq.SpecificDays {
				days = append(days, wd.String()[:3])
			}
			return fmt.Sprintf("%dx/week on %s", freq.TargetDays, strings.Join(days, ","))
		}
		return fmt.Sprintf("%dx/week", freq.TargetDays)
	default:
		return "unknown"
	}
}

// ProgressBar renders a simple ASCII bar of the given width for a 0-1 ratio.
func ProgressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
