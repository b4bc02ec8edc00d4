package settings

import (
	"fmt"
	"strconv"

	"github.com/becominglabs/becoming/internal/cli"
	"github.com/becominglabs/becoming/internal/constants"
	"github.com/becominglabs/becoming/internal/utils"
)

type SettingsCmd struct {
	Get SettingsGetCmd `cmd:"" help:"Show current settings." default:"1"`
	Set SettingsSetCmd `cmd:"" help:"Change a setting."`
}

type SettingsGetCmd struct{}

func (c *SettingsGetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Printf("%-20s %v\n", constants.SettingRemindersEnabled, settings.RemindersEnabled)
	fmt.Printf("%-20s %v\n", constants.SettingMorningRitual, settings.MorningRitual)
	fmt.Printf("%-20s %s\n", constants.SettingMorningTime, settings.MorningTime)
	fmt.Printf("%-20s %v\n", constants.SettingEveningReview, settings.EveningReview)
	fmt.Printf("%-20s %s\n", constants.SettingEveningTime, settings.EveningTime)
	fmt.Printf("%-20s %s\n", constants.SettingTimezone, settings.Timezone)

	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting key (see 'settings get')."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	switch c.Key {
	case constants.SettingRemindersEnabled, constants.SettingMorningRitual, constants.SettingEveningReview:
		v, err := strconv.ParseBool(c.Value)
		if err != nil {
			return fmt.Errorf("invalid boolean value %q for %s", c.Value, c.Key)
		}
		switch c.Key {
		case constants.SettingRemindersEnabled:
			settings.RemindersEnabled = v
		case constants.SettingMorningRitual:
			settings.MorningRitual = v
		case constants.SettingEveningReview:
			settings.EveningReview = v
		}
	case constants.SettingMorningTime, constants.SettingEveningTime:
		if !utils.ValidateTimeFormat(c.Value) {
			return fmt.Errorf("invalid time %q (expected HH:MM)", c.Value)
		}
		if c.Key == constants.SettingMorningTime {
			settings.MorningTime = c.Value
		} else {
			settings.EveningTime = c.Value
		}
	case constants.SettingTimezone:
		if !utils.ValidateTimezone(c.Value) {
			return fmt.Errorf("invalid timezone %q (expected IANA name, e.g. America/New_York)", c.Value)
		}
		settings.Timezone = c.Value
	default:
		return fmt.Errorf("unknown setting %q", c.Key)
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Printf("Set %s = %s\n", c.Key, c.Value)
	return nil
}
