package models

import (
	"github.com/becominglabs/becoming/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingMorningRitual:
			settings.MorningRitual = value == "true"
		case constants.SettingMorningTime:
			settings.MorningTime = value
		case constants.SettingEveningReview:
			settings.EveningReview = value == "true"
		case constants.SettingEveningTime:
			settings.EveningTime = value
		case constants.SettingRemindersEnabled:
			settings.RemindersEnabled = value == "true"
		case constants.SettingTimezone:
			settings.Timezone = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingMorningRitual:    boolString(settings.MorningRitual),
		constants.SettingMorningTime:      settings.MorningTime,
		constants.SettingEveningReview:    boolString(settings.EveningReview),
		constants.SettingEveningTime:      settings.EveningTime,
		constants.SettingRemindersEnabled: boolString(settings.RemindersEnabled),
		constants.SettingTimezone:         settings.Timezone,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.MorningTime == "" {
		settings.MorningTime = constants.DefaultMorningTime
	}
	if settings.EveningTime == "" {
		settings.EveningTime = constants.DefaultEveningTime
	}
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
