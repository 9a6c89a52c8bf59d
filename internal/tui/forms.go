package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pausa/internal/constants"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/utils"
)

// SetupFormModel holds the work schedule wizard's raw input.
type SetupFormModel struct {
	StartTime       string
	EndTime         string
	LunchStart      string
	LunchDuration   string
	WorkDays        []time.Weekday
	ExerciseProfile models.ExerciseProfile
}

// NewSetupFormModel seeds the wizard from ws.
func NewSetupFormModel(ws models.WorkSchedule) *SetupFormModel {
	return &SetupFormModel{
		StartTime:       ws.StartTime,
		EndTime:         ws.EndTime,
		LunchStart:      ws.LunchStart,
		LunchDuration:   strconv.Itoa(ws.LunchDuration),
		WorkDays:        append([]time.Weekday(nil), ws.WorkDays...),
		ExerciseProfile: ws.ExerciseProfile,
	}
}

// Patch converts the wizard input into a schedule update that marks the
// schedule configured.
func (fm *SetupFormModel) Patch() (models.WorkSchedulePatch, error) {
	lunch, err := strconv.Atoi(strings.TrimSpace(fm.LunchDuration))
	if err != nil {
		return models.WorkSchedulePatch{}, fmt.Errorf("invalid lunch duration %q", fm.LunchDuration)
	}
	if len(fm.WorkDays) == 0 {
		return models.WorkSchedulePatch{}, fmt.Errorf("select at least one work day")
	}
	days := append([]time.Weekday(nil), fm.WorkDays...)
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	start := strings.TrimSpace(fm.StartTime)
	end := strings.TrimSpace(fm.EndTime)
	lunchStart := strings.TrimSpace(fm.LunchStart)
	profile := fm.ExerciseProfile
	configured := true
	return models.WorkSchedulePatch{
		StartTime:       &start,
		EndTime:         &end,
		LunchStart:      &lunchStart,
		LunchDuration:   &lunch,
		WorkDays:        days,
		ExerciseProfile: &profile,
		IsConfigured:    &configured,
	}, nil
}

func validateClock(s string) error {
	if !utils.ValidateTimeFormat(strings.TrimSpace(s)) {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func validateRange(lo, hi int) func(string) error {
	return func(s string) error {
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		if i < lo || i > hi {
			return fmt.Errorf("must be %d-%d", lo, hi)
		}
		return nil
	}
}

// NewSetupForm creates the work schedule wizard.
func NewSetupForm(fm *SetupFormModel) *huh.Form {
	dayOptions := make([]huh.Option[time.Weekday], 0, 7)
	for _, d := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		dayOptions = append(dayOptions, huh.NewOption(d.String(), d))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Work starts").
				Description("HH:MM").
				Value(&fm.StartTime).
				Validate(validateClock),
			huh.NewInput().
				Title("Work ends").
				Description("HH:MM").
				Value(&fm.EndTime).
				Validate(validateClock),
			huh.NewInput().
				Title("Lunch starts").
				Description("HH:MM").
				Value(&fm.LunchStart).
				Validate(validateClock),
			huh.NewInput().
				Title("Lunch duration (min)").
				Value(&fm.LunchDuration).
				Validate(validateRange(0, 240)),
		),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Work days").
				Options(dayOptions...).
				Value(&fm.WorkDays),
			huh.NewSelect[models.ExerciseProfile]().
				Title("How active are you during the day?").
				Options(
					huh.NewOption("Mostly sitting", models.ExerciseNone),
					huh.NewOption("Light", models.ExerciseLight),
					huh.NewOption("Moderate", models.ExerciseModerate),
					huh.NewOption("Intense", models.ExerciseIntense),
				).
				Value(&fm.ExerciseProfile),
		),
	).WithTheme(huh.ThemeDracula())
}

// SettingsFormModel holds the reminder settings form's raw input.
type SettingsFormModel struct {
	EyeInterval      string
	StretchInterval  string
	WaterInterval    string
	SoundEnabled     bool
	SoundVolume      string
	NotificationTone models.NotificationTone
	NotifyOnResume   bool
}

// NewSettingsFormModel seeds the settings form from cfg.
func NewSettingsFormModel(cfg models.ReminderConfig) *SettingsFormModel {
	return &SettingsFormModel{
		EyeInterval:      strconv.Itoa(cfg.EyeInterval),
		StretchInterval:  strconv.Itoa(cfg.StretchInterval),
		WaterInterval:    strconv.Itoa(cfg.WaterInterval),
		SoundEnabled:     cfg.SoundEnabled,
		SoundVolume:      strconv.Itoa(cfg.SoundVolume),
		NotificationTone: cfg.NotificationTone,
		NotifyOnResume:   cfg.NotifyOnResume,
	}
}

// Patch converts the form input into a config update.
func (fm *SettingsFormModel) Patch() (models.ConfigPatch, error) {
	var ints [4]int
	for i, s := range []string{fm.EyeInterval, fm.StretchInterval, fm.WaterInterval, fm.SoundVolume} {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return models.ConfigPatch{}, fmt.Errorf("invalid number %q", s)
		}
		ints[i] = v
	}
	sound := fm.SoundEnabled
	toneName := fm.NotificationTone
	resume := fm.NotifyOnResume
	return models.ConfigPatch{
		EyeInterval:      &ints[0],
		StretchInterval:  &ints[1],
		WaterInterval:    &ints[2],
		SoundVolume:      &ints[3],
		SoundEnabled:     &sound,
		NotificationTone: &toneName,
		NotifyOnResume:   &resume,
	}, nil
}

// NewSettingsForm creates the reminder settings form.
func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	toneOptions := make([]huh.Option[models.NotificationTone], 0, len(models.NotificationTones))
	for _, t := range models.NotificationTones {
		toneOptions = append(toneOptions, huh.NewOption(string(t), t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Eye break every (min)").
				Value(&fm.EyeInterval).
				Validate(validateRange(constants.MinIntervalMin, constants.MaxIntervalMin)),
			huh.NewInput().
				Title("Stretch every (min)").
				Value(&fm.StretchInterval).
				Validate(validateRange(constants.MinIntervalMin, constants.MaxIntervalMin)),
			huh.NewInput().
				Title("Water every (min)").
				Value(&fm.WaterInterval).
				Validate(validateRange(constants.MinIntervalMin, constants.MaxIntervalMin)),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Play sounds").
				Value(&fm.SoundEnabled),
			huh.NewInput().
				Title("Volume (0-100)").
				Value(&fm.SoundVolume).
				Validate(validateRange(constants.MinSoundVolume, constants.MaxSoundVolume)),
			huh.NewSelect[models.NotificationTone]().
				Title("Tone").
				Options(toneOptions...).
				Value(&fm.NotificationTone),
			huh.NewConfirm().
				Title("Notify right away after resuming").
				Value(&fm.NotifyOnResume),
		),
	).WithTheme(huh.ThemeDracula())
}
