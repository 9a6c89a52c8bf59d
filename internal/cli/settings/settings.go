package settings

import (
	"fmt"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/engine"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/tui"
)

// runForm is replaced in tests.
var runForm = func(run func() error) error { return run() }

type SettingsCmd struct {
	List bool `help:"List current settings."`
	Edit bool `help:"Edit settings interactively."`

	EyeInterval     *int    `help:"Minutes between eye breaks."`
	StretchInterval *int    `help:"Minutes between stretch breaks."`
	WaterInterval   *int    `help:"Minutes between water breaks."`
	Sound           *bool   `help:"Enable or disable sounds."`
	SoundVolume     *int    `help:"Sound volume 0-100."`
	EyeSound        *bool   `help:"Play a sound for eye breaks."`
	StretchSound    *bool   `help:"Play a sound for stretch breaks."`
	WaterSound      *bool   `help:"Play a sound for water breaks."`
	Tone            *string `help:"Notification tone preset."`
	NotifyOnResume  *bool   `help:"Notify overdue breaks right after resuming."`
}

func (c *SettingsCmd) patch() models.ConfigPatch {
	p := models.ConfigPatch{
		EyeInterval:     c.EyeInterval,
		StretchInterval: c.StretchInterval,
		WaterInterval:   c.WaterInterval,
		SoundEnabled:    c.Sound,
		SoundVolume:     c.SoundVolume,
		EyeSound:        c.EyeSound,
		StretchSound:    c.StretchSound,
		WaterSound:      c.WaterSound,
		NotifyOnResume:  c.NotifyOnResume,
	}
	if c.Tone != nil {
		t := models.NotificationTone(*c.Tone)
		p.NotificationTone = &t
	}
	return p
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	s := ctx.NewSession(engine.Deps{})
	defer s.Close()

	cfg := s.Engine.Config()
	if c.List {
		printConfig(cfg)
		return nil
	}

	p := c.patch()
	if c.Edit {
		fm := tui.NewSettingsFormModel(cfg)
		if err := runForm(tui.NewSettingsForm(fm).Run); err != nil {
			return err
		}
		var err error
		if p, err = fm.Patch(); err != nil {
			return err
		}
	}

	if p.Empty() {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	updated, err := s.Engine.UpdateConfig(p, ctx.Clock()())
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	printConfig(updated)
	return nil
}

func printConfig(cfg models.ReminderConfig) {
	fmt.Println("Reminder Settings:")
	fmt.Printf("  Eye Interval:      %d min\n", cfg.EyeInterval)
	fmt.Printf("  Stretch Interval:  %d min\n", cfg.StretchInterval)
	fmt.Printf("  Water Interval:    %d min\n", cfg.WaterInterval)
	fmt.Println("\nSound Settings:")
	fmt.Printf("  Sound Enabled:     %v\n", cfg.SoundEnabled)
	fmt.Printf("  Volume:            %d\n", cfg.SoundVolume)
	fmt.Printf("  Tone:              %s\n", cfg.NotificationTone)
	fmt.Printf("  Eye/Stretch/Water: %v/%v/%v\n", cfg.EyeSound, cfg.StretchSound, cfg.WaterSound)
	fmt.Printf("  Notify on Resume:  %v\n", cfg.NotifyOnResume)
}
