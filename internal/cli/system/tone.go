package system

import (
	"context"
	"fmt"

	"github.com/julianstephens/pausa/internal/cli"
	"github.com/julianstephens/pausa/internal/models"
	"github.com/julianstephens/pausa/internal/tone"
)

type ToneCmd struct {
	Preset string `help:"Tone preset (${enum})." enum:"soft-beep,chime,bell,digital,gentle,alert" default:"soft-beep"`
	Volume int    `help:"Volume 0-100." default:"70"`
	Out    string `help:"Write the rendered tone to a WAV file instead of playing it." type:"path"`
	List   bool   `help:"List the available presets."`
}

func (c *ToneCmd) Run(ctx *cli.Context) error {
	if c.List {
		for _, name := range models.NotificationTones {
			p, _ := tone.Lookup(name)
			fmt.Printf("%-10s %-8s %v\n", name, p.Waveform, p.Duration())
		}
		return nil
	}

	if c.Volume < 0 || c.Volume > 100 {
		return fmt.Errorf("volume %d is outside [0, 100]", c.Volume)
	}
	p, err := tone.Lookup(models.NotificationTone(c.Preset))
	if err != nil {
		return err
	}

	if c.Out != "" {
		if err := tone.WriteFile(c.Out, p, c.Volume); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%v) to %s\n", p.Name, p.Duration(), c.Out)
		return nil
	}

	d := tone.NewDispatcher(tone.Capabilities{Audio: &tone.ExecAudio{}})
	return d.Preview(context.Background(), p.Name, c.Volume)
}
