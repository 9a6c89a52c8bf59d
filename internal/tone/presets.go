package tone

import (
	"fmt"
	"time"

	"github.com/julianstephens/pausa/internal/models"
)

// Waveform is the oscillator shape of a preset.
type Waveform string

const (
	Sine     Waveform = "sine"
	Triangle Waveform = "triangle"
	Square   Waveform = "square"
	Sawtooth Waveform = "sawtooth"
)

// Segment is one tone played for Duration at Frequency hertz.
type Segment struct {
	Frequency float64
	Duration  time.Duration
}

// Preset is a named tone sequence.
type Preset struct {
	Name     models.NotificationTone
	Waveform Waveform
	Segments []Segment
}

// Duration is the total playback length.
func (p Preset) Duration() time.Duration {
	var d time.Duration
	for _, s := range p.Segments {
		d += s.Duration
	}
	return d
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

var presets = map[models.NotificationTone]Preset{
	models.ToneSoftBeep: {
		Name:     models.ToneSoftBeep,
		Waveform: Sine,
		Segments: []Segment{{800, ms(150)}, {800, ms(150)}},
	},
	models.ToneChime: {
		Name:     models.ToneChime,
		Waveform: Sine,
		Segments: []Segment{{523.25, ms(200)}, {659.25, ms(200)}, {783.99, ms(300)}},
	},
	models.ToneBell: {
		Name:     models.ToneBell,
		Waveform: Triangle,
		Segments: []Segment{{880, ms(400)}, {660, ms(500)}},
	},
	models.ToneDigital: {
		Name:     models.ToneDigital,
		Waveform: Square,
		Segments: []Segment{{1000, ms(80)}, {1200, ms(80)}, {1000, ms(80)}},
	},
	models.ToneGentle: {
		Name:     models.ToneGentle,
		Waveform: Sine,
		Segments: []Segment{{440, ms(300)}, {554.37, ms(400)}},
	},
	models.ToneAlert: {
		Name:     models.ToneAlert,
		Waveform: Sawtooth,
		Segments: []Segment{{960, ms(120)}, {720, ms(120)}, {960, ms(120)}, {720, ms(120)}},
	},
}

// Lookup returns the preset for name.
func Lookup(name models.NotificationTone) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown tone preset %q", name)
	}
	return p, nil
}

// Message is the title and body shown for a due break.
type Message struct {
	Title string
	Body  string
}

var messages = map[models.BreakType]Message{
	models.BreakEye: {
		Title: "Time for an eye break",
		Body:  "Look at something 20 feet away for 20 seconds.",
	},
	models.BreakStretch: {
		Title: "Time to stretch",
		Body:  "Stand up, roll your shoulders and stretch your back.",
	},
	models.BreakWater: {
		Title: "Time to hydrate",
		Body:  "Have a glass of water.",
	},
}

// MessageFor returns the notification text for t.
func MessageFor(t models.BreakType) Message {
	if m, ok := messages[t]; ok {
		return m
	}
	return Message{Title: "Time for a break", Body: "Take a short break."}
}
