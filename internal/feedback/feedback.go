// Package feedback turns engine events into short tones.
package feedback

import (
	"io"
	"time"

	"github.com/verte-zerg/typesprint/internal/session"
)

// Adapter receives advisory keystroke and finish events.
type Adapter interface {
	OnCorrectKey()
	OnIncorrectKey()
	OnFinish()
}

// Tone is a square-wave beep.
type Tone struct {
	Freq     int
	Duration time.Duration
}

var (
	// KeyTone plays for every accepted keystroke.
	KeyTone = Tone{Freq: 500, Duration: 30 * time.Millisecond}
	// ErrorTone plays for a wrong keystroke.
	ErrorTone = Tone{Freq: 200, Duration: 60 * time.Millisecond}
	// FinishTone plays when the test ends.
	FinishTone = Tone{Freq: 1000, Duration: 150 * time.Millisecond}
)

// Player makes a tone audible.
type Player interface {
	Play(Tone)
}

// Dispatch forwards the key event of an update to a.
func Dispatch(a Adapter, key session.Key) {
	if a == nil {
		return
	}
	switch key {
	case session.KeyCorrect:
		a.OnCorrectKey()
	case session.KeyIncorrect:
		a.OnIncorrectKey()
	}
}

// Tones maps events to tones on a Player.
type Tones struct {
	player Player
}

// NewTones returns an Adapter playing through p.
func NewTones(p Player) *Tones {
	return &Tones{player: p}
}

// OnCorrectKey implements Adapter.
func (t *Tones) OnCorrectKey() { t.player.Play(KeyTone) }

// OnIncorrectKey implements Adapter.
func (t *Tones) OnIncorrectKey() { t.player.Play(ErrorTone) }

// OnFinish implements Adapter.
func (t *Tones) OnFinish() { t.player.Play(FinishTone) }

// Bell rings the terminal bell for tones of at least MinDuration.
// Terminals cannot pitch the bell, so short key clicks stay silent by default.
type Bell struct {
	W           io.Writer
	MinDuration time.Duration
}

// NewBell returns a Bell that rings for error and finish tones.
func NewBell(w io.Writer) *Bell {
	return &Bell{W: w, MinDuration: ErrorTone.Duration}
}

// Play implements Player.
func (b *Bell) Play(t Tone) {
	if b.W == nil || t.Duration < b.MinDuration {
		return
	}
	if _, err := io.WriteString(b.W, "\a"); err != nil {
		// Best-effort audio cue.
		_ = err
	}
}

// Silent discards all events.
type Silent struct{}

// OnCorrectKey implements Adapter.
func (Silent) OnCorrectKey() {}

// OnIncorrectKey implements Adapter.
func (Silent) OnIncorrectKey() {}

// OnFinish implements Adapter.
func (Silent) OnFinish() {}
