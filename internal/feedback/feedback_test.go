package feedback

import (
	"bytes"
	"testing"

	"github.com/verte-zerg/typesprint/internal/session"
)

type recordPlayer struct {
	played []Tone
}

func (r *recordPlayer) Play(t Tone) {
	r.played = append(r.played, t)
}

func TestDispatchMapsKeysToTones(t *testing.T) {
	p := &recordPlayer{}
	a := NewTones(p)
	Dispatch(a, session.KeyCorrect)
	Dispatch(a, session.KeyNone)
	Dispatch(a, session.KeyIncorrect)
	a.OnFinish()

	want := []Tone{KeyTone, ErrorTone, FinishTone}
	if len(p.played) != len(want) {
		t.Fatalf("expected %d tones, got %v", len(want), p.played)
	}
	for i := range want {
		if p.played[i] != want[i] {
			t.Fatalf("tone %d: expected %+v, got %+v", i, want[i], p.played[i])
		}
	}
	Dispatch(nil, session.KeyCorrect)
}

func TestBellRingsForLongTones(t *testing.T) {
	var buf bytes.Buffer
	a := NewTones(NewBell(&buf))
	a.OnCorrectKey()
	if buf.Len() != 0 {
		t.Fatalf("key clicks must not ring the bell")
	}
	a.OnIncorrectKey()
	a.OnFinish()
	if buf.String() != "\a\a" {
		t.Fatalf("expected two bells, got %q", buf.String())
	}
}
