package chords

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeSequence(t *testing.T) {
	entries := []any{
		"G7",
		TimedChord{"Bdim", 120},
		[]any{"Cmaj7", float64(480)},
	}

	timed, err := NormalizeSequence(entries, DefaultDuration)
	if err != nil {
		t.Fatalf("NormalizeSequence error: %v", err)
	}

	expected := []TimedChord{
		{"G7", DefaultDuration},
		{"Bdim", 120},
		{"Cmaj7", 480},
	}
	if !reflect.DeepEqual(timed, expected) {
		t.Errorf("NormalizeSequence = %v, want %v", timed, expected)
	}
}

func TestNormalizeSequenceInvalidEntries(t *testing.T) {
	tests := []struct {
		name  string
		entry any
	}{
		{"int", 42},
		{"nil", nil},
		{"short pair", []any{"C"}},
		{"long pair", []any{"C", float64(1), float64(2)}},
		{"pair with non-string symbol", []any{1, float64(480)}},
		{"pair with non-numeric duration", []any{"C", "480"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSequence([]any{tt.entry}, DefaultDuration)
			if !errors.Is(err, ErrInvalidSequenceEntry) {
				t.Errorf("error = %v, want ErrInvalidSequenceEntry", err)
			}
		})
	}
}

func TestParseChordEntries(t *testing.T) {
	entries, err := ParseChordEntries("Cmaj7 Dm7:480 G7")
	if err != nil {
		t.Fatalf("ParseChordEntries error: %v", err)
	}
	expected := []any{"Cmaj7", TimedChord{"Dm7", 480}, "G7"}
	if !reflect.DeepEqual(entries, expected) {
		t.Errorf("ParseChordEntries = %v, want %v", entries, expected)
	}

	if _, err := ParseChordEntries("Dm7:abc"); !errors.Is(err, ErrInvalidSequenceEntry) {
		t.Errorf("error = %v, want ErrInvalidSequenceEntry", err)
	}
}

func TestSequencerSMF(t *testing.T) {
	seq := NewSequencer()
	out, err := seq.SMF(DefaultChordSequence)
	if err != nil {
		t.Fatalf("SMF error: %v", err)
	}
	if len(out.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(out.Tracks))
	}

	track := out.Tracks[0]

	// a single program change before the first chord
	var channel, program uint8
	if !track[0].Message.GetProgramChange(&channel, &program) {
		t.Fatal("first event is not a program change")
	}
	if program != 0 {
		t.Errorf("program = %d, want 0", program)
	}

	var noteOns int
	for _, ev := range track {
		var c, key, velocity uint8
		if ev.Message.GetNoteOn(&c, &key, &velocity) {
			noteOns++
		}
	}
	// 3+6+5+4+4+4 chord tones across the default progression
	if noteOns != 26 {
		t.Errorf("got %d note_on events, want 26", noteOns)
	}
}

func TestSequencerSkipsEmptyChords(t *testing.T) {
	seq := NewSequencer()
	seq.Definitions = func(chord string) ([]uint8, error) {
		return nil, nil
	}
	out, err := seq.SMF([]any{"C", "G7"})
	if err != nil {
		t.Fatalf("SMF error: %v", err)
	}
	for _, ev := range out.Tracks[0] {
		var c, key, velocity uint8
		if ev.Message.GetNoteOn(&c, &key, &velocity) {
			t.Fatal("empty chords should emit no note events")
		}
	}
}

func TestSequencerPropagatesGrammarErrors(t *testing.T) {
	seq := NewSequencer()
	if _, err := seq.SMF([]any{"Cxyz"}); !errors.Is(err, ErrUnknownQuality) {
		t.Errorf("error = %v, want ErrUnknownQuality", err)
	}
}

func TestSequencerBytes(t *testing.T) {
	seq := NewSequencer()
	data, err := seq.Bytes([]any{"Cmaj7"})
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Error("output is not a standard MIDI file")
	}
}

func TestSequencerRendererSelection(t *testing.T) {
	seq := NewSequencer()
	renderer, err := ResolveRenderer("arpeggio")
	if err != nil {
		t.Fatalf("ResolveRenderer error: %v", err)
	}
	seq.Renderer = renderer

	out, err := seq.SMF([]any{TimedChord{"C", 960}})
	if err != nil {
		t.Fatalf("SMF error: %v", err)
	}

	// arpeggio: note_on/note_off pairs alternate instead of stacking
	var sawOffBetweenOns bool
	var ons int
	for _, ev := range out.Tracks[0] {
		var c, key, velocity uint8
		if ev.Message.GetNoteOn(&c, &key, &velocity) {
			ons++
		} else if ev.Message.GetNoteOff(&c, &key, &velocity) && ons == 1 {
			sawOffBetweenOns = true
		}
	}
	if !sawOffBetweenOns {
		t.Error("expected arpeggiated note_off after the first note_on")
	}
}
