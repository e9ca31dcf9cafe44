package musicxml

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

const sampleScore = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part-list>
    <score-part id="P1"><part-name>Piano</part-name></score-part>
    <score-part id="P2"><part-name>Bass</part-name></score-part>
  </part-list>
  <part id="P1">
    <measure number="1">
      <attributes><divisions>2</divisions></attributes>
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>2</duration><voice>1</voice>
      </note>
      <note>
        <chord/>
        <pitch><step>E</step><octave>4</octave></pitch>
        <duration>2</duration><voice>1</voice>
      </note>
      <note>
        <pitch><step>F</step><alter>1</alter><octave>4</octave></pitch>
        <duration>2</duration><voice>1</voice>
      </note>
      <note>
        <rest/>
        <duration>2</duration><voice>1</voice>
      </note>
    </measure>
  </part>
  <part id="P2">
    <measure number="1">
      <attributes><divisions>2</divisions></attributes>
      <note>
        <pitch><step>B</step><alter>-1</alter><octave>2</octave></pitch>
        <duration>8</duration><voice>1</voice>
      </note>
    </measure>
  </part>
</score-partwise>`

func TestParse(t *testing.T) {
	score, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(score.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(score.Parts))
	}
	if score.Parts[0].ID != "P1" || score.Parts[1].ID != "P2" {
		t.Errorf("part IDs = %s, %s", score.Parts[0].ID, score.Parts[1].ID)
	}
	if n := len(score.Parts[0].Measures[0].Notes); n != 4 {
		t.Errorf("got %d notes in first measure, want 4", n)
	}
	if div := score.Parts[0].Measures[0].Attributes.Divisions; div != 2 {
		t.Errorf("divisions = %d, want 2", div)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte("not xml at all <")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestNoteNames(t *testing.T) {
	score, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	names := score.NoteNames()
	expected := [][]string{{"C4", "E4", "F#4"}, {"Bb2"}}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("NoteNames = %v, want %v", names, expected)
	}
}

func TestPitchMIDI(t *testing.T) {
	tests := []struct {
		pitch Pitch
		midi  int
		name  string
	}{
		{Pitch{Step: "C", Octave: 4}, 60, "C4"},
		{Pitch{Step: "F", Alter: 1, Octave: 4}, 66, "F#4"},
		{Pitch{Step: "B", Alter: -1, Octave: 2}, 46, "Bb2"},
	}
	for _, tt := range tests {
		if got := tt.pitch.MIDI(); got != tt.midi {
			t.Errorf("MIDI() = %d, want %d", got, tt.midi)
		}
		if got := tt.pitch.Name(); got != tt.name {
			t.Errorf("Name() = %q, want %q", got, tt.name)
		}
	}
}

func TestFilterParts(t *testing.T) {
	score, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	kept := FilterParts(KeepIndices(1), score)
	if len(kept.Parts) != 1 || kept.Parts[0].ID != "P2" {
		t.Errorf("KeepIndices(1) kept %v", kept.Parts)
	}

	all := FilterParts(nil, score)
	if len(all.Parts) != 2 {
		t.Errorf("nil filter kept %d parts, want 2", len(all.Parts))
	}

	// the source score is left alone
	if len(score.Parts) != 2 {
		t.Error("filtering mutated the source score")
	}
}

func TestDeleteParts(t *testing.T) {
	score, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	trimmed := DeleteParts([]int{0}, score)
	if len(trimmed.Parts) != 1 || trimmed.Parts[0].ID != "P2" {
		t.Errorf("DeleteParts([0]) left %v", trimmed.Parts)
	}
}

func TestToSMF(t *testing.T) {
	score, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	out, err := score.ToSMF()
	if err != nil {
		t.Fatalf("ToSMF error: %v", err)
	}
	if len(out.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(out.Tracks))
	}

	var ons []uint8
	var elapsed uint32
	for _, ev := range out.Tracks[0] {
		elapsed += ev.Delta
		var channel, key, velocity uint8
		if ev.Message.GetNoteOn(&channel, &key, &velocity) {
			ons = append(ons, key)
			if velocity != renderVelocity {
				t.Errorf("velocity = %d, want %d", velocity, renderVelocity)
			}
		}
	}
	// the chorded C4+E4, then F#4
	if !reflect.DeepEqual(ons, []uint8{60, 64, 66}) {
		t.Errorf("note_on keys = %v, want [60 64 66]", ons)
	}
	// 2 quarters sounding plus a quarter rest, at 480 ticks per quarter
	if elapsed != 3*480 {
		t.Errorf("track elapsed %d ticks, want %d", elapsed, 3*480)
	}
}

func TestToSMFEmptyScore(t *testing.T) {
	score := &Score{}
	if _, err := score.ToSMF(); !errors.Is(err, ErrEmptyScore) {
		t.Errorf("error = %v, want ErrEmptyScore", err)
	}
}

func TestMIDIBytes(t *testing.T) {
	score, err := Parse([]byte(sampleScore))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	data, err := score.MIDIBytes()
	if err != nil {
		t.Fatalf("MIDIBytes error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Error("output is not a standard MIDI file")
	}
}

func TestGroupChords(t *testing.T) {
	chordTag := &struct{}{}
	notes := []Note{
		{Pitch: &Pitch{Step: "C", Octave: 4}, Duration: 2},
		{Pitch: &Pitch{Step: "E", Octave: 4}, Duration: 2, Chord: chordTag},
		{Pitch: &Pitch{Step: "G", Octave: 4}, Duration: 2, Chord: chordTag},
		{Pitch: &Pitch{Step: "D", Octave: 4}, Duration: 2},
	}
	groups := groupChords(notes)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[0]) != 3 || len(groups[1]) != 1 {
		t.Errorf("group sizes = %d, %d, want 3, 1", len(groups[0]), len(groups[1]))
	}
}
