package musicxml

import (
	"bytes"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	ticksPerQuarter = 480
	renderVelocity  = 64
)

// ToSMF renders the score to a standard MIDI file structure, one track per
// part on channel 0. Note durations are scaled from the part's divisions
// to the SMF resolution; chorded notes share their onset.
func (s *Score) ToSMF() (*smf.SMF, error) {
	if len(s.Parts) == 0 {
		return nil, ErrEmptyScore
	}

	out := smf.New()
	out.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	for _, part := range s.Parts {
		var track smf.Track
		track.Add(0, midi.ProgramChange(0, 0))

		divisions := 1
		for _, measure := range part.Measures {
			if measure.Attributes != nil && measure.Attributes.Divisions > 0 {
				divisions = measure.Attributes.Divisions
			}
			for _, group := range groupChords(measure.Notes) {
				ticks := uint32(group[0].Duration) * ticksPerQuarter / uint32(divisions)
				if group[0].Rest != nil {
					// a rest just advances time; marker event as padding
					track.Add(ticks, smf.Message([]byte{0xFF, 0x06, 0x00}))
					continue
				}
				for _, note := range group {
					track.Add(0, midi.NoteOn(0, clampMIDI(note.Pitch.MIDI()), renderVelocity))
				}
				track.Add(ticks, midi.NoteOffVelocity(0, clampMIDI(group[0].Pitch.MIDI()), renderVelocity))
				for _, note := range group[1:] {
					track.Add(0, midi.NoteOffVelocity(0, clampMIDI(note.Pitch.MIDI()), renderVelocity))
				}
			}
		}

		track.Close(0)
		if err := out.Add(track); err != nil {
			return nil, fmt.Errorf("failed to add track for part %s: %w", part.ID, err)
		}
	}
	return out, nil
}

// MIDIBytes renders the score to standard MIDI file bytes.
func (s *Score) MIDIBytes() ([]byte, error) {
	out, err := s.ToSMF()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := out.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// groupChords splits a measure's notes into onset groups: a note followed
// by <chord/> notes forms one group sounding together.
func groupChords(notes []Note) [][]Note {
	var groups [][]Note
	for _, note := range notes {
		if note.Chord != nil && len(groups) > 0 && note.Rest == nil {
			last := len(groups) - 1
			groups[last] = append(groups[last], note)
			continue
		}
		groups = append(groups, []Note{note})
	}
	return groups
}

func clampMIDI(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return uint8(n)
}
