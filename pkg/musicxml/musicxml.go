// Package musicxml provides a minimal MusicXML score model and MIDI rendering
package musicxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"

	"github.com/thorwhalen/tonal/pkg/scale"
)

// ErrEmptyScore is returned when a score contains no parts
var ErrEmptyScore = errors.New("score has no parts")

// Score is a score-partwise MusicXML document, reduced to the elements
// needed for MIDI rendering and part manipulation.
type Score struct {
	XMLName xml.Name `xml:"score-partwise"`
	Parts   []Part   `xml:"part"`
}

// Part is one voice of a score.
type Part struct {
	ID       string    `xml:"id,attr"`
	Measures []Measure `xml:"measure"`
}

// Measure holds the notes of one measure plus its attributes.
type Measure struct {
	Number     string      `xml:"number,attr"`
	Attributes *Attributes `xml:"attributes"`
	Notes      []Note      `xml:"note"`
}

// Attributes carries the measure attributes we care about (divisions per
// quarter note).
type Attributes struct {
	Divisions int `xml:"divisions"`
}

// Note is a single MusicXML note or rest. A non-nil Chord means the note
// sounds together with the preceding one.
type Note struct {
	Pitch    *Pitch    `xml:"pitch"`
	Rest     *struct{} `xml:"rest"`
	Chord    *struct{} `xml:"chord"`
	Duration int       `xml:"duration"`
	Voice    int       `xml:"voice"`
}

// Pitch is a spelled pitch: step letter, chromatic alteration, octave.
type Pitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter"`
	Octave int    `xml:"octave"`
}

// MIDI returns the pitch's MIDI note number.
func (p Pitch) MIDI() int {
	return scale.Note{Letter: p.Step[0], Accidental: p.Alter, Octave: p.Octave}.MIDI()
}

// Name returns the pitch's note name, e.g. "F#4".
func (p Pitch) Name() string {
	return scale.Note{Letter: p.Step[0], Accidental: p.Alter, Octave: p.Octave}.String()
}

// Parse decodes a MusicXML score-partwise document.
func Parse(data []byte) (*Score, error) {
	var score Score
	if err := xml.Unmarshal(data, &score); err != nil {
		return nil, fmt.Errorf("failed to parse MusicXML: %w", err)
	}
	return &score, nil
}

// ParseFile reads and decodes a MusicXML file.
func ParseFile(filename string) (*Score, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MusicXML file: %w", err)
	}
	return Parse(data)
}

// NoteNames returns the note names of each part, rests skipped, in order.
func (s *Score) NoteNames() [][]string {
	names := make([][]string, len(s.Parts))
	for i, part := range s.Parts {
		var partNames []string
		for _, measure := range part.Measures {
			for _, note := range measure.Notes {
				if note.Pitch != nil {
					partNames = append(partNames, note.Pitch.Name())
				}
			}
		}
		names[i] = partNames
	}
	return names
}
