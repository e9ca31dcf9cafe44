// Package chords provides chord symbol parsing and chord progression rendering
package chords

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Grammar errors
var (
	// ErrInvalidChord is returned when no root note can be parsed from a symbol
	ErrInvalidChord = errors.New("invalid chord")
	// ErrUnknownQuality is returned when the quality/extension is not in the table
	ErrUnknownQuality = errors.New("unknown quality/extension")
)

// rootNotes maps root note names to MIDI note numbers in the reference
// octave (C4 = 60, middle C). Enharmonic spellings map to the same number.
var rootNotes = map[string]uint8{
	"C":  60,
	"C#": 61,
	"Db": 61,
	"D":  62,
	"D#": 63,
	"Eb": 63,
	"E":  64,
	"F":  65,
	"F#": 66,
	"Gb": 66,
	"G":  67,
	"G#": 68,
	"Ab": 68,
	"A":  69,
	"A#": 70,
	"Bb": 70,
	"B":  71,
}

// canonicalQualities maps quality/extension strings to interval sets
// (semitone offsets from the root). The empty string is a major triad,
// so a bare root like "C" is playable.
var canonicalQualities = map[string][]uint8{
	"":        {0, 4, 7},             // Major triad, 'C' -> 'Cmaj'
	"maj":     {0, 4, 7},             // Major triad
	"min":     {0, 3, 7},             // Minor triad
	"dim":     {0, 3, 6},             // Diminished triad
	"aug":     {0, 4, 8},             // Augmented triad
	"7":       {0, 4, 7, 10},         // Dominant 7th
	"maj7":    {0, 4, 7, 11},         // Major 7th
	"min7":    {0, 3, 7, 10},         // Minor 7th
	"minmaj7": {0, 3, 7, 11},         // Minor major 7th
	"dim7":    {0, 3, 6, 9},          // Diminished 7th
	"hdim7":   {0, 3, 6, 10},         // Half-diminished 7th
	"aug7":    {0, 4, 8, 10},         // Augmented 7th
	"6":       {0, 4, 7, 9},          // Major 6th
	"min6":    {0, 3, 7, 9},          // Minor 6th
	"9":       {0, 4, 7, 10, 14},     // Dominant 9th
	"maj9":    {0, 4, 7, 11, 14},     // Major 9th
	"min9":    {0, 3, 7, 10, 14},     // Minor 9th
	"11":      {0, 4, 7, 10, 14, 17}, // Dominant 11th
	"maj11":   {0, 4, 7, 11, 14, 17}, // Major 11th
	"min11":   {0, 3, 7, 10, 14, 17}, // Minor 11th
	"13":      {0, 4, 7, 10, 14, 17, 21}, // Dominant 13th
	"maj13":   {0, 4, 7, 11, 14, 17, 21}, // Major 13th
	"min13":   {0, 3, 7, 10, 14, 17, 21}, // Minor 13th
}

// qualityExtensions is the full lookup table: canonical keys plus derived
// aliases ("maj" -> "M", "min" -> "m", "dim" -> "°"), built once at init.
var qualityExtensions = buildQualityTable()

func buildQualityTable() map[string][]uint8 {
	table := make(map[string][]uint8, 2*len(canonicalQualities))
	for key, intervals := range canonicalQualities {
		table[key] = intervals
	}
	for key, intervals := range canonicalQualities {
		switch {
		case strings.HasPrefix(key, "maj"):
			table[strings.Replace(key, "maj", "M", 1)] = intervals
		case strings.HasPrefix(key, "min"):
			table[strings.Replace(key, "min", "m", 1)] = intervals
		case strings.HasPrefix(key, "dim"):
			table[strings.Replace(key, "dim", "°", 1)] = intervals
		}
	}
	return table
}

// QualityNames returns the sorted list of recognized quality/extension keys,
// aliases included.
func QualityNames() []string {
	names := make([]string, 0, len(qualityExtensions))
	for name := range qualityExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseRoot extracts the root note name from the start of a chord symbol:
// one letter A-G optionally followed by '#' or 'b'.
func ParseRoot(chord string) (string, error) {
	if chord == "" || chord[0] < 'A' || chord[0] > 'G' {
		return "", fmt.Errorf("%w: %q", ErrInvalidChord, chord)
	}
	if len(chord) > 1 && (chord[1] == '#' || chord[1] == 'b') {
		return chord[:2], nil
	}
	return chord[:1], nil
}

// ResolveIntervals looks up the interval set for a quality/extension string.
// Aliases resolve to the same set as their canonical key.
func ResolveIntervals(qualityExtension string) ([]uint8, error) {
	intervals, ok := qualityExtensions[qualityExtension]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuality, qualityExtension)
	}
	return intervals, nil
}

// ChordToNotes parses a chord symbol like "Cmaj7" and returns the
// corresponding MIDI note numbers, ascending from the root.
func ChordToNotes(chord string) ([]uint8, error) {
	root, err := ParseRoot(chord)
	if err != nil {
		return nil, err
	}
	rootMIDI, ok := rootNotes[root]
	if !ok {
		return nil, fmt.Errorf("%w: unknown root note %q", ErrInvalidChord, root)
	}
	intervals, err := ResolveIntervals(chord[len(root):])
	if err != nil {
		return nil, err
	}
	notes := make([]uint8, len(intervals))
	for i, interval := range intervals {
		notes[i] = rootMIDI + interval
	}
	return notes, nil
}
