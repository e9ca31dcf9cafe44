// Package scale provides scale generation and scale-relative note translation
package scale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNote is returned when a note name cannot be parsed
var ErrInvalidNote = errors.New("invalid note name")

// letters in scale-degree order starting from C
const letters = "CDEFGAB"

// naturalSemitones maps each letter (index into letters) to its semitone
// offset from C.
var naturalSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

// Note is a parsed note name: a letter A-G, an accidental offset in
// semitones (-2..+2), and an octave (C4 = middle C = MIDI 60).
type Note struct {
	Letter     byte
	Accidental int
	Octave     int
}

// accidental spellings, offset -2..+2
var accidentalNames = map[int]string{-2: "bb", -1: "b", 0: "", 1: "#", 2: "##"}

// ParseNote parses a note name like "C4", "F#3", "Db5" or "Bbb2".
// Octaves may be negative ("C-1" is MIDI 0).
func ParseNote(name string) (Note, error) {
	if name == "" {
		return Note{}, fmt.Errorf("%w: empty", ErrInvalidNote)
	}
	letter := name[0]
	if letter < 'A' || letter > 'G' {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	rest := name[1:]
	accidental := 0
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			accidental++
		} else {
			accidental--
		}
		rest = rest[1:]
	}
	if accidental < -2 || accidental > 2 {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	return Note{Letter: letter, Accidental: accidental, Octave: octave}, nil
}

// MIDI returns the note's MIDI number. The octave digit follows the letter,
// so "B#3" and "C4" are both 60.
func (n Note) MIDI() int {
	return (n.Octave+1)*12 + naturalSemitones[letterIndex(n.Letter)] + n.Accidental
}

// String renders the note back to its name, e.g. "F#4".
func (n Note) String() string {
	return string(n.Letter) + accidentalNames[n.Accidental] + strconv.Itoa(n.Octave)
}

// NoteToMIDI converts a note name to its MIDI number.
func NoteToMIDI(name string) (int, error) {
	n, err := ParseNote(name)
	if err != nil {
		return 0, err
	}
	return n.MIDI(), nil
}

func letterIndex(letter byte) int {
	return strings.IndexByte(letters, letter)
}
