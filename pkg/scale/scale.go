package scale

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScale is returned when resolving an unregistered scale family name
var ErrUnknownScale = errors.New("unknown scale")

// Scale enumerates the spelled pitch classes of a scale family for a given
// tonic, in degree order starting at the tonic.
type Scale interface {
	Name() string
	PitchClasses(tonic string) ([]string, error)
}

// Major is the major (ionian) scale family.
type Major struct{}

// Name returns the registered family name.
func (Major) Name() string { return "major" }

// PitchClasses spells the major scale for the tonic, e.g. "Db" ->
// Db Eb F Gb Ab Bb C.
func (Major) PitchClasses(tonic string) ([]string, error) {
	return spellDegrees(tonic, [7]int{0, 2, 4, 5, 7, 9, 11})
}

// HarmonicMinor is the harmonic minor scale family.
type HarmonicMinor struct{}

// Name returns the registered family name.
func (HarmonicMinor) Name() string { return "harmonic-minor" }

// PitchClasses spells the harmonic minor scale for the tonic, e.g. "A" ->
// A B C D E F G#.
func (HarmonicMinor) PitchClasses(tonic string) ([]string, error) {
	return spellDegrees(tonic, [7]int{0, 2, 3, 5, 7, 8, 11})
}

// spellDegrees walks one letter per degree and picks the accidental that
// makes the letter land on the degree's semitone, so every scale uses each
// letter exactly once (the key-signature spelling).
func spellDegrees(tonic string, pattern [7]int) ([]string, error) {
	root, err := parsePitchClass(tonic)
	if err != nil {
		return nil, err
	}
	rootSemitone := naturalSemitones[letterIndex(root.Letter)] + root.Accidental

	degrees := make([]string, 7)
	for i := 0; i < 7; i++ {
		letterIdx := (letterIndex(root.Letter) + i) % 7
		letter := letters[letterIdx]
		target := rootSemitone + pattern[i]
		accidental := ((target-naturalSemitones[letterIdx])%12 + 12) % 12
		if accidental > 6 {
			accidental -= 12
		}
		name, ok := accidentalNames[accidental]
		if !ok {
			return nil, fmt.Errorf("%w: cannot spell degree %d of %s", ErrInvalidNote, i+1, tonic)
		}
		degrees[i] = string(letter) + name
	}
	return degrees, nil
}

// parsePitchClass parses an octave-less pitch class name like "C", "F#", "Db".
func parsePitchClass(name string) (Note, error) {
	n, err := ParseNote(name + "0")
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}
	return n, nil
}

// scaleFamilies is the name -> family registry, populated once here.
var scaleFamilies = map[string]Scale{
	"major":          Major{},
	"harmonic-minor": HarmonicMinor{},
}

// ScaleNames returns the sorted names of the registered scale families.
func ScaleNames() []string {
	names := make([]string, 0, len(scaleFamilies))
	for name := range scaleFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScaleFor looks a scale family up by its registered name.
func ScaleFor(name string) (Scale, error) {
	s, ok := scaleFamilies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrUnknownScale, name, strings.Join(ScaleNames(), ", "))
	}
	return s, nil
}
