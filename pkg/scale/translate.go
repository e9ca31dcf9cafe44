package scale

import (
	"errors"
	"fmt"
)

// ErrNoteNotInScale is returned when a translation anchor note's pitch class
// is foreign to the scale. Translation is only defined for scale-native
// notes; chromatic passing tones are rejected rather than approximated.
var ErrNoteNotInScale = errors.New("note not in scale")

// TranslateNote moves a note by the given number of scale steps within the
// scale anchored at tonic. The note's own window is built fresh, its exact
// name+octave located in it, and the index shifted with wraparound (negative
// steps wrap to the tail of the window).
func TranslateNote(note string, steps int, tonic string, s Scale) (string, error) {
	n, err := ParseNote(note)
	if err != nil {
		return "", err
	}
	window, err := Window(n, tonic, s)
	if err != nil {
		return "", err
	}
	index := -1
	for i, name := range window {
		if name == note {
			index = i
			break
		}
	}
	if index < 0 {
		return "", fmt.Errorf("%w: %q in %s %s", ErrNoteNotInScale, note, tonic, s.Name())
	}
	length := len(window)
	newIndex := ((index+steps)%length + length) % length
	return window[newIndex], nil
}

// TranslateTrack translates every note of a melodic line independently,
// each with its own freshly anchored window, preserving order and length.
func TranslateTrack(track []string, steps int, tonic string, s Scale) ([]string, error) {
	out := make([]string, len(track))
	for i, note := range track {
		translated, err := TranslateNote(note, steps, tonic, s)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// TranslateTracks translates each track of a multi-track motif
// independently, preserving track count and per-track order.
func TranslateTracks(tracks [][]string, steps int, tonic string, s Scale) ([][]string, error) {
	out := make([][]string, len(tracks))
	for i, track := range tracks {
		translated, err := TranslateTrack(track, steps, tonic, s)
		if err != nil {
			return nil, err
		}
		out[i] = translated
	}
	return out, nil
}

// TranslateTrackSeq applies each step value to the whole track and
// concatenates the results in step order, extending a motif into a phrase.
func TranslateTrackSeq(track []string, steps []int, tonic string, s Scale) ([]string, error) {
	var out []string
	for _, step := range steps {
		translated, err := TranslateTrack(track, step, tonic, s)
		if err != nil {
			return nil, err
		}
		out = append(out, translated...)
	}
	return out, nil
}

// TranslateTracksSeq applies each step value to the whole motif and
// concatenates the results track-wise: output track i is the concatenation
// of track i from each per-step result, in step order.
func TranslateTracksSeq(tracks [][]string, steps []int, tonic string, s Scale) ([][]string, error) {
	out := make([][]string, len(tracks))
	for _, step := range steps {
		translated, err := TranslateTracks(tracks, step, tonic, s)
		if err != nil {
			return nil, err
		}
		for i, track := range translated {
			out[i] = append(out[i], track...)
		}
	}
	return out, nil
}
