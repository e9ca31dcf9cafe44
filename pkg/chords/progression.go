package chords

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrInvalidSequenceEntry is returned when a progression entry is neither a
// chord symbol nor a (symbol, duration) pair
var ErrInvalidSequenceEntry = errors.New("invalid chord sequence entry")

// DefaultDuration is the tick duration assigned to entries that carry no
// explicit duration (four 240-tick beats).
const DefaultDuration uint32 = 240 * 4

// ticksPerQuarter is the SMF resolution used for generated files.
const ticksPerQuarter = 480

// TimedChord is a chord symbol paired with its duration in ticks.
type TimedChord struct {
	Symbol   string
	Duration uint32
}

// DefaultChordSequence is a ii-V-I flavored demo progression.
var DefaultChordSequence = []any{
	TimedChord{"Bdim", 120},
	TimedChord{"Em11", 120},
	TimedChord{"Amin9", 120},
	TimedChord{"Dm7", 120},
	"G7",
	"Cmaj7",
}

// NormalizeSequence turns a heterogeneous chord sequence into a uniform
// []TimedChord, preserving order. Accepted entry shapes: a bare symbol
// string (given defaultDuration), a TimedChord, or a two-element
// []any{symbol, duration} pair as produced by JSON decoding. Anything else
// fails with ErrInvalidSequenceEntry.
func NormalizeSequence(entries []any, defaultDuration uint32) ([]TimedChord, error) {
	out := make([]TimedChord, 0, len(entries))
	for _, entry := range entries {
		switch e := entry.(type) {
		case string:
			out = append(out, TimedChord{Symbol: e, Duration: defaultDuration})
		case TimedChord:
			out = append(out, e)
		case []any:
			tc, err := pairToTimedChord(e)
			if err != nil {
				return nil, err
			}
			out = append(out, tc)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidSequenceEntry, entry)
		}
	}
	return out, nil
}

func pairToTimedChord(pair []any) (TimedChord, error) {
	if len(pair) != 2 {
		return TimedChord{}, fmt.Errorf("%w: %v", ErrInvalidSequenceEntry, pair)
	}
	symbol, ok := pair[0].(string)
	if !ok {
		return TimedChord{}, fmt.Errorf("%w: %v", ErrInvalidSequenceEntry, pair)
	}
	var duration uint32
	switch d := pair[1].(type) {
	case float64: // JSON numbers decode as float64
		duration = uint32(d)
	case int:
		duration = uint32(d)
	case uint32:
		duration = d
	default:
		return TimedChord{}, fmt.Errorf("%w: %v", ErrInvalidSequenceEntry, pair)
	}
	return TimedChord{Symbol: symbol, Duration: duration}, nil
}

// ParseChordEntries parses whitespace separated SYMBOL[:ticks] entries,
// the progression shape accepted on the command line, into a sequence for
// NormalizeSequence.
func ParseChordEntries(input string) ([]any, error) {
	var entries []any
	for _, field := range strings.Fields(input) {
		symbol, ticks, found := strings.Cut(field, ":")
		if !found {
			entries = append(entries, symbol)
			continue
		}
		duration, err := strconv.Atoi(ticks)
		if err != nil || duration < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSequenceEntry, field)
		}
		entries = append(entries, TimedChord{Symbol: symbol, Duration: uint32(duration)})
	}
	return entries, nil
}

// ChordDefinitions resolves a chord symbol to its note set. The default is
// ChordToNotes; tests and callers can substitute their own table.
type ChordDefinitions func(chord string) ([]uint8, error)

// Sequencer drives a chord sequence through the grammar and a renderer,
// producing a single-track SMF (channel 0, fixed instrument program).
type Sequencer struct {
	Renderer        Renderer
	Definitions     ChordDefinitions
	DefaultDuration uint32
	Program         uint8 // 0 = Acoustic Grand Piano
}

// NewSequencer creates a Sequencer with the default renderer (simultaneous),
// the built-in chord table and the default duration.
func NewSequencer() *Sequencer {
	return &Sequencer{
		Renderer:        Simultaneous{},
		Definitions:     ChordToNotes,
		DefaultDuration: DefaultDuration,
	}
}

// SMF renders a chord sequence into an in-memory SMF. Chords that resolve
// to an empty note set are skipped silently; resolution errors are not.
func (s *Sequencer) SMF(entries []any) (*smf.SMF, error) {
	timed, err := NormalizeSequence(entries, s.DefaultDuration)
	if err != nil {
		return nil, err
	}

	out := smf.New()
	out.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, midi.ProgramChange(0, s.Program))

	for _, tc := range timed {
		notes, err := s.Definitions(tc.Symbol)
		if err != nil {
			return nil, err
		}
		if len(notes) == 0 {
			continue
		}
		s.Renderer.Render(notes, &track, tc.Duration)
	}

	track.Close(0)
	if err := out.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}
	return out, nil
}

// Bytes renders a chord sequence into standard MIDI file bytes.
func (s *Sequencer) Bytes(entries []any) ([]byte, error) {
	out, err := s.SMF(entries)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := out.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders a chord sequence and writes it as a MIDI file.
func (s *Sequencer) WriteFile(entries []any, filename string) error {
	data, err := s.Bytes(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
