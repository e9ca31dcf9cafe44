package chords

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DefaultVelocity is used for every rendered note unless a renderer is
// constructed with an explicit velocity.
const DefaultVelocity = 64

// ErrRendererNotFound is returned when resolving an unregistered renderer name
var ErrRendererNotFound = errors.New("unknown chord renderer")

// Renderer turns a chord's note set and a duration (in ticks) into timed
// note-on/note-off events on an SMF track.
type Renderer interface {
	Render(notes []uint8, track *smf.Track, duration uint32)
}

// Simultaneous plays all notes of a chord at once for the full duration.
type Simultaneous struct {
	Velocity uint8
}

// Render emits a note-on for every note at delta 0, then note-offs landing
// together at the duration tick: the first note-off carries the whole
// duration, the rest carry zero delta.
func (r Simultaneous) Render(notes []uint8, track *smf.Track, duration uint32) {
	if len(notes) == 0 {
		return
	}
	v := velocityOrDefault(r.Velocity)
	for _, note := range notes {
		track.Add(0, midi.NoteOn(0, note, v))
	}
	track.Add(duration, midi.NoteOffVelocity(0, notes[0], v))
	for _, note := range notes[1:] {
		track.Add(0, midi.NoteOffVelocity(0, note, v))
	}
}

// Arpeggio plays the notes of a chord one after another, splitting the
// duration into len(notes) equal slices. Integer division means any
// remainder ticks are dropped rather than distributed.
type Arpeggio struct {
	Velocity uint8
}

// Render emits note i at cumulative offset i*slice, released one slice later.
func (r Arpeggio) Render(notes []uint8, track *smf.Track, duration uint32) {
	if len(notes) == 0 {
		return
	}
	v := velocityOrDefault(r.Velocity)
	slice := duration / uint32(len(notes))
	for _, note := range notes {
		track.Add(0, midi.NoteOn(0, note, v))
		track.Add(slice, midi.NoteOffVelocity(0, note, v))
	}
}

func velocityOrDefault(v uint8) uint8 {
	if v == 0 {
		return DefaultVelocity
	}
	return v
}

// chordRenderers is the name -> strategy registry, populated once here.
// There is no runtime registration beyond this map.
var chordRenderers = map[string]Renderer{
	"simultaneous": Simultaneous{},
	"arpeggio":     Arpeggio{},
}

// RendererNames returns the sorted names of the registered renderers.
func RendererNames() []string {
	names := make([]string, 0, len(chordRenderers))
	for name := range chordRenderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveRenderer looks a renderer up by its registered name.
func ResolveRenderer(name string) (Renderer, error) {
	renderer, ok := chordRenderers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			ErrRendererNotFound, name, strings.Join(RendererNames(), ", "))
	}
	return renderer, nil
}
