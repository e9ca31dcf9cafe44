package scale

import (
	"sort"
	"strconv"
)

// WindowOctaves is the window radius around the reference note, in octaves.
// The window is wide enough that translations within an octave never run
// off the edge, and it is applied uniformly to every translation path.
const WindowOctaves = 2

// Window enumerates all pitch names of the scale (anchored at tonic) within
// WindowOctaves octaves either side of the reference note, ascending.
// Every window contains the reference pitch position at most once, since a
// seven-letter spelling never repeats a name within an octave.
func Window(ref Note, tonic string, s Scale) ([]string, error) {
	pitchClasses, err := s.PitchClasses(tonic)
	if err != nil {
		return nil, err
	}

	refMIDI := ref.MIDI()
	low := refMIDI - 12*WindowOctaves
	high := refMIDI + 12*WindowOctaves

	type member struct {
		name string
		midi int
	}
	var members []member
	// A name's octave digit can differ from its sounding octave (Cb4 is
	// MIDI 59), so scan one octave beyond the radius on both sides.
	for octave := ref.Octave - WindowOctaves - 1; octave <= ref.Octave+WindowOctaves+1; octave++ {
		for _, pc := range pitchClasses {
			name := pc + strconv.Itoa(octave)
			n, err := ParseNote(name)
			if err != nil {
				return nil, err
			}
			midi := n.MIDI()
			if midi < low || midi > high {
				continue
			}
			members = append(members, member{name: name, midi: midi})
		}
	}

	sort.Slice(members, func(i, j int) bool { return members[i].midi < members[j].midi })

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.name
	}
	return names, nil
}
