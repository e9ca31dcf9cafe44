// Package engines provides the external synthesizer and score-OCR engines
// used by the converter
package engines

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// SoundFontEnvVar names the environment variable holding the default
// soundfont path.
const SoundFontEnvVar = "TONAL_SOUNDFONT"

// DefaultSampleRate is the output sample rate passed to the synthesizer.
const DefaultSampleRate = 44100

// FluidSynth synthesizes MIDI files to WAV by invoking the fluidsynth
// binary with a soundfont.
type FluidSynth struct {
	Binary     string
	SoundFont  string
	SampleRate int
}

// NewFluidSynth creates a FluidSynth engine. An empty soundfont path falls
// back to the TONAL_SOUNDFONT environment variable.
func NewFluidSynth(soundfont string) *FluidSynth {
	if soundfont == "" {
		soundfont = os.Getenv(SoundFontEnvVar)
	}
	return &FluidSynth{
		Binary:     "fluidsynth",
		SoundFont:  soundfont,
		SampleRate: DefaultSampleRate,
	}
}

// Name returns the engine name
func (f *FluidSynth) Name() string {
	return "fluidsynth"
}

// Synthesize renders a MIDI file to a WAV file.
func (f *FluidSynth) Synthesize(midiPath, wavPath string) error {
	if f.SoundFont == "" {
		return errors.New("no soundfont configured (set " + SoundFontEnvVar + " or --soundfont)")
	}
	cmd := exec.Command(f.Binary, "-ni", f.SoundFont, midiPath,
		"-F", wavPath, "-r", strconv.Itoa(f.SampleRate))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("fluidsynth failed: %w: %s", err, out)
	}
	if _, err := os.Stat(wavPath); err != nil {
		return fmt.Errorf("fluidsynth produced no output: %w", err)
	}
	return nil
}
