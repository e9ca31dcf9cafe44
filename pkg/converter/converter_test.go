package converter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"song.mid", FormatMIDI},
		{"song.midi", FormatMIDI},
		{"SONG.MID", FormatMIDI},
		{"score.xml", FormatMusicXML},
		{"score.musicxml", FormatMusicXML},
		{"audio.wav", FormatWAV},
		{"page.png", FormatImage},
		{"page.jpg", FormatImage},
		{"page.jpeg", FormatImage},
		{"notes.txt", FormatUnknown},
		{"noextension", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestDetectFormatFromContent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{"midi", []byte("MThd\x00\x00\x00\x06"), FormatMIDI},
		{"wav", []byte("RIFF\x24\x08\x00\x00WAVE"), FormatWAV},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, FormatImage},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, FormatImage},
		{"xml prologue", []byte(`<?xml version="1.0"?><score-partwise/>`), FormatMusicXML},
		{"bare root", []byte(`  <score-partwise version="3.1">`), FormatMusicXML},
		{"short", []byte("MT"), FormatUnknown},
		{"garbage", []byte("hello world"), FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormatFromContent(tt.data); got != tt.expected {
				t.Errorf("DetectFormatFromContent = %v, want %v", got, tt.expected)
			}
		})
	}
}

const testScore = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
  <part id="P1">
    <measure number="1">
      <attributes><divisions>1</divisions></attributes>
      <note>
        <pitch><step>C</step><octave>4</octave></pitch>
        <duration>4</duration><voice>1</voice>
      </note>
    </measure>
  </part>
</score-partwise>`

// fakeSynth copies the MIDI input prefixed with a RIFF header, standing in
// for the fluidsynth engine.
type fakeSynth struct {
	called bool
	err    error
}

func (f *fakeSynth) Name() string { return "fake-synth" }

func (f *fakeSynth) Synthesize(midiPath, wavPath string) error {
	f.called = true
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(midiPath)
	if err != nil {
		return err
	}
	return os.WriteFile(wavPath, append([]byte("RIFF"), data...), 0644)
}

// fakeTranscriber writes a fixed score next to the input image.
type fakeTranscriber struct {
	called bool
	err    error
}

func (f *fakeTranscriber) Name() string { return "fake-ocr" }

func (f *fakeTranscriber) Transcribe(imagePath string) (string, error) {
	f.called = true
	if f.err != nil {
		return "", f.err
	}
	out := imagePath[:len(imagePath)-len(filepath.Ext(imagePath))] + ".musicxml"
	if err := os.WriteFile(out, []byte(testScore), 0644); err != nil {
		return "", err
	}
	return out, nil
}

func TestMusicXMLToMIDI(t *testing.T) {
	conv := New(nil, nil)
	data, err := conv.MusicXMLToMIDI([]byte(testScore))
	if err != nil {
		t.Fatalf("MusicXMLToMIDI error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Error("output is not a standard MIDI file")
	}
}

func TestMusicXMLToMIDIInvalidInput(t *testing.T) {
	conv := New(nil, nil)
	if _, err := conv.MusicXMLToMIDI([]byte("not xml <")); err == nil {
		t.Error("expected a parse error")
	}
}

func TestMIDIToWAV(t *testing.T) {
	synth := &fakeSynth{}
	conv := New(synth, nil)

	data, err := conv.MIDIToWAV([]byte("MThd fake midi"))
	if err != nil {
		t.Fatalf("MIDIToWAV error: %v", err)
	}
	if !synth.called {
		t.Error("synthesizer was not invoked")
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Error("output is not a RIFF file")
	}
}

func TestMIDIToWAVNoEngine(t *testing.T) {
	conv := New(nil, nil)
	if _, err := conv.MIDIToWAV([]byte("MThd")); err == nil {
		t.Error("expected an error without a synthesizer engine")
	}
}

func TestMIDIToWAVEngineFailure(t *testing.T) {
	boom := errors.New("synth exploded")
	conv := New(&fakeSynth{err: boom}, nil)
	if _, err := conv.MIDIToWAV([]byte("MThd")); !errors.Is(err, boom) {
		t.Errorf("error = %v, want the engine error", err)
	}
}

func TestImageToMusicXML(t *testing.T) {
	ocr := &fakeTranscriber{}
	conv := New(nil, ocr)

	data, err := conv.ImageToMusicXML([]byte{0x89, 'P', 'N', 'G'}, ".png")
	if err != nil {
		t.Fatalf("ImageToMusicXML error: %v", err)
	}
	if !ocr.called {
		t.Error("transcriber was not invoked")
	}
	if !bytes.Contains(data, []byte("<score-partwise")) {
		t.Error("output is not MusicXML")
	}
}

func TestImageToMusicXMLNoEngine(t *testing.T) {
	conv := New(nil, nil)
	if _, err := conv.ImageToMusicXML([]byte{0xFF, 0xD8, 0xFF}, ".jpg"); err == nil {
		t.Error("expected an error without a transcriber engine")
	}
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "score.musicxml")
	output := filepath.Join(dir, "score.mid")
	if err := os.WriteFile(input, []byte(testScore), 0644); err != nil {
		t.Fatal(err)
	}

	conv := New(nil, nil)
	if err := conv.ConvertFile(input, output); err != nil {
		t.Fatalf("ConvertFile error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("MThd")) {
		t.Error("output is not a standard MIDI file")
	}
}

func TestConvertFileSniffsContent(t *testing.T) {
	// unknown extension falls back to content detection
	dir := t.TempDir()
	input := filepath.Join(dir, "score.dat")
	output := filepath.Join(dir, "score.mid")
	if err := os.WriteFile(input, []byte(testScore), 0644); err != nil {
		t.Fatal(err)
	}

	conv := New(nil, nil)
	if err := conv.ConvertFile(input, output); err != nil {
		t.Fatalf("ConvertFile error: %v", err)
	}
}

func TestConvertFileMIDIToWAV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "song.mid")
	output := filepath.Join(dir, "song.wav")
	if err := os.WriteFile(input, []byte("MThd fake midi"), 0644); err != nil {
		t.Fatal(err)
	}

	synth := &fakeSynth{}
	conv := New(synth, nil)
	if err := conv.ConvertFile(input, output); err != nil {
		t.Fatalf("ConvertFile error: %v", err)
	}
	if !synth.called {
		t.Error("synthesizer was not invoked")
	}
}

func TestConvertFileImageToMusicXML(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "page.png")
	output := filepath.Join(dir, "page.musicxml")
	if err := os.WriteFile(input, []byte{0x89, 'P', 'N', 'G'}, 0644); err != nil {
		t.Fatal(err)
	}

	ocr := &fakeTranscriber{}
	conv := New(nil, ocr)
	if err := conv.ConvertFile(input, output); err != nil {
		t.Fatalf("ConvertFile error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<score-partwise")) {
		t.Error("output is not MusicXML")
	}
}

func TestConvertFileUnsupported(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "song.wav")
	output := filepath.Join(dir, "song.mid")
	if err := os.WriteFile(input, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	conv := New(nil, nil)
	err := conv.ConvertFile(input, output)
	if !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("error = %v, want ErrUnsupportedConversion", err)
	}
}

func TestGetSupportedConversions(t *testing.T) {
	conversions := GetSupportedConversions()
	if len(conversions) != 3 {
		t.Errorf("got %d conversions, want 3", len(conversions))
	}
}
