// Package converter provides format detection and routing between score and
// audio file formats (MusicXML, MIDI, WAV, score images)
package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thorwhalen/tonal/pkg/musicxml"
)

// Format represents a logical file format
type Format string

const (
	FormatMIDI     Format = "midi"
	FormatMusicXML Format = "musicxml"
	FormatWAV      Format = "wav"
	FormatImage    Format = "image"
	FormatUnknown  Format = "unknown"
)

// ErrUnsupportedConversion is returned for (source, destination) format
// pairs that no converter handles
var ErrUnsupportedConversion = errors.New("unsupported conversion")

// DetectFormat detects the format of a file based on its extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".mid", ".midi":
		return FormatMIDI
	case ".xml", ".musicxml":
		return FormatMusicXML
	case ".wav":
		return FormatWAV
	case ".png", ".jpg", ".jpeg":
		return FormatImage
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content signatures
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// Standard MIDI file signature "MThd"
	if bytes.HasPrefix(data, []byte("MThd")) {
		return FormatMIDI
	}

	// WAV is a RIFF container
	if bytes.HasPrefix(data, []byte("RIFF")) {
		return FormatWAV
	}

	// PNG and JPEG magic numbers
	if bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}) {
		return FormatImage
	}
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return FormatImage
	}

	// XML prologue or a bare score-partwise root element
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<score-partwise")) {
		return FormatMusicXML
	}

	return FormatUnknown
}

// Synthesizer renders a MIDI file into an audio file. Implemented by an
// external engine (see the engines package).
type Synthesizer interface {
	Name() string
	Synthesize(midiPath, wavPath string) error
}

// Transcriber converts an image of a music score into a MusicXML file.
// Implemented by an external OCR engine (see the engines package).
type Transcriber interface {
	Name() string
	Transcribe(imagePath string) (string, error)
}

// Converter routes (source, destination) format pairs to the appropriate
// conversion, delegating audio synthesis and score OCR to external engines.
type Converter struct {
	synth       Synthesizer
	transcriber Transcriber
}

// New creates a Converter with the given external engines. Either engine
// may be nil; conversions that need a missing engine fail.
func New(synth Synthesizer, transcriber Transcriber) *Converter {
	return &Converter{synth: synth, transcriber: transcriber}
}

// ConvertFile converts a file from one format to another, with formats
// resolved from the file names (content sniffing as a fallback for the
// input).
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	inputFormat := DetectFormat(inputPath)
	outputFormat := DetectFormat(outputPath)

	if inputFormat == FormatUnknown {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		inputFormat = DetectFormatFromContent(data)
	}

	switch {
	case inputFormat == FormatMusicXML && outputFormat == FormatMIDI:
		return c.musicXMLFileToMIDI(inputPath, outputPath)
	case inputFormat == FormatMIDI && outputFormat == FormatWAV:
		if c.synth == nil {
			return errors.New("no synthesizer engine configured")
		}
		return c.synth.Synthesize(inputPath, outputPath)
	case inputFormat == FormatImage && outputFormat == FormatMusicXML:
		return c.imageFileToMusicXML(inputPath, outputPath)
	default:
		return fmt.Errorf("%w: %s -> %s", ErrUnsupportedConversion, inputFormat, outputFormat)
	}
}

func (c *Converter) musicXMLFileToMIDI(inputPath, outputPath string) error {
	score, err := musicxml.ParseFile(inputPath)
	if err != nil {
		return err
	}
	data, err := score.MIDIBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0644)
}

func (c *Converter) imageFileToMusicXML(inputPath, outputPath string) error {
	if c.transcriber == nil {
		return errors.New("no transcriber engine configured")
	}
	resultPath, err := c.transcriber.Transcribe(inputPath)
	if err != nil {
		return err
	}
	if resultPath == outputPath {
		return nil
	}
	data, err := os.ReadFile(resultPath)
	if err != nil {
		return fmt.Errorf("failed to read transcriber output: %w", err)
	}
	return os.WriteFile(outputPath, data, 0644)
}

// MusicXMLToMIDI converts MusicXML bytes to MIDI bytes in-process.
func (c *Converter) MusicXMLToMIDI(data []byte) ([]byte, error) {
	score, err := musicxml.Parse(data)
	if err != nil {
		return nil, err
	}
	return score.MIDIBytes()
}

// MIDIToWAV converts MIDI bytes to WAV bytes, staging through temporary
// files around the file-based synthesizer engine.
func (c *Converter) MIDIToWAV(data []byte) ([]byte, error) {
	if c.synth == nil {
		return nil, errors.New("no synthesizer engine configured")
	}
	dir, err := os.MkdirTemp("", "tonal-synth-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	midiPath := filepath.Join(dir, "input.mid")
	wavPath := filepath.Join(dir, "output.wav")
	if err := os.WriteFile(midiPath, data, 0644); err != nil {
		return nil, err
	}
	if err := c.synth.Synthesize(midiPath, wavPath); err != nil {
		return nil, err
	}
	return os.ReadFile(wavPath)
}

// ImageToMusicXML converts score image bytes to MusicXML bytes, staging
// through temporary files around the file-based OCR engine. ext is the
// image extension including the dot (".png" when empty).
func (c *Converter) ImageToMusicXML(data []byte, ext string) ([]byte, error) {
	if c.transcriber == nil {
		return nil, errors.New("no transcriber engine configured")
	}
	if ext == "" {
		ext = ".png"
	}
	dir, err := os.MkdirTemp("", "tonal-ocr-")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(dir) }()

	imagePath := filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(imagePath, data, 0644); err != nil {
		return nil, err
	}
	resultPath, err := c.transcriber.Transcribe(imagePath)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(resultPath)
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	return []string{
		"musicxml -> midi",
		"midi -> wav",
		"image -> musicxml",
	}
}
