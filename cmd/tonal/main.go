// Package main is the entry point for the tonal CLI
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thorwhalen/tonal/pkg/api"
	"github.com/thorwhalen/tonal/pkg/chords"
	"github.com/thorwhalen/tonal/pkg/converter"
	"github.com/thorwhalen/tonal/pkg/converter/engines"
	"github.com/thorwhalen/tonal/pkg/scale"
	"github.com/thorwhalen/tonal/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile    string
	renderName    string
	chordDuration uint32
	steps         []int
	tonic         string
	scaleName     string
	soundFont     string
	serverPort    int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tonal",
	Short: "Chord progressions, in-scale translation and score format conversion",
	Long: `tonal renders chord progressions to MIDI, translates melodic lines
within a scale, and converts between score and audio formats
(MusicXML, MIDI, WAV, score images).

Examples:
  tonal chords Cmaj7 Dm7:480 G7 C -o progression.mid --render arpeggio
  tonal wav Bdim Em11 Amin9 Dm7 G7 Cmaj7 -o progression.wav
  tonal translate C4 E4 B3 C4 --steps -2 --tonic C
  tonal translate A4 C5 E5 --steps 0,2 --tonic A --scale harmonic-minor
  tonal convert score.musicxml -o score.mid
  tonal tui
  tonal serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var chordsCmd = &cobra.Command{
	Use:   "chords <symbols...>",
	Short: "Render a chord progression to a MIDI file",
	Long: `Renders a chord progression to a standard MIDI file. Each entry is a
chord symbol, optionally with an explicit tick duration after a colon
(e.g. "Dm7:480"); entries without one get the default duration.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChords,
}

var wavCmd = &cobra.Command{
	Use:   "wav <symbols...>",
	Short: "Render a chord progression straight to a WAV file",
	Long:  `Renders a chord progression to MIDI and synthesizes it to WAV with fluidsynth.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWAV,
}

var translateCmd = &cobra.Command{
	Use:   "translate <notes...>",
	Short: "Translate notes by N scale steps within a scale",
	Long: `Translates a melodic line by the given number of scale steps within the
given scale. Multiple step values produce the concatenation of the line
translated by each step in order. Separate multiple tracks with "/".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert between score and audio formats",
	Long: `Converts a file, with formats detected from the file extensions
(content sniffing as a fallback). Supported: musicxml -> midi,
midi -> wav, image -> musicxml.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// chords command
	chordsCmd.Flags().StringVarP(&outputFile, "output", "o", "audio_output.mid", "Output MIDI file path")
	chordsCmd.Flags().StringVarP(&renderName, "render", "r", "simultaneous", "Chord renderer (simultaneous, arpeggio)")
	chordsCmd.Flags().Uint32Var(&chordDuration, "duration", chords.DefaultDuration, "Default chord duration in ticks")

	// wav command
	wavCmd.Flags().StringVarP(&outputFile, "output", "o", "audio_output.wav", "Output WAV file path")
	wavCmd.Flags().StringVarP(&renderName, "render", "r", "simultaneous", "Chord renderer (simultaneous, arpeggio)")
	wavCmd.Flags().Uint32Var(&chordDuration, "duration", chords.DefaultDuration, "Default chord duration in ticks")
	wavCmd.Flags().StringVar(&soundFont, "soundfont", "", "SoundFont path (default: $"+engines.SoundFontEnvVar+")")

	// translate command
	translateCmd.Flags().IntSliceVarP(&steps, "steps", "s", []int{0}, "Scale steps (one or more, e.g. -2 or 0,1,2)")
	translateCmd.Flags().StringVarP(&tonic, "tonic", "t", "C", "Scale tonic (e.g. C, F#, Db)")
	translateCmd.Flags().StringVar(&scaleName, "scale", "major", "Scale family (major, harmonic-minor)")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	convertCmd.Flags().StringVar(&soundFont, "soundfont", "", "SoundFont path for midi -> wav (default: $"+engines.SoundFontEnvVar+")")
	_ = convertCmd.MarkFlagRequired("output")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(chordsCmd)
	rootCmd.AddCommand(wavCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newSequencer() (*chords.Sequencer, error) {
	renderer, err := chords.ResolveRenderer(renderName)
	if err != nil {
		return nil, err
	}
	seq := chords.NewSequencer()
	seq.Renderer = renderer
	seq.DefaultDuration = chordDuration
	return seq, nil
}

func runChords(cmd *cobra.Command, args []string) error {
	entries, err := chords.ParseChordEntries(strings.Join(args, " "))
	if err != nil {
		return err
	}
	seq, err := newSequencer()
	if err != nil {
		return err
	}
	if err := seq.WriteFile(entries, outputFile); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", outputFile)
	return nil
}

func runWAV(cmd *cobra.Command, args []string) error {
	entries, err := chords.ParseChordEntries(strings.Join(args, " "))
	if err != nil {
		return err
	}
	seq, err := newSequencer()
	if err != nil {
		return err
	}
	midiData, err := seq.Bytes(entries)
	if err != nil {
		return err
	}

	conv := converter.New(engines.NewFluidSynth(soundFont), nil)
	wavData, err := conv.MIDIToWAV(midiData)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, wavData, 0644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", outputFile)
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	family, err := scale.ScaleFor(scaleName)
	if err != nil {
		return err
	}

	tracks := splitTracks(args)
	if len(tracks) == 1 {
		translated, err := scale.TranslateTrackSeq(tracks[0], steps, tonic, family)
		if err != nil {
			return err
		}
		fmt.Println(strings.Join(translated, " "))
		return nil
	}

	translated, err := scale.TranslateTracksSeq(tracks, steps, tonic, family)
	if err != nil {
		return err
	}
	for _, track := range translated {
		fmt.Println(strings.Join(track, " "))
	}
	return nil
}

// splitTracks splits note arguments into tracks on "/" separators.
func splitTracks(args []string) [][]string {
	tracks := [][]string{{}}
	for _, arg := range args {
		if arg == "/" {
			tracks = append(tracks, []string{})
			continue
		}
		tracks[len(tracks)-1] = append(tracks[len(tracks)-1], arg)
	}
	return tracks
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	conv := converter.New(engines.NewFluidSynth(soundFont), engines.NewHOMR())

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if err := conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
