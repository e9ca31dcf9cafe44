package scale

import (
	"sort"
	"testing"
)

func TestWindowShape(t *testing.T) {
	ref, err := ParseNote("C4")
	if err != nil {
		t.Fatal(err)
	}
	window, err := Window(ref, "C", Major{})
	if err != nil {
		t.Fatalf("Window error: %v", err)
	}

	// 7 scale members per octave over ±2 octaves, endpoints inclusive
	if len(window) != 29 {
		t.Fatalf("window length = %d, want 29", len(window))
	}
	if window[0] != "C2" || window[len(window)-1] != "C6" {
		t.Errorf("window spans %s..%s, want C2..C6", window[0], window[len(window)-1])
	}

	// ascending and the reference present exactly once
	midis := make([]int, len(window))
	refCount := 0
	for i, name := range window {
		midi, err := NoteToMIDI(name)
		if err != nil {
			t.Fatalf("NoteToMIDI(%q) error: %v", name, err)
		}
		midis[i] = midi
		if name == "C4" {
			refCount++
		}
	}
	if !sort.IntsAreSorted(midis) {
		t.Error("window is not ascending")
	}
	if refCount != 1 {
		t.Errorf("reference appears %d times, want 1", refCount)
	}
}

func TestWindowCentersReference(t *testing.T) {
	// fresh anchoring puts every reference at the middle of its own window
	for _, name := range []string{"C4", "E4", "B3", "G#5", "Db3"} {
		tonic := string(name[0])
		if len(name) > 2 {
			tonic = name[:2]
		}
		ref, err := ParseNote(name)
		if err != nil {
			t.Fatal(err)
		}
		window, err := Window(ref, tonic, Major{})
		if err != nil {
			t.Fatalf("Window(%q) error: %v", name, err)
		}
		if window[len(window)/2] != name {
			t.Errorf("window center = %s, want %s", window[len(window)/2], name)
		}
	}
}

func TestWindowSpelledDegrees(t *testing.T) {
	ref, err := ParseNote("A4")
	if err != nil {
		t.Fatal(err)
	}
	window, err := Window(ref, "A", HarmonicMinor{})
	if err != nil {
		t.Fatalf("Window error: %v", err)
	}
	found := false
	for _, name := range window {
		if name == "G#4" {
			found = true
		}
		if name == "Ab4" {
			t.Error("harmonic minor leading tone spelled Ab4, want G#4")
		}
	}
	if !found {
		t.Error("window is missing G#4")
	}
}
