package engines

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// HOMR transcribes score images to MusicXML by invoking the homr optical
// music recognition binary. The engine writes its result next to the input
// image with a .musicxml extension.
type HOMR struct {
	Binary string
}

// NewHOMR creates a HOMR engine with the default binary name.
func NewHOMR() *HOMR {
	return &HOMR{Binary: "homr"}
}

// Name returns the engine name
func (h *HOMR) Name() string {
	return "homr"
}

// Transcribe runs the OCR engine over a score image and returns the path
// of the produced MusicXML file.
func (h *HOMR) Transcribe(imagePath string) (string, error) {
	cmd := exec.Command(h.Binary, imagePath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("homr failed: %w: %s", err, out)
	}
	resultPath := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".musicxml"
	if _, err := os.Stat(resultPath); err != nil {
		return "", fmt.Errorf("homr produced no output: %w", err)
	}
	return resultPath, nil
}
