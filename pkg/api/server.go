// Package api provides the REST API server for tonal
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/thorwhalen/tonal/pkg/chords"
	"github.com/thorwhalen/tonal/pkg/converter"
	"github.com/thorwhalen/tonal/pkg/converter/engines"
	"github.com/thorwhalen/tonal/pkg/scale"
)

// @title Tonal API
// @version 1.0
// @description API for chord progression rendering, in-scale translation and score format conversion
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/chords/midi", handleChordsToMIDI)
		v1.POST("/translate", handleTranslate)
		v1.POST("/convert", handleConvert)
		v1.GET("/formats", listFormats)
		v1.GET("/renderers", listRenderers)
		v1.GET("/scales", listScales)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r.Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tonal",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the supported file formats and conversion paths
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"midi", "musicxml", "wav", "image"},
		"conversions": converter.GetSupportedConversions(),
	})
}

// listRenderers godoc
// @Summary List chord renderers
// @Description Returns the registered chord renderer names
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/renderers [get]
func listRenderers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"renderers": chords.RendererNames()})
}

// listScales godoc
// @Summary List scale families
// @Description Returns the registered scale family names
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/scales [get]
func listScales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scales": scale.ScaleNames()})
}

// chordsRequest is the JSON body for /chords/midi. Sequence entries are
// either chord symbol strings or [symbol, duration] pairs.
type chordsRequest struct {
	Sequence []any  `json:"sequence"`
	Render   string `json:"render"`
	Duration uint32 `json:"duration"`
}

// handleChordsToMIDI godoc
// @Summary Render a chord progression to MIDI
// @Description Accepts a chord sequence and returns a standard MIDI file
// @Tags chords
// @Accept json
// @Produce audio/midi
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/chords/midi [post]
func handleChordsToMIDI(c *gin.Context) {
	var req chordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Sequence) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty chord sequence"})
		return
	}

	seq := chords.NewSequencer()
	if req.Duration > 0 {
		seq.DefaultDuration = req.Duration
	}
	if req.Render != "" {
		renderer, err := chords.ResolveRenderer(req.Render)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		seq.Renderer = renderer
	}

	data, err := seq.Bytes(req.Sequence)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=chords.mid")
	c.Data(http.StatusOK, "audio/midi", data)
}

// translateRequest is the JSON body for /translate. Steps is a single
// integer or an ordered list of integers; Notes and Tracks are mutually
// exclusive input shapes.
type translateRequest struct {
	Notes  []string        `json:"notes"`
	Tracks [][]string      `json:"tracks"`
	Steps  json.RawMessage `json:"steps"`
	Tonic  string          `json:"tonic"`
	Scale  string          `json:"scale"`
}

// handleTranslate godoc
// @Summary Translate notes within a scale
// @Description Translates a melodic line or multiple tracks by N scale steps
// @Tags scale
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/v1/translate [post]
func handleTranslate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Tonic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing tonic"})
		return
	}
	scaleName := req.Scale
	if scaleName == "" {
		scaleName = "major"
	}
	family, err := scale.ScaleFor(scaleName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	steps, err := decodeSteps(req.Steps)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case len(req.Tracks) > 0:
		tracks, err := scale.TranslateTracksSeq(req.Tracks, steps, req.Tonic, family)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tracks": tracks})
	case len(req.Notes) > 0:
		notes, err := scale.TranslateTrackSeq(req.Notes, steps, req.Tonic, family)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"notes": notes})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing notes or tracks"})
	}
}

// decodeSteps accepts a bare integer or a list of integers.
func decodeSteps(raw json.RawMessage) ([]int, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing steps")
	}
	var single int
	if err := json.Unmarshal(raw, &single); err == nil {
		return []int{single}, nil
	}
	var many []int
	if err := json.Unmarshal(raw, &many); err == nil {
		if len(many) == 0 {
			return nil, errors.New("empty steps list")
		}
		return many, nil
	}
	return nil, errors.New("steps must be an integer or a list of integers")
}

// handleConvert godoc
// @Summary Convert between score and audio formats
// @Description Upload a file and receive it converted to the requested format
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "File to convert"
// @Param to query string true "Destination format (midi, wav, musicxml)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	srcFormat := converter.DetectFormat(header.Filename)
	if srcFormat == converter.FormatUnknown {
		srcFormat = converter.DetectFormatFromContent(data)
	}
	destFormat := converter.Format(c.Query("to"))

	conv := converter.New(engines.NewFluidSynth(""), engines.NewHOMR())

	var result []byte
	var outputExt, contentType string

	switch {
	case srcFormat == converter.FormatMusicXML && destFormat == converter.FormatMIDI:
		result, err = conv.MusicXMLToMIDI(data)
		outputExt, contentType = ".mid", "audio/midi"
	case srcFormat == converter.FormatMIDI && destFormat == converter.FormatWAV:
		result, err = conv.MIDIToWAV(data)
		outputExt, contentType = ".wav", "audio/wav"
	case srcFormat == converter.FormatImage && destFormat == converter.FormatMusicXML:
		result, err = conv.ImageToMusicXML(data, filepath.Ext(header.Filename))
		outputExt, contentType = ".musicxml", "application/vnd.recordare.musicxml+xml"
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("%s: %s -> %s", converter.ErrUnsupportedConversion, srcFormat, destFormat),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)) + outputExt
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, contentType, result)
}

// statusFor maps domain errors to HTTP status codes: caller mistakes are
// 400s, everything else is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, chords.ErrInvalidChord),
		errors.Is(err, chords.ErrUnknownQuality),
		errors.Is(err, chords.ErrInvalidSequenceEntry),
		errors.Is(err, chords.ErrRendererNotFound),
		errors.Is(err, scale.ErrInvalidNote),
		errors.Is(err, scale.ErrNoteNotInScale),
		errors.Is(err, scale.ErrUnknownScale):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
