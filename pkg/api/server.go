// Package api provides the REST API server for sp404sx2midi
package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/sp404sx2midi/pkg/converter"
	"github.com/james-see/sp404sx2midi/pkg/sample"
	"github.com/james-see/sp404sx2midi/pkg/sp404"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title SP404SX2MIDI API
// @version 1.0
// @description API for decoding Roland SP-404SX card files and converting patterns to MIDI
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
		v1.GET("/info", cardInfo)
		v1.POST("/inspect/pads", handleInspectPads)
		v1.POST("/inspect/pattern", handleInspectPattern)
		v1.POST("/convert/pattern2midi", handlePatternToMIDI)
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
		"service": "sp404sx2midi",
	})
}

// cardInfo godoc
// @Summary Describe the supported card layout
// @Description Returns the fixed SP-404SX card geometry and file locations
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/info [get]
func cardInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"device":            "Roland SP-404SX",
		"banks":             sp404.TotalBanks,
		"pads_per_bank":     sp404.PadsPerBank,
		"ticks_per_quarter": sp404.PPQ,
		"pad_info_path":     sp404.PadInfoPath,
		"pattern_directory": sp404.PatternDirectory,
		"sample_directory":  sp404.SampleDirectory,
	})
}

// padJSON is the JSON shape of one decoded pad table entry.
type padJSON struct {
	Pad       int    `json:"pad"`
	Sample    string `json:"sample"`
	Start     uint32 `json:"start"`
	End       uint32 `json:"end"`
	UserStart uint32 `json:"user_start"`
	UserEnd   uint32 `json:"user_end"`
	Volume    uint8  `json:"volume"`
	LoFi      bool   `json:"lofi"`
	Loop      bool   `json:"loop"`
	Gate      bool   `json:"gate"`
	Reverse   bool   `json:"reverse"`
	Channels  uint8  `json:"channels"`
	TempoMode uint8  `json:"tempo_mode"`
	Tempo     uint32 `json:"tempo"`
	UserTempo uint32 `json:"user_tempo"`
}

// handleInspectPads godoc
// @Summary Decode a pad configuration table
// @Description Upload a PAD_INFO.BIN file and receive its 120 decoded pad entries
// @Tags inspect
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PAD_INFO.BIN to decode"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/v1/inspect/pads [post]
func handleInspectPads(c *gin.Context) {
	data, _, ok := readUpload(c)
	if !ok {
		return
	}

	pads, err := sp404.ParsePadTable(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	nums := make([]int, 0, len(pads))
	for n := range pads {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	out := make([]padJSON, 0, len(nums))
	for _, n := range nums {
		p := pads[n]
		out = append(out, padJSON{
			Pad:       n,
			Sample:    sp404.PadNumberToFilename(n, "WAV"),
			Start:     p.Start,
			End:       p.End,
			UserStart: p.UserStart,
			UserEnd:   p.UserEnd,
			Volume:    p.Volume,
			LoFi:      p.LoFi,
			Loop:      p.Loop,
			Gate:      p.Gate,
			Reverse:   p.Reverse,
			Channels:  p.Channels,
			TempoMode: p.TempoMode,
			Tempo:     p.Tempo,
			UserTempo: p.UserTempo,
		})
	}
	c.JSON(http.StatusOK, gin.H{"pads": out})
}

// eventJSON is the JSON shape of one decoded pattern event.
type eventJSON struct {
	Delay      uint8  `json:"delay"`
	Pad        uint8  `json:"pad"`
	BankSwitch uint8  `json:"bank_switch"`
	Velocity   uint8  `json:"velocity"`
	Length     uint16 `json:"length"`
	Rest       bool   `json:"rest"`
	Sample     string `json:"sample,omitempty"`
}

// handleInspectPattern godoc
// @Summary Decode a pattern file
// @Description Upload a PTN#####.BIN file and receive its decoded events and bar count
// @Tags inspect
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Pattern file to decode"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/v1/inspect/pattern [post]
func handleInspectPattern(c *gin.Context) {
	data, header, ok := readUpload(c)
	if !ok {
		return
	}

	ptn, err := sp404.ParsePattern(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events := make([]eventJSON, 0, len(ptn.Events))
	for _, ev := range ptn.Events {
		e := eventJSON{
			Delay:      ev.Delay,
			Pad:        ev.Pad,
			BankSwitch: ev.BankSwitch,
			Velocity:   ev.Velocity,
			Length:     ev.Length,
			Rest:       ev.IsRest(),
		}
		if !ev.IsRest() {
			if name, err := ev.SampleFilename("WAV"); err == nil {
				e.Sample = name
			}
		}
		events = append(events, e)
	}

	resp := gin.H{
		"events": events,
		"bars":   ptn.Trailer.Bars,
	}
	if name, err := sp404.PatternFilenameToName(header.Filename); err == nil {
		resp["pattern"] = name
	}
	c.JSON(http.StatusOK, resp)
}

// handlePatternToMIDI godoc
// @Summary Convert a pattern file to MIDI
// @Description Upload a PTN#####.BIN file and receive a standard MIDI file. Samples are assumed present, so every event becomes a note.
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "Pattern file to convert"
// @Param tempo query int false "Tempo in BPM (default: 120)"
// @Param name query string false "Pattern name, e.g. A1 (default: derived from the uploaded filename)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert/pattern2midi [post]
func handlePatternToMIDI(c *gin.Context) {
	data, header, ok := readUpload(c)
	if !ok {
		return
	}

	tempo, err := strconv.Atoi(c.DefaultQuery("tempo", "120"))
	if err != nil || tempo <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tempo"})
		return
	}

	ptn, err := sp404.ParsePattern(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := strings.ToUpper(c.Query("name"))
	if name == "" {
		name = "PATTERN"
		if n, err := sp404.PatternFilenameToName(header.Filename); err == nil {
			name = n
		}
	}

	// No card is mounted on the server, so sample presence cannot be
	// checked; treat every referenced sample as present.
	tl, err := converter.BuildTimeline(ptn.Events, sample.AllPresent{}, "WAV", converter.Discard)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := converter.NewMIDIWriter().Generate(tl, "Roland SP404SX Pattern "+name, float64(tempo))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=PTN_%s.mid", name))
	c.Data(http.StatusOK, "audio/midi", result)
}

func readUpload(c *gin.Context) ([]byte, *multipart.FileHeader, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, nil, false
	}
	return data, header, true
}
