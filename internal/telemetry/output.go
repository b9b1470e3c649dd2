package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder receives one FrameStats per simulated frame.
type Recorder interface {
	Record(FrameStats) error
	Close() error
}

// CSVRecorder writes FrameStats rows, with a header before the first one.
type CSVRecorder struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewCSVRecorder writes to w. Close does not close w.
func NewCSVRecorder(w io.Writer) *CSVRecorder {
	return &CSVRecorder{w: w}
}

// CreateCSV creates path (and its directory) and records into it.
func CreateCSV(path string) (*CSVRecorder, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &CSVRecorder{w: f, closer: f}, nil
}

func (r *CSVRecorder) Record(stats FrameStats) error {
	records := []FrameStats{stats}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

func (r *CSVRecorder) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
