package core

import (
	"slices"
	"sync"
)

// Field names one slot of State.
type Field int

const (
	// FieldImage holds the raw image bytes supplied by the caller.
	FieldImage Field = iota
	// FieldUserText holds the free-form user description.
	FieldUserText
	// FieldDetectedText holds text lines returned by the vision service.
	FieldDetectedText
	// FieldDetectedLabels holds object/scene labels returned by the vision service.
	FieldDetectedLabels
	// FieldCombinedText holds the combiner output.
	FieldCombinedText
	// FieldFinalOutput holds the generated post.
	FieldFinalOutput
)

// String returns the snake_case field name used in logs and diagrams.
func (f Field) String() string {
	switch f {
	case FieldImage:
		return "image_bytes"
	case FieldUserText:
		return "user_text"
	case FieldDetectedText:
		return "detected_text"
	case FieldDetectedLabels:
		return "detected_labels"
	case FieldCombinedText:
		return "combined_text"
	case FieldFinalOutput:
		return "final_output"
	default:
		return "unknown"
	}
}

// Detection is a single vision result with its 0-100 confidence score.
type Detection struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Write records a single mutation of State.
type Write struct {
	Field   Field
	Writer  string // stage or tool name
	Version int    // State version after the write
}

// State is the per-run record. Inputs are fixed at construction; derived
// fields are mutated only through the Set* methods, each of which bumps the
// version and appends to the write log.
type State struct {
	mu sync.RWMutex

	image          []byte
	userText       string
	detectedText   []Detection
	detectedLabels []Detection
	combinedText   string
	finalOutput    string

	version int
	writes  []Write
}

// NewState creates a State holding the caller's inputs at version 0.
func NewState(image []byte, userText string) *State {
	return &State{
		image:    slices.Clone(image),
		userText: userText,
	}
}

// Image returns the image bytes (nil when none were supplied).
func (s *State) Image() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.image
}

// HasImage reports whether non-empty image bytes were supplied.
func (s *State) HasImage() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.image) > 0
}

// UserText returns the user description.
func (s *State) UserText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userText
}

// DetectedText returns a copy of the detected text lines.
func (s *State) DetectedText() []Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneDetections(s.detectedText)
}

// DetectedLabels returns a copy of the detected labels.
func (s *State) DetectedLabels() []Detection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneDetections(s.detectedLabels)
}

// CombinedText returns the combiner output.
func (s *State) CombinedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.combinedText
}

// FinalOutput returns the generated post.
func (s *State) FinalOutput() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.finalOutput
}

// Version returns the number of writes applied so far.
func (s *State) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// Writes returns a copy of the write log in application order.
func (s *State) Writes() []Write {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.writes)
}

// Written reports whether f has been set by any writer. Inputs count as
// written when they are non-empty.
func (s *State) Written(f Field) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch f {
	case FieldImage:
		return len(s.image) > 0
	case FieldUserText:
		return s.userText != ""
	}

	for _, w := range s.writes {
		if w.Field == f {
			return true
		}
	}

	return false
}

// SetDetectedText replaces the detected text lines.
func (s *State) SetDetectedText(writer string, lines []Detection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detectedText = cloneDetections(lines)
	s.record(FieldDetectedText, writer)
}

// SetDetectedLabels replaces the detected labels.
func (s *State) SetDetectedLabels(writer string, labels []Detection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detectedLabels = cloneDetections(labels)
	s.record(FieldDetectedLabels, writer)
}

// SetCombinedText replaces the combiner output.
func (s *State) SetCombinedText(writer, combined string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.combinedText = combined
	s.record(FieldCombinedText, writer)
}

// SetFinalOutput replaces the generated post.
func (s *State) SetFinalOutput(writer, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finalOutput = output
	s.record(FieldFinalOutput, writer)
}

// Clone returns a deep copy that shares no buffers with s.
func (s *State) Clone() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &State{
		image:          slices.Clone(s.image),
		userText:       s.userText,
		detectedText:   cloneDetections(s.detectedText),
		detectedLabels: cloneDetections(s.detectedLabels),
		combinedText:   s.combinedText,
		finalOutput:    s.finalOutput,
		version:        s.version,
		writes:         slices.Clone(s.writes),
	}
}

// record must be called with mu held.
func (s *State) record(f Field, writer string) {
	s.version++
	s.writes = append(s.writes, Write{Field: f, Writer: writer, Version: s.version})
}

// cloneDetections never returns nil so empty results render as "[]".
func cloneDetections(d []Detection) []Detection {
	out := make([]Detection, len(d))
	copy(out, d)

	return out
}
