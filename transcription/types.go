package transcription

// Request holds parameters for a transcription call.
type Request struct {
	// AudioPath is the path to the audio file to transcribe.
	AudioPath string `json:"audio_path"`
	// Language is the expected language of the audio (e.g. "en"). Empty lets
	// the backend detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's default model.
	Model string `json:"model,omitempty"`
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Segments contains time-aligned transcript segments when the backend
	// returns them.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// DurationFromSegments returns the end of the last segment, or 0.
func DurationFromSegments(segs []Segment) float64 {
	if len(segs) == 0 {
		return 0
	}
	return segs[len(segs)-1].End
}
