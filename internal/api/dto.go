package api

// HealthResponse is the constant health-check payload.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// SegmentResponse is one timestamped span of recognized speech.
type SegmentResponse struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// PolishOutcome carries either the structured edit or its error descriptor,
// never both.
type PolishOutcome struct {
	Polished       string   `json:"polished,omitempty"`
	ChangesSummary []string `json:"changes_summary,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// UploadResponse is the aggregate returned for a successful pipeline run.
// Text holds the final text: the polished edit when available, otherwise
// the raw transcript.
type UploadResponse struct {
	Language *string           `json:"language"`
	Text     string            `json:"text"`
	RawText  string            `json:"raw_text"`
	Segments []SegmentResponse `json:"segments"`
	Polish   *PolishOutcome    `json:"polish,omitempty"`
}

// ErrorResponse is the uniform error body shape.
type ErrorResponse struct {
	Error string `json:"error"`
}
