package pipeline

import "time"

// Provenance records whether a stage produced its output by calling the real
// external collaborator or by substituting the local fallback.
type Provenance string

const (
	// ProvenanceReal marks output obtained from the external service or tool.
	ProvenanceReal Provenance = "real"
	// ProvenanceSimulated marks fallback output produced locally.
	ProvenanceSimulated Provenance = "simulated"
)

// StageResult carries the provenance every stage reports alongside its output,
// so callers and tests can distinguish real from simulated results without
// inspecting logs.
type StageResult struct {
	Provenance Provenance `json:"provenance"`
	// Reason explains why the fallback path was taken. Empty for real output.
	Reason string `json:"reason,omitempty"`
}

// Simulated reports whether the stage fell back.
func (r StageResult) Simulated() bool {
	return r.Provenance == ProvenanceSimulated
}

// CaptionResult is the prompt stage output.
type CaptionResult struct {
	StageResult
	Caption string `json:"caption"`
}

// ArtifactResult is the output of a file-producing stage. A file exists at
// Path on both the real and the simulated path.
type ArtifactResult struct {
	StageResult
	Path string `json:"path"`
}

// PostResult describes the post action that concluded the run.
type PostResult struct {
	StageResult
	Status    string `json:"status"`
	Platform  string `json:"platform"`
	PostID    string `json:"post_id,omitempty"`
	Caption   string `json:"caption"`
	ImagePath string `json:"image_path"`
}

// RunResult is the terminal output of one full pipeline run.
type RunResult struct {
	RunID     string         `json:"run_id"`
	Topic     string         `json:"topic"`
	Caption   CaptionResult  `json:"caption"`
	Image     ArtifactResult `json:"image"`
	Video     ArtifactResult `json:"video"`
	Post      PostResult     `json:"post"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}
