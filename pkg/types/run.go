package types

import "time"

// StepStatus is the outcome of one table step of a pipeline run.
type StepStatus string

const (
	// StepWritten: the patched JSON is on disk and conversion has not run.
	StepWritten           StepStatus = "written"
	StepConverted         StepStatus = "converted"
	StepConversionFailed  StepStatus = "conversion_failed"
	StepConversionSkipped StepStatus = "conversion_skipped"
	// StepFailed: the patch itself failed and nothing was written.
	StepFailed StepStatus = "failed"
)

// NeedsConversion reports whether a step left JSON behind that a resume
// should still convert.
func (s StepStatus) NeedsConversion() bool {
	return s == StepWritten || s == StepConversionFailed || s == StepConversionSkipped
}

// RunStatus is the overall outcome of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	// RunPartial: every table was patched but at least one conversion did
	// not complete.
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Step records what happened to one table in a run.
type Step struct {
	Table      string     `json:"table"`
	SourcePath string     `json:"source_path,omitempty"`
	JSONPath   string     `json:"json_path,omitempty"`
	NativePath string     `json:"native_path,omitempty"`
	StagingDir string     `json:"staging_dir,omitempty"`
	Status     StepStatus `json:"status"`
	Error      string     `json:"error,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Run is one pipeline invocation as kept in the journal.
type Run struct {
	RunID         string     `json:"run_id"`
	Mode          Mode       `json:"mode"`
	PlaneStringID string     `json:"plane_string_id"`
	Status        RunStatus  `json:"status"`
	Message       string     `json:"message,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}
