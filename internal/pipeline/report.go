package pipeline

import (
	"fmt"
	"time"

	"github.com/dgallion1/edtrpub/internal/agenda"
)

// Stage names a step of the run.
type Stage string

const (
	StageValidate Stage = "validate"
	StageExtract  Stage = "extract"
	StageFilter   Stage = "filter"
	StageDiscover Stage = "discover"
	StageLoad     Stage = "load"
	StageProcess  Stage = "process"
	StageWrite    Stage = "write"
	StageCleanup  Stage = "cleanup"
	StageDone     Stage = "done"
)

// StageError is the error of the stage that aborted a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Report describes one run, complete or aborted.
type Report struct {
	Archive    string `json:"archive"`
	SessionDir string `json:"session_dir"`
	Document   string `json:"document"`

	Stage Stage `json:"stage"`

	FilesExtracted   int            `json:"files_extracted"`
	ClosedTopics     []string       `json:"closed_topics"`
	Agenda           agenda.Summary `json:"agenda"`
	RenditionRemoved bool           `json:"rendition_removed"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

func (r *Report) enter(s Stage) {
	r.Stage = s
}

func (r *Report) fail(err error) error {
	r.Duration = time.Since(r.StartedAt)
	return &StageError{Stage: r.Stage, Err: err}
}
