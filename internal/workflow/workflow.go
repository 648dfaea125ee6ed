// Package workflow runs the ordered processing stages for one upload and
// reports a result per stage.
package workflow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/meetingnotes/internal/meeting"
	"github.com/kbukum/meetingnotes/logger"
	"github.com/kbukum/meetingnotes/observability"
	"github.com/kbukum/meetingnotes/pipeline"
)

// Kind classifies an upload by its extension.
type Kind string

const (
	KindVideo   Kind = "video"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

var kindsByExt = map[string]Kind{
	".mp4": KindVideo,
	".mkv": KindVideo,
	".avi": KindVideo,
	".mov": KindVideo,
	".txt": KindText,
	".md":  KindText,
}

// DetectKind maps a filename to its Kind. Extensions match case-insensitively.
func DetectKind(filename string) Kind {
	if k, ok := kindsByExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return k
	}
	return KindUnknown
}

// Job is the mutable state of one upload as it moves through the stages.
type Job struct {
	Metadata meeting.Metadata
	Kind     Kind

	// Upload is the uploaded body, consumed by the save stage.
	Upload io.Reader
	// SourceName is the base filename the upload was saved under.
	SourceName string
	// SourcePath is the filesystem path of the saved upload.
	SourcePath string

	Folder     *meeting.Folder
	AudioPath  string
	Transcript string
	Summary    string
}

// NewJob creates a Job for an upload named by m.OriginalFilename.
func NewJob(m meeting.Metadata, upload io.Reader) *Job {
	return &Job{Metadata: m, Kind: DetectKind(m.OriginalFilename), Upload: upload}
}

// FolderName returns the output folder name once the layout stage has run.
func (j *Job) FolderName() string {
	if j.Folder == nil {
		return ""
	}
	return j.Folder.Name
}

// Stage is one step of the workflow.
type Stage interface {
	Name() string
	Applies(job *Job) bool
	Run(ctx context.Context, job *Job) error
}

// Status is the outcome of one stage.
type Status string

const (
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result records what happened to one stage.
type Result struct {
	Name     string
	Status   Status
	Duration time.Duration
	Err      error
}

// Report holds the results of the stages that were reached, in order.
type Report struct {
	Results []Result
}

// Failure returns the failed stage, if any.
func (r *Report) Failure() (Result, bool) {
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			return res, true
		}
	}
	return Result{}, false
}

// Failed reports whether a stage failed.
func (r *Report) Failed() bool {
	_, failed := r.Failure()
	return failed
}

// Err returns the failed stage's error wrapped with the stage name, or nil.
func (r *Report) Err() error {
	res, failed := r.Failure()
	if !failed {
		return nil
	}
	return fmt.Errorf("stage %s: %w", res.Name, res.Err)
}

// Status returns the status of the named stage, or "" if it was not reached.
func (r *Report) Status(stage string) Status {
	for _, res := range r.Results {
		if res.Name == stage {
			return res.Status
		}
	}
	return ""
}

// FailureMessage is the notification text for a failed stage.
func FailureMessage(res Result) string {
	return fmt.Sprintf("❌ Processing failed at stage `%s`: %v", res.Name, res.Err)
}

const serviceName = "workflow"

// Pipeline runs stages in order and stops at the first failure.
type Pipeline struct {
	stages  []Stage
	metrics *observability.Metrics
	log     *logger.Logger
}

// New creates a Pipeline. metrics may be nil.
func New(metrics *observability.Metrics, log *logger.Logger, stages ...Stage) *Pipeline {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Pipeline{stages: stages, metrics: metrics, log: log.WithComponent(serviceName)}
}

// Stages returns the stage names in run order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes the stages against job. Stages that do not apply are
// skipped; nothing runs after a failed stage.
func (p *Pipeline) Run(ctx context.Context, job *Job) *Report {
	run := func(ctx context.Context, s Stage) (Result, error) {
		return p.runStage(ctx, s, job), nil
	}
	record := func(ctx context.Context, r Result) error {
		p.record(ctx, job, r)
		return nil
	}
	failed := func(r Result) bool { return r.Status == StatusFailed }

	stages := pipeline.Tap(pipeline.Map(pipeline.FromSlice(p.stages), run), record)
	results, _ := pipeline.Collect(ctx, pipeline.TakeThrough(stages, failed))
	return &Report{Results: results}
}

func (p *Pipeline) runStage(ctx context.Context, s Stage, job *Job) Result {
	name := s.Name()
	if !s.Applies(job) {
		return Result{Name: name, Status: StatusSkipped}
	}

	// Stage metrics are recorded by record, so the operation itself gets none.
	ctx, op := observability.StartOperation(ctx, nil, serviceName, name,
		attribute.String(observability.AttrStage, name),
		attribute.String(observability.AttrFolder, job.FolderName()),
	)
	err := s.Run(ctx, job)
	if err == nil {
		err = ctx.Err()
	}
	status := StatusDone
	if err != nil {
		status = StatusFailed
	}
	d := op.End(ctx, string(status), err)
	return Result{Name: name, Status: status, Duration: d, Err: err}
}

// record emits the stage metric and log line for one result.
func (p *Pipeline) record(ctx context.Context, job *Job, r Result) {
	p.metrics.RecordStage(ctx, r.Name, string(r.Status), r.Duration)

	fields := logger.Fields(
		logger.FieldStage, r.Name,
		logger.FieldStatus, r.Status,
		logger.FieldFolder, job.FolderName(),
		logger.FieldDuration, r.Duration.Milliseconds(),
	)
	log := p.log.WithContext(ctx)
	switch r.Status {
	case StatusFailed:
		log.Error("Stage failed", logger.MergeWithError(fields, r.Err))
	case StatusSkipped:
		log.Debug("Stage skipped", fields)
	default:
		log.Debug("Stage completed", fields)
	}
}
