package job

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ScheduleLayout is the operator-facing format for target times.
const ScheduleLayout = "2006-01-02 15:04"

// Job is one scheduled publication. It is never mutated after creation.
type Job struct {
	ID          string    `json:"id"`
	TargetTime  time.Time `json:"target_time"`
	ContentPath string    `json:"content_path"`
	Caption     string    `json:"caption"`
	Immediate   bool      `json:"immediate"` // operator chose to post right away
}

func NewJob(targetTime time.Time, contentPath, caption string, immediate bool) Job {
	return Job{
		ID:          uuid.NewString(),
		TargetTime:  targetTime,
		ContentPath: contentPath,
		Caption:     caption,
		Immediate:   immediate,
	}
}

// FileName returns the base name of the content file.
func (j Job) FileName() string {
	return filepath.Base(j.ContentPath)
}

// Batch is the fixed set of jobs for one run.
type Batch []Job

// Sorted returns a copy ordered by target time. Ties keep their input order.
func (b Batch) Sorted() Batch {
	out := make(Batch, len(b))
	copy(out, b)
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].TargetTime.Before(out[k].TargetTime)
	})
	return out
}

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// ExecutionResult is what the executor reports for a single job.
type ExecutionResult struct {
	Job          Job
	Outcome      Outcome
	MediaID      string
	ArchivedPath string
	PublishErr   error // set when Outcome is OutcomeFailure
	ArchiveErr   error // never changes Outcome
	ExecutedAt   time.Time
}

func (r ExecutionResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// IJobExecutor publishes one job. Implementations must not return errors or panic;
// every failure is folded into the result.
type IJobExecutor interface {
	Execute(ctx context.Context, j Job) ExecutionResult
}

type IJobCollector interface {
	Collect(ctx context.Context) (Batch, error)
}

// FileEntry is one job in a YAML batch file.
type FileEntry struct {
	Path    string `yaml:"path"`
	Caption string `yaml:"caption"`
	At      string `yaml:"at"`
}

type File struct {
	Jobs []FileEntry `yaml:"jobs"`
}
