package history

import (
	"context"
	"time"

	"github.com/AzielCF/az-autopost/domains/job"
)

type Entry struct {
	ID           string
	JobID        string
	ContentPath  string
	ArchivedPath string
	Caption      string
	TargetTime   time.Time
	ExecutedAt   time.Time
	Outcome      job.Outcome
	Error        string
	MediaID      string
}

func EntryFromResult(id string, r job.ExecutionResult) Entry {
	e := Entry{
		ID:           id,
		JobID:        r.Job.ID,
		ContentPath:  r.Job.ContentPath,
		ArchivedPath: r.ArchivedPath,
		Caption:      r.Job.Caption,
		TargetTime:   r.Job.TargetTime,
		ExecutedAt:   r.ExecutedAt,
		Outcome:      r.Outcome,
		MediaID:      r.MediaID,
	}
	if r.PublishErr != nil {
		e.Error = r.PublishErr.Error()
	} else if r.ArchiveErr != nil {
		e.Error = r.ArchiveErr.Error()
	}
	return e
}

type IHistoryRepository interface {
	InitSchema(ctx context.Context) error
	Record(ctx context.Context, e Entry) error
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}
