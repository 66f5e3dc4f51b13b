package usecase

import (
	"context"
	"fmt"
	"time"

	domainHistory "github.com/AzielCF/az-autopost/domains/history"
	domainJob "github.com/AzielCF/az-autopost/domains/job"
	domainResultLog "github.com/AzielCF/az-autopost/domains/resultlog"
	pkgError "github.com/AzielCF/az-autopost/pkg/error"
	"github.com/AzielCF/az-autopost/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// JobExecutor publishes one job, archives the file on success and records the outcome.
type JobExecutor struct {
	rc *RunContext
}

func NewJobExecutor(rc *RunContext) *JobExecutor {
	return &JobExecutor{rc: rc}
}

func (e *JobExecutor) now() time.Time {
	if e.rc.Clock != nil {
		return e.rc.Clock.Now()
	}
	return time.Now()
}

// Execute makes exactly one publish attempt. It never returns an error or panics;
// failures are reported in the result.
func (e *JobExecutor) Execute(ctx context.Context, j domainJob.Job) (res domainJob.ExecutionResult) {
	res = domainJob.ExecutionResult{Job: j, ExecutedAt: e.now()}
	published := false

	defer func() {
		if r := recover(); r != nil {
			// Once the upload went through, the post exists; a later panic only affects archival.
			if published {
				logrus.Errorf("[EXECUTOR] panic after posting %s: %v", j.ContentPath, r)
				if res.ArchiveErr == nil && res.ArchivedPath == "" {
					res.ArchiveErr = pkgError.NewArchivalError(j.ContentPath, fmt.Errorf("panic: %v", r))
				}
			} else {
				logrus.Errorf("[EXECUTOR] panic while posting %s: %v", j.ContentPath, r)
				res = e.failed(j, res.ExecutedAt, fmt.Errorf("panic: %v", r))
			}
		}
		e.recordHistory(ctx, res)
	}()

	mediaID, err := e.publish(ctx, j)
	if err != nil {
		logrus.Errorf("[EXECUTOR] upload failed for %s: %v", j.ContentPath, err)
		return e.failed(j, res.ExecutedAt, err)
	}

	published = true
	res.Outcome = domainJob.OutcomeSuccess
	res.MediaID = mediaID
	logrus.Infof("[EXECUTOR] uploaded %s successfully", j.ContentPath)
	e.record(domainResultLog.TagSuccess, fmt.Sprintf("Uploaded %s scheduled for %s", j.ContentPath, j.TargetTime.Format(time.RFC3339)))

	archived, err := utils.ArchivePosted(j.ContentPath)
	if err != nil {
		res.ArchiveErr = pkgError.NewArchivalError(j.ContentPath, err)
		logrus.Warnf("[EXECUTOR] could not move file: %v", err)
		e.record(domainResultLog.TagWarn, fmt.Sprintf("move failed for %s: %v", j.ContentPath, err))
		return res
	}
	res.ArchivedPath = archived
	logrus.Infof("[EXECUTOR] moved posted image to: %s", archived)
	return res
}

func (e *JobExecutor) publish(ctx context.Context, j domainJob.Job) (string, error) {
	uploadPath := j.ContentPath
	if e.rc.Media != nil {
		prepared, cleanup, err := e.rc.Media.Prepare(j.ContentPath)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			return "", fmt.Errorf("prepare media: %w", err)
		}
		uploadPath = prepared
	}
	return e.rc.Publisher.UploadPhoto(ctx, e.rc.Session, uploadPath, j.Caption)
}

func (e *JobExecutor) failed(j domainJob.Job, executedAt time.Time, cause error) domainJob.ExecutionResult {
	e.record(domainResultLog.TagFailed, fmt.Sprintf("%s scheduled for %s - ERROR: %v", j.ContentPath, j.TargetTime.Format(time.RFC3339), cause))
	return domainJob.ExecutionResult{
		Job:        j,
		Outcome:    domainJob.OutcomeFailure,
		PublishErr: pkgError.NewPublishError(j.ContentPath, cause),
		ExecutedAt: executedAt,
	}
}

func (e *JobExecutor) record(tag domainResultLog.Tag, message string) {
	if e.rc.Results == nil {
		return
	}
	e.rc.Results.Record(tag, message)
}

// recordHistory is best effort and never changes the outcome.
func (e *JobExecutor) recordHistory(ctx context.Context, res domainJob.ExecutionResult) {
	if e.rc.History == nil {
		return
	}
	entry := domainHistory.EntryFromResult(uuid.NewString(), res)
	if err := e.rc.History.Record(context.WithoutCancel(ctx), entry); err != nil {
		logrus.Warnf("[EXECUTOR] failed to record history for %s: %v", res.Job.ContentPath, err)
	}
}
