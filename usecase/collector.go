package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	domainJob "github.com/AzielCF/az-autopost/domains/job"
	pkgError "github.com/AzielCF/az-autopost/pkg/error"
	"github.com/AzielCF/az-autopost/validations"
	"gopkg.in/yaml.v3"
)

const defaultDateTimePrompt = "Enter schedule datetime (YYYY-MM-DD HH:MM): "

// JobCollector asks the operator for a batch of jobs. Invalid answers are
// reported and asked again; only read errors and cancellation end the loop.
type JobCollector struct {
	prompter Prompter
	clock    Clock
	loc      *time.Location
}

func NewJobCollector(rc *RunContext, prompter Prompter) *JobCollector {
	clock := rc.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	return &JobCollector{prompter: prompter, clock: clock, loc: rc.location()}
}

func (c *JobCollector) Collect(ctx context.Context) (domainJob.Batch, error) {
	total, err := c.askBatchSize(ctx)
	if err != nil {
		return nil, err
	}

	batch := make(domainJob.Batch, 0, total)
	for i := 1; i <= total; i++ {
		c.prompter.Println(fmt.Sprintf("\n--- Job %d of %d ---", i, total))

		j, err := c.collectJob(ctx, i)
		if err != nil {
			return nil, err
		}
		batch = append(batch, j)
	}
	return batch.Sorted(), nil
}

func (c *JobCollector) collectJob(ctx context.Context, i int) (domainJob.Job, error) {
	path, err := c.askContentPath(ctx, i)
	if err != nil {
		return domainJob.Job{}, err
	}
	caption, err := c.askCaption(ctx)
	if err != nil {
		return domainJob.Job{}, err
	}
	target, immediate, err := c.askTargetTime(ctx)
	if err != nil {
		return domainJob.Job{}, err
	}

	j := domainJob.NewJob(target, path, caption, immediate)
	if err := validations.ValidateJob(ctx, j); err != nil {
		return domainJob.Job{}, err
	}
	return j, nil
}

// ask repeats prompt until parse accepts the answer. Validation messages go back
// to the operator; anything else is returned.
func (c *JobCollector) ask(ctx context.Context, prompt string, parse func(string) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		answer, err := c.prompter.ReadLine(prompt)
		if err != nil {
			return err
		}
		err = parse(answer)
		if err == nil {
			return nil
		}
		var vErr pkgError.ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		c.prompter.Println(vErr.Error())
	}
}

func (c *JobCollector) askBatchSize(ctx context.Context) (int, error) {
	var total int
	err := c.ask(ctx, "How many posts do you want to schedule in this run? (enter a number, e.g. 5): ", func(s string) (err error) {
		total, err = validations.ValidateBatchSize(s)
		return err
	})
	return total, err
}

func (c *JobCollector) askContentPath(ctx context.Context, i int) (string, error) {
	var path string
	prompt := fmt.Sprintf("Enter path for image #%d (full path, e.g. /home/me/posts/post.jpg): ", i)
	err := c.ask(ctx, prompt, func(s string) (err error) {
		path, err = validations.NormalizeContentPath(s)
		return err
	})
	return path, err
}

func (c *JobCollector) askCaption(ctx context.Context) (string, error) {
	var caption string
	err := c.ask(ctx, "Enter caption (leave empty for no caption): ", func(s string) error {
		caption = strings.TrimSpace(s)
		if utf8.RuneCountInString(caption) > validations.MaxCaptionLength {
			return pkgError.ValidationError(fmt.Sprintf("Caption is too long (max %d characters).", validations.MaxCaptionLength))
		}
		return nil
	})
	return caption, err
}

func (c *JobCollector) askDateTime(ctx context.Context, prompt string) (time.Time, error) {
	var t time.Time
	err := c.ask(ctx, prompt, func(s string) (err error) {
		t, err = validations.ParseScheduleTime(s, c.loc)
		return err
	})
	return t, err
}

// askTargetTime returns the target and whether the operator chose to post right away.
func (c *JobCollector) askTargetTime(ctx context.Context) (time.Time, bool, error) {
	t, err := c.askDateTime(ctx, "Enter schedule date & time (YYYY-MM-DD HH:MM, local timezone): ")
	if err != nil {
		return time.Time{}, false, err
	}

	for !validations.IsFuture(t, c.clock.Now()) {
		answer, err := c.prompter.ReadLine("Scheduled time is in the past. Post immediately? (y/n) ")
		if err != nil {
			return time.Time{}, false, err
		}
		if validations.ParseYesNo(answer) {
			return c.clock.Now().In(c.loc), true, nil
		}

		c.prompter.Println("Please re-enter a future datetime.")
		if t, err = c.askDateTime(ctx, defaultDateTimePrompt); err != nil {
			return time.Time{}, false, err
		}
	}
	return t, false, nil
}

// LoadBatchFile reads a YAML batch:
//
//	jobs:
//	  - path: ./posts/a.jpg
//	    caption: hello
//	    at: "2025-09-16 09:30"
//
// An empty or past "at" means post immediately.
func LoadBatchFile(ctx context.Context, path string, loc *time.Location, now time.Time) (domainJob.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}

	var file domainJob.File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse jobs file %s: %w", path, err)
	}
	if len(file.Jobs) == 0 {
		return nil, pkgError.ValidationError(fmt.Sprintf("jobs file %s has no jobs", path))
	}
	if loc == nil {
		loc = time.Local
	}

	batch := make(domainJob.Batch, 0, len(file.Jobs))
	for i, entry := range file.Jobs {
		j, err := jobFromEntry(ctx, entry, loc, now)
		if err != nil {
			return nil, pkgError.ValidationError(fmt.Sprintf("job #%d: %v", i+1, err))
		}
		batch = append(batch, j)
	}
	return batch.Sorted(), nil
}

func jobFromEntry(ctx context.Context, entry domainJob.FileEntry, loc *time.Location, now time.Time) (domainJob.Job, error) {
	contentPath, err := validations.NormalizeContentPath(entry.Path)
	if err != nil {
		return domainJob.Job{}, err
	}

	target := now.In(loc)
	immediate := true
	if strings.TrimSpace(entry.At) != "" {
		t, err := validations.ParseScheduleTime(entry.At, loc)
		if err != nil {
			return domainJob.Job{}, err
		}
		if validations.IsFuture(t, now) {
			target, immediate = t, false
		}
	}

	j := domainJob.NewJob(target, contentPath, strings.TrimSpace(entry.Caption), immediate)
	if err := validations.ValidateJob(ctx, j); err != nil {
		return domainJob.Job{}, err
	}
	return j, nil
}
