package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/AzielCF/az-autopost/core/config"
	domainHistory "github.com/AzielCF/az-autopost/domains/history"
	domainJob "github.com/AzielCF/az-autopost/domains/job"
	domainResultLog "github.com/AzielCF/az-autopost/domains/resultlog"
	domainSession "github.com/AzielCF/az-autopost/domains/session"
)

// fakeClock advances its own time on every Sleep.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	// onSleep runs after each sleep; tests use it to cancel mid-run.
	onSleep func(n int)
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	n := len(c.sleeps)
	hook := c.onSleep
	c.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

type fakePublisher struct {
	loginFn   func(creds domainSession.Credentials, prev *domainSession.Session) (*domainSession.Session, error)
	restoreFn func(s *domainSession.Session) error
	uploadFn  func(path, caption string) (string, error)

	logins  int
	uploads []string
}

func (p *fakePublisher) Login(ctx context.Context, creds domainSession.Credentials, prev *domainSession.Session) (*domainSession.Session, error) {
	p.logins++
	if p.loginFn != nil {
		return p.loginFn(creds, prev)
	}
	return &domainSession.Session{Username: creds.Username, Token: fmt.Sprintf("token-%d", p.logins), DeviceID: "device"}, nil
}

func (p *fakePublisher) Restore(ctx context.Context, s *domainSession.Session) error {
	if p.restoreFn != nil {
		return p.restoreFn(s)
	}
	if s == nil || s.Token == "" {
		return errors.New("invalid session")
	}
	return nil
}

func (p *fakePublisher) UploadPhoto(ctx context.Context, s *domainSession.Session, path, caption string) (string, error) {
	p.uploads = append(p.uploads, path)
	if p.uploadFn != nil {
		return p.uploadFn(path, caption)
	}
	return "media-" + fmt.Sprint(len(p.uploads)), nil
}

type memSessionStore struct {
	sess    *domainSession.Session
	saves   int
	loadErr error
	saveErr error
}

func (s *memSessionStore) Exists(ctx context.Context) (bool, error) {
	return s.sess != nil || s.loadErr != nil, nil
}

func (s *memSessionStore) Load(ctx context.Context) (*domainSession.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.sess == nil {
		return nil, domainSession.ErrNoSession
	}
	return s.sess.Clone(), nil
}

func (s *memSessionStore) Save(ctx context.Context, sess *domainSession.Session) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.sess = sess.Clone()
	return nil
}

func (s *memSessionStore) Location() string {
	return "memory"
}

type logLine struct {
	Tag     domainResultLog.Tag
	Message string
}

type memResultLog struct {
	lines []logLine
}

func (l *memResultLog) Record(tag domainResultLog.Tag, message string) {
	l.lines = append(l.lines, logLine{Tag: tag, Message: message})
}

func (l *memResultLog) Path() string {
	return "memory"
}

func (l *memResultLog) count(tag domainResultLog.Tag) int {
	n := 0
	for _, line := range l.lines {
		if line.Tag == tag {
			n++
		}
	}
	return n
}

type memHistory struct {
	entries []domainHistory.Entry
	err     error
}

func (h *memHistory) InitSchema(ctx context.Context) error { return nil }

func (h *memHistory) Record(ctx context.Context, e domainHistory.Entry) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, e)
	return nil
}

func (h *memHistory) ListRecent(ctx context.Context, limit int) ([]domainHistory.Entry, error) {
	return h.entries, nil
}

// scriptedPrompter answers prompts from a fixed list and records everything printed.
type scriptedPrompter struct {
	answers []string
	prompts []string
	printed []string
	secrets int
}

func (p *scriptedPrompter) next(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) ReadLine(prompt string) (string, error) {
	return p.next(prompt)
}

func (p *scriptedPrompter) ReadSecret(prompt string) (string, error) {
	p.secrets++
	return p.next(prompt)
}

func (p *scriptedPrompter) Println(a ...any) {
	p.printed = append(p.printed, fmt.Sprint(a...))
}

// recordingExecutor stands in for JobExecutor in dispatcher tests.
type recordingExecutor struct {
	clock  *fakeClock
	calls  []domainJob.Job
	at     []time.Time
	failOn map[string]bool
}

func (e *recordingExecutor) Execute(ctx context.Context, j domainJob.Job) domainJob.ExecutionResult {
	e.calls = append(e.calls, j)
	e.at = append(e.at, e.clock.Now())
	if e.failOn[j.ContentPath] {
		return domainJob.ExecutionResult{Job: j, Outcome: domainJob.OutcomeFailure, PublishErr: errors.New("boom")}
	}
	return domainJob.ExecutionResult{Job: j, Outcome: domainJob.OutcomeSuccess}
}

func testSchedulerConfig() *config.Config {
	return &config.Config{Scheduler: config.SchedulerConfig{
		CoarseThreshold: 60 * time.Second,
		CoarseInterval:  30 * time.Second,
		FineMinimum:     500 * time.Millisecond,
		InterJobDelay:   5 * time.Second,
	}}
}
