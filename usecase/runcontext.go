package usecase

import (
	"time"

	"github.com/AzielCF/az-autopost/core/config"
	domainHistory "github.com/AzielCF/az-autopost/domains/history"
	domainPublisher "github.com/AzielCF/az-autopost/domains/publisher"
	domainResultLog "github.com/AzielCF/az-autopost/domains/resultlog"
	domainSession "github.com/AzielCF/az-autopost/domains/session"
)

// RunContext carries everything one run needs. It is built once in cmd and
// passed down explicitly.
type RunContext struct {
	Config    *config.Config
	Clock     Clock
	Publisher domainPublisher.IPublisher
	Sessions  domainSession.ISessionStore
	Results   domainResultLog.IResultLog
	History   domainHistory.IHistoryRepository // nil when history is disabled
	Media     domainPublisher.IMediaPreparer   // nil uploads the original file
	Location  *time.Location

	// Session is set once authentication succeeds.
	Session *domainSession.Session
}

func (rc *RunContext) location() *time.Location {
	if rc.Location != nil {
		return rc.Location
	}
	return time.Local
}

func (rc *RunContext) schedulerConfig() config.SchedulerConfig {
	if rc.Config == nil {
		return config.SchedulerConfig{InterJobDelay: DefaultInterJobDelay}
	}
	return rc.Config.Scheduler
}
