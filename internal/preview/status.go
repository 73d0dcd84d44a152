package preview

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/site"
)

// buildStatus tracks the latest build for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *site.Report
	lastBuild    time.Time
	builds       int
	hasGoodBuild bool
}

func (bs *buildStatus) record(report *site.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastBuild = time.Now()
	bs.lastError = err
	if report != nil {
		bs.lastReport = report
	}
	if err == nil {
		bs.hasGoodBuild = true
	}
}

type statusSnapshot struct {
	err          error
	report       *site.Report
	lastBuild    time.Time
	builds       int
	hasGoodBuild bool
}

func (bs *buildStatus) snapshot() statusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return statusSnapshot{
		err:          bs.lastError,
		report:       bs.lastReport,
		lastBuild:    bs.lastBuild,
		builds:       bs.builds,
		hasGoodBuild: bs.hasGoodBuild,
	}
}
