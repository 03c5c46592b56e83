package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/vaultx/internal/client/models"
	"github.com/dmitrijs2005/vaultx/internal/client/repositories/documents"
	"github.com/dmitrijs2005/vaultx/internal/logging"
	"github.com/dmitrijs2005/vaultx/internal/netx"
)

const DefaultSyncInterval = 30 * time.Second

// PassReport summarises one auto-sync tick.
type PassReport struct {
	// Busy: another pass was in flight, so this tick did nothing.
	Busy bool
	// Offline: the probe said the backend is unreachable.
	Offline bool
	Pending int
	Synced  int
	Skipped int
	Failed  int
	// Err is set when the pending list could not be read.
	Err error
}

// AutoSync periodically pushes every unsynced local document. At most one
// pass runs at a time; a tick that arrives during a pass is dropped.
type AutoSync struct {
	probe    netx.Probe
	local    documents.Repository
	syncer   DocumentSyncer
	interval time.Duration
	log      logging.Logger

	running atomic.Bool
}

func NewAutoSync(probe netx.Probe, local documents.Repository, syncer DocumentSyncer,
	interval time.Duration, log logging.Logger) *AutoSync {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &AutoSync{
		probe:    probe,
		local:    local,
		syncer:   syncer,
		interval: interval,
		log:      logging.Module(log, "autosync"),
	}
}

// Start runs a pass right away and then every interval until ctx ends. It
// blocks; run it in its own goroutine.
func (a *AutoSync) Start(ctx context.Context) {
	a.Tick(ctx)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Tick performs one pass. Once started, the pass runs to completion even if
// ctx is cancelled midway.
func (a *AutoSync) Tick(ctx context.Context) PassReport {
	if !a.running.CompareAndSwap(false, true) {
		return PassReport{Busy: true}
	}
	defer a.running.Store(false)

	if !a.probe.Check(ctx).Online() {
		return PassReport{Offline: true}
	}

	return a.pass(context.WithoutCancel(ctx))
}

func (a *AutoSync) pass(ctx context.Context) PassReport {
	var report PassReport

	pending, err := a.local.ListUnsynced(ctx)
	if err != nil {
		a.log.Warn(ctx, "cannot list unsynced documents", "err", err)
		report.Err = err
		return report
	}
	report.Pending = len(pending)

	for _, doc := range pending {
		switch a.syncOne(ctx, doc).Status {
		case SyncSucceeded, SyncAlreadySynced:
			report.Synced++
		case SyncSkipped:
			report.Skipped++
		default:
			report.Failed++
		}
	}

	if report.Pending > 0 {
		a.log.Info(ctx, "sync pass finished",
			"pending", report.Pending, "synced", report.Synced, "skipped", report.Skipped, "failed", report.Failed)
	}
	return report
}

func (a *AutoSync) syncOne(ctx context.Context, doc *models.DocumentRecord) (res SyncResult) {
	defer func() {
		if p := recover(); p != nil {
			a.log.Error(ctx, "sync panicked", "id", doc.ID, "panic", p)
			res = SyncResult{Status: SyncFailed, Err: fmt.Errorf("sync panic: %v", p)}
		}
	}()
	return a.syncer.Sync(ctx, doc)
}
