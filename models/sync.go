package models

import "time"

// Connectivity is the reachability state reported by the connectivity monitor.
type Connectivity string

const (
	Online  Connectivity = "online"
	Offline Connectivity = "offline"
)

// SyncTrigger names what started a sync pass.
type SyncTrigger string

const (
	TriggerManual       SyncTrigger = "manual"
	TriggerConnectivity SyncTrigger = "connectivity"
	TriggerTimer        SyncTrigger = "timer"
)

// SyncResult is the aggregate outcome of one sync pass.
type SyncResult struct {
	// Trigger is the reason the pass was started.
	Trigger SyncTrigger `json:"trigger"`

	// SnapshotSize is the number of operations the pass set out to deliver.
	SnapshotSize int `json:"snapshotSize"`

	// SuccessCount is the number of operations delivered and removed.
	SuccessCount int `json:"successCount"`

	// TransientFailureCount is the number of failed attempts whose operation
	// stays queued for a later pass.
	TransientFailureCount int `json:"transientFailureCount"`

	// PermanentFailureCount is the number of operations evicted after
	// reaching the retry limit.
	PermanentFailureCount int `json:"permanentFailureCount"`

	// Evicted holds the operations dropped in this pass so a caller can offer
	// to capture them again.
	Evicted []QueuedOperation `json:"evicted,omitempty"`

	// Errors holds one human-readable line per evicted operation.
	Errors []string `json:"errors,omitempty"`

	// SkippedCount is the number of snapshot operations that were cleared
	// from the queue before their turn.
	SkippedCount int `json:"skippedCount"`

	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// OverallSuccess reports whether every operation in the pass snapshot was
// delivered or cleared by the user before its turn.
func (r SyncResult) OverallSuccess() bool {
	return r.SuccessCount+r.SkippedCount == r.SnapshotSize
}

// SyncStatus is a read-only snapshot of the sync engine state. It is never
// persisted.
type SyncStatus struct {
	Connectivity Connectivity `json:"connectivity"`

	// Syncing is true only while a pass is running.
	Syncing bool `json:"syncing"`

	// PendingCount is the current queue length.
	PendingCount int `json:"pendingCount"`

	// RetryingCount is the number of queued operations that already failed at
	// least once and are waiting for another attempt.
	RetryingCount int `json:"retryingCount"`

	// LastSyncCompletedAt is nil until the first pass finishes.
	LastSyncCompletedAt *time.Time `json:"lastSyncCompletedAt,omitempty"`

	// ProgressPercent is 0-100 and never decreases within a pass.
	ProgressPercent int `json:"progressPercent"`

	// LastErrors lists the permanent failures of the most recent pass.
	LastErrors []string `json:"lastErrors,omitempty"`

	// StorageDegraded is set after repeated durable store write failures and
	// cleared by the next successful write.
	StorageDegraded bool `json:"storageDegraded"`

	// LastResult is the outcome of the most recent pass, nil before the first.
	LastResult *SyncResult `json:"lastResult,omitempty"`
}
