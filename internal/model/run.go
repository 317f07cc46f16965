package model

import "time"

// SyncRun records one reconciliation run against one mailbox.
type SyncRun struct {
	ID         string
	Profile    string
	Folder     string
	StartedAt  time.Time
	FinishedAt time.Time
	Orders     int
	Codes      int
	Stats      PhaseStatistics
}
