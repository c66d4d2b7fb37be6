package app

import (
	"context"
)

// SyncUseCase pulls categories and intervals from the tracker into the store.
type SyncUseCase interface {
	Sync(ctx context.Context, req SyncRequest) (*SyncResult, error)
}

// ReportUseCase builds a report document and publishes it.
type ReportUseCase interface {
	Generate(ctx context.Context, req ReportRequest) (*ReportResult, error)
}
