package ui

import "sync/atomic"

type Stats struct {
	TotalAssets    atomic.Int64
	FailedAssets   atomic.Int64
	TotalBytes     atomic.Int64
	TotalManifests atomic.Int64
}
