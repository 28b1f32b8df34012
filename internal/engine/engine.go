// Package engine drives the external extraction and download toolchain.
package engine

//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks . Engine

import (
	"context"
	"errors"

	"github.com/vmunix/viddown/internal/media"
	"github.com/vmunix/viddown/internal/plan"
)

// Progress statuses reported by the engine.
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
)

// Progress is one progress report for the file being downloaded.
type Progress struct {
	Status             string
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
}

// Total returns the known or estimated size, or 0 if neither is known.
func (p Progress) Total() int64 {
	if p.TotalBytes > 0 {
		return p.TotalBytes
	}
	return p.TotalBytesEstimate
}

// ProgressFunc receives progress reports. It is called on the goroutine
// running Download.
type ProgressFunc func(Progress)

// Engine resolves metadata and downloads media.
type Engine interface {
	// ExtractInfo returns the metadata tree for url. With flat set, playlist
	// entries are left as unresolved references.
	ExtractInfo(ctx context.Context, url string, flat bool) (*media.Info, error)

	// Download executes spec and returns the engine's return code. A non-zero
	// code means some part of the download did not complete.
	Download(ctx context.Context, spec plan.Spec, progress ProgressFunc) (int, error)
}

// ErrFailed is returned when the engine could not run at all.
var ErrFailed = errors.New("engine failed")
