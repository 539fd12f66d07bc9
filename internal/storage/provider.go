package storage

import (
	"context"
	"io"
)

// Provider defines the interface for persisting finished report files.
type Provider interface {
	// StreamToFile returns a WriteCloser; bytes written to it stream to
	// the destination object named by key. The channel receives exactly
	// one error (or nil) when the store operation completes.
	StreamToFile(ctx context.Context, key string) (io.WriteCloser, <-chan error)

	// OpenFile opens a stored report for reading (download, attachment).
	OpenFile(ctx context.Context, key string) (io.ReadCloser, error)

	// GetDownloadURL returns a viewable/downloadable URL for the stored item.
	GetDownloadURL(key string) string
}
