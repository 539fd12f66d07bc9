package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LocalProvider stores reports on the local filesystem, mainly for
// development and single-node deployments.
type LocalProvider struct {
	basePath string
}

func NewLocalProvider(basePath string) *LocalProvider {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		slog.Error("Failed to ensure report directory exists", "path", basePath, "error", err)
	}
	return &LocalProvider{basePath: basePath}
}

func (p *LocalProvider) StreamToFile(ctx context.Context, key string) (io.WriteCloser, <-chan error) {
	errChan := make(chan error, 1)

	fullPath := filepath.Join(p.basePath, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		errChan <- fmt.Errorf("failed to create directory for %s: %w", key, err)
		close(errChan)
		return nil, errChan
	}

	f, err := os.Create(fullPath)
	if err != nil {
		errChan <- fmt.Errorf("failed to create file %s: %w", fullPath, err)
		close(errChan)
		return nil, errChan
	}

	// The wrapper closes the error channel when the writer closes, so
	// the channel contract matches the S3 provider.
	return &localWriter{f: f, errChan: errChan, path: fullPath}, errChan
}

func (p *LocalProvider) OpenFile(ctx context.Context, key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(p.basePath, key))
}

func (p *LocalProvider) GetDownloadURL(key string) string {
	abs, _ := filepath.Abs(filepath.Join(p.basePath, key))
	return fmt.Sprintf("file://%s", abs)
}

type localWriter struct {
	f       *os.File
	errChan chan error
	path    string
}

func (w *localWriter) Write(p []byte) (n int, err error) {
	return w.f.Write(p)
}

func (w *localWriter) Close() error {
	err := w.f.Close()
	if err != nil {
		w.errChan <- err
	} else {
		slog.Info("Report written to local storage", "path", w.path)
		w.errChan <- nil
	}
	close(w.errChan)
	return err
}
