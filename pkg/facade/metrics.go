package facade

import (
	"io"
	"time"
)

// Metrics provides observability for storage operations.
//
// This is optional. If Options.Metrics is nil, collection is skipped with a
// no-op implementation. The Prometheus implementation lives in pkg/metrics.
type Metrics interface {
	// ObserveOperation records one operation with its duration and outcome
	ObserveOperation(backend, operation string, duration time.Duration, err error)

	// RecordBytes records bytes moved through a content stream.
	// direction is "read" or "write".
	RecordBytes(backend, direction string, bytes int64)

	// SetHealthy records the outcome of the latest health probe
	SetHealthy(backend string, healthy bool)
}

// noopMetrics is the default no-op metrics implementation
type noopMetrics struct{}

func (noopMetrics) ObserveOperation(backend, operation string, duration time.Duration, err error) {}
func (noopMetrics) RecordBytes(backend, direction string, bytes int64)                            {}
func (noopMetrics) SetHealthy(backend string, healthy bool)                                       {}

// meteredReader counts bytes read and records them on Close.
type meteredReader struct {
	io.ReadCloser
	metrics Metrics
	backend string
	n       int64
}

func (r *meteredReader) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	r.n += int64(n)
	return n, err
}

func (r *meteredReader) Close() error {
	err := r.ReadCloser.Close()
	// Record bytes read regardless of close error
	if r.n > 0 {
		r.metrics.RecordBytes(r.backend, "read", r.n)
	}
	return err
}

// meteredWriter counts bytes written and records them once Close succeeds.
//
// For the object store, Close is the upload, so bytes whose upload failed
// are not counted.
type meteredWriter struct {
	io.WriteCloser
	metrics Metrics
	backend string
	n       int64
}

func (w *meteredWriter) Write(p []byte) (int, error) {
	n, err := w.WriteCloser.Write(p)
	w.n += int64(n)
	return n, err
}

func (w *meteredWriter) Close() error {
	if err := w.WriteCloser.Close(); err != nil {
		return err
	}
	if w.n > 0 {
		w.metrics.RecordBytes(w.backend, "write", w.n)
		w.n = 0
	}
	return nil
}
