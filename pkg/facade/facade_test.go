package facade

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/marmos91/fshandler/pkg/store/local"
	"github.com/marmos91/fshandler/pkg/store/objectstore"
	"github.com/marmos91/fshandler/pkg/store/objectstore/badgerclient"
	storetesting "github.com/marmos91/fshandler/pkg/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMetrics captures every metrics call.
type recordingMetrics struct {
	mu         sync.Mutex
	operations map[string]int
	failures   map[string]int
	bytes      map[string]int64
	healthy    map[string]bool
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		operations: make(map[string]int),
		failures:   make(map[string]int),
		bytes:      make(map[string]int64),
		healthy:    make(map[string]bool),
	}
}

func (m *recordingMetrics) ObserveOperation(backend, operation string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[backend+"/"+operation]++
	if err != nil {
		m.failures[backend+"/"+operation]++
	}
}

func (m *recordingMetrics) RecordBytes(backend, direction string, bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bytes[backend+"/"+direction] += bytes
}

func (m *recordingMetrics) SetHealthy(backend string, healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthy[backend] = healthy
}

func newLocalFilesystem(t *testing.T, metrics Metrics) *Filesystem {
	t.Helper()
	s, err := local.New(context.Background(), t.TempDir())
	require.NoError(t, err)
	return NewLocal(s, Options{Metrics: metrics})
}

func newObjectFilesystem(t *testing.T, metrics Metrics) *Filesystem {
	t.Helper()
	client, err := badgerclient.Open(badgerclient.Config{Bucket: "facade", InMemory: true})
	require.NoError(t, err)

	s, err := objectstore.New(context.Background(), client, objectstore.Options{})
	require.NoError(t, err)

	fs := NewObjectStore(s, Options{Metrics: metrics})
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func TestFilesystem_LocalConformance(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			return newLocalFilesystem(t, nil)
		},
		SupportsAppend: true,
	}
	suite.Run(t)
}

func TestFilesystem_ObjectStoreConformance(t *testing.T) {
	suite := &storetesting.StoreTestSuite{
		NewStore: func(t *testing.T) store.Store {
			return newObjectFilesystem(t, nil)
		},
		SupportsAppend: false,
	}
	suite.Run(t)
}

func TestKind(t *testing.T) {
	assert.Equal(t, store.KindLocal, newLocalFilesystem(t, nil).Kind())
	assert.Equal(t, store.KindObjectStore, newObjectFilesystem(t, nil).Kind())
}

func TestValidation_BeforeBackend(t *testing.T) {
	ctx := context.Background()

	// A closed object store fails every call with ErrClosed, so an
	// ErrInvalidPath proves validation ran first.
	fs := newObjectFilesystem(t, nil)
	require.NoError(t, fs.Close())

	tests := []struct {
		name string
		call func() error
	}{
		{"CreateFileEmpty", func() error { _, err := fs.CreateFile(ctx, ""); return err }},
		{"CreateFileTraversal", func() error { _, err := fs.CreateFile(ctx, "../escape.txt"); return err }},
		{"CreateDirectoryAbsolute", func() error { _, err := fs.CreateDirectory(ctx, "/etc"); return err }},
		{"ReadFileDrive", func() error { _, err := fs.ReadFile(ctx, `C:\Windows`); return err }},
		{"WriteFileBackslashTraversal", func() error { _, err := fs.WriteFile(ctx, `a\..\..\b`); return err }},
		{"AppendFileEmpty", func() error { _, err := fs.AppendFile(ctx, ""); return err }},
		{"MoveBadSource", func() error { _, err := fs.Move(ctx, "../a", "b"); return err }},
		{"MoveBadDestination", func() error { _, err := fs.Move(ctx, "a", "/b"); return err }},
		{"RenameWithSeparator", func() error { _, err := fs.Rename(ctx, "a.txt", "sub/b.txt"); return err }},
		{"RenameWithDots", func() error { _, err := fs.Rename(ctx, "a.txt", ".."); return err }},
		{"DeleteEmpty", func() error { return fs.Delete(ctx, "") }},
		{"ListTraversal", func() error { _, err := fs.List(ctx, "..", nil); return err }},
		{"ListRecursiveAbsolute", func() error { _, err := fs.ListRecursive(ctx, "/", nil); return err }},
		{"GetMetadataNUL", func() error { _, err := fs.GetMetadata(ctx, "a\x00b"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storetesting.AssertErrorCode(t, store.ErrInvalidPath, tt.call())
		})
	}
}

func TestReadTypeOperationsAcceptRoot(t *testing.T) {
	ctx := context.Background()
	fs := newLocalFilesystem(t, nil)

	_, err := fs.List(ctx, "", nil)
	assert.NoError(t, err)

	_, err = fs.ListRecursive(ctx, "", nil)
	assert.NoError(t, err)

	meta, err := fs.GetMetadata(ctx, "")
	require.NoError(t, err)
	assert.True(t, meta.IsDirectory)
}

func TestMetrics_OperationsAndBytes(t *testing.T) {
	ctx := context.Background()
	metrics := newRecordingMetrics()
	fs := newLocalFilesystem(t, metrics)

	w, err := fs.WriteFile(ctx, "counted.txt")
	require.NoError(t, err)
	_, err = io.WriteString(w, "0123456789")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := fs.ReadFile(ctx, "counted.txt")
	require.NoError(t, err)
	_, err = io.Copy(io.Discard, r)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = fs.GetMetadata(ctx, "missing.txt")
	require.Error(t, err)

	assert.True(t, fs.IsHealthy(ctx))

	assert.Equal(t, int64(10), metrics.bytes["local/write"])
	assert.Equal(t, int64(10), metrics.bytes["local/read"])
	assert.Equal(t, 1, metrics.operations["local/write_file"])
	assert.Equal(t, 1, metrics.operations["local/read_file"])
	assert.Equal(t, 1, metrics.failures["local/get_metadata"])
	assert.Equal(t, 1, metrics.operations["local/is_healthy"])
	assert.True(t, metrics.healthy["local"])
}

func TestMetrics_FailedUploadNotCounted(t *testing.T) {
	ctx := context.Background()
	metrics := newRecordingMetrics()
	fs := newObjectFilesystem(t, metrics)

	w, err := fs.WriteFile(ctx, "lost.txt")
	require.NoError(t, err)
	_, err = io.WriteString(w, "payload")
	require.NoError(t, err)

	// Closing the backend first makes the upload in Close fail
	require.NoError(t, fs.Close())
	storetesting.AssertErrorCode(t, store.ErrClosed, w.Close())

	assert.Zero(t, metrics.bytes["objectstore/write"])
	assert.False(t, fs.IsHealthy(ctx))
	assert.False(t, metrics.healthy["objectstore"])
}

func TestAppend_ObjectStoreUnsupported(t *testing.T) {
	ctx := context.Background()
	fs := newObjectFilesystem(t, nil)

	_, err := fs.AppendFile(ctx, "log.txt")
	assert.True(t, store.IsNotSupported(err))

	_, err = fs.GetMetadata(ctx, "log.txt")
	assert.True(t, store.IsNotFound(err))
}

func TestAppend_Local(t *testing.T) {
	ctx := context.Background()
	fs := newLocalFilesystem(t, nil)

	for _, chunk := range []string{"one ", "two"} {
		w, err := fs.AppendFile(ctx, "log.txt")
		require.NoError(t, err)
		_, err = io.WriteString(w, chunk)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}

	r, err := fs.ReadFile(ctx, "log.txt")
	require.NoError(t, err)
	defer r.Close()

	var sb strings.Builder
	_, err = io.Copy(&sb, r)
	require.NoError(t, err)
	assert.Equal(t, "one two", sb.String())
}

func TestClose_LocalIsNoop(t *testing.T) {
	fs := newLocalFilesystem(t, nil)
	require.NoError(t, fs.Close())

	_, err := fs.CreateFile(context.Background(), "still-works.txt")
	assert.NoError(t, err)
}

func TestUnconfiguredBackend(t *testing.T) {
	fs := &Filesystem{kind: store.KindObjectStore, metrics: noopMetrics{}}

	_, err := fs.GetMetadata(context.Background(), "a")
	storetesting.AssertErrorCode(t, store.ErrStorageFailure, err)
	assert.False(t, fs.IsHealthy(context.Background()))
}
