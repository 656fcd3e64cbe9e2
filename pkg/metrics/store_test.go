package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/marmos91/fshandler/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStoreMetrics_Operations(t *testing.T) {
	m := newStoreMetrics(prometheus.NewRegistry())

	m.ObserveOperation("local", "create_file", time.Millisecond, nil)
	m.ObserveOperation("local", "create_file", time.Millisecond, nil)
	m.ObserveOperation("local", "get_metadata", time.Millisecond,
		store.NewError(store.ErrNotFound, "missing", "a.txt", nil))
	m.ObserveOperation("objectstore", "move", time.Millisecond, errors.New("network down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("local", "create_file", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("local", "get_metadata", "NotFound")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("objectstore", "move", "StorageFailure")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.operationDuration))
}

func TestStoreMetrics_BytesAndHealth(t *testing.T) {
	m := newStoreMetrics(prometheus.NewRegistry())

	m.RecordBytes("objectstore", "write", 100)
	m.RecordBytes("objectstore", "write", 50)
	m.RecordBytes("objectstore", "read", 7)
	assert.Equal(t, 150.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues("objectstore", "write")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues("objectstore", "read")))

	m.SetHealthy("local", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.healthy.WithLabelValues("local")))
	m.SetHealthy("local", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.healthy.WithLabelValues("local")))
}

func TestNewStoreMetrics_DisabledReturnsNil(t *testing.T) {
	if IsEnabled() {
		t.Skip("global registry already initialized by another test")
	}
	assert.Nil(t, NewStoreMetrics())
}
