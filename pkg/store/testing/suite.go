package testing

import (
	"context"
	"testing"

	"github.com/marmos91/fshandler/pkg/store"
)

// StoreTestSuite is a conformance test suite for store.Store implementations.
// It tests the contract, not implementation details, so the same suite runs
// against the local and object-store backends.
//
// Usage:
//
//	func TestMyStore(t *testing.T) {
//	    suite := &storetesting.StoreTestSuite{
//	        NewStore: func(t *testing.T) store.Store {
//	            return mystore.New(t.TempDir())
//	        },
//	        SupportsAppend: true,
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore creates a fresh, empty store for each test. Use t.Cleanup to
	// release resources.
	NewStore func(t *testing.T) store.Store

	// SupportsAppend is true when AppendFile is expected to work. When false
	// the suite asserts ErrNotSupported instead.
	SupportsAppend bool
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("FileOperations", suite.RunFileTests)
	t.Run("NamespaceOperations", suite.RunNamespaceTests)
	t.Run("Listing", suite.RunListingTests)
	t.Run("Scenarios", suite.RunScenarioTests)
}

// testContext returns a standard test context.
func testContext() context.Context {
	return context.Background()
}
