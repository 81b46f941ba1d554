package factory

import (
	"time"

	"github.com/mcoot/duelsmp/internal/dependencies/mocks"
	"github.com/mcoot/duelsmp/internal/services/matchmaker"
	"github.com/mcoot/duelsmp/internal/storage"
	"github.com/mcoot/duelsmp/internal/storage/memory"
	"github.com/mcoot/duelsmp/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies
// over in-memory storage. The event hub is not running until RunHub is called.
func NewTestApp() *TestApp {
	return NewTestAppWithStorage(memory.New())
}

// NewTestAppWithStorage is NewTestApp over the given storage
func NewTestAppWithStorage(store storage.Storage) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDGenerator()

	app := newWithDependencies(store, mockClock, mockRandom, mockIDs, matchmaker.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}

// RunHub starts delivering events to connected clients
func (t *TestApp) RunHub() {
	go t.Hub.Run()
}
