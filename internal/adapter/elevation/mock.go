package elevation

import (
	"context"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
)

// Bounds of the synthetic terrain used when heatmaps skip elevation lookups.
const (
	MockMinM = 100.0
	MockMaxM = 500.0
)

// MockProvider returns uniformly random elevations between MockMinM and
// MockMaxM. It stands in for Open-Elevation on heatmaps, where one lookup per
// grid point is too slow for the public API.
type MockProvider struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewMockProvider creates a mock seeded for reproducible sequences.
func NewMockProvider(seed uint64) *MockProvider {
	return &MockProvider{faker: gofakeit.New(seed)}
}

func (m *MockProvider) Elevation(_ context.Context, _, _ float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.faker.Float64Range(MockMinM, MockMaxM), nil
}
