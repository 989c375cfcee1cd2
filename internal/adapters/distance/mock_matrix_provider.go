package distance

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/ports"
	"sync"
)

// MockMatrixProvider serves fixed durations keyed by coordinate strings.
// Unknown pairs come back as not-OK elements.
type MockMatrixProvider struct {
	mu      sync.Mutex
	seconds map[string]int
	PerSide int
	Err     error
	Calls   [][2]int
}

func NewMockMatrixProvider(perSide int) *MockMatrixProvider {
	if perSide <= 0 {
		perSide = googleMaxPerSide
	}
	return &MockMatrixProvider{seconds: map[string]int{}, PerSide: perSide}
}

// Set records the duration from one point to another.
func (p *MockMatrixProvider) Set(from, to domain.Coordinates, seconds int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seconds[from.String()+"|"+to.String()] = seconds
}

func (p *MockMatrixProvider) Name() string { return "mock" }

func (p *MockMatrixProvider) MaxElementsPerSide() int { return p.PerSide }

func (p *MockMatrixProvider) Matrix(
	ctx context.Context,
	origins []domain.Coordinates,
	destinations []domain.Coordinates,
) ([][]ports.TravelTimeElement, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, [2]int{len(origins), len(destinations)})
	if p.Err != nil {
		return nil, p.Err
	}

	out := make([][]ports.TravelTimeElement, len(origins))
	for i, o := range origins {
		out[i] = make([]ports.TravelTimeElement, len(destinations))
		for j, d := range destinations {
			if s, ok := p.seconds[o.String()+"|"+d.String()]; ok {
				out[i][j] = ports.TravelTimeElement{OK: true, DurationSeconds: s}
			}
		}
	}
	return out, nil
}
