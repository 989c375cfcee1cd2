package domain

import "fmt"

// UnreachableMinutes fills matrix cells the provider could not price.
// Downstream code indexes unconditionally, so a missing pair must never be a hole.
const UnreachableMinutes = 999

// DistanceMatrix is a dense, possibly asymmetric table of drive minutes
// between every pair of located points in one optimization run.
// Minutes[i][j] is the drive time from IDs[i] to IDs[j].
type DistanceMatrix struct {
	IDs     []string
	Minutes [][]int
	index   map[string]int
}

// NewDistanceMatrix allocates an IDs×IDs matrix with every off-diagonal cell
// set to UnreachableMinutes and the diagonal set to zero.
func NewDistanceMatrix(ids []string) *DistanceMatrix {
	m := &DistanceMatrix{
		IDs:     append([]string(nil), ids...),
		Minutes: make([][]int, len(ids)),
		index:   make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		m.index[id] = i
		row := make([]int, len(ids))
		for j := range row {
			if i != j {
				row[j] = UnreachableMinutes
			}
		}
		m.Minutes[i] = row
	}
	return m
}

// Has reports whether the location made it into the matrix.
func (m *DistanceMatrix) Has(id string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[id]
	return ok
}

func (m *DistanceMatrix) Index(id string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[id]
	return i, ok
}

// Set writes the drive time from one id to another.
func (m *DistanceMatrix) Set(from, to string, minutes int) error {
	i, ok := m.index[from]
	if !ok {
		return fmt.Errorf("distance matrix: unknown origin %q", from)
	}
	j, ok := m.index[to]
	if !ok {
		return fmt.Errorf("distance matrix: unknown destination %q", to)
	}
	m.Minutes[i][j] = minutes
	return nil
}

// Between returns the drive time between two ids. Pairs involving an id
// outside the matrix report UnreachableMinutes rather than panicking.
func (m *DistanceMatrix) Between(from, to string) int {
	i, ok := m.Index(from)
	if !ok {
		return UnreachableMinutes
	}
	j, ok := m.Index(to)
	if !ok {
		return UnreachableMinutes
	}
	return m.Minutes[i][j]
}

func (m *DistanceMatrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.IDs)
}
