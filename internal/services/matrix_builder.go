package services

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/metrics"
	"crew-route-service/internal/platform/obs"
	"crew-route-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"math"
)

// ErrProviderFailure is returned by PairwiseMatrix when the paid provider
// fails and the builder is configured with PolicyFail.
var ErrProviderFailure = errors.New("travel time provider failure")

// FailurePolicy decides what happens when a paid matrix batch fails.
type FailurePolicy string

const (
	// PolicyDegrade rebuilds the whole matrix from straight-line estimates
	// and records a warning.
	PolicyDegrade FailurePolicy = "degrade"
	// PolicyFail aborts the run with ErrProviderFailure.
	PolicyFail FailurePolicy = "fail"
)

// TravelEstimator prices a trip without calling out to a provider.
type TravelEstimator interface {
	Minutes(a, b domain.Coordinates) int
}

// MatrixResult is the outcome of one PairwiseMatrix build.
type MatrixResult struct {
	Matrix *domain.DistanceMatrix
	// Coordinates holds the resolved position of every matrix id, including
	// those geocoded during the build.
	Coordinates map[string]domain.Coordinates
	// Dropped lists locations that could not be positioned and are absent
	// from the matrix.
	Dropped  []domain.Location
	Source   string
	Warnings []string
}

// MatrixBuilder produces drive minutes between every pair of locations.
// Without a provider it estimates from straight-line distance.
type MatrixBuilder struct {
	resolver  *LocationResolver
	provider  ports.TravelTimeProvider
	estimator TravelEstimator
	limiter   ports.Limiter
	policy    FailurePolicy
}

// NewMatrixBuilder accepts a nil resolver (no geocoding) and a nil provider
// (estimates only).
func NewMatrixBuilder(
	resolver *LocationResolver,
	provider ports.TravelTimeProvider,
	estimator TravelEstimator,
) *MatrixBuilder {
	return &MatrixBuilder{
		resolver:  resolver,
		provider:  provider,
		estimator: estimator,
		limiter:   Unlimited(),
		policy:    PolicyDegrade,
	}
}

// WithLimiter paces provider batches.
func (b *MatrixBuilder) WithLimiter(l ports.Limiter) *MatrixBuilder {
	if l != nil {
		b.limiter = l
	}
	return b
}

// WithFailurePolicy selects degrade (default) or fail.
func (b *MatrixBuilder) WithFailurePolicy(p FailurePolicy) *MatrixBuilder {
	if p == PolicyFail {
		b.policy = PolicyFail
	} else {
		b.policy = PolicyDegrade
	}
	return b
}

// PairwiseMatrix geocodes locations that lack coordinates, drops those that
// cannot be resolved, and fills an N×N matrix for the rest. Duplicate ids
// keep their first occurrence.
func (b *MatrixBuilder) PairwiseMatrix(ctx context.Context, locations []domain.Location) (_ *MatrixResult, err error) {
	defer obs.Time(ctx, "matrix.PairwiseMatrix")(&err)

	res := &MatrixResult{
		Coordinates: make(map[string]domain.Coordinates, len(locations)),
		Dropped:     []domain.Location{},
		Warnings:    []string{},
	}

	unique := make([]domain.Location, 0, len(locations))
	seen := make(map[string]struct{}, len(locations))
	var pending []string
	for _, loc := range locations {
		if _, ok := seen[loc.ID]; ok {
			continue
		}
		seen[loc.ID] = struct{}{}
		unique = append(unique, loc)
		if loc.Coordinates == nil || !loc.Coordinates.Valid() {
			pending = append(pending, loc.Address)
		}
	}

	var resolved map[string]domain.GeocodeResult
	if len(pending) > 0 && b.resolver != nil {
		resolved = b.resolver.ResolveBatch(ctx, pending)
	}

	ids := make([]string, 0, len(unique))
	points := make([]domain.Coordinates, 0, len(unique))
	for _, loc := range unique {
		var c domain.Coordinates
		switch {
		case loc.Coordinates != nil && loc.Coordinates.Valid():
			c = *loc.Coordinates
		default:
			g, ok := resolved[NormalizeAddress(loc.Address)]
			if !ok {
				res.Dropped = append(res.Dropped, loc)
				continue
			}
			c = g.Coordinates
		}
		ids = append(ids, loc.ID)
		points = append(points, c)
		res.Coordinates[loc.ID] = c
	}

	res.Matrix = domain.NewDistanceMatrix(ids)
	if len(ids) < 2 {
		res.Source = b.estimateSource()
		return res, nil
	}

	if b.provider == nil {
		b.fillEstimates(res.Matrix, points)
		res.Source = domain.MatrixSourceHaversine
		return res, nil
	}

	if perr := b.fillFromProvider(ctx, res.Matrix, points); perr != nil {
		if b.policy == PolicyFail {
			return nil, fmt.Errorf("%w: %s: %v", ErrProviderFailure, b.provider.Name(), perr)
		}
		log.Printf("req_id=%s op=matrix.degrade provider=%s err=%v", obs.RequestID(ctx), b.provider.Name(), perr)
		res.Matrix = domain.NewDistanceMatrix(ids)
		b.fillEstimates(res.Matrix, points)
		res.Source = domain.MatrixSourceHaversineDegraded
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"Travel time provider %s failed; drive times are straight-line estimates", b.provider.Name()))
		return res, nil
	}

	res.Source = domain.MatrixSourceProvider
	return res, nil
}

func (b *MatrixBuilder) estimateSource() string {
	if b.provider == nil {
		return domain.MatrixSourceHaversine
	}
	return domain.MatrixSourceProvider
}

func (b *MatrixBuilder) fillEstimates(m *domain.DistanceMatrix, points []domain.Coordinates) {
	for i := range points {
		for j := range points {
			if i == j {
				continue
			}
			m.Minutes[i][j] = b.estimator.Minutes(points[i], points[j])
		}
	}
}

// fillFromProvider requests the matrix in blocks no larger than the
// provider's per-side limit. Cells the provider marks as failed keep
// UnreachableMinutes.
func (b *MatrixBuilder) fillFromProvider(ctx context.Context, m *domain.DistanceMatrix, points []domain.Coordinates) error {
	side := b.provider.MaxElementsPerSide()
	if side <= 0 {
		side = len(points)
	}

	name := b.provider.Name()
	for oStart := 0; oStart < len(points); oStart += side {
		oEnd := min(oStart+side, len(points))
		for dStart := 0; dStart < len(points); dStart += side {
			dEnd := min(dStart+side, len(points))

			if err := b.limiter.Wait(ctx); err != nil {
				return err
			}

			grid, err := b.provider.Matrix(ctx, points[oStart:oEnd], points[dStart:dEnd])
			if err == nil && len(grid) != oEnd-oStart {
				err = fmt.Errorf("got %d rows for %d origins", len(grid), oEnd-oStart)
			}
			if err != nil {
				metrics.MatrixRequests.WithLabelValues(name, "error").Inc()
				return err
			}
			metrics.MatrixRequests.WithLabelValues(name, "ok").Inc()

			for r, row := range grid {
				i := oStart + r
				for c, el := range row {
					j := dStart + c
					if j >= dEnd || i == j || !el.OK {
						continue
					}
					secs := el.DurationSeconds
					if el.TrafficSeconds > 0 {
						secs = el.TrafficSeconds
					}
					m.Minutes[i][j] = int(math.Round(float64(secs) / 60))
				}
			}
		}
	}
	return nil
}
