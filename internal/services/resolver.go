package services

import (
	"context"
	"crew-route-service/internal/domain"
	"crew-route-service/internal/platform/metrics"
	"crew-route-service/internal/platform/obs"
	"crew-route-service/internal/ports"
	"log"
	"strings"
)

// NormalizeAddress builds the cache key: trimmed, lower-cased, and with
// internal whitespace collapsed to single spaces.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// LocationResolver turns addresses into coordinates through a cascade:
// cache, then the paid provider when configured, then the free provider.
// Resolution failures are never cached so the next run retries them.
type LocationResolver struct {
	cache       ports.GeocodeCache
	paid        ports.Geocoder
	free        ports.Geocoder
	paidLimiter ports.Limiter
	freeLimiter ports.Limiter
}

// NewLocationResolver accepts nil for any provider that is not configured.
func NewLocationResolver(cache ports.GeocodeCache, paid, free ports.Geocoder) *LocationResolver {
	return &LocationResolver{
		cache:       cache,
		paid:        paid,
		free:        free,
		paidLimiter: Unlimited(),
		freeLimiter: Unlimited(),
	}
}

// WithLimiters paces provider calls; nil keeps the current limiter.
func (r *LocationResolver) WithLimiters(paid, free ports.Limiter) *LocationResolver {
	if paid != nil {
		r.paidLimiter = paid
	}
	if free != nil {
		r.freeLimiter = free
	}
	return r
}

// Resolve returns the coordinates for one address. found is false when no
// provider produced a usable result; that is not an error for the caller.
func (r *LocationResolver) Resolve(ctx context.Context, address string) (domain.GeocodeResult, bool) {
	key := NormalizeAddress(address)
	if key == "" {
		return domain.GeocodeResult{}, false
	}

	if res, ok := r.cached(ctx, key); ok {
		return res, true
	}

	return r.lookup(ctx, key, strings.TrimSpace(address))
}

// ResolveBatch resolves many addresses, skipping cache hits and issuing the
// remaining lookups one at a time. Results are keyed by NormalizeAddress;
// unresolved addresses are absent.
func (r *LocationResolver) ResolveBatch(ctx context.Context, addresses []string) map[string]domain.GeocodeResult {
	out := make(map[string]domain.GeocodeResult, len(addresses))

	seen := make(map[string]struct{}, len(addresses))
	misses := make([]string, 0, len(addresses))
	raw := make(map[string]string, len(addresses))
	for _, a := range addresses {
		key := NormalizeAddress(a)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if res, ok := r.cached(ctx, key); ok {
			out[key] = res
			continue
		}
		misses = append(misses, key)
		raw[key] = strings.TrimSpace(a)
	}

	for _, key := range misses {
		if ctx.Err() != nil {
			break
		}
		if res, ok := r.lookup(ctx, key, raw[key]); ok {
			out[key] = res
		}
	}

	return out
}

func (r *LocationResolver) cached(ctx context.Context, key string) (domain.GeocodeResult, bool) {
	if r.cache == nil {
		return domain.GeocodeResult{}, false
	}

	res, ok, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.GeocodeCache.WithLabelValues("error").Inc()
		log.Printf("req_id=%s op=geocode.cache.Get key=%q err=%v", obs.RequestID(ctx), key, err)
		return domain.GeocodeResult{}, false
	case !ok:
		metrics.GeocodeCache.WithLabelValues("miss").Inc()
		return domain.GeocodeResult{}, false
	}

	metrics.GeocodeCache.WithLabelValues("hit").Inc()
	return res, true
}

func (r *LocationResolver) lookup(ctx context.Context, key, address string) (domain.GeocodeResult, bool) {
	steps := []struct {
		provider ports.Geocoder
		limiter  ports.Limiter
	}{
		{r.paid, r.paidLimiter},
		{r.free, r.freeLimiter},
	}

	for _, step := range steps {
		if step.provider == nil {
			continue
		}

		if err := step.limiter.Wait(ctx); err != nil {
			return domain.GeocodeResult{}, false
		}

		res, found, err := step.provider.Geocode(ctx, address)
		name := step.provider.Name()
		switch {
		case err != nil:
			metrics.GeocodeRequests.WithLabelValues(name, "error").Inc()
			log.Printf("req_id=%s op=geocode provider=%s address=%q err=%v", obs.RequestID(ctx), name, address, err)
			continue
		case !found || !res.Coordinates.Valid():
			metrics.GeocodeRequests.WithLabelValues(name, "not_found").Inc()
			continue
		}

		metrics.GeocodeRequests.WithLabelValues(name, "found").Inc()
		if res.ProviderID == "" {
			res.ProviderID = name
		}

		if r.cache != nil {
			if err := r.cache.Put(ctx, key, res); err != nil {
				log.Printf("req_id=%s op=geocode.cache.Put key=%q err=%v", obs.RequestID(ctx), key, err)
			}
		}
		return res, true
	}

	return domain.GeocodeResult{}, false
}
