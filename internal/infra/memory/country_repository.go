package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Nihil96/quiz-app/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CountryLoader fetches the country dataset from a backing store.
type CountryLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
}

// CountryRepository caches the full country list with TTL so each quiz start
// does not hit the backing store.
type CountryRepository struct {
	loader CountryLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	countries []domain.Country
	expiresAt time.Time
}

func NewCountryRepository(loader CountryLoader, ttl time.Duration) *CountryRepository {
	return &CountryRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CountryRepository) GetCountries(ctx context.Context) ([]domain.Country, error) {
	now := r.clock()

	r.mu.RLock()
	if r.countries != nil && r.expiresAt.After(now) {
		countries := r.countries
		r.mu.RUnlock()
		return countries, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("countries", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.countries != nil && r.expiresAt.After(now) {
			countries := r.countries
			r.mu.RUnlock()
			return countries, nil
		}
		r.mu.RUnlock()

		countries, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.countries = countries
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

// StaticCountryLoader serves a fixed dataset (useful for tests/demos).
type StaticCountryLoader struct {
	countries []domain.Country
}

func NewStaticCountryLoader(countries []domain.Country) *StaticCountryLoader {
	return &StaticCountryLoader{countries: countries}
}

func (l *StaticCountryLoader) LoadCountries(_ context.Context) ([]domain.Country, error) {
	if len(l.countries) == 0 {
		return nil, domain.ErrNoCountries
	}
	return l.countries, nil
}

func (r *CountryRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
