package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/Nihil96/quiz-app/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CountryLoader fetches the country dataset from a backing store.
type CountryLoader interface {
	LoadCountries(ctx context.Context) ([]domain.Country, error)
}

// CountryRepository caches the full country list as one JSON string in Redis
// and falls back to a loader on cache miss.
type CountryRepository struct {
	client *redis.Client
	loader CountryLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

const countriesKey = "quiz:countries"

func NewCountryRepository(client *redis.Client, loader CountryLoader, ttl time.Duration) *CountryRepository {
	return &CountryRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CountryRepository) GetCountries(ctx context.Context) ([]domain.Country, error) {
	if countries, ok := r.cached(ctx); ok {
		return countries, nil
	}

	result, err, _ := r.sf.Do(countriesKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if countries, ok := r.cached(ctx); ok {
			return countries, nil
		}

		countries, err := r.loader.LoadCountries(ctx)
		if err != nil {
			return nil, err
		}

		if raw, err := json.Marshal(countries); err == nil {
			_ = r.client.Set(ctx, countriesKey, raw, r.ttlWithJitter()).Err()
		}
		return countries, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Country), nil
}

func (r *CountryRepository) cached(ctx context.Context) ([]domain.Country, bool) {
	raw, err := r.client.Get(ctx, countriesKey).Result()
	if err != nil || raw == "" {
		return nil, false
	}
	var countries []domain.Country
	if err := json.Unmarshal([]byte(raw), &countries); err != nil {
		return nil, false
	}
	if len(countries) == 0 {
		return nil, false
	}
	return countries, true
}

func (r *CountryRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
