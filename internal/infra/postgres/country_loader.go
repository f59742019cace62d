package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Nihil96/quiz-app/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CountryLoader reads the country dataset from Postgres.
type CountryLoader struct {
	pool *pgxpool.Pool
}

func NewCountryLoader(pool *pgxpool.Pool) *CountryLoader {
	return &CountryLoader{pool: pool}
}

func (l *CountryLoader) LoadCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := l.pool.Query(ctx, `SELECT name, capital, continent, languages FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("load countries: %w", err)
	}
	defer rows.Close()

	var countries []domain.Country
	for rows.Next() {
		var (
			country      domain.Country
			languagesRaw []byte
		)
		if err := rows.Scan(&country.Name, &country.Capital, &country.Continent.Name, &languagesRaw); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		if len(languagesRaw) > 0 {
			if err := json.Unmarshal(languagesRaw, &country.Languages); err != nil {
				return nil, fmt.Errorf("unmarshal languages for %s: %w", country.Name, err)
			}
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	if len(countries) == 0 {
		return nil, domain.ErrNoCountries
	}
	return countries, nil
}

// SeedCountries inserts or refreshes the dataset. Used by the seed CLI
// command and integration tests.
func SeedCountries(ctx context.Context, pool *pgxpool.Pool, countries []domain.Country) error {
	for _, country := range countries {
		languages, err := json.Marshal(country.Languages)
		if err != nil {
			return fmt.Errorf("marshal languages for %s: %w", country.Name, err)
		}
		_, err = pool.Exec(ctx, `
			INSERT INTO countries (name, capital, continent, languages)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO UPDATE
			SET capital = EXCLUDED.capital,
			    continent = EXCLUDED.continent,
			    languages = EXCLUDED.languages`,
			country.Name, country.Capital, country.Continent.Name, languages)
		if err != nil {
			return fmt.Errorf("insert country %s: %w", country.Name, err)
		}
	}
	return nil
}
