package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/Nihil96/quiz-app/internal/config"
	"github.com/Nihil96/quiz-app/internal/domain"
	pgloader "github.com/Nihil96/quiz-app/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads a country dataset into Postgres. Without --file it seeds
// the built-in sample dataset.
func NewSeedCmd(configPath *string) *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the countries table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, dataPath)
		},
	}
	cmd.Flags().StringVar(&dataPath, "file", "", "path to a countries JSON file")
	return cmd
}

func runSeed(ctx context.Context, configPath, dataPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	countries := sampleCountries()
	if dataPath != "" {
		countries, err = readCountriesFile(dataPath)
		if err != nil {
			return err
		}
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pgloader.SeedCountries(ctx, pool, countries); err != nil {
		return err
	}
	log.Printf("seeded %d countries", len(countries))
	return nil
}

func readCountriesFile(path string) ([]domain.Country, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Countries []domain.Country `json:"countries"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse countries file: %w", err)
	}
	if len(payload.Countries) == 0 {
		return nil, fmt.Errorf("countries file %s has no entries", path)
	}
	return payload.Countries, nil
}
