package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nihil96/quiz-app/internal/app"
	"github.com/Nihil96/quiz-app/internal/config"
	"github.com/Nihil96/quiz-app/internal/domain"
	"github.com/Nihil96/quiz-app/internal/infra/memory"
	pgloader "github.com/Nihil96/quiz-app/internal/infra/postgres"
	redisinfra "github.com/Nihil96/quiz-app/internal/infra/redis"
	transport "github.com/Nihil96/quiz-app/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CountryLoader = memory.NewStaticCountryLoader(sampleCountries())
	if pool != nil {
		loader = pgloader.NewCountryLoader(pool)
	}

	countriesTTL := config.TTLDuration(cfg.Quiz.CountriesTTL, 10*time.Minute)
	var countries app.CountryRepository
	if redisClient != nil {
		countries = redisinfra.NewCountryRepository(redisClient, loader, countriesTTL)
	} else {
		countries = memory.NewCountryRepository(loader, countriesTTL)
	}

	var board app.LeaderboardStore
	if redisClient != nil {
		board = redisinfra.NewLeaderboardStore(redisClient, cfg.LeaderboardKey())
	} else {
		board = memory.NewLeaderboardStore(cfg.LeaderboardKey())
	}

	service := app.NewQuizService(memory.NewRunStore(), countries, board)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCountries provides a minimal dataset so the service runs without
// Postgres; seed the countries table for the full dataset.
func sampleCountries() []domain.Country {
	return []domain.Country{
		{Name: "France", Capital: "Paris", Continent: domain.Continent{Name: "Europe"}, Languages: []domain.Language{{Name: "French"}}},
		{Name: "Germany", Capital: "Berlin", Continent: domain.Continent{Name: "Europe"}, Languages: []domain.Language{{Name: "German"}}},
		{Name: "Japan", Capital: "Tokyo", Continent: domain.Continent{Name: "Asia"}, Languages: []domain.Language{{Name: "Japanese"}}},
		{Name: "Brazil", Capital: "Brasília", Continent: domain.Continent{Name: "South America"}, Languages: []domain.Language{{Name: "Portuguese"}}},
		{Name: "Egypt", Capital: "Cairo", Continent: domain.Continent{Name: "Africa"}, Languages: []domain.Language{{Name: "Arabic"}}},
		{Name: "Canada", Capital: "Ottawa", Continent: domain.Continent{Name: "North America"}, Languages: []domain.Language{{Name: "English"}, {Name: "French"}}},
		{Name: "Australia", Capital: "Canberra", Continent: domain.Continent{Name: "Oceania"}, Languages: []domain.Language{{Name: "English"}}},
		{Name: "Kenya", Capital: "Nairobi", Continent: domain.Continent{Name: "Africa"}, Languages: []domain.Language{{Name: "Swahili"}, {Name: "English"}}},
		{Name: "Peru", Capital: "Lima", Continent: domain.Continent{Name: "South America"}, Languages: []domain.Language{{Name: "Spanish"}}},
		{Name: "Thailand", Capital: "Bangkok", Continent: domain.Continent{Name: "Asia"}, Languages: []domain.Language{{Name: "Thai"}}},
		{Name: "Norway", Capital: "Oslo", Continent: domain.Continent{Name: "Europe"}, Languages: []domain.Language{{Name: "Norwegian"}}},
		{Name: "Mexico", Capital: "Mexico City", Continent: domain.Continent{Name: "North America"}, Languages: []domain.Language{{Name: "Spanish"}}},
	}
}
