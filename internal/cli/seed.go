package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"

	"survey-service/internal/app"
	"survey-service/internal/config"
	"survey-service/internal/infra/memory"
	pgstore "survey-service/internal/infra/postgres"
	qrimg "survey-service/internal/infra/qrcode"
	"survey-service/internal/infra/xlsx"
	"survey-service/internal/seed"
)

// NewSeedCmd creates the built-in surveys that are not present yet.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the built-in evaluation surveys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := pgstore.NewStore(pool)
	reports := memory.NewReportCache(app.NewReportComputer(store), time.Minute)
	service := app.NewSurveyService(store, reports, xlsx.NewEncoder(), qrimg.NewEncoder(), cfg.Public.BaseURL)

	created, err := service.EnsureSurveys(ctx, seed.DefaultSurveys())
	if err != nil {
		return err
	}
	log.Printf("seeded %d survey(s)", created)
	return nil
}
