package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"survey-service/internal/app"
	"survey-service/internal/domain"
	pgstore "survey-service/internal/infra/postgres"
	pgmigrations "survey-service/internal/infra/postgres/migrations"
	qrimg "survey-service/internal/infra/qrcode"
	infraredis "survey-service/internal/infra/redis"
	"survey-service/internal/infra/xlsx"
)

func TestSurveyEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	store := pgstore.NewStore(pool)
	reports := infraredis.NewReportCache(redisClient, app.NewReportComputer(store), time.Minute)
	service := app.NewSurveyService(store, reports, xlsx.NewEncoder(), qrimg.NewEncoder(), "https://surveys.example.com")

	survey, err := service.Create(ctx, app.SurveyDraft{
		Title:       "Event feedback",
		Description: "How did it go?",
		Segments: []app.SegmentDraft{
			{Title: "Organisation", Questions: []app.QuestionDraft{
				{Text: "Venue?"},
				{Text: "Catering?", RatingLabels: []string{"Bad", "Poor", "OK", "Good", "Great"}},
			}},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := service.Get(ctx, survey.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Segments) != 1 || len(loaded.Segments[0].Questions) != 2 {
		t.Fatalf("unexpected survey tree %+v", loaded)
	}
	if labels := loaded.Segments[0].Questions[1].Labels(); labels[0] != "Bad" {
		t.Fatalf("expected labels persisted, got %v", labels)
	}

	q1 := loaded.Segments[0].Questions[0].ID
	q2 := loaded.Segments[0].Questions[1].ID

	if _, err := service.Submit(ctx, survey.ID, "Alice", "alice@example.com", []app.AnswerDraft{
		{QuestionID: q1, Rating: 4}, {QuestionID: q2, Rating: 5},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := service.Submit(ctx, survey.ID, "", "", []app.AnswerDraft{
		{QuestionID: q1, Rating: 2},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	report, err := service.Analytics(ctx, survey.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if report.TotalResponses != 2 {
		t.Fatalf("expected 2 responses, got %d", report.TotalResponses)
	}
	if report.OverallAverage != 3.67 {
		t.Fatalf("expected overall 3.67, got %v", report.OverallAverage)
	}

	// a third submission must invalidate the cached report
	if _, err := service.Submit(ctx, survey.ID, "", "", []app.AnswerDraft{
		{QuestionID: q1, Rating: 5},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	report, err = service.Analytics(ctx, survey.ID)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if report.TotalResponses != 3 {
		t.Fatalf("expected fresh report with 3 responses, got %d", report.TotalResponses)
	}

	name, data, err := service.Export(ctx, survey.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(name, "survey-"+survey.ID) {
		t.Fatalf("unexpected export %q (%d bytes)", name, len(data))
	}

	link, err := service.Link(ctx, survey.ID, "", 0)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if link.URL != "https://surveys.example.com/?form="+survey.ID {
		t.Fatalf("unexpected access url %q", link.URL)
	}

	if err := service.Delete(ctx, survey.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := service.Get(ctx, survey.ID); !errors.Is(err, domain.ErrSurveyNotFound) {
		t.Fatalf("expected survey gone, got %v", err)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "survey", "POSTGRES_PASSWORD": "surveypass", "POSTGRES_DB": "surveydb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://survey:surveypass@%s:%s/surveydb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
