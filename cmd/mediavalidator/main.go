// Command mediavalidator runs the media-URL validation and repair
// worker: it wires the Firestore store, Redis queue, MinIO placeholder
// provider, and stdlib HTTP prober together and drives the validation
// worker loop until signaled to stop. Grounded on
// services/media-worker/cmd/worker/main.go's client-init-then-signal-
// wait shutdown shape.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	gofirestore "cloud.google.com/go/firestore"
	"github.com/go-redis/redis/v8"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/classify"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/clock"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/config"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/httpclient"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/placeholder"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/probe"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/queue/redisqueue"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/repair"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/report"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/scan"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/store/firestore"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/validate"
	"github.com/thurstjo-personal2023/luxury-yacht-booking-sub004/internal/worker"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("starting mediavalidator")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if !cfg.Enabled {
		log.Info().Msg("mediavalidator is disabled via config, exiting")
		return
	}

	ctx := context.Background()

	fsClient, err := newFirestoreClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create firestore client")
	}
	defer fsClient.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr(cfg.Redis.URL)})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	minioClient, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create minio client")
	}

	st := firestore.New(fsClient, cfg.ReportsCollection, cfg.RepairReportsCollection)
	q := redisqueue.New(redisClient)
	placeholders := placeholder.New(minioClient, cfg.MinIO.BucketPlaceholders)

	httpClient := httpclient.NewStdClient()
	prober := probe.New(httpClient, probe.Config{
		TimeoutMs:    cfg.ProbeTimeoutMs,
		MaxRedirects: cfg.MaxRedirects,
	})
	validator := validate.New(prober, clock.System{})
	docValidator := validate.NewDocumentValidator(st, validator, classify.LooksLikeMedia)
	scanner := scan.New(st, docValidator)
	aggregator := report.New(st, clock.System{}, clock.System{})

	plannerCfg := repair.Config{
		BaseURL:             cfg.BaseURL,
		PlaceholderImageURL: cfg.PlaceholderImageURL,
		PlaceholderVideoURL: cfg.PlaceholderVideoURL,
		Placeholders:        placeholders,
	}
	planner := repair.New(st, plannerCfg)
	executor := repair.NewExecutor(st)

	w := worker.New(
		q, st, scanner, aggregator, planner, executor,
		clock.System{}, clock.System{},
		worker.Config{
			ProcessingInterval:        time.Duration(cfg.ProcessingIntervalMs) * time.Millisecond,
			BatchSize:                 cfg.BatchSize,
			MaxConcurrentBatches:      cfg.MaxConcurrentBatches,
			DefaultIncludeCollections: []string{cfg.MediaCollection},
		},
		log.Logger,
	)

	w.Start(ctx)
	log.Info().Int("processing_interval_ms", cfg.ProcessingIntervalMs).Msg("mediavalidator worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down mediavalidator")
	w.Stop()
	log.Info().Msg("mediavalidator exited")
}

func newFirestoreClient(ctx context.Context, cfg *config.Config) (*gofirestore.Client, error) {
	if cfg.Firestore.CredentialsPath != "" {
		return gofirestore.NewClient(ctx, cfg.Firestore.ProjectID, option.WithCredentialsFile(cfg.Firestore.CredentialsPath))
	}
	return gofirestore.NewClient(ctx, cfg.Firestore.ProjectID)
}

// redisAddr extracts host:port from a redis:// URL, matching the
// teacher's own simple parse in media-worker/cmd/worker/main.go
// (loadConfig) rather than pulling in a URL-parsing dependency for one
// field.
func redisAddr(redisURL string) string {
	const prefix = "redis://"
	addr := redisURL
	if len(addr) > len(prefix) && addr[:len(prefix)] == prefix {
		addr = addr[len(prefix):]
	}
	for i, c := range addr {
		if c == '/' {
			return addr[:i]
		}
	}
	return addr
}
