// Command server runs the chancery decree service: the HTTP API over the
// sacramental register, the decree engine, and the diocese-wide read views.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"chancery/internal/audit"
	concepthandler "chancery/internal/concept/handler"
	conceptservice "chancery/internal/concept/service"
	conceptstore "chancery/internal/concept/store"
	decreehandler "chancery/internal/decree/handler"
	decreemetrics "chancery/internal/decree/metrics"
	decreeservice "chancery/internal/decree/service"
	decreestore "chancery/internal/decree/store"
	diocesehandler "chancery/internal/diocese/handler"
	dioceseservice "chancery/internal/diocese/service"
	httpapi "chancery/internal/http"
	"chancery/internal/jwtauth"
	"chancery/internal/notify"
	parishhandler "chancery/internal/parish/handler"
	parishservice "chancery/internal/parish/service"
	parishstore "chancery/internal/parish/store"
	"chancery/internal/platform/config"
	"chancery/internal/platform/httpserver"
	"chancery/internal/platform/logger"
	platformmetrics "chancery/internal/platform/metrics"
	platformredis "chancery/internal/platform/redis"
	recordhandler "chancery/internal/record/handler"
	recordservice "chancery/internal/record/service"
	recordstore "chancery/internal/record/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage backend. Memory keeps a single-office deployment dependency
	// free; postgres is for the shared diocesan installation.
	var (
		db           *sql.DB
		records      decreeservice.RecordStore
		corrections  decreeservice.CorrectionStore
		replacements decreeservice.ReplacementStore
		concepts     conceptservice.ConceptStore
		parishes     parishservice.ParishStore
		engineOpts   []decreeservice.Option
	)
	switch cfg.StoreBackend {
	case "postgres":
		var err error
		db, err = sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		if err := db.PingContext(ctx); err != nil {
			log.Error("failed to reach postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		records = recordstore.NewPostgres(db)
		corrections = decreestore.NewCorrectionPostgres(db)
		replacements = decreestore.NewReplacementPostgres(db)
		concepts = conceptstore.NewPostgres(db)
		parishes = parishstore.NewPostgres(db)
		engineOpts = append(engineOpts, decreeservice.WithStoreTx(decreeservice.NewPostgresStoreTx(db)))
	default:
		records = recordstore.NewInMemory()
		corrections = decreestore.NewCorrectionInMemory()
		replacements = decreestore.NewReplacementInMemory()
		concepts = conceptstore.NewInMemory()
		parishes = parishstore.NewInMemory()
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var dispatcher notify.Dispatcher
	if len(cfg.Kafka.Seeds) > 0 {
		kafka, err := notify.NewKafkaDispatcher(cfg.Kafka.Seeds, cfg.Kafka.Topic, log)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := kafka.Close(flushCtx); err != nil {
				log.Warn("kafka close failed", "error", err)
			}
		}()
		dispatcher = kafka
	} else {
		dispatcher = notify.NewInMemory()
	}

	auditTrail := audit.NewPublisher(audit.NewInMemoryStore())

	registry := conceptservice.NewRegistry(concepts,
		conceptservice.WithLogger(log),
		conceptservice.WithReferenceCounter(decreeservice.NewConceptReferences(corrections, replacements)),
	)
	engine := decreeservice.NewEngine(records, corrections, replacements, registry,
		append(engineOpts,
			decreeservice.WithLogger(log),
			decreeservice.WithDispatcher(dispatcher),
			decreeservice.WithAuditor(auditTrail),
			decreeservice.WithMetrics(decreemetrics.New()),
		)...)
	directory := parishservice.NewDirectory(parishes, parishservice.WithLogger(log))
	ledger := recordservice.NewLedger(records,
		recordservice.WithLogger(log),
		recordservice.WithReplacementLookup(replacements),
	)
	aggregator := dioceseservice.NewAggregator(directory, engine,
		dioceseservice.WithLogger(log),
		dioceseservice.WithCache(dioceseservice.NewRedisCache(redisClient), config.AggregationCacheTTL),
	)

	router := httpapi.NewRouter(httpapi.Options{
		Logger:     log,
		Metrics:    platformmetrics.New(),
		Validator:  jwtauth.NewValidator(cfg.JWTSigningKey),
		AdminToken: cfg.AdminToken,
		Records:    recordhandler.New(ledger, log),
		Decrees:    decreehandler.New(engine, log),
		Diocese:    diocesehandler.New(aggregator),
		Parishes:   parishhandler.New(directory, log),
		Concepts:   concepthandler.New(registry, log),
		Health: func() error {
			if db != nil {
				if err := db.Ping(); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting chancery server", "addr", cfg.Addr, "store", cfg.StoreBackend)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
