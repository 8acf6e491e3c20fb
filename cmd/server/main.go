package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	accountmodels "finhabit/internal/account/models"
	accountstore "finhabit/internal/account/store"
	jwttoken "finhabit/internal/jwt_token"
	"finhabit/internal/mission/adapters"
	"finhabit/internal/mission/events"
	missionhandler "finhabit/internal/mission/handler"
	missionmetrics "finhabit/internal/mission/metrics"
	"finhabit/internal/mission/service"
	"finhabit/internal/mission/store/assignment"
	"finhabit/internal/mission/store/catalog"
	"finhabit/internal/platform/config"
	"finhabit/internal/platform/httpserver"
	"finhabit/internal/platform/logger"
	platformmetrics "finhabit/internal/platform/metrics"
	"finhabit/internal/platform/postgres"
	platformredis "finhabit/internal/platform/redis"
	httptransport "finhabit/internal/transport/http"
	id "finhabit/pkg/domain"
	"finhabit/pkg/platform/circuit"
	authmw "finhabit/pkg/platform/middleware/auth"
)

const shutdownTimeout = 10 * time.Second

// DemoUserID is provisioned in in-memory mode so the API is usable without a database.
var DemoUserID = id.UserID{0x6f, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e, 0x4f, 0x60, 0x81, 0x92, 0xa3, 0xb4, 0xc5, 0xd6, 0xe7, 0xf8}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "finhabit: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app, err := build(ctx, cfg, log, reg)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Addr, app.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting finhabit", "addr", cfg.Addr, "storage", app.storage)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// application is the wired object graph plus the resources main must release.
type application struct {
	router  http.Handler
	service *service.Service
	storage string
	closers []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

type stores struct {
	assignments service.AssignmentStore
	catalog     catalog.Source
	accounts    adapters.AccountStore
}

func build(ctx context.Context, cfg config.Server, log *slog.Logger, reg *prometheus.Registry) (*application, error) {
	app := &application{}
	health := map[string]httptransport.HealthCheck{}
	mMetrics := missionmetrics.NewWithRegisterer(reg)

	st, err := buildStores(ctx, cfg, log, app, health)
	if err != nil {
		app.close()
		return nil, err
	}

	cat, err := wrapCatalogCache(ctx, cfg, log, st.catalog, mMetrics, app, health)
	if err != nil {
		app.close()
		return nil, err
	}

	publisher, err := buildPublisher(ctx, cfg, log, app, health)
	if err != nil {
		app.close()
		return nil, err
	}

	app.service = service.New(
		st.assignments,
		cat,
		adapters.NewOwnerDirectory(st.accounts),
		service.WithLogger(log),
		service.WithMetrics(mMetrics),
		service.WithPublisher(publisher),
		service.WithLocation(cfg.Mission.Location),
	)

	jwtValidator := jwttoken.NewJWTServiceAdapter(
		jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience))

	app.router = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:      log,
		HTTPMetrics: platformmetrics.NewWithRegisterer(reg),
		Gatherer:    reg,
		Auth:        authmw.RequireAuth(jwtValidator, log),
		Health:      health,
		Modules:     []httptransport.RouteRegistrar{missionhandler.New(app.service, log)},
	})
	return app, nil
}

func buildStores(ctx context.Context, cfg config.Server, log *slog.Logger, app *application, health map[string]httptransport.HealthCheck) (stores, error) {
	if cfg.Database.URL == "" {
		app.storage = "memory"
		accounts := accountstore.NewInMemory()
		demo, err := accountmodels.NewUser(DemoUserID, "demo", 3, time.Now())
		if err != nil {
			return stores{}, err
		}
		if err := accounts.Save(ctx, demo); err != nil {
			return stores{}, err
		}
		log.Warn("DATABASE_URL not set; using in-memory stores with the seeded catalog",
			"demo_user_id", DemoUserID.String(),
		)
		return stores{
			assignments: assignment.NewInMemory(),
			catalog:     catalog.NewInMemory(catalog.SeedTemplates()...),
			accounts:    accounts,
		}, nil
	}

	app.storage = "postgres"
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return stores{}, err
	}
	app.closers = append(app.closers, func() { _ = db.Close() })
	health["postgres"] = db.PingContext

	if err := postgres.Migrate(ctx, db); err != nil {
		return stores{}, err
	}
	catalogStore := catalog.NewPostgres(db)
	if cfg.Database.SeedCatalog {
		if err := seedCatalog(ctx, catalogStore, log); err != nil {
			return stores{}, err
		}
	}
	return stores{
		assignments: assignment.NewPostgres(db),
		catalog:     catalogStore,
		accounts:    accountstore.NewPostgres(db),
	}, nil
}

func seedCatalog(ctx context.Context, w catalog.Writer, log *slog.Logger) error {
	added, err := catalog.Seed(ctx, w)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	log.Info("catalog seeded", "added", added)
	return nil
}

func wrapCatalogCache(
	ctx context.Context,
	cfg config.Server,
	log *slog.Logger,
	source catalog.Source,
	m *missionmetrics.Metrics,
	app *application,
	health map[string]httptransport.HealthCheck,
) (catalog.Source, error) {
	client, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return source, nil
	}
	app.closers = append(app.closers, func() { _ = client.Close() })
	health["redis"] = client.Health

	cached := catalog.NewCached(source, client.Client, cfg.Mission.CatalogCacheTTL,
		catalog.WithCacheLogger(log),
		catalog.WithCacheMetrics(m),
	)
	// Seeding may have changed the catalog behind entries left by a previous run.
	if err := cached.Invalidate(ctx); err != nil {
		log.Warn("catalog cache invalidation failed", "error", err)
	}
	return cached, nil
}

func buildPublisher(ctx context.Context, cfg config.Server, log *slog.Logger, app *application, health map[string]httptransport.HealthCheck) (service.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NewLogPublisher(log), nil
	}
	publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, events.WithKafkaLogger(log))
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, publisher.Close)
	if err := publisher.EnsureTopic(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
		return nil, err
	}
	health["kafka"] = publisher.Ping
	return events.NewGuardedPublisher(publisher, circuit.New("mission-events"), log), nil
}
