package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"aduan/internal/identity"
	"aduan/internal/identity/store/revocation"
	"aduan/internal/identity/store/user"
	"aduan/internal/identity/token"
	"aduan/internal/platform/config"
	"aduan/internal/platform/httpserver"
	"aduan/internal/platform/logger"
	"aduan/internal/platform/postgres"
	redisplatform "aduan/internal/platform/redis"
	"aduan/internal/register"
	registermetrics "aduan/internal/register/metrics"
	"aduan/internal/session"
	sessionmetrics "aduan/internal/session/metrics"
	httptransport "aduan/internal/transport/http"
	"aduan/internal/view"
	viewmetrics "aduan/internal/view/metrics"
	audit "aduan/pkg/platform/audit"
	kafkasink "aduan/pkg/platform/audit/sink/kafka"
	auditmemory "aduan/pkg/platform/audit/store/memory"
	auditpostgres "aduan/pkg/platform/audit/store/postgres"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var users user.Store
	if db != nil {
		users = user.NewPostgres(db)
	} else {
		log.Warn("postgres not configured, accounts are in-memory only")
		users = user.New()
	}

	var revoked revocation.List
	if redisClient != nil {
		revoked = revocation.NewRedis(redisClient.Client)
	} else {
		revoked = revocation.NewInMemory()
	}

	var store audit.Store
	if db != nil {
		store = auditpostgres.New(db)
	} else {
		store = auditmemory.NewInMemoryStore()
	}

	publisherOpts := []audit.PublisherOption{
		audit.WithLogger(log),
		audit.WithAsyncBuffer(256),
	}
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := kafkasink.New(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			return err
		}
		publisherOpts = append(publisherOpts, audit.WithSink(sink))
	}
	// The publisher owns the sink and closes it on shutdown.
	publisher := audit.NewPublisher(store, publisherOpts...)
	defer publisher.Close()

	tokens := token.NewService(cfg.JWTSigningKey, "aduan", "aduan-portal")
	provider, err := identity.NewLocalProvider(users, tokens, revoked, identity.WithLogger(log))
	if err != nil {
		return err
	}

	gate, err := session.New(provider,
		session.WithLogger(log),
		session.WithMetrics(sessionmetrics.New()),
		session.WithAuditPublisher(publisher),
	)
	if err != nil {
		return err
	}
	if cfg.ResumeToken != "" {
		ident, err := provider.Resume(context.Background(), cfg.ResumeToken)
		if err != nil {
			log.Warn("stored session rejected, starting anonymous", "error", err)
			gate.ResolveAnonymous()
		} else {
			gate.ResolveAuthenticated(ident)
		}
	} else {
		gate.ResolveAnonymous()
	}

	views := view.NewRouter(gate, view.WithMetrics(viewmetrics.New()))
	flow := register.NewFlow(gate, views,
		register.WithLogger(log),
		register.WithMetrics(registermetrics.New()),
		register.WithRedirectDelay(cfg.RedirectDelay),
	)

	checks := map[string]httptransport.HealthChecker{}
	if db != nil {
		checks["postgres"] = pingChecker{db}
	}
	if redisClient != nil {
		checks["redis"] = redisClient
	}

	handler := httptransport.NewHandler(gate, flow, views, log,
		httptransport.WithAuditPublisher(publisher))
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, checks))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting aduan portal", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// pingChecker adapts *sql.DB to the transport health check.
type pingChecker struct {
	db *sql.DB
}

func (p pingChecker) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
