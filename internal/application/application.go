package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"price_tracker/internal/config"
	"price_tracker/internal/domain/service/tracking"
	"price_tracker/internal/infrastructure/notifier"
	"price_tracker/internal/infrastructure/persistence"
	"price_tracker/internal/infrastructure/shop"
	"price_tracker/internal/server"
	"price_tracker/internal/transport/bot"
	"price_tracker/internal/transport/bot/handler"
	"price_tracker/internal/worker"
	"price_tracker/pkg/application/connectors"
	"price_tracker/pkg/application/modules"
	"price_tracker/pkg/contextx"
	"price_tracker/pkg/httpx"
	"price_tracker/pkg/logx"
)

const httpServerReadHeaderTimeout = 5 * time.Second

// Run wires the tracker together and blocks until ctx is cancelled or one of
// the components fails.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx = contextx.WithLogger(ctx, log.With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	))

	loc := cfg.Tracker.Location()
	now := func() time.Time { return time.Now().In(loc) }

	// 1. Storage
	blobs, closeBlobs, err := newBlobStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer closeBlobs(ctx)

	// 2. Shop
	shopHTTP := newShopHTTPClient(cfg.Shop)
	shopOpts := shop.Options{
		UserAgent:    cfg.Shop.UserAgent,
		NameCacheTTL: cfg.Shop.NameCacheTTL,
	}
	shopClient := shop.NewClient(shopHTTP, shopOpts)
	validator := shop.NewValidator(shopHTTP, cfg.Shop.URLPrefix, shopOpts)

	// 3. Tracking
	store := tracking.NewStore(blobs, validator, shopClient).WithClock(now)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("store.Load: %w", err)
	}

	engine := tracking.NewEngine(store, shopClient).
		WithStaleThreshold(cfg.Tracker.StaleThreshold).
		WithClock(now)
	svc := tracking.NewService(store, cfg.Tracker.StaleThreshold)

	// 4. Telegram
	tgBot, err := telego.NewBot(cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("telego.NewBot: %w", err)
	}

	alertBot := notifier.NewTelegramBot(tgBot, cfg.Bot.ChatID)
	commands := bot.New(tgBot, handler.New(svc).WithClock(now), cfg.Bot.AllowedChats)

	// 5. Scheduler
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracker := worker.NewPriceTracker(engine, alertBot, store).
		WithInterval(cfg.Tracker.PollInterval).
		WithMetrics(worker.NewMetrics(registry))

	// 6. Run
	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Servers.ProbeListenAddress,
		Ready:         tracker.IsRunning,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Servers.MetricsListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	modules.HTTPServer{
		ListenAddress: cfg.Servers.HTTPListenAddress,
		Handler: server.NewRouter(
			server.NewServer(server.NewItemsServer(svc)),
			contextx.LoggerFromContextOrDefault(ctx),
			cfg.Servers.HTTPLogFieldMaxLen,
		),
		ShutdownTimeout:   cfg.Servers.HTTPShutdownTimeout,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
	}.Run(ctx, g)

	g.Go(func() error {
		return commands.Run(ctx)
	})

	g.Go(func() error {
		if err := tracker.Start(ctx); err != nil {
			return fmt.Errorf("tracker.Start: %w", err)
		}

		<-ctx.Done()
		tracker.Stop()

		return nil
	})

	log.Info("application started",
		slog.Int(logx.FieldItems, store.Len()),
		slog.String(logx.FieldBackend, cfg.Storage.Backend),
	)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func newShopHTTPClient(cfg config.Shop) *http.Client {
	return &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: httpx.NewLoggingRoundTripper(
			http.DefaultTransport,
			httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			httpx.WithLogFieldMaxLen(cfg.LogFieldMaxLen),
		),
	}
}

func newBlobStorage(ctx context.Context, cfg config.Config) (tracking.BlobStorage, func(context.Context), error) {
	noop := func(context.Context) {}

	switch cfg.Storage.Backend {
	case persistence.BackendMemory:
		logger(ctx).Warn("memory storage: tracked items are lost on restart")
		return persistence.NewMemoryBlobs(), noop, nil

	case persistence.BackendRedis:
		conn := &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}

		client, err := conn.Client(ctx)
		if err != nil {
			return nil, noop, err
		}

		return persistence.NewRedisBlobs(client, cfg.Storage.RedisPrefix), conn.Close, nil

	case persistence.BackendPostgres:
		conn := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}

		db, err := conn.Client(ctx)
		if err != nil {
			return nil, noop, err
		}

		blobs := persistence.NewPostgresBlobs(db)
		if err := blobs.EnsureSchema(ctx); err != nil {
			conn.Close(ctx)
			return nil, noop, err
		}

		return blobs, conn.Close, nil

	default:
		blobs, err := persistence.NewFileBlobs(cfg.Storage.Dir)
		if err != nil {
			return nil, noop, err
		}

		return blobs, noop, nil
	}
}
