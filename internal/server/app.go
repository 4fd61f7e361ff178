// Package server wires the LinkProof server together: storage, identity,
// receipts, notification and the HTTP and gRPC transports, and runs them
// until a shutdown signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/server/config"
	gs "github.com/dmitrijs2005/linkproof/internal/server/grpc"
	httptransport "github.com/dmitrijs2005/linkproof/internal/server/http"
	"github.com/dmitrijs2005/linkproof/internal/server/metrics"
	"github.com/dmitrijs2005/linkproof/internal/server/notify"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkproof/internal/server/revocation"
	"github.com/dmitrijs2005/linkproof/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	store          *repomanager.Store
	redis          *redis.Client
	metrics        *metrics.Metrics
	dispatcher     *notify.Dispatcher
	userService    *services.UserService
	receiptService *services.ReceiptService
}

// NewApp opens the store and builds every component. Optional backends
// (Redis, SMTP, S3) are used only when configured.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)
	m := metrics.New()

	store, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, store: store, metrics: m}

	revoked, err := app.initRevocation(ctx)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sinks, err := app.initSinks(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.dispatcher = notify.NewDispatcher(c.NotifyQueueSize, logger, m, sinks...)
	app.userService = services.NewUserService(store.DB, store.Manager, revoked, c)
	app.receiptService = services.NewReceiptService(store.DB, store.Manager, app.dispatcher, m, logger, c)

	return app, nil
}

func (app *App) initRevocation(ctx context.Context) (revocation.List, error) {
	if app.config.RedisURL == "" {
		app.logger.Warn(ctx, "redis not configured, token revocation is kept in memory")
		return revocation.NewMemoryList(), nil
	}
	client, err := revocation.NewRedisClient(ctx, app.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.redis = client
	return revocation.NewRedisList(client, app.metrics), nil
}

func (app *App) initSinks(ctx context.Context) ([]notify.Sink, error) {
	c := app.config
	sinks := []notify.Sink{notify.NewLogSink(app.logger)}

	if c.SMTPAddr != "" {
		email, err := notify.NewEmailSink(c.SMTPAddr, c.SMTPFrom, c.SMTPUser, c.SMTPPassword)
		if err != nil {
			return nil, fmt.Errorf("email sink init error: %w", err)
		}
		sinks = append(sinks, email)
	}

	if c.S3Bucket != "" {
		client, err := notify.NewS3Client(ctx, notify.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		sinks = append(sinks, notify.NewArchiveSink(client, c.S3Bucket))
	}

	return sinks, nil
}

// Close releases the store and the Redis client.
func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.store != nil {
		errs = append(errs, app.store.Close())
	}
	return errors.Join(errs...)
}

// Run serves HTTP and gRPC and runs the notification worker until ctx is
// cancelled or a termination signal arrives. The first component to fail
// stops the others.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...")

	h := httptransport.New(app.userService, app.receiptService, app.store, app.metrics, app.logger, app.config.MaxUploadSize)
	httpServer := httptransport.NewServer(app.config.EndpointAddrHTTP, h.Routes(), app.logger)
	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.receiptService, app.config.MaxUploadSize)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(ctx) })
	g.Go(func() error { return grpcServer.Run(ctx) })
	g.Go(func() error { return app.dispatcher.Run(ctx) })

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped", "error", err)
	return err
}
