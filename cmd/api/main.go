package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shareit/internal/api/http"
	"github.com/spec-kit/shareit/internal/api/http/handlers"
	"github.com/spec-kit/shareit/internal/config"
	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/observability"
	"github.com/spec-kit/shareit/internal/persistence"
	"github.com/spec-kit/shareit/internal/repository"
	"github.com/spec-kit/shareit/internal/repository/memory"
	"github.com/spec-kit/shareit/internal/service"
	"github.com/spec-kit/shareit/internal/worker"
)

type repositories struct {
	users    repository.UserRepository
	items    repository.ItemRepository
	bookings repository.BookingRepository
	requests repository.ItemRequestRepository
	comments repository.CommentRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(pg, logger)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	clock := service.SystemClock()

	notificationService := service.NewNotificationService(dispatcher, redis, metrics, logger)
	workerDone := worker.StartNotificationWorker(ctx, notificationService)

	userService := service.NewUserService(service.UserDependencies{
		UserRepo: repos.users,
		Logger:   logger,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		BookingRepo: repos.bookings,
		ItemRepo:    repos.items,
		UserRepo:    repos.users,
		Dispatcher:  dispatcher,
		Clock:       clock,
		Logger:      logger,
	})
	itemService := service.NewItemService(service.ItemDependencies{
		ItemRepo:    repos.items,
		UserRepo:    repos.users,
		RequestRepo: repos.requests,
		CommentRepo: repos.comments,
		Bookings:    bookingService,
		Dispatcher:  dispatcher,
		Clock:       clock,
		Logger:      logger,
	})
	commentService := service.NewCommentService(service.CommentDependencies{
		CommentRepo: repos.comments,
		ItemRepo:    repos.items,
		UserRepo:    repos.users,
		Bookings:    bookingService,
		Dispatcher:  dispatcher,
		Clock:       clock,
		Logger:      logger,
	})
	requestService := service.NewItemRequestService(service.ItemRequestDependencies{
		RequestRepo: repos.requests,
		ItemRepo:    repos.items,
		UserRepo:    repos.users,
		Dispatcher:  dispatcher,
		Clock:       clock,
		Logger:      logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), httptransport.NewRateLimiter(cfg.RateLimit))

	pageSize := cfg.Pagination.DefaultSize
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:    handlers.NewUsersHandler(userService),
		Items:    handlers.NewItemsHandler(itemService, commentService, pageSize),
		Bookings: handlers.NewBookingsHandler(bookingService, pageSize),
		Requests: handlers.NewRequestsHandler(requestService, pageSize),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	cancel()
	<-workerDone
}

// buildRepositories uses postgres when a pool is available and falls back to the in-memory store.
func buildRepositories(pg *persistence.Postgres, logger *zap.Logger) repositories {
	pool := pg.PoolHandle()
	if pool == nil {
		logger.Warn("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			users:    store.Users(),
			items:    store.Items(),
			bookings: store.Bookings(),
			requests: store.ItemRequests(),
			comments: store.Comments(),
		}
	}
	return repositories{
		users:    repository.NewUserRepository(pool),
		items:    repository.NewItemRepository(pool),
		bookings: repository.NewBookingRepository(pool),
		requests: repository.NewItemRequestRepository(pool),
		comments: repository.NewCommentRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
