package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ordercore/api"
	apicustomer "ordercore/api/customer"
	"ordercore/api/health"
	apiorder "ordercore/api/order"
	apiproduct "ordercore/api/product"
	customerapp "ordercore/application/customer"
	orderapp "ordercore/application/order"
	productapp "ordercore/application/product"
	"ordercore/config"
	"ordercore/domain/customer"
	"ordercore/domain/discount"
	"ordercore/domain/inventory"
	"ordercore/domain/order"
	"ordercore/domain/product"
	"ordercore/domain/shared"
	"ordercore/infrastructure/messaging/kafka"
	"ordercore/infrastructure/notification"
	"ordercore/infrastructure/observability"
	"ordercore/infrastructure/persistence/memory"
	"ordercore/infrastructure/persistence/mysql"
	"ordercore/infrastructure/persistence/postgres"
	"ordercore/infrastructure/persistence/retry"
	"ordercore/pkg/logger"
	"ordercore/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder assembles the App from the configuration. Everything it opens
// is registered as a closer on the App, closed in reverse order.
type AppBuilder struct {
	cfg      *config.Config
	registry *prometheus.Registry
	clock    discount.Clock

	closers []closer
	checks  map[string]health.Checker
	metrics *metrics.Metrics
	broker  kafka.Writer
	db      *gorm.DB
}

type closer struct {
	name string
	fn   func(ctx context.Context) error
}

func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{
		cfg:    cfg,
		checks: make(map[string]health.Checker),
	}
}

// WithRegistry replaces the registry the collectors are registered on.
func (b *AppBuilder) WithRegistry(reg *prometheus.Registry) *AppBuilder {
	b.registry = reg
	return b
}

// WithClock fixes the date the seasonal discount is computed for.
func (b *AppBuilder) WithClock(clock discount.Clock) *AppBuilder {
	b.clock = clock
	return b
}

type storage struct {
	orders    order.Repository
	products  product.Repository
	customers customer.Repository
	uows      shared.UnitOfWorkFactory
}

// Build wires the service. On error everything opened so far is closed.
func (b *AppBuilder) Build(ctx context.Context) (app *App, err error) {
	defer func() {
		if err != nil {
			closeAll(context.Background(), b.closers)
		}
	}()

	logger.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env))

	shutdownTracing, err := observability.SetupTracing(ctx, b.cfg.Tracing, b.cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	b.addCloser("tracing", shutdownTracing)

	var metricsHandler http.Handler
	if b.cfg.Metrics.Enabled {
		reg := b.registry
		if reg == nil {
			reg = prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}
		b.metrics = metrics.New(reg)
		metricsHandler = metrics.Handler(reg)
	}

	var relay shared.DomainEventPublisher
	if b.cfg.Kafka.Enabled {
		writer := kafka.NewWriter(b.cfg.Kafka)
		b.broker = writer
		b.addCloser("kafka", func(context.Context) error { return writer.Close() })
		relay = kafka.NewEventPublisher(writer)
		logger.Info("Publishing events to Kafka",
			zap.Strings("brokers", b.cfg.Kafka.Brokers),
			zap.String("topic", b.cfg.Kafka.Topic))
	}
	bus, err := newEventBus(logger.Get().Named("events"), relay)
	if err != nil {
		return nil, err
	}

	store, err := b.initStorage(bus)
	if err != nil {
		return nil, err
	}

	reservations, err := b.initReservations(ctx)
	if err != nil {
		return nil, err
	}

	ledger := inventory.NewLedger(store.products, reservations)
	orderService := orderapp.NewApplicationService(orderapp.Dependencies{
		Orders:            store.orders,
		Products:          store.products,
		Customers:         store.customers,
		Ledger:            ledger,
		Inventory:         inventory.NewService(store.products, bus, logger.Get().Named("inventory")),
		Discounts:         discount.NewService(b.clock),
		UnitOfWork:        store.uows,
		Notifier:          notification.NewLoggingNotifier(logger.Get(), b.metrics),
		LowStockThreshold: b.cfg.Inventory.LowStockThreshold,
		Logger:            logger.Get(),
	})
	productService := productapp.NewApplicationService(store.products, reservations, store.uows)
	customerService := customerapp.NewApplicationService(store.customers, store.uows)

	router := api.NewRouter(b.cfg, api.Controllers{
		Health:   health.NewController(b.cfg, b.checks),
		Order:    apiorder.NewController(orderService),
		Product:  apiproduct.NewController(productService),
		Customer: apicustomer.NewController(customerService),
	}, b.metrics, metricsHandler)
	router.SetupRoutes()

	var worker *mysql.OutboxWorker
	if b.cfg.Worker.Enabled {
		if worker, err = b.newOutboxWorker(); err != nil {
			return nil, err
		}
	}

	return &App{
		config: b.cfg,
		router: router,
		server: &http.Server{
			Addr:         ":" + b.cfg.Server.Port,
			Handler:      router.Engine(),
			ReadTimeout:  b.cfg.Server.ReadTimeout,
			WriteTimeout: b.cfg.Server.WriteTimeout,
		},
		worker:  worker,
		closers: b.closers,
	}, nil
}

func (b *AppBuilder) initStorage(bus *shared.EventBus) (*storage, error) {
	if b.cfg.Database.Type != "mysql" {
		logger.Info("Using in-memory persistence layer")
		s := memory.NewStore()
		return &storage{
			orders:    memory.NewOrderRepository(s),
			products:  memory.NewProductRepository(s),
			customers: memory.NewCustomerRepository(s),
			uows:      memory.NewUnitOfWorkFactory(s, bus, logger.Get().Named("uow")),
		}, nil
	}

	logger.Info("Using MySQL/GORM persistence layer")
	db, err := mysql.FromAppConfig(b.cfg.Database).Connect()
	if err != nil {
		return nil, err
	}
	b.db = db
	b.addCloser("mysql", func(context.Context) error { return mysql.Close(db) })

	if err := mysql.Ping(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}
	if b.cfg.Database.AutoMigrate {
		if err := mysql.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
	}
	b.checks["database"] = func(ctx context.Context) error { return mysql.Ping(ctx, db) }

	return &storage{
		orders:    mysql.NewOrderRepository(db),
		products:  mysql.NewProductRepository(db),
		customers: mysql.NewCustomerRepository(db),
		uows:      mysql.NewUnitOfWorkFactory(db, retry.FromAppConfig(b.cfg.Database.Retry)),
	}, nil
}

func (b *AppBuilder) initReservations(ctx context.Context) (inventory.ReservationStore, error) {
	var store inventory.ReservationStore
	switch b.cfg.Reservation.Store {
	case "postgres":
		pool, err := postgres.Connect(ctx, b.cfg.Reservation.PostgresDSN)
		if err != nil {
			return nil, err
		}
		b.addCloser("postgres", func(context.Context) error { pool.Close(); return nil })

		pg := postgres.NewReservationStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to create reservation schema: %w", err)
		}
		b.checks["reservations"] = pool.Ping
		store = pg
		logger.Info("Using PostgreSQL reservation store")
	default:
		store = memory.NewReservationStore()
		logger.Info("Using in-memory reservation store")
	}

	if b.metrics != nil {
		return observability.NewInstrumentedReservationStore(store, b.metrics), nil
	}
	return store, nil
}

// newOutboxWorker relays to Kafka when it is configured and to the log
// otherwise.
func (b *AppBuilder) newOutboxWorker() (*mysql.OutboxWorker, error) {
	if b.db == nil {
		return nil, errors.New("the outbox worker needs the MySQL store")
	}
	return NewOutboxWorker(b.cfg, b.db, b.broker, b.metrics)
}

// NewOutboxWorker builds the relay shared by the server and cmd/worker.
// broker and m may be nil.
func NewOutboxWorker(cfg *config.Config, db *gorm.DB, broker kafka.Writer, m *metrics.Metrics) (*mysql.OutboxWorker, error) {
	var publisher mysql.OutboxPublisher = &mysql.LoggingOutboxPublisher{Log: logger.Get().Named("outbox")}
	if broker != nil {
		publisher = kafka.NewOutboxPublisher(broker)
	}
	return mysql.NewOutboxWorker(
		mysql.NewOutboxRepository(db),
		publisher,
		mysql.OutboxWorkerConfig{
			PollInterval: cfg.Worker.PollInterval,
			BatchSize:    cfg.Worker.BatchSize,
			MaxRetries:   cfg.Worker.MaxRetries,
		},
		logger.Get(),
		m,
	)
}

func (b *AppBuilder) addCloser(name string, fn func(ctx context.Context) error) {
	b.closers = append(b.closers, closer{name: name, fn: fn})
}

func closeAll(ctx context.Context, closers []closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].fn(ctx); err != nil {
			logger.Warn("Failed to close resource", zap.String("resource", closers[i].name), zap.Error(err))
		}
	}
}
