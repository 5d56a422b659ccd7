package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/application/reservation"
	"github.com/londor/les-inventario/internal/application/usecase"
	infracache "github.com/londor/les-inventario/internal/infrastructure/cache"
	"github.com/londor/les-inventario/internal/infrastructure/events"
	"github.com/londor/les-inventario/internal/infrastructure/export"
	"github.com/londor/les-inventario/internal/infrastructure/memory"
	"github.com/londor/les-inventario/internal/infrastructure/metrics"
	infrapdf "github.com/londor/les-inventario/internal/infrastructure/pdf"
	"github.com/londor/les-inventario/internal/infrastructure/postgres"
	httpRouter "github.com/londor/les-inventario/internal/interfaces/http"
	"github.com/londor/les-inventario/pkg/config"
	"github.com/londor/les-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage agrupa el TxRunner y los repositorios de lectura fuera de transacción.
type storage struct {
	txRunner inventory.TxRunner
	repos    inventory.TxRepositories
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	cache := infracache.New(ctx, cfg.Redis, log)
	if closer, ok := cache.(io.Closer); ok {
		defer closer.Close()
	}

	var publisher inventory.MovementPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka)
		defer kp.Close()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.MovementsTopic).Msg("publicación de movimientos en Kafka")
	}

	var (
		observer inventory.MovementObserver
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		observer = metrics.NewMovementMetrics(reg)
		gatherer = reg
	}

	recorder := inventory.NewRecordMovementUseCase(store.txRunner, publisher, observer, log)
	registry := inventory.NewMovementTypeRegistryUseCase(
		store.txRunner, store.repos.MovementTypes,
		infracache.NewMovementTypeCache(cache, cfg.Redis.TTL), log,
	)
	history := inventory.NewHistoryUseCase(
		store.repos.Items, store.repos.Movements, store.repos.MovementTypes,
		store.repos.Locations, store.repos.Statuses,
	)
	items := inventory.NewItemUseCase(store.txRunner, store.repos.Items, recorder, inventory.ItemConfig{
		CodePrefix: cfg.Items.CodePrefix,
		QRBaseURL:  cfg.Items.QRBaseURL,
	})
	catalog := usecase.NewCatalogUseCase(store.repos.Locations, store.repos.Statuses)
	reservations := reservation.NewUseCase(store.txRunner, store.repos.Reservations, recorder, log)
	masterData := usecase.NewMasterDataUseCase(store.txRunner, store.repos)

	if err := registry.EnsureSeeded(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrar tipos de movimiento")
	}
	if err := catalog.EnsureDefaultStatuses(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrar estados operativos")
	}
	if err := masterData.EnsureDefaultCategories(ctx); err != nil {
		log.Fatal().Err(err).Msg("sembrar categorías")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "LES Inventario API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Recorder:     recorder,
		Registry:     registry,
		History:      history,
		Items:        items,
		Catalog:      catalog,
		MasterData:   masterData,
		Reservations: reservations,
		XLSX:         export.NewXLSXRenderer(),
		PDF:          infrapdf.NewTraceabilityRenderer(cfg.App.Name),
		Gatherer:     gatherer,
		JWTSecret:    cfg.JWT.Secret,
		ServiceName:  cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.App.Storage == config.StorageMemory {
		s := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return storage{
			txRunner: s,
			repos:    s.Repositories(),
			close:    func() {},
		}
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return storage{
		txRunner: postgres.NewTxRunner(pool, cfg.DB.MaxRetries, log),
		repos:    postgres.NewRepositories(pool),
		close:    pool.Close,
	}
}
