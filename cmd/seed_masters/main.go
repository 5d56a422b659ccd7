// seed_masters carga el maestro de ubicaciones a partir de un CSV exportado del back-office
// y siembra los estados operativos, las categorías base y los tipos de movimiento estándar.
//
// Uso: go run ./cmd/seed_masters [ruta/ubicaciones.csv]
// Por defecto busca ubicaciones.csv en el directorio actual.
// Formato: id;nombre;tipo;dirección (cabecera opcional). Acepta UTF-8 o ISO-8859-1.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/londor/les-inventario/internal/application/inventory"
	"github.com/londor/les-inventario/internal/domain/entity"
	"github.com/londor/les-inventario/internal/infrastructure/postgres"
	"github.com/londor/les-inventario/pkg/config"
	"github.com/londor/les-inventario/pkg/logger"
)

func main() {
	csvPath := "ubicaciones.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	now := time.Now().UTC()
	locations, err := parseLocations(raw, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	runner := postgres.NewTxRunner(pool, cfg.DB.MaxRetries, logger.Nop())
	err = runner.Run(ctx, func(repos inventory.TxRepositories) error {
		if err := repos.MovementTypes.InsertMissing(ctx, entity.BuiltinMovementTypes(now)); err != nil {
			return err
		}
		if err := repos.Statuses.InsertMissing(ctx, entity.DefaultOperationalStatuses(now)); err != nil {
			return err
		}
		if err := repos.Categories.InsertMissing(ctx, entity.DefaultCategories(now)); err != nil {
			return err
		}
		for _, l := range locations {
			if err := repos.Locations.Upsert(ctx, l); err != nil {
				return fmt.Errorf("ubicación %s: %w", l.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar maestros: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Cargadas %d ubicaciones desde %s\n", len(locations), csvPath)
}
