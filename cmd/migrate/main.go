// Aplica las migraciones embebidas contra la base configurada.
//
// Uso:
//
//	migrate up    Aplica todas las migraciones pendientes
//	migrate down  Revierte la última migración
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Traslados-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Traslados-api/pkg/config"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}
	dsn := cfg.DB.ConnectionString()

	switch direction {
	case "up":
		err = postgres.Migrate(dsn)
	case "down":
		err = postgres.MigrateDown(dsn)
	default:
		fmt.Fprintf(os.Stderr, "dirección desconocida %q (use up|down)\n", direction)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "migración:", err)
		os.Exit(1)
	}
	fmt.Println("migración", direction, "aplicada")
}
