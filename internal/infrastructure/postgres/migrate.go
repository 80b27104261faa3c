package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/Traslados-api/migrations"
)

// Migrate aplica las migraciones embebidas pendientes (goose up).
func Migrate(dsn string) error {
	db, err := openForMigrations(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// MigrateDown revierte la última migración aplicada (goose down).
func MigrateDown(dsn string) error {
	db, err := openForMigrations(dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := goose.Down(db, "."); err != nil {
		return fmt.Errorf("rollback migration: %w", err)
	}
	return nil
}

// openForMigrations abre una conexión database/sql (driver pgx stdlib):
// goose trabaja sobre *sql.DB, no sobre el pool pgx nativo.
func openForMigrations(dsn string) (*sql.DB, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration connection: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping migration connection: %w", err)
	}
	return db, nil
}
