package postgres

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// advisory lock para que dos instancias no migren a la vez
const migrationLockKey = 7462839

// Migration archivo SQL versionado (NNN_descripcion.sql).
type Migration struct {
	Version  string
	Filename string
	SQL      string
	Checksum string
}

// Migrations devuelve las migraciones embebidas ordenadas por nombre.
func Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("leer migraciones: %w", err)
	}
	seen := map[string]bool{}
	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, _, ok := strings.Cut(e.Name(), "_")
		if !ok {
			return nil, fmt.Errorf("nombre de migración inválido %q: se espera NNN_descripcion.sql", e.Name())
		}
		if seen[version] {
			return nil, fmt.Errorf("versión de migración duplicada: %s", version)
		}
		seen[version] = true
		body, err := migrationFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256(body)
		out = append(out, Migration{Version: version, Filename: e.Name(), SQL: string(body), Checksum: hex.EncodeToString(sum[:])})
	}
	slices.SortFunc(out, func(a, b Migration) int { return strings.Compare(a.Filename, b.Filename) })
	return out, nil
}

// Migrate aplica las migraciones pendientes, cada una en su propia transacción.
// Una migración ya aplicada con checksum distinto es un error.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) (applied int, err error) {
	migrations, err := Migrations()
	if err != nil {
		return 0, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("adquirir conexión: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return 0, fmt.Errorf("lock de migración: %w", err)
	}
	defer func() { _, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey) }()

	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			filename   TEXT NOT NULL,
			checksum   TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return 0, fmt.Errorf("crear schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var existing string
		err := conn.QueryRow(ctx, `SELECT checksum FROM schema_migrations WHERE version = $1`, m.Version).Scan(&existing)
		switch {
		case err == nil:
			if existing != m.Checksum {
				return applied, fmt.Errorf("checksum distinto en %s: registrado %s, actual %s", m.Filename, existing, m.Checksum)
			}
			log.Debug().Str("migration", m.Filename).Msg("migración ya aplicada")
			continue
		case !errors.Is(err, pgx.ErrNoRows):
			return applied, fmt.Errorf("consultar schema_migrations: %w", err)
		}

		if err := applyMigration(ctx, conn.Conn(), m); err != nil {
			return applied, err
		}
		applied++
		log.Info().Str("migration", m.Filename).Msg("migración aplicada")
	}
	return applied, nil
}

func applyMigration(ctx context.Context, conn *pgx.Conn, m Migration) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", m.Filename, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return fmt.Errorf("ejecutar %s: %w", m.Filename, err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, filename, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Filename, m.Checksum); err != nil {
		return fmt.Errorf("registrar %s: %w", m.Filename, err)
	}
	return tx.Commit(ctx)
}
