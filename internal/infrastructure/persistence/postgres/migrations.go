package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Migration represents a single schema migration.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// migrations is the ordered list of schema migrations. Versions are applied
// in ascending order and recorded in schema_migrations.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_students",
		UpSQL: `
			CREATE TABLE IF NOT EXISTS students (
				admission_no   TEXT PRIMARY KEY,
				name           TEXT NOT NULL,
				father_name    TEXT NOT NULL DEFAULT '',
				class          TEXT NOT NULL DEFAULT '',
				mobile         TEXT NOT NULL DEFAULT '',
				fee_per_month  NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (fee_per_month >= 0),
				discount       NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (discount >= 0),
				admission_date DATE NOT NULL,
				active         BOOLEAN NOT NULL DEFAULT TRUE,
				created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_students_name ON students (LOWER(name));
			CREATE INDEX IF NOT EXISTS idx_students_class ON students (class);
		`,
		DownSQL: `DROP TABLE IF EXISTS students;`,
	},
	{
		Version: 2,
		Name:    "create_admission_sequences",
		UpSQL: `
			CREATE TABLE IF NOT EXISTS admission_sequences (
				year       INTEGER PRIMARY KEY,
				last_value INTEGER NOT NULL DEFAULT 0
			);
		`,
		DownSQL: `DROP TABLE IF EXISTS admission_sequences;`,
	},
	{
		Version: 3,
		Name:    "create_fee_obligations",
		UpSQL: `
			CREATE TABLE IF NOT EXISTS fee_obligations (
				id           UUID PRIMARY KEY,
				admission_no TEXT NOT NULL REFERENCES students(admission_no) ON DELETE CASCADE,
				month        INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
				year         INTEGER NOT NULL CHECK (year >= 1900),
				amount_due   NUMERIC(10,2) NOT NULL CHECK (amount_due >= 0),
				paid         BOOLEAN NOT NULL DEFAULT FALSE,
				payment_date DATE,
				payment_mode TEXT,
				remarks      TEXT NOT NULL DEFAULT '',
				created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),

				CONSTRAINT uq_fee_obligations_period UNIQUE (admission_no, year, month),
				CONSTRAINT ck_fee_obligations_payment CHECK (
					(paid AND payment_date IS NOT NULL AND payment_mode IS NOT NULL)
					OR (NOT paid AND payment_date IS NULL AND payment_mode IS NULL)
				)
			);

			CREATE INDEX IF NOT EXISTS idx_fee_obligations_unpaid
				ON fee_obligations (admission_no) WHERE NOT paid;
			CREATE INDEX IF NOT EXISTS idx_fee_obligations_period
				ON fee_obligations (year, month);
		`,
		DownSQL: `DROP TABLE IF EXISTS fee_obligations;`,
	},
	{
		Version: 4,
		Name:    "create_institute_info",
		UpSQL: `
			CREATE TABLE IF NOT EXISTS institute_info (
				id             INTEGER PRIMARY KEY CHECK (id = 1),
				name           TEXT NOT NULL,
				address        TEXT NOT NULL DEFAULT '',
				contact        TEXT NOT NULL DEFAULT '',
				logo_path      TEXT NOT NULL DEFAULT '',
				signature_path TEXT NOT NULL DEFAULT '',
				updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			INSERT INTO institute_info (id, name, address, contact)
			VALUES (1, 'SANSA LEARN', 'Chandmari Road Kankarbagh, Patna', '9296820840, 9153021229')
			ON CONFLICT (id) DO NOTHING;
		`,
		DownSQL: `DROP TABLE IF EXISTS institute_info;`,
	},
}

// Migrator handles database migrations.
type Migrator struct {
	conn *Connection
}

// NewMigrator creates a new migrator.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{conn: conn}
}

// Run applies all pending migrations.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationFailed, err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return fmt.Errorf("%w: migration %d (%s): %v",
				ErrMigrationFailed, migration.Version, migration.Name, err)
		}
	}
	return nil
}

func (m *Migrator) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	rows, err := m.conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, migration Migration) error {
	return m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migration.UpSQL); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
			migration.Version, migration.Name)
		return err
	})
}
