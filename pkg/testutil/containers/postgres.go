//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the column lists in the postgres store packages. Kept here
// because the service ships without migration tooling.
const schema = `
CREATE TABLE IF NOT EXISTS records (
	id uuid PRIMARY KEY,
	parish_id uuid NOT NULL,
	sacrament_type text NOT NULL,
	status text NOT NULL,
	book text NOT NULL,
	folio text NOT NULL,
	entry text NOT NULL,
	payload jsonb NOT NULL,
	marginal_note text,
	superseded_by_record_id uuid,
	supersedes_record_id uuid,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS records_parish_register_idx
	ON records (parish_id, sacrament_type);

CREATE TABLE IF NOT EXISTS correction_decrees (
	id uuid PRIMARY KEY,
	parish_id uuid NOT NULL,
	decree_number text NOT NULL,
	decree_date timestamptz,
	concept_id uuid NOT NULL,
	original_snapshot jsonb NOT NULL,
	new_record_id uuid NOT NULL,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS correction_decrees_concept_idx
	ON correction_decrees (concept_id);

CREATE TABLE IF NOT EXISTS replacement_decrees (
	id uuid PRIMARY KEY,
	parish_id uuid NOT NULL,
	decree_number text NOT NULL,
	decree_date timestamptz,
	causa text NOT NULL,
	sacrament_type text NOT NULL,
	original_book text NOT NULL DEFAULT '',
	original_folio text NOT NULL DEFAULT '',
	original_entry text NOT NULL DEFAULT '',
	subject_name text NOT NULL,
	concept_id uuid NOT NULL,
	descripcion_hechos text NOT NULL DEFAULT '',
	autoridad text NOT NULL DEFAULT '',
	testigos jsonb NOT NULL DEFAULT '[]',
	status text NOT NULL,
	new_record_id uuid,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS replacement_decrees_concept_idx
	ON replacement_decrees (concept_id);

CREATE TABLE IF NOT EXISTS concepts (
	id uuid PRIMARY KEY,
	diocese_id uuid NOT NULL,
	codigo text NOT NULL,
	concepto text NOT NULL,
	expide text NOT NULL,
	tipo text NOT NULL,
	nota_al_margen_id text NOT NULL,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL,
	UNIQUE (diocese_id, codigo)
);

CREATE TABLE IF NOT EXISTS parishes (
	id uuid PRIMARY KEY,
	diocese_id uuid NOT NULL,
	name text NOT NULL,
	city text NOT NULL DEFAULT '',
	status text NOT NULL,
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL
);
`

var allTables = []string{
	"records", "correction_decrees", "replacement_decrees", "concepts", "parishes",
}

// PostgresContainer wraps a testcontainers Postgres instance with the
// chancery schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("chancery"),
		tcpostgres.WithUsername("chancery"),
		tcpostgres.WithPassword("chancery"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables wipes every chancery table. Use between tests so suites
// sharing the container stay isolated.
func (p *PostgresContainer) TruncateTables(ctx context.Context) error {
	for _, table := range allTables {
		if _, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			return err
		}
	}
	return nil
}
