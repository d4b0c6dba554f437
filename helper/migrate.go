package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"todoapi/config"
	"todoapi/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog/log"
)

// Migration actions accepted by Runner.
const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

const migrationsTableSuffix = "_migrations"

var (
	ErrUnknownAction = errors.New("unknown migration action")
	ErrTableMismatch = errors.New("store table is not the one the migrations create")
)

// MigrationSource reads the Postgres migrations embedded in the binary.
func MigrationSource() (source.Driver, error) {
	src, err := iofs.New(migrations.Postgres, "postgres")
	if err != nil {
		return nil, fmt.Errorf("error reading embedded migrations: %w", err)
	}

	return src, nil
}

// MigrationsTable is DB_POSTGRES_MIGRATION_TABLE, or the store table name
// lowercased with a _migrations suffix.
func MigrationsTable(cfg *config.Config) string {
	if cfg.DB.Postgres.MigrationTable != "" {
		return cfg.DB.Postgres.MigrationTable
	}

	return strings.ToLower(cfg.Store.TableName) + migrationsTableSuffix
}

// MigrationDSN addresses the write database with the store schema as search_path.
func MigrationDSN(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)
	query.Set("x-migrations-table", MigrationsTable(cfg))

	if cfg.Store.Schema != "" {
		query.Set("search_path", cfg.Store.Schema)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func checkAction(cfg *config.Config, action string) error {
	switch action {
	case ActionUp, ActionDown, ActionStepUp, ActionDrop:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if cfg.Store.TableName != migrations.PostgresTable {
		return fmt.Errorf("%w: STORE_TABLE_NAME=%q, migrations create %q", ErrTableMismatch, cfg.Store.TableName, migrations.PostgresTable)
	}

	return nil
}

func getConnection(cfg *config.Config) (*migrate.Migrate, error) {
	src, err := MigrationSource()
	if err != nil {
		return nil, err
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, MigrationDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func apply(mig *migrate.Migrate, action string) error {
	var err error

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migrations: %w", action, err)
	}

	return nil
}

// Runner applies action to the store schema of the write database.
func Runner(cfg *config.Config, action string) error {
	if err := checkAction(cfg, action); err != nil {
		return err
	}

	mig, err := getConnection(cfg)
	if err != nil {
		return err
	}

	defer mig.Close()

	if err := apply(mig, action); err != nil {
		return err
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().
		Str("action", action).
		Str("schema", cfg.Store.Schema).
		Str("migrationsTable", MigrationsTable(cfg)).
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("Database migrations applied")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, ActionStepUp)
}

func Down(cfg *config.Config) error {
	return Runner(cfg, ActionDown)
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, ActionDrop)
}
