package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
	"todoapi/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
)

// Connection holds separate pools for the read replica and the primary.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Close releases both pools.
func (c *Connection) Close() error {
	return errors.Join(closeDB(c.Read), closeDB(c.Write))
}

func closeDB(db *sqlx.DB) error {
	if db == nil {
		return nil
	}

	return db.Close() //nolint:wrapcheck
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

func getDBName(config config.Config, baseName string) string {
	return config.DB.Postgres.Prefix + baseName
}

// CreatePostgresWriteConn creates a database connection for write access.
func CreatePostgresWriteConn(config config.Config) *sqlx.DB {
	write := config.DB.Postgres.Write

	return CreatePostgresConnection(connectionParams{
		name:     "write",
		username: write.Username,
		password: write.Password,
		host:     write.Host,
		port:     write.Port,
		dbName:   getDBName(config, write.Name),
		sslMode:  write.SSLMode,
		schema:   config.Store.Schema,
		maxRetry: config.DB.Postgres.MaxRetry,
		waitTime: config.DB.Postgres.RetryWaitTime,
	})
}

// CreatePostgresReadConn creates a database connection for read access.
func CreatePostgresReadConn(config config.Config) *sqlx.DB {
	read := config.DB.Postgres.Read

	return CreatePostgresConnection(connectionParams{
		name:     "read",
		username: read.Username,
		password: read.Password,
		host:     read.Host,
		port:     read.Port,
		dbName:   getDBName(config, read.Name),
		sslMode:  read.SSLMode,
		schema:   config.Store.Schema,
		maxRetry: config.DB.Postgres.MaxRetry,
		waitTime: config.DB.Postgres.RetryWaitTime,
	})
}

type connectionParams struct {
	name, username, password, host, port, dbName, sslMode, schema string
	maxRetry, waitTime                                            int
}

// DSN returns the lib/pq connection URL. A schema becomes the session search_path.
func (p connectionParams) DSN() string {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		p.username,
		p.password,
		net.JoinHostPort(p.host, p.port),
		p.dbName,
		p.sslMode,
	)

	if p.schema != "" {
		dsn += "&search_path=" + url.QueryEscape(p.schema)
	}

	return dsn
}

// CreatePostgresConnection connects with retries and fails the process when every attempt is refused.
func CreatePostgresConnection(params connectionParams) *sqlx.DB {
	var lastErr error

	for retry := range max(params.maxRetry, 1) {
		sqlDB, err := sqlx.Connect("postgres", params.DSN())
		if err == nil {
			log.
				Info().
				Str("name", params.name).
				Str("host", params.host).
				Str("port", params.port).
				Str("dbName", params.dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)

			return sqlDB
		}

		lastErr = err

		log.
			Error().
			Err(err).
			Str("name", params.name).
			Str("host", params.host).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(params.waitTime) * time.Second)
	}

	log.Fatal().Err(lastErr).Str("name", params.name).Msg("Giving up connecting to database")

	return nil
}
