package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/mincheolkk/atdd-subway-path/internal/config"
)

// ErrMissingDSN indicates no database name was configured.
var ErrMissingDSN = errors.New("DB_NAME is required for the mysql store")

// DSN renders the driver connection string for cfg.
func DSN(cfg config.MySQLConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = cfg.Host + ":" + cfg.Port
	dsn.DBName = cfg.Database
	dsn.ParseTime = true
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

// Connect opens a MySQL/MariaDB pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MySQLConfig) (*sql.DB, error) {
	if cfg.Database == "" {
		return nil, ErrMissingDSN
	}
	conn, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return conn, nil
}

// EnsureSchema creates the network tables if they do not exist yet.
func EnsureSchema(ctx context.Context, conn *sql.DB, logger *slog.Logger, skip bool) error {
	if skip {
		logger.Info("schema creation skipped", "reason", "DB_SKIP_SCHEMA")
		return nil
	}
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS stations (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS subway_lines (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		color VARCHAR(64) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sections (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		line_id BIGINT NOT NULL,
		up_station_id BIGINT NOT NULL,
		down_station_id BIGINT NOT NULL,
		distance INT NOT NULL,
		position INT NOT NULL,
		FOREIGN KEY (line_id) REFERENCES subway_lines(id) ON DELETE CASCADE,
		FOREIGN KEY (up_station_id) REFERENCES stations(id),
		FOREIGN KEY (down_station_id) REFERENCES stations(id),
		INDEX idx_sections_line (line_id, position)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}
