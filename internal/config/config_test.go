package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// unsetenv clears key for the duration of the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{"SERVER_PORT", "STORE_DRIVER", "SERVER_READ_TIMEOUT", "LOG_LEVEL", "DB_HOST"} {
		unsetenv(t, key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != defaultPort {
		t.Errorf("expected port %d, got %d", defaultPort, cfg.HTTP.Port)
	}
	if cfg.Store.Driver != DriverNeo4j {
		t.Errorf("expected default driver %s, got %s", DriverNeo4j, cfg.Store.Driver)
	}
	if cfg.HTTP.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected read timeout %s, got %s", defaultReadTimeout, cfg.HTTP.ReadTimeout)
	}
	if cfg.Logging.Level != defaultLoggingLevel {
		t.Errorf("expected log level %s, got %s", defaultLoggingLevel, cfg.Logging.Level)
	}
	if cfg.MySQL.Host != defaultMySQLHost {
		t.Errorf("expected db host %s, got %s", defaultMySQLHost, cfg.MySQL.Host)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "MySQL")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DB_SKIP_SCHEMA", "true")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Store.Driver != DriverMySQL {
		t.Errorf("expected driver %s, got %s", DriverMySQL, cfg.Store.Driver)
	}
	if cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected shutdown timeout 3s, got %s", cfg.HTTP.ShutdownTimeout)
	}
	if !cfg.MySQL.SkipSchema {
		t.Error("expected DB_SKIP_SCHEMA to be honoured")
	}
	if cfg.Graph.MaxConnections != 25 {
		t.Errorf("expected 25 graph connections, got %d", cfg.Graph.MaxConnections)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SERVER_PORT", "70000"},
		{"SERVER_PORT", "http"},
		{"SERVER_WRITE_TIMEOUT", "soon"},
		{"STORE_DRIVER", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("ENV_FILE", "")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "LOG_LEVEL=debug\nGRAPH_URI=bolt://localhost:7687\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	unsetenv(t, "LOG_LEVEL")
	unsetenv(t, "GRAPH_URI")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level from env file, got %s", cfg.Logging.Level)
	}
	if cfg.Graph.URI != "bolt://localhost:7687" {
		t.Errorf("expected graph uri from env file, got %s", cfg.Graph.URI)
	}
}
