package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/simonsobs/mapcat/internal/constants"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoad(t *testing.T) {
	for _, key := range []string{constants.EnvPort, constants.EnvDBDriver, constants.EnvDBDSN, constants.EnvDepthOneParent, constants.EnvWorkers} {
		unsetEnv(t, key)
	}
	chdir(t, t.TempDir())

	cfg := Load()

	if cfg.Port != constants.DefaultPort {
		t.Errorf("Expected Port to be %s, got %s", constants.DefaultPort, cfg.Port)
	}
	if cfg.DBDriver != constants.DefaultDBDriver {
		t.Errorf("Expected DBDriver to be %s, got %s", constants.DefaultDBDriver, cfg.DBDriver)
	}
	if cfg.DBDSN != constants.DefaultDBPath {
		t.Errorf("Expected DBDSN to be %s, got %s", constants.DefaultDBPath, cfg.DBDSN)
	}
	if cfg.WorkerCount() != constants.DefaultWorkers {
		t.Errorf("Expected %d workers, got %d", constants.DefaultWorkers, cfg.WorkerCount())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadWithEnvVars(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(constants.EnvPort, "9090")
	t.Setenv(constants.EnvDBDriver, "pgx")
	t.Setenv(constants.EnvDBDSN, "postgres://mapcat@localhost/mapcat")
	t.Setenv(constants.EnvDepthOneParent, "/so/depth1")
	t.Setenv(constants.EnvWorkers, " 4 ")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be 9090, got %s", cfg.Port)
	}
	if cfg.DBDriver != "pgx" {
		t.Errorf("Expected DBDriver to be pgx, got %s", cfg.DBDriver)
	}
	if cfg.DBDSN != "postgres://mapcat@localhost/mapcat" {
		t.Errorf("Unexpected DBDSN %s", cfg.DBDSN)
	}
	if cfg.DepthOneParent != "/so/depth1" {
		t.Errorf("Expected DepthOneParent to be /so/depth1, got %s", cfg.DepthOneParent)
	}
	if cfg.WorkerCount() != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.WorkerCount())
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	unsetEnv(t, constants.EnvDepthOneParent)
	t.Setenv(constants.EnvPort, "7070")

	content := "MAPCAT_DEPTH_ONE_PARENT=/from/dotenv\nMAPCAT_PORT=1111\n"
	if err := os.WriteFile(filepath.Join(dir, constants.DefaultEnvFile), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load()

	if cfg.DepthOneParent != "/from/dotenv" {
		t.Errorf("Expected DepthOneParent from .env, got %s", cfg.DepthOneParent)
	}
	if cfg.Port != "7070" {
		t.Errorf("Expected environment to win over .env, got %s", cfg.Port)
	}
}

func validConfig() Config {
	return Config{
		Port:           "8080",
		DBDriver:       "sqlite",
		DBDSN:          "test.db",
		DepthOneParent: "/so/depth1",
		Workers:        "2",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"postgres driver", func(c *Config) { c.DBDriver = "pgx" }, false},
		{"invalid port - not a number", func(c *Config) { c.Port = "abc" }, true},
		{"invalid port - out of range", func(c *Config) { c.Port = "99999" }, true},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"empty dsn", func(c *Config) { c.DBDSN = "" }, true},
		{"empty depth one parent", func(c *Config) { c.DepthOneParent = "" }, true},
		{"workers not a number", func(c *Config) { c.Workers = "many" }, true},
		{"zero workers", func(c *Config) { c.Workers = "0" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "invalid" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWorkerCountFallback(t *testing.T) {
	cfg := validConfig()
	cfg.Workers = "-3"
	if cfg.WorkerCount() != constants.DefaultWorkers {
		t.Errorf("Expected fallback to %d workers, got %d", constants.DefaultWorkers, cfg.WorkerCount())
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MAPCAT_TEST_VAR", "test_value")

	if value := getEnv("MAPCAT_TEST_VAR", "default"); value != "test_value" {
		t.Errorf("Expected 'test_value', got '%s'", value)
	}

	if value := getEnv("MAPCAT_NON_EXISTENT_VAR", "default"); value != "default" {
		t.Errorf("Expected 'default', got '%s'", value)
	}
}
