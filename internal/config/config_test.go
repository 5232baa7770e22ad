package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zarlcorp/zleads/internal/export"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ZLEADS_DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"rows", cfg.Rows, int64(1_000_000)},
		{"output", cfg.Output, "leads_10000.csv"},
		{"format", cfg.Format, export.FormatCSV},
		{"seed", cfg.Seed, uint64(0)},
		{"domain", cfg.EmailDomain, "email.com"},
		{"max tags", cfg.MaxTags, 5},
		{"valid cpf", cfg.ValidCPF, false},
		{"real ddd", cfg.RealDDD, false},
		{"log level", cfg.LogLevel, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ZLEADS_ROWS", "3")
	t.Setenv("ZLEADS_OUTPUT", "out.xlsx")
	t.Setenv("ZLEADS_FORMAT", "xlsx")
	t.Setenv("ZLEADS_SEED", "99")
	t.Setenv("ZLEADS_VALID_CPF", "true")
	t.Setenv("ZLEADS_LOG_LEVEL", "debug")
	t.Setenv("ZLEADS_DATA_DIR", "/tmp/zleads-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rows != 3 || cfg.Output != "out.xlsx" || cfg.Format != export.FormatXLSX {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Seed != 99 || !cfg.ValidCPF || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.HistoryPath() != "/tmp/zleads-test/history.db" {
		t.Errorf("history path = %s", cfg.HistoryPath())
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("ZLEADS_ROWS=12\nZLEADS_EMAIL_DOMAIN=leads.test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv writes into the process env; make sure the test cleans up
	t.Setenv("ZLEADS_ROWS", "")
	os.Unsetenv("ZLEADS_ROWS")
	t.Setenv("ZLEADS_EMAIL_DOMAIN", "")
	os.Unsetenv("ZLEADS_EMAIL_DOMAIN")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Rows != 12 || cfg.EmailDomain != "leads.test" {
		t.Errorf("env file not applied: %+v", cfg)
	}
}

func TestLoadMissingEnvFileIgnored(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative rows", "ZLEADS_ROWS", "-1"},
		{"rows not a number", "ZLEADS_ROWS", "lots"},
		{"unknown format", "ZLEADS_FORMAT", "json"},
		{"too many tags", "ZLEADS_MAX_TAGS", "6"},
		{"bad level", "ZLEADS_LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("%s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestValidateXLSXRowLimit(t *testing.T) {
	cfg := Config{Rows: export.MaxXLSXRows + 1, Output: "x.xlsx", Format: export.FormatXLSX, MaxTags: 5}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "xlsx") {
		t.Errorf("got %v, want xlsx row limit error", err)
	}

	cfg.Rows = 1_000_000
	if err := cfg.Validate(); err != nil {
		t.Errorf("1M rows should fit in xlsx: %v", err)
	}
}

func TestNewGenerator(t *testing.T) {
	cfg := Config{EmailDomain: "leads.test", MaxTags: 2, ValidCPF: true}
	g, err := cfg.NewGenerator(1)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if g.MaxTags() != 2 || g.Domain() != "leads.test" {
		t.Errorf("options not applied: max=%d domain=%s", g.MaxTags(), g.Domain())
	}
}

func TestNewGeneratorPoolsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pools.yaml")
	if err := os.WriteFile(path, []byte("tags: [a, b]\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Config{PoolsFile: path, MaxTags: 5}
	if _, err := cfg.NewGenerator(1); err == nil {
		t.Error("two tags cannot satisfy max 5")
	}

	cfg.MaxTags = 2
	if _, err := cfg.NewGenerator(1); err != nil {
		t.Errorf("new generator: %v", err)
	}
}

func TestDataDir(t *testing.T) {
	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"xdg set", "/custom/data", "/custom/data/zleads"},
		{"xdg empty falls back to home", "", "/.local/share/zleads"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_DATA_HOME", tt.xdg)

			got := DataDir()
			if tt.xdg != "" {
				if got != tt.want {
					t.Errorf("DataDir() = %s, want %s", got, tt.want)
				}
			} else if !strings.HasSuffix(got, tt.want) {
				t.Errorf("DataDir() = %s, want suffix %s", got, tt.want)
			}
		})
	}
}
