package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDurationUnmarshalYAML_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{`"10s"`, 10 * time.Second},
		{`"500ms"`, 500 * time.Millisecond},
		{`"1m"`, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d duration
			if err := yaml.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if got, want := d.Duration(), tt.want; got != want {
				t.Fatalf("Duration() = %v, want %v", got, want)
			}
		})
	}
}

func TestDurationUnmarshalYAML_Invalid(t *testing.T) {
	var d duration
	if err := yaml.Unmarshal([]byte(`"notaduration"`), &d); err == nil {
		t.Fatal("Unmarshal(notaduration) expected error, got nil")
	}
}

func TestConfigStructPointerFields(t *testing.T) {
	// Unmarshaling partial YAML leaves unset fields as nil.
	input := `pagesize: 10`
	var cfg Config
	if err := yaml.Unmarshal([]byte(input), &cfg); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if cfg.PageSize == nil {
		t.Fatal("PageSize should not be nil")
	}
	if got, want := *cfg.PageSize, 10; got != want {
		t.Fatalf("PageSize = %d, want %d", got, want)
	}
	if cfg.APIKey != nil {
		t.Fatalf("APIKey = %v, want nil", cfg.APIKey)
	}
	if cfg.Timeout != nil {
		t.Fatalf("Timeout = %v, want nil", cfg.Timeout)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.BaseURL != nil {
		t.Fatalf("BaseURL = %v, want nil", cfg.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
team: platform
base_url: "https://api.stackoverflowteams.com/2.3"
timeout: "15s"
pagesize: 7
filter: "!9_bDE(fI5"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got, want := *cfg.Team, "platform"; got != want {
		t.Fatalf("Team = %q, want %q", got, want)
	}
	if got, want := *cfg.BaseURL, "https://api.stackoverflowteams.com/2.3"; got != want {
		t.Fatalf("BaseURL = %q, want %q", got, want)
	}
	if got, want := cfg.Timeout.Duration(), 15*time.Second; got != want {
		t.Fatalf("Timeout = %v, want %v", got, want)
	}
	if got, want := *cfg.PageSize, 7; got != want {
		t.Fatalf("PageSize = %d, want %d", got, want)
	}
	if got, want := *cfg.Filter, "!9_bDE(fI5"; got != want {
		t.Fatalf("Filter = %q, want %q", got, want)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`team: from-file`), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TEAM", "from-env")
	t.Setenv("API_KEY", "pat-from-env")
	t.Setenv("STACKTEAMS_PAGESIZE", "3")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if got, want := *cfg.Team, "from-env"; got != want {
		t.Fatalf("Team = %q, want %q", got, want)
	}
	if got, want := *cfg.APIKey, "pat-from-env"; got != want {
		t.Fatalf("APIKey = %q, want %q", got, want)
	}
	if got, want := *cfg.PageSize, 3; got != want {
		t.Fatalf("PageSize = %d, want %d", got, want)
	}
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv("STACKTEAMS_PAGESIZE", "five")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected parse error for STACKTEAMS_PAGESIZE=five")
	}

	t.Setenv("STACKTEAMS_PAGESIZE", "5")
	t.Setenv("STACKTEAMS_TIMEOUT", "soon")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected parse error for STACKTEAMS_TIMEOUT=soon")
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero pagesize", `pagesize: 0`},
		{"pagesize too large", `pagesize: 500`},
		{"negative timeout", `timeout: "-1s"`},
		{"timeout too large", `timeout: "10m"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFrom(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
