package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodeAndDefaults(t *testing.T) {
	yml := `
profile: safe
removal:
  max_retries: 4
  retry_delay_ms: 50
  sequential: true
protected_paths:
  - /srv/keep
prometheus:
  port: 9400
`
	cfg, err := decode(strings.NewReader(yml))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.validateAndDefault(); err != nil {
		t.Fatal(err)
	}

	if cfg.Profile != ProfileSafe {
		t.Errorf("Profile = %q", cfg.Profile)
	}
	if cfg.DatabasePath != "/var/lib/saferm/removals.db" {
		t.Errorf("DatabasePath default = %q", cfg.DatabasePath)
	}
	if cfg.Logging.RotationDays != 30 {
		t.Errorf("RotationDays default = %d", cfg.Logging.RotationDays)
	}

	opts := cfg.RemoverOptions()
	if !opts.Recursive || !opts.Force {
		t.Error("safe profile must default to recursive+force")
	}
	if opts.MaxRetries != 4 {
		t.Errorf("MaxRetries = %d, want 4", opts.MaxRetries)
	}
	if opts.RetryDelay != 50*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 50ms", opts.RetryDelay)
	}
	if !opts.Sequential {
		t.Error("Sequential override lost")
	}
}

func TestDefaultIsStrict(t *testing.T) {
	cfg := Default()
	if cfg.Profile != ProfileStrict {
		t.Errorf("Profile = %q, want strict", cfg.Profile)
	}
	opts := cfg.RemoverOptions()
	if opts.Recursive || opts.Force || opts.MaxRetries != 0 {
		t.Errorf("strict options = %+v", opts)
	}
}

func TestOverridesOnStrict(t *testing.T) {
	yml := `
removal:
  recursive: true
  force: true
`
	cfg, err := decode(strings.NewReader(yml))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.validateAndDefault(); err != nil {
		t.Fatal(err)
	}
	opts := cfg.RemoverOptions()
	if !opts.Recursive || !opts.Force {
		t.Errorf("overrides lost: %+v", opts)
	}
}

func TestValidateRejectsUnknownProfile(t *testing.T) {
	cfg := &Config{Profile: "yolo"}
	if err := cfg.validateAndDefault(); !errors.Is(err, errUnknownProfile) {
		t.Errorf("err = %v, want errUnknownProfile", err)
	}
}

func TestValidateRejectsNegativeRetries(t *testing.T) {
	n := -1
	cfg := &Config{Removal: RemovalCfg{MaxRetries: &n}}
	if err := cfg.validateAndDefault(); !errors.Is(err, errNegativeRetry) {
		t.Errorf("err = %v, want errNegativeRetry", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/saferm.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}
