package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfigFrom(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("loadConfigFrom: %v", err)
	}
	if cfg.APIURL != "" || cfg.Organization != "" {
		t.Errorf("missing file yielded non-empty config: %+v", cfg)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := &Config{APIURL: "https://logs.internal.example.com", Organization: "acme"}
	if err := saveConfigTo(path, want); err != nil {
		t.Fatalf("saveConfigTo: %v", err)
	}

	got, err := loadConfigFrom(path)
	if err != nil {
		t.Fatalf("loadConfigFrom: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfigFrom(path); err == nil {
		t.Fatal("malformed YAML loaded without error")
	}
}

func TestSaveOmitsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := saveConfigTo(path, &Config{Organization: "acme"}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "organization: acme\n" {
		t.Errorf("config file = %q", data)
	}
}
