package config

import (
	"strings"
	"testing"
)

type fakeBackend struct {
	strings map[string]string
	ints    map[string]int
}

func (f *fakeBackend) GetString(key string) (string, bool, error) {
	v, ok := f.strings[key]
	return v, ok, nil
}

func (f *fakeBackend) GetInt(key string) (int, bool, error) {
	v, ok := f.ints[key]
	return v, ok, nil
}

func (f *fakeBackend) SetString(key, val string) error {
	if f.strings == nil {
		f.strings = make(map[string]string)
	}
	f.strings[key] = val
	return nil
}

func (f *fakeBackend) SetInt(key string, val int) error {
	if f.ints == nil {
		f.ints = make(map[string]int)
	}
	f.ints[key] = val
	return nil
}

func (f *fakeBackend) Delete(key string) error {
	delete(f.strings, key)
	delete(f.ints, key)
	return nil
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := loadWith(&fakeBackend{})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 7340 {
		t.Errorf("port = %d, want 7340", cfg.Server.Port)
	}
	if cfg.Match.TopK != 20 {
		t.Errorf("top_k = %d, want 20", cfg.Match.TopK)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.Storage.DataDir == "" {
		t.Error("data dir not defaulted")
	}
}

func TestLoadBackendOverridesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	b := &fakeBackend{
		strings: map[string]string{"storage.data_dir": "/var/lib/attune", "log.level": "debug"},
		ints:    map[string]int{"server.port": 9000, "match.top_k": 5},
	}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Match.TopK != 5 {
		t.Errorf("ints not applied: %+v", cfg)
	}
	if cfg.Storage.DataDir != "/var/lib/attune" || cfg.Log.Level != "debug" {
		t.Errorf("strings not applied: %+v", cfg)
	}
}

func TestLoadEnvOverridesBackend(t *testing.T) {
	t.Setenv("ATTUNE_SERVER_PORT", "8088")
	t.Setenv("ATTUNE_STORAGE_DATA_DIR", "/tmp/attune-env")
	t.Setenv("ATTUNE_LOG_LEVEL", "warn")

	b := &fakeBackend{
		strings: map[string]string{"storage.data_dir": "/var/lib/attune"},
		ints:    map[string]int{"server.port": 9000},
	}
	cfg, err := loadWith(b)
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("port = %d, want env override 8088", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/tmp/attune-env" {
		t.Errorf("data dir = %q, want env override", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadBadIntEnvFallsBack(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("ATTUNE_MATCH_TOP_K", "not-a-number")

	cfg, err := loadWith(&fakeBackend{})
	if err != nil {
		t.Fatalf("loadWith: %v", err)
	}
	if cfg.Match.TopK != 20 {
		t.Errorf("top_k = %d, want default 20", cfg.Match.TopK)
	}
}

func TestLoadFailsWithoutDataDir(t *testing.T) {
	b := &fakeBackend{strings: map[string]string{"storage.data_dir": ""}}
	// Backend explicitly sets an empty data dir, so the default is replaced
	// and validation must reject the result.
	_, err := loadWith(b)
	if err == nil {
		t.Fatal("expected error for empty data dir")
	}
	if !strings.Contains(err.Error(), "storage data directory") {
		t.Errorf("err = %v", err)
	}
}

func TestValidKeysCoverAllSpecs(t *testing.T) {
	keys := ValidKeys()
	if len(keys) != len(specs) {
		t.Fatalf("ValidKeys returned %d keys, want %d", len(keys), len(specs))
	}
	want := map[string]bool{"server.port": true, "storage.data_dir": true, "match.top_k": true, "log.level": true}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %q", k)
		}
	}
}
