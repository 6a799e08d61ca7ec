package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath() error = %v", err)
	}
	return cfg
}

func TestLoadConfig_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPath() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
	if len(cfg.Contexts) != 0 {
		t.Errorf("new config has %d contexts, want 0", len(cfg.Contexts))
	}
}

func TestConfig_RoundTrip(t *testing.T) {
	cfg := testConfig(t)

	err := cfg.AddContext("local", &Context{
		Model:   "openvoice_v2",
		Host:    "gpu-box",
		Speed:   1.2,
		Timeout: 60,
	})
	if err != nil {
		t.Fatalf("AddContext() error = %v", err)
	}
	if err := cfg.UseContext("local"); err != nil {
		t.Fatalf("UseContext() error = %v", err)
	}

	// Reload from disk
	cfg2, err := LoadConfigWithPath(cfg.Path())
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}

	ctx, err := cfg2.GetCurrentContext()
	if err != nil {
		t.Fatalf("GetCurrentContext() error = %v", err)
	}
	if ctx.Name != "local" {
		t.Errorf("context name = %q, want local", ctx.Name)
	}
	if ctx.Model != "openvoice_v2" {
		t.Errorf("context model = %q, want openvoice_v2", ctx.Model)
	}
	if ctx.Host != "gpu-box" {
		t.Errorf("context host = %q, want gpu-box", ctx.Host)
	}
	if ctx.Speed != 1.2 {
		t.Errorf("context speed = %v, want 1.2", ctx.Speed)
	}
	if ctx.Timeout != 60 {
		t.Errorf("context timeout = %d, want 60", ctx.Timeout)
	}
}

func TestConfig_UseContext_NotFound(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.UseContext("missing"); err == nil {
		t.Error("UseContext(missing) succeeded, want error")
	}
}

func TestConfig_DeleteContext(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.AddContext("a", &Context{Model: "openf5_tts"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseContext("a"); err != nil {
		t.Fatal(err)
	}

	if err := cfg.DeleteContext("a"); err != nil {
		t.Fatalf("DeleteContext() error = %v", err)
	}
	if cfg.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after deleting active context, want empty", cfg.CurrentContext)
	}
	if err := cfg.DeleteContext("a"); err == nil {
		t.Error("DeleteContext() on missing context succeeded, want error")
	}
}

func TestConfig_ResolveContext(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.AddContext("a", &Context{Model: "openvoice_v2"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("b", &Context{Model: "openf5_tts"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseContext("a"); err != nil {
		t.Fatal(err)
	}

	ctx, err := cfg.ResolveContext("")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Name != "a" {
		t.Errorf("ResolveContext(\"\") = %q, want a", ctx.Name)
	}

	ctx, err = cfg.ResolveContext("b")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.Name != "b" {
		t.Errorf("ResolveContext(b) = %q, want b", ctx.Name)
	}
}

func TestConfig_ListContexts_Sorted(t *testing.T) {
	cfg := testConfig(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := cfg.AddContext(name, &Context{}); err != nil {
			t.Fatal(err)
		}
	}

	got := cfg.ListContexts()
	want := []string{"alpha", "mid", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("ListContexts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListContexts()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
