package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func tempConfig(t *testing.T) *Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := LoadConfigWithPath(path)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := tempConfig(t)

	err := cfg.AddContext("work", &Context{
		APIKey: "key-123456789",
		Model:  "gemini-2.5-flash",
	})
	if err != nil {
		t.Fatal(err)
	}

	// First added context becomes current.
	if cfg.CurrentContext != "work" {
		t.Errorf("current = %q, want work", cfg.CurrentContext)
	}

	reloaded, err := LoadConfigWithPath(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := reloaded.ResolveContext("")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.APIKey != "key-123456789" || ctx.Model != "gemini-2.5-flash" {
		t.Errorf("context = %+v", ctx)
	}
}

func TestConfigUseAndDelete(t *testing.T) {
	cfg := tempConfig(t)
	if err := cfg.AddContext("a", &Context{APIKey: "ka"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.AddContext("b", &Context{APIKey: "kb"}); err != nil {
		t.Fatal(err)
	}

	if err := cfg.UseContext("b"); err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentContext != "b" {
		t.Errorf("current = %q", cfg.CurrentContext)
	}
	if err := cfg.UseContext("missing"); err == nil {
		t.Error("using a missing context should fail")
	}

	if err := cfg.DeleteContext("b"); err != nil {
		t.Fatal(err)
	}
	if cfg.CurrentContext != "" {
		t.Error("deleting the current context must clear it")
	}
	if err := cfg.DeleteContext("b"); err == nil {
		t.Error("double delete should fail")
	}
}

func TestResolveContextEnvFallback(t *testing.T) {
	cfg := tempConfig(t)

	t.Setenv(APIKeyEnv, "env-key")
	ctx, err := cfg.ResolveContext("")
	if err != nil {
		t.Fatal(err)
	}
	if ctx.APIKey != "env-key" {
		t.Errorf("api key = %q, want env fallback", ctx.APIKey)
	}

	t.Setenv(APIKeyEnv, "")
	if _, err := cfg.ResolveContext(""); err == nil {
		t.Error("expected error with no contexts and no env key")
	}
}

func TestContextExtra(t *testing.T) {
	ctx := &Context{}
	if ctx.GetExtra("k") != "" {
		t.Error("empty extra should return empty string")
	}
	ctx.SetExtra("k", "v")
	if ctx.GetExtra("k") != "v" {
		t.Error("extra round trip failed")
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := MaskAPIKey("short"); got != "*****" {
		t.Errorf("short key mask = %q", got)
	}
	got := MaskAPIKey("abcd1234efgh5678")
	if !strings.HasPrefix(got, "abcd") || !strings.HasSuffix(got, "5678") {
		t.Errorf("mask = %q", got)
	}
	if strings.Contains(got, "1234efgh") {
		t.Errorf("mask leaked middle: %q", got)
	}
}
