package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"pkt.systems/emspace"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	loaded, err := Load(Options{Search: []string{}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Config != emspace.DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", loaded.Config)
	}
	if loaded.File != "" {
		t.Fatalf("expected no config file, got %q", loaded.File)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "skipCodeBlocks: false\nspaceBetweenEnglishAndBold: true\n")
	loaded, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := emspace.DefaultConfig()
	want.SkipCodeBlocks = false
	want.SpaceBetweenEnglishAndBold = true
	if loaded.Config != want {
		t.Fatalf("got %+v want %+v", loaded.Config, want)
	}
	if loaded.File != path {
		t.Fatalf("expected file %q, got %q", path, loaded.File)
	}
}

func TestLoadSearchPicksFirstExisting(t *testing.T) {
	path := writeConfig(t, "skipInlineCode: false\n")
	missing := filepath.Join(t.TempDir(), "missing.yaml")
	loaded, err := Load(Options{Search: []string{missing, path}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.File != path || loaded.Config.SkipInlineCode {
		t.Fatalf("unexpected result %+v", loaded)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "skipCodeBlocks: false\n")
	t.Setenv("EMSPACE_SKIP_CODE_BLOCKS", "true")
	t.Setenv("EMSPACE_SPACE_BETWEEN_CHINESE_AND_ITALIC", "false")
	loaded, err := Load(Options{Path: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Config.SkipCodeBlocks {
		t.Fatalf("expected env to re-enable skipCodeBlocks")
	}
	if loaded.Config.SpaceBetweenChineseAndItalic {
		t.Fatalf("expected env to disable italic spacing")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("EMSPACE_SKIP_INLINE_CODE", "true")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	if err := flags.Parse([]string{"--skip-inline-code=false", "--space-english-bold"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	loaded, err := Load(Options{Search: []string{}, Flags: flags})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Config.SkipInlineCode {
		t.Fatalf("expected flag to win over env")
	}
	if !loaded.Config.SpaceBetweenEnglishAndBold {
		t.Fatalf("expected --space-english-bold to enable english spacing")
	}
	if !loaded.Config.SkipCodeBlocks {
		t.Fatalf("unset flag must not override the default")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(Options{Path: filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "skipCodeBlocks: [unterminated\n")
	if _, err := Load(Options{Path: path}); err == nil {
		t.Fatalf("expected error for malformed YAML")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := emspace.DefaultConfig()
	cfg.SpaceBetweenEnglishAndBold = true
	cfg.SkipFrontMatter = false
	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(string(data), "#") || !strings.Contains(string(data), "spaceBetweenEnglishAndBold: true") {
		t.Fatalf("unexpected YAML:\n%s", data)
	}
	loaded, err := Load(Options{Path: writeConfig(t, string(data))})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Config != cfg {
		t.Fatalf("round trip mismatch: got %+v want %+v", loaded.Config, cfg)
	}
}

func TestWriteFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	if err := WriteFile(path, emspace.DefaultConfig(), false); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, emspace.DefaultConfig(), false); err == nil {
		t.Fatalf("expected error when file exists")
	}
	if err := WriteFile(path, emspace.DefaultConfig(), true); err != nil {
		t.Fatalf("WriteFile with force: %v", err)
	}
}
