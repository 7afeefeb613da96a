package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/objscope/engine/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadApplicationConfig(t *testing.T) {
	path := writeConfig(t, `
[application]
log_level = "debug"

[assets]
dir = "models"
model = "garg"
watch = true

[loader]
strict_indices = true
`)
	cfg, err := LoadApplicationConfig(path, false)
	if err != nil {
		t.Fatalf("LoadApplicationConfig: %v", err)
	}

	if cfg.Application.Name != "objscope" {
		t.Errorf("name = %q, want the default", cfg.Application.Name)
	}
	if cfg.Application.LogLevel != core.LogLevelDebug {
		t.Errorf("log level = %q", cfg.Application.LogLevel)
	}
	if cfg.Assets.Dir != "models" || cfg.Assets.Model != "garg" || !cfg.Assets.Watch {
		t.Errorf("assets = %+v", cfg.Assets)
	}
	if !cfg.Loader.StrictIndices {
		t.Error("expected strict indices")
	}
}

func TestLoadApplicationConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := LoadApplicationConfig(path, true)
	if err != nil {
		t.Fatalf("optional config: %v", err)
	}
	if *cfg != *DefaultApplicationConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	if _, err := LoadApplicationConfig(path, false); err == nil {
		t.Error("expected an error for a required config")
	}
}

func TestLoadApplicationConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":    "[assets\ndir = 1",
		"type":      "[assets]\nwatch = \"yes\"",
		"log level": "[application]\nlog_level = \"loud\"",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadApplicationConfig(writeConfig(t, content), false); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestApplicationConfigMarshal(t *testing.T) {
	out, err := DefaultApplicationConfig().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{"[application]", "log_level", "strict_indices"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("marshalled config %q does not contain %q", out, want)
		}
	}
}
