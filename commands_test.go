package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spaghettifunk/objscope/engine"
	"github.com/spaghettifunk/objscope/engine/core"
	"github.com/urfave/cli/v2"
)

const triangleOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"

// workspace lays out an assets directory holding triangle.obj and a config
// pointing at it. model is written as assets.model when not empty.
func workspace(t *testing.T, model, logLevel string) (configPath, modelPath string) {
	t.Helper()
	dir := t.TempDir()
	modelPath = filepath.Join(dir, "assets", "models", "triangle.obj")
	if err := os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(modelPath, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	config := "[application]\nlog_level = \"" + logLevel + "\"\n\n[assets]\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "assets")) + "\"\n"
	if model != "" {
		config += "model = \"" + model + "\"\n"
	}
	configPath = filepath.Join(dir, engine.DefaultConfigFile)
	if err := os.WriteFile(configPath, []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, modelPath
}

func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(stdin, &out).Run(append([]string{"objscope"}, args...))
	return out.String(), err
}

func TestLoadCommand(t *testing.T) {
	config, model := workspace(t, "triangle", "info")

	tests := []struct {
		name  string
		stdin io.Reader
		args  []string
		want  []string
	}{
		{
			name: "explicit path",
			args: []string{"--config", config, "load", model},
			want: []string{"name:      triangle", "positions: 3", "faces:     1"},
		},
		{
			name:  "path wins over stdin",
			stdin: strings.NewReader("v 7 7 7\n"),
			args:  []string{"--config", config, "load", model},
			want:  []string{"positions: 3"},
		},
		{
			name:  "piped stdin wins over configured model",
			stdin: strings.NewReader("v 7 7 7\n"),
			args:  []string{"--config", config, "load"},
			want:  []string{"name:      stdin", "positions: 1", "faces:     0"},
		},
		{
			name: "configured model without stdin",
			args: []string{"--config", config, "load"},
			want: []string{"name:      triangle", "positions: 3"},
		},
		{
			name: "model by asset name",
			args: []string{"--config", config, "load", "triangle"},
			want: []string{"positions: 3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestLoadCommandWithoutSource(t *testing.T) {
	config, _ := workspace(t, "", "info")

	if _, err := run(t, nil, "--config", config, "load"); err == nil {
		t.Error("expected an error without path, stdin or configured model")
	}
}

func TestLoadCommandMalformedStdin(t *testing.T) {
	config, _ := workspace(t, "", "info")

	_, err := run(t, strings.NewReader("v 1 2\n"), "--config", config, "load")
	if !errors.Is(err, core.ErrMalformedVertex) {
		t.Errorf("error = %v, want %v", err, core.ErrMalformedVertex)
	}
}

func TestEncodeCommand(t *testing.T) {
	config, model := workspace(t, "", "info")

	out, err := run(t, nil, "--config", config, "encode", model)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "o triangle\nv 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1//1 2//1 3//1\n"
	if out != want {
		t.Errorf("encode output:\n%s\nwant:\n%s", out, want)
	}

	out, err = run(t, strings.NewReader("v 1.5 -2 3\n"), "--config", config, "encode")
	if err != nil {
		t.Fatalf("encode from stdin: %v", err)
	}
	if out != "o stdin\nv 1.5 -2 3\n" {
		t.Errorf("encode from stdin = %q", out)
	}
}

func TestStrictFlag(t *testing.T) {
	config, _ := workspace(t, "", "info")
	dangling := "v 0 0 0\nvn 0 0 1\nf 1//1 2//1 1//1\n"

	if _, err := run(t, strings.NewReader(dangling), "--config", config, "load"); err != nil {
		t.Fatalf("lenient load: %v", err)
	}

	_, err := run(t, strings.NewReader(dangling), "--config", config, "--strict", "load")
	if !errors.Is(err, core.ErrMalformedFace) {
		t.Errorf("strict load error = %v, want %v", err, core.ErrMalformedFace)
	}
}

func TestWatchCommandWithoutSource(t *testing.T) {
	config, _ := workspace(t, "", "info")

	if _, err := run(t, nil, "--config", config, "watch"); !errors.Is(err, errNoWatchSource) {
		t.Errorf("error = %v, want %v", err, errNoWatchSource)
	}
}

func TestApplicationConfigFlags(t *testing.T) {
	config, _ := workspace(t, "triangle", "error")

	tests := []struct {
		name  string
		args  []string
		watch bool
		check func(t *testing.T, cfg *engine.ApplicationConfig)
	}{
		{
			name: "config file",
			args: []string{"--config", config},
			check: func(t *testing.T, cfg *engine.ApplicationConfig) {
				if cfg.Application.LogLevel != core.LogLevelError {
					t.Errorf("log level = %q, want error", cfg.Application.LogLevel)
				}
				if cfg.Loader.StrictIndices || cfg.Assets.Watch {
					t.Errorf("unexpected config %+v", cfg)
				}
			},
		},
		{
			name: "log level flag overrides file",
			args: []string{"--config", config, "--log-level", "debug"},
			check: func(t *testing.T, cfg *engine.ApplicationConfig) {
				if cfg.Application.LogLevel != core.LogLevelDebug {
					t.Errorf("log level = %q, want debug", cfg.Application.LogLevel)
				}
			},
		},
		{
			name: "assets and strict flags",
			args: []string{"--config", config, "--assets", "elsewhere", "--strict"},
			check: func(t *testing.T, cfg *engine.ApplicationConfig) {
				if cfg.Assets.Dir != "elsewhere" || !cfg.Loader.StrictIndices {
					t.Errorf("unexpected config %+v", cfg)
				}
				if cfg.Assets.Model != "triangle" {
					t.Errorf("model = %q, want triangle", cfg.Assets.Model)
				}
			},
		},
		{
			name:  "watch",
			args:  []string{"--config", config},
			watch: true,
			check: func(t *testing.T, cfg *engine.ApplicationConfig) {
				if !cfg.Assets.Watch {
					t.Error("expected watching to be enabled")
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(nil, io.Discard)
			var cfg *engine.ApplicationConfig
			app.Action = func(c *cli.Context) error {
				var err error
				cfg, err = applicationConfig(c, tt.watch)
				return err
			}
			if err := app.Run(append([]string{"objscope"}, tt.args...)); err != nil {
				t.Fatalf("run: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestInvalidLogLevelFlag(t *testing.T) {
	config, model := workspace(t, "", "info")

	_, err := run(t, nil, "--config", config, "--log-level", "loud", "load", model)
	if err == nil || !strings.Contains(err.Error(), "loud") {
		t.Errorf("error = %v, want it to name the bad level", err)
	}
}

func TestIsPiped(t *testing.T) {
	if isPiped(nil) {
		t.Error("nil reader is not piped")
	}
	if !isPiped(strings.NewReader("v 1 2 3")) {
		t.Error("in-memory readers count as piped")
	}

	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Skipf("no %s: %v", os.DevNull, err)
	}
	defer f.Close()
	if isPiped(f) {
		t.Errorf("%s is not piped input", os.DevNull)
	}

	path := filepath.Join(t.TempDir(), "model.obj")
	if err := os.WriteFile(path, []byte(triangleOBJ), 0o644); err != nil {
		t.Fatal(err)
	}
	redirected, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer redirected.Close()
	if !isPiped(redirected) {
		t.Error("a redirected file counts as piped input")
	}
}
