package main

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spaghettifunk/objscope/engine"
	"github.com/spaghettifunk/objscope/engine/assets/loaders"
	"github.com/spaghettifunk/objscope/engine/core"
	"github.com/spaghettifunk/objscope/engine/resources"
	"github.com/urfave/cli/v2"
)

var errNoWatchSource = errors.New("watch needs a model path")

// newApp builds the command set. stdin may be nil when no input stream is
// available.
func newApp(stdin io.Reader, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:   "objscope",
		Usage:  "parse Wavefront .obj geometry into positions, normals and faces",
		Writer: stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML configuration file",
				Value:   engine.DefaultConfigFile,
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "assets",
				Usage: "assets directory to index",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "reject faces that reference undeclared vertices or normals",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "load a model and print a summary",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					return withEngine(c, false, func(e *engine.Engine, cfg *engine.ApplicationConfig) error {
						res, err := loadModel(c, stdin, e, cfg)
						if err != nil {
							return err
						}
						return engine.WriteModelSummary(stdout, res)
					})
				},
			},
			{
				Name:      "watch",
				Usage:     "load a model and reload it whenever it changes",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					return withEngine(c, true, func(e *engine.Engine, cfg *engine.ApplicationConfig) error {
						source := c.Args().First()
						if source == "" {
							source = cfg.Assets.Model
						}
						if source == "" {
							return errNoWatchSource
						}
						return e.Run(c.Context, source, func(res *resources.Resource) error {
							return engine.WriteModelSummary(stdout, res)
						})
					})
				},
			},
			{
				Name:      "encode",
				Usage:     "load a model and write it back as normalised OBJ",
				ArgsUsage: "[path]",
				Action: func(c *cli.Context) error {
					return withEngine(c, false, func(e *engine.Engine, cfg *engine.ApplicationConfig) error {
						res, err := loadModel(c, stdin, e, cfg)
						if err != nil {
							return err
						}
						return loaders.Encode(stdout, res.Geometry())
					})
				},
			},
		},
	}
}

// loadModel picks the model source: an explicit path, then piped input,
// then the configured model, and finally an interactive stdin.
func loadModel(c *cli.Context, stdin io.Reader, e *engine.Engine, cfg *engine.ApplicationConfig) (*resources.Resource, error) {
	if source := c.Args().First(); source != "" {
		return e.LoadModel(source)
	}
	if isPiped(stdin) || (cfg.Assets.Model == "" && stdin != nil) {
		return e.DecodeModel("stdin", bufio.NewReader(stdin))
	}
	if cfg.Assets.Model != "" {
		return e.LoadModel(cfg.Assets.Model)
	}
	return nil, errors.New("no model given: pass a path, pipe one on stdin or set assets.model")
}

// isPiped reports whether r carries input that was redirected into the
// process. Readers that are not files always count as piped.
func isPiped(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	// /dev/null and other character devices carry no model
	return fi.Mode()&os.ModeCharDevice == 0
}

// applicationConfig builds the configuration from file and flags.
func applicationConfig(c *cli.Context, watch bool) (*engine.ApplicationConfig, error) {
	cfg, err := engine.LoadApplicationConfig(c.String("config"), !c.IsSet("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.Application.LogLevel = core.LogLevel(c.String("log-level"))
	}
	if c.IsSet("assets") {
		cfg.Assets.Dir = c.String("assets")
	}
	if c.IsSet("strict") {
		cfg.Loader.StrictIndices = c.Bool("strict")
	}
	if watch {
		cfg.Assets.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withEngine runs fn with an initialized engine and always shuts it down.
func withEngine(c *cli.Context, watch bool, fn func(e *engine.Engine, cfg *engine.ApplicationConfig) error) error {
	cfg, err := applicationConfig(c, watch)
	if err != nil {
		return err
	}

	e, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError(err.Error())
		}
	}()

	if err := e.Initialize(); err != nil {
		return err
	}
	return fn(e, cfg)
}
