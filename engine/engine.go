package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/spaghettifunk/objscope/engine/assets"
	"github.com/spaghettifunk/objscope/engine/assets/loaders"
	"github.com/spaghettifunk/objscope/engine/core"
	"github.com/spaghettifunk/objscope/engine/resources"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

var ErrNotInitialized = errors.New("engine not initialized")

// OnLoad is called with every successfully loaded model, including reloads.
type OnLoad func(res *resources.Resource) error

type Engine struct {
	currentStage Stage
	config       *ApplicationConfig
	assetManager *assets.AssetManager
	modelLoader  *loaders.ModelLoader
	clock        *core.Clock

	mutex sync.RWMutex
	model *resources.Resource
}

func New(cfg *ApplicationConfig) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultApplicationConfig()
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		assetManager: am,
		modelLoader:  &loaders.ModelLoader{StrictIndices: cfg.Loader.StrictIndices},
		clock:        core.NewClock(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	if err := core.SetLogLevel(e.config.Application.LogLevel); err != nil {
		return err
	}
	if err := core.MetricsInitialize(); err != nil {
		return err
	}

	e.assetManager.RegisterLoader(resources.ResourceTypeModel, e.modelLoader)

	dir := e.config.Assets.Dir
	if dir != "" {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			core.LogWarn("assets directory '%s' does not exist, only explicit paths can be loaded", dir)
			dir = ""
		}
	}
	if err := e.assetManager.Initialize(dir); err != nil {
		return err
	}

	core.LogDebug("%s initialized, %d models indexed", e.config.Application.Name, len(e.assetManager.Assets(resources.ResourceTypeModel)))
	e.currentStage = EngineStageInitialized
	return nil
}

// LoadModel loads a model by asset name or path and makes it current.
func (e *Engine) LoadModel(name string) (*resources.Resource, error) {
	if e.currentStage < EngineStageInitialized {
		return nil, ErrNotInitialized
	}

	e.clock.Start()
	res, err := e.assetManager.LoadAsset(name, resources.ResourceTypeModel, nil)
	e.clock.Stop()
	if err != nil {
		return nil, err
	}

	e.setModel(res)
	return res, nil
}

// DecodeModel loads a model from a stream, such as standard input.
func (e *Engine) DecodeModel(name string, r io.Reader) (*resources.Resource, error) {
	if e.currentStage < EngineStageInitialized {
		return nil, ErrNotInitialized
	}

	e.clock.Start()
	g, err := e.modelLoader.Decode(name, r)
	e.clock.Stop()
	if err != nil {
		return nil, err
	}

	res := &resources.Resource{
		ID:       core.IdentifierAquireNewID(),
		Name:     name,
		Type:     resources.ResourceTypeModel,
		DataSize: g.DataSize(),
		Data:     g,
	}
	e.setModel(res)
	return res, nil
}

func (e *Engine) setModel(res *resources.Resource) {
	g := res.Geometry()
	core.MetricsUpdate(e.clock.Elapsed(), len(g.Faces))
	LogModelSummary(res, e.clock.Elapsed())

	e.mutex.Lock()
	e.model = res
	e.mutex.Unlock()
}

// Model returns the last model that loaded successfully.
func (e *Engine) Model() *resources.Resource {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.model
}

// Run loads name and hands it to onLoad. With watching enabled it keeps
// reloading the model on every change until ctx is cancelled; a reload
// that fails is logged and the previous model stays current.
func (e *Engine) Run(ctx context.Context, name string, onLoad OnLoad) error {
	res, err := e.LoadModel(name)
	if err != nil {
		return err
	}
	if onLoad != nil {
		if err := onLoad(res); err != nil {
			return err
		}
	}
	if !e.config.Assets.Watch {
		return nil
	}

	e.currentStage = EngineStageRunning
	if err := e.assetManager.Watch(res.FullPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", res.FullPath, err)
	}
	core.LogInfo("watching '%s' for changes", res.FullPath)

	reloads := e.assetManager.Reloads()
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-reloads:
			if !ok {
				return nil
			}
			if path != res.FullPath {
				continue
			}
			next, err := e.LoadModel(path)
			if err != nil {
				core.LogWarn("reload of '%s' failed, keeping previous model: %s", path, err)
				continue
			}
			if onLoad != nil {
				if err := onLoad(next); err != nil {
					return err
				}
			}
		}
	}
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if loads, faces := core.MetricsLoads(); loads > 0 {
		core.LogDebug("%d loads, %d faces, %.3f ms average", loads, faces, core.MetricsLoadTime())
	}
	return e.assetManager.Shutdown()
}
