package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/objscope/engine/containers"
	"github.com/spaghettifunk/objscope/engine/core"
	"github.com/spaghettifunk/objscope/engine/resources"
)

// Number of changed models kept while nobody reads Reloads.
const pendingReloads = 16

var ErrAssetManagerClosed = errors.New("asset manager already closed")

type AssetInfo struct {
	Path       string
	Type       resources.ResourceType
	LastLoaded time.Time
}

type AssetManager struct {
	assetsDir string
	assets    map[string]AssetInfo
	loaders   map[resources.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	wg       sync.WaitGroup

	pendingMutex sync.Mutex
	pending      *containers.RingQueue[string]
	wake         chan struct{}
	reloads      chan string
}

func NewAssetManager() (*AssetManager, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	am := &AssetManager{
		assets:   make(map[string]AssetInfo),
		loaders:  make(map[resources.ResourceType]Loader),
		fsnotify: fsWatch,
		pending:  containers.NewRingQueue[string](pendingReloads),
		wake:     make(chan struct{}, 1),
		reloads:  make(chan string),
		done:     make(chan struct{}),
	}

	am.wg.Add(2)
	go am.start()
	go am.dispatch()

	return am, nil
}

// Initialize indexes every file below assetsDir and starts watching it.
// An empty assetsDir skips indexing; files can still be loaded by path.
func (am *AssetManager) Initialize(assetsDir string) error {
	if assetsDir != "" {
		am.assetsDir = filepath.Clean(assetsDir)
		if err := am.addRecursive(am.assetsDir); err != nil {
			return err
		}
	}
	return nil
}

// RegisterLoader sets the loader used for assetType, replacing any previous one.
func (am *AssetManager) RegisterLoader(assetType resources.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	am.loaders[assetType] = loader
}

// Watch starts watching the directory holding path so that changes to
// path show up on Reloads even when it lives outside the assets directory.
func (am *AssetManager) Watch(path string) error {
	path = filepath.Clean(path)
	if err := am.add(filepath.Dir(path)); err != nil {
		return err
	}
	am.handleFileEvent(path)
	return nil
}

// Reloads delivers the paths of model files that were created or written.
// The channel is closed by Shutdown.
func (am *AssetManager) Reloads() <-chan string {
	return am.reloads
}

func (am *AssetManager) closed() bool {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return am.isClosed
}

// Add starts watching the named file or directory (non-recursively).
func (am *AssetManager) add(name string) error {
	if am.closed() {
		return ErrAssetManagerClosed
	}
	return am.fsnotify.Add(name)
}

// AddRecursive starts watching the named directory and all sub-directories.
func (am *AssetManager) addRecursive(name string) error {
	if am.closed() {
		return ErrAssetManagerClosed
	}
	if err := am.watchRecursive(name, false); err != nil {
		return err
	}
	return nil
}

// LoadAsset loads an asset by indexed path, by name (models resolve to
// <assets>/models/<name>.obj) or by a path on disk.
func (am *AssetManager) LoadAsset(name string, resourceType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	path, err := am.resolve(name, resourceType)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	asset, exists := am.assets[path]
	if !exists {
		asset = AssetInfo{Path: path, Type: resourceType}
	}
	// Load or reload asset from disk
	asset.LastLoaded = time.Now()
	am.assets[path] = asset
	loader, loaderExists := am.loaders[asset.Type]
	am.mutex.Unlock()

	if asset.Type != resourceType {
		return nil, fmt.Errorf("asset %s is a %s, not a %s", path, asset.Type, resourceType)
	}
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}

	return loader.Load(path, resourceType, params)
}

func (am *AssetManager) resolve(name string, resourceType resources.ResourceType) (string, error) {
	candidates := []string{filepath.Clean(name)}
	if am.assetsDir != "" {
		switch resourceType {
		case resources.ResourceTypeModel:
			candidates = append(candidates, filepath.Join(am.assetsDir, "models", name+".obj"))
		case resources.ResourceTypeMaterial:
			candidates = append(candidates, filepath.Join(am.assetsDir, "materials", name+".mtl"))
		}
		candidates = append(candidates, filepath.Join(am.assetsDir, name))
	}

	am.mutex.RLock()
	for _, c := range candidates {
		if _, ok := am.assets[c]; ok {
			am.mutex.RUnlock()
			return c, nil
		}
	}
	am.mutex.RUnlock()

	for _, c := range candidates {
		if s, err := os.Stat(c); err == nil && !s.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("asset not found: %s", name)
}

// Assets returns a snapshot of the indexed assets of the given type.
func (am *AssetManager) Assets(resourceType resources.ResourceType) []AssetInfo {
	am.mutex.RLock()
	defer am.mutex.RUnlock()

	infos := []AssetInfo{}
	for _, a := range am.assets {
		if a.Type == resourceType {
			infos = append(infos, a)
		}
	}
	return infos
}

func (am *AssetManager) UnloadAsset(asset *resources.Resource) error {
	am.mutex.RLock()
	loader, ok := am.loaders[asset.Type]
	am.mutex.RUnlock()
	if !ok {
		return fmt.Errorf("no loader registered for asset type: %s", asset.Type)
	}
	return loader.Unload(asset)
}

// Shutdown stops watching and closes Reloads. It is safe to call twice.
func (am *AssetManager) Shutdown() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	close(am.done)
	am.wg.Wait()
	close(am.reloads)
	return am.fsnotify.Close()
}

func (am *AssetManager) start() {
	defer am.wg.Done()

	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			name := filepath.Clean(e.Name)
			s, err := os.Stat(name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					am.watchRecursive(name, false)
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				if am.handleFileEvent(name) == resources.ResourceTypeModel {
					am.queueReload(name)
				}
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				am.removeAsset(name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", err)

		case <-am.done:
			return
		}
	}
}

// dispatch hands queued reloads to the Reloads consumer.
func (am *AssetManager) dispatch() {
	defer am.wg.Done()

	for {
		am.pendingMutex.Lock()
		path, err := am.pending.Dequeue()
		am.pendingMutex.Unlock()

		if err != nil {
			select {
			case <-am.wake:
				continue
			case <-am.done:
				return
			}
		}

		select {
		case am.reloads <- path:
		case <-am.done:
			return
		}
	}
}

func (am *AssetManager) queueReload(path string) {
	am.pendingMutex.Lock()
	// Editors often write a file several times in a row.
	if !am.pending.Contains(func(p string) bool { return p == path }) {
		if am.pending.Overwrite(path) {
			core.LogWarn("reload queue full, dropped the oldest pending model")
		}
	}
	am.pendingMutex.Unlock()

	select {
	case am.wake <- struct{}{}:
	default:
	}
}

// watchRecursive adds all directories under the given one to the watch list
// and indexes the files it finds.
func (am *AssetManager) watchRecursive(path string, unWatch bool) error {
	err := filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if unWatch {
				if err = am.fsnotify.Remove(walkPath); err != nil {
					return err
				}
			} else {
				if err = am.fsnotify.Add(walkPath); err != nil {
					return err
				}
			}
		} else {
			am.handleFileEvent(filepath.Clean(walkPath))
		}
		return nil
	})
	return err
}

// Handle the creation or modification of a file
func (am *AssetManager) handleFileEvent(path string) resources.ResourceType {
	assetType := determineAssetType(path)
	if assetType == resources.ResourceTypeNone {
		return assetType
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()

	info, ok := am.assets[path]
	if !ok {
		info = AssetInfo{Path: path, Type: assetType}
	}
	am.assets[path] = info
	return assetType
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	delete(am.assets, path)
}

func determineAssetType(path string) resources.ResourceType {
	switch filepath.Ext(path) {
	case ".txt":
		return resources.ResourceTypeText
	case ".spv":
		return resources.ResourceTypeBinary
	case ".shadercfg":
		return resources.ResourceTypeShader
	case ".png", ".jpg", ".tga":
		return resources.ResourceTypeImage
	case ".mtl":
		return resources.ResourceTypeMaterial
	case ".obj":
		return resources.ResourceTypeModel
	default:
		return resources.ResourceTypeNone
	}
}
