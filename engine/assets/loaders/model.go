package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	stdmath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spaghettifunk/objscope/engine/core"
	"github.com/spaghettifunk/objscope/engine/math"
	"github.com/spaghettifunk/objscope/engine/resources"
)

// ErrNilGeometry is returned by DecodeInto when there is nowhere to decode to.
var ErrNilGeometry = errors.New("nil destination geometry")

// ModelLoader reads the triangle subset of the Wavefront OBJ format:
// `v`, `vn` and `f p/t/n p/t/n p/t/n` lines. Everything else is skipped.
type ModelLoader struct {
	// StrictIndices rejects faces that reference positions or normals
	// not declared earlier in the file.
	StrictIndices bool
}

func (ml *ModelLoader) Load(path string, assetType resources.ResourceType, params interface{}) (*resources.Resource, error) {
	if assetType != resources.ResourceTypeModel {
		return nil, fmt.Errorf("model loader cannot load resources of type %s", assetType)
	}

	g, err := ml.LoadFile(path)
	if err != nil {
		return nil, err
	}

	name := g.Name
	if p, ok := params.(map[string]string); ok && p["name"] != "" {
		name = p["name"]
		g.Name = name
	}

	return &resources.Resource{
		ID:       core.IdentifierAquireNewID(),
		Name:     name,
		FullPath: path,
		Type:     resources.ResourceTypeModel,
		DataSize: g.DataSize(),
		Data:     g,
	}, nil
}

// LoadFile parses the file at path. The file is closed on every return.
func (ml *ModelLoader) LoadFile(path string) (*resources.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		core.LogError("failed to open model '%s': %s", path, err)
		return nil, core.NewParseError(core.ErrIO, path, 0, "", err)
	}
	defer f.Close()

	g := resources.NewGeometry(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err := ml.DecodeInto(path, f, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Decode parses r into freshly allocated geometry. name is only used
// for diagnostics.
func (ml *ModelLoader) Decode(name string, r io.Reader) (*resources.Geometry, error) {
	g := resources.NewGeometry(name)
	if err := ml.DecodeInto(name, r, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DecodeInto parses r and replaces the containers of dst with the result.
// The load is atomic: on error dst is left exactly as it was.
func (ml *ModelLoader) DecodeInto(name string, r io.Reader, dst *resources.Geometry) error {
	if dst == nil {
		return ErrNilGeometry
	}
	p := &objParser{
		source:   name,
		strict:   ml.StrictIndices,
		geometry: resources.NewGeometry(dst.Name),
	}
	if err := p.parse(r); err != nil {
		core.LogError("failed to load model '%s': %s", name, err)
		return err
	}

	dst.Positions = p.geometry.Positions
	dst.Normals = p.geometry.Normals
	dst.Faces = p.geometry.Faces

	core.LogDebug("loaded model '%s': %d positions, %d normals, %d faces", name, len(dst.Positions), len(dst.Normals), len(dst.Faces))
	return nil
}

func (ml *ModelLoader) Unload(*resources.Resource) error {
	return nil
}

type objParser struct {
	source   string
	strict   bool
	geometry *resources.Geometry

	lineNum int
	text    string
}

func (p *objParser) parse(r io.Reader) error {
	reader := bufio.NewReader(r)

	for {
		// ReadString has no upper bound on line length.
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return core.NewParseError(core.ErrIO, p.source, p.lineNum+1, "", err)
		}
		if len(line) > 0 {
			p.lineNum++
			p.text = strings.TrimRight(line, "\r\n")
			if perr := p.parseLine(); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

func (p *objParser) parseLine() error {
	fields := strings.Fields(p.text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		v, err := p.parseVec3(fields[1:])
		if err != nil {
			return err
		}
		p.geometry.Positions = append(p.geometry.Positions, v)
	case "vn":
		v, err := p.parseVec3(fields[1:])
		if err != nil {
			return err
		}
		p.geometry.Normals = append(p.geometry.Normals, v)
	case "f":
		f, err := p.parseFace(fields[1:])
		if err != nil {
			return err
		}
		p.geometry.Faces = append(p.geometry.Faces, f)
	default:
		// comments, texture coordinates, groups, smoothing, materials
	}
	return nil
}

// parseVec3 reads x, y and z. Trailing fields (w, vertex colours) are ignored.
func (p *objParser) parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, p.fail(core.ErrMalformedVertex, fmt.Errorf("expected 3 coordinates, got %d", len(fields)))
	}

	var c [3]float32
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, p.fail(core.ErrNumericParse, err)
		}
		c[i] = float32(f)
	}
	return math.NewVec3(c[0], c[1], c[2]), nil
}

func (p *objParser) parseFace(groups []string) (resources.Face, error) {
	if len(groups) != 3 {
		return resources.Face{}, p.fail(core.ErrMalformedFace, fmt.Errorf("expected 3 vertex groups, got %d", len(groups)))
	}

	var positions, normals [3]uint32
	for i, group := range groups {
		parts := strings.Split(group, "/")
		if len(parts) < 3 {
			return resources.Face{}, p.fail(core.ErrMalformedFace, fmt.Errorf("group %q: expected position/texture/normal", group))
		}
		if parts[0] == "" || parts[2] == "" {
			return resources.Face{}, p.fail(core.ErrMalformedFace, fmt.Errorf("group %q: missing position or normal index", group))
		}
		// texture coordinates are not modelled, but must still be numeric
		if parts[1] != "" {
			if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
				return resources.Face{}, p.fail(core.ErrNumericParse, err)
			}
		}

		pos, err := p.resolveIndex(parts[0], len(p.geometry.Positions), "position")
		if err != nil {
			return resources.Face{}, err
		}
		norm, err := p.resolveIndex(parts[2], len(p.geometry.Normals), "normal")
		if err != nil {
			return resources.Face{}, err
		}
		positions[i] = pos
		normals[i] = norm
	}
	return resources.NewFace(positions, normals), nil
}

// resolveIndex converts a 1-based (or negative, relative to count) index
// into a 0-based one.
func (p *objParser) resolveIndex(s string, count int, what string) (uint32, error) {
	raw, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, p.fail(core.ErrNumericParse, err)
	}

	var idx int64
	switch {
	case raw > 0:
		idx = raw - 1
	case raw < 0:
		idx = int64(count) + raw
		if idx < 0 {
			return 0, p.fail(core.ErrMalformedFace, fmt.Errorf("relative %s index %d with only %d declared", what, raw, count))
		}
	default:
		return 0, p.fail(core.ErrMalformedFace, fmt.Errorf("%s index 0 is invalid, indices are 1-based", what))
	}

	if idx > stdmath.MaxUint32 {
		return 0, p.fail(core.ErrMalformedFace, fmt.Errorf("%s index %d overflows", what, raw))
	}
	if p.strict && idx >= int64(count) {
		return 0, p.fail(core.ErrMalformedFace, fmt.Errorf("%s index %d references undeclared %s (%d declared)", what, raw, what, count))
	}
	return uint32(idx), nil
}

func (p *objParser) fail(kind error, err error) error {
	return core.NewParseError(kind, p.source, p.lineNum, p.text, err)
}
