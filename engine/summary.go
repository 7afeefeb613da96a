package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/spaghettifunk/objscope/engine/core"
	"github.com/spaghettifunk/objscope/engine/resources"
)

func LogModelSummary(res *resources.Resource, elapsed time.Duration) {
	g := res.Geometry()
	if g == nil {
		return
	}
	ext := g.Extents()
	core.LogInfo("model '%s': %d positions, %d normals, %d faces in %s", res.Name, len(g.Positions), len(g.Normals), len(g.Faces), elapsed)
	core.LogDebug("model '%s' extents: min [%.3f, %.3f, %.3f] max [%.3f, %.3f, %.3f]", res.Name, ext.Min.X, ext.Min.Y, ext.Min.Z, ext.Max.X, ext.Max.Y, ext.Max.Z)
	if err := g.Validate(); err != nil {
		core.LogWarn("model '%s' has dangling indices: %s", res.Name, err)
	}
}

// WriteModelSummary prints a human readable report of a loaded model.
func WriteModelSummary(w io.Writer, res *resources.Resource) error {
	g := res.Geometry()
	if g == nil {
		return fmt.Errorf("resource %s holds no geometry", res.Name)
	}
	ext := g.Extents()
	size := ext.Size()
	_, err := fmt.Fprintf(w, "name:      %s\nid:        %s\npositions: %d\nnormals:   %d\nfaces:     %d\nextents:   [%g %g %g] .. [%g %g %g]\nsize:      [%g %g %g]\n",
		res.Name, res.ID,
		len(g.Positions), len(g.Normals), len(g.Faces),
		ext.Min.X, ext.Min.Y, ext.Min.Z, ext.Max.X, ext.Max.Y, ext.Max.Z,
		size.X, size.Y, size.Z)
	return err
}
