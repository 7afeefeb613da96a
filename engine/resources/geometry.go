package resources

import (
	"fmt"
	"unsafe"

	"github.com/spaghettifunk/objscope/engine/math"
)

// Face is a triangle: three 0-based position indices followed by three
// 0-based normal indices, in the same vertex order.
type Face [6]uint32

func NewFace(positions, normals [3]uint32) Face {
	return Face{
		positions[0], positions[1], positions[2],
		normals[0], normals[1], normals[2],
	}
}

func (f Face) Positions() [3]uint32 {
	return [3]uint32{f[0], f[1], f[2]}
}

func (f Face) Normals() [3]uint32 {
	return [3]uint32{f[3], f[4], f[5]}
}

/**
 * @brief Geometry parsed from a Wavefront file. Faces reference Positions
 * and Normals by index; the lists only ever grow while loading.
 */
type Geometry struct {
	/** @brief The name of the geometry, usually the source it came from. */
	Name string
	/** @brief Vertex positions in file order. */
	Positions []math.Vec3
	/** @brief Vertex normals in file order, numbered independently of positions. */
	Normals []math.Vec3
	/** @brief Triangular faces in file order. */
	Faces []Face
}

func NewGeometry(name string) *Geometry {
	return &Geometry{
		Name:      name,
		Positions: []math.Vec3{},
		Normals:   []math.Vec3{},
		Faces:     []Face{},
	}
}

// Reset empties all three containers, keeping their capacity.
func (g *Geometry) Reset() {
	g.Positions = g.Positions[:0]
	g.Normals = g.Normals[:0]
	g.Faces = g.Faces[:0]
}

// DataSize is the number of bytes held by the three containers.
func (g *Geometry) DataSize() uint64 {
	vec := uint64(unsafe.Sizeof(math.Vec3{}))
	face := uint64(unsafe.Sizeof(Face{}))
	return uint64(len(g.Positions)+len(g.Normals))*vec + uint64(len(g.Faces))*face
}

// Extents returns the bounding box of all positions. The zero value is
// returned for geometry without positions.
func (g *Geometry) Extents() math.Extents3D {
	if len(g.Positions) == 0 {
		return math.Extents3D{}
	}
	ext := math.Extents3D{Min: g.Positions[0], Max: g.Positions[0]}
	for _, p := range g.Positions[1:] {
		ext.Min = ext.Min.Min(p)
		ext.Max = ext.Max.Max(p)
	}
	return ext
}

// Validate reports the first face that references a position or normal
// outside the current lists.
func (g *Geometry) Validate() error {
	for i, f := range g.Faces {
		for _, p := range f.Positions() {
			if int(p) >= len(g.Positions) {
				return fmt.Errorf("face %d: position index %d out of range (%d positions)", i, p, len(g.Positions))
			}
		}
		for _, n := range f.Normals() {
			if int(n) >= len(g.Normals) {
				return fmt.Errorf("face %d: normal index %d out of range (%d normals)", i, n, len(g.Normals))
			}
		}
	}
	return nil
}

// FaceNormal returns the unit geometric normal of face i, following the
// counter-clockwise winding of its positions.
func (g *Geometry) FaceNormal(i int) (math.Vec3, error) {
	if i < 0 || i >= len(g.Faces) {
		return math.Vec3{}, fmt.Errorf("face %d out of range (%d faces)", i, len(g.Faces))
	}
	idx := g.Faces[i].Positions()
	for _, p := range idx {
		if int(p) >= len(g.Positions) {
			return math.Vec3{}, fmt.Errorf("face %d: position index %d out of range", i, p)
		}
	}
	p0, p1, p2 := g.Positions[idx[0]], g.Positions[idx[1]], g.Positions[idx[2]]
	// NOTE: degenerate triangles yield a zero vector.
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalized(), nil
}
