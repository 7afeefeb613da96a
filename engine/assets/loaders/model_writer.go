package loaders

import (
	"bufio"
	"io"
	"strconv"

	"github.com/spaghettifunk/objscope/engine/math"
	"github.com/spaghettifunk/objscope/engine/resources"
)

// Encode writes g in the same OBJ subset ModelLoader reads. Indices are
// written 1-based with an empty texture slot (`p//n`) and floats use the
// shortest representation that parses back to the same float32.
func Encode(w io.Writer, g *resources.Geometry) error {
	bw := bufio.NewWriter(w)

	if g.Name != "" {
		bw.WriteString("o ")
		bw.WriteString(g.Name)
		bw.WriteByte('\n')
	}
	for _, v := range g.Positions {
		writeVec3(bw, "v", v)
	}
	for _, n := range g.Normals {
		writeVec3(bw, "vn", n)
	}

	buf := make([]byte, 0, 64)
	for _, f := range g.Faces {
		buf = append(buf[:0], 'f')
		pos, norm := f.Positions(), f.Normals()
		for i := 0; i < 3; i++ {
			buf = append(buf, ' ')
			buf = strconv.AppendUint(buf, uint64(pos[i])+1, 10)
			buf = append(buf, '/', '/')
			buf = strconv.AppendUint(buf, uint64(norm[i])+1, 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	return bw.Flush()
}

func writeVec3(bw *bufio.Writer, marker string, v math.Vec3) {
	buf := make([]byte, 0, 64)
	buf = append(buf, marker...)
	for _, c := range v.Elements() {
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, float64(c), 'g', -1, 32)
	}
	buf = append(buf, '\n')
	bw.Write(buf)
}
