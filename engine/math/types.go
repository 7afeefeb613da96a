package math

// Vec3 represents a 3D vector. Used for both vertex positions and
// vertex normals; the type itself makes no distinction.
type Vec3 struct {
	X, Y, Z float32
}

/**
 * @brief Represents the extents of a 3d object.
 */
type Extents3D struct {
	/** @brief The minimum extents of the object. */
	Min Vec3
	/** @brief The maximum extents of the object. */
	Max Vec3
}

/** @brief Returns the size of the extents along each axis. */
func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}

/** @brief Returns the point halfway between min and max. */
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}
