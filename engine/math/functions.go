package math

import (
	"github.com/go-gl/mathgl/mgl32"
)

/** @brief The smallest positive difference two float32 values are compared with. */
const K_FLOAT_EPSILON float32 = 1.192092896e-07

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 *
 * @param x The x value.
 * @param y The y value.
 * @param z The z value.
 * @return A new 3-element vector.
 */
func NewVec3(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

/**
 * @brief Creates and returns a 3-component vector with all components set to 0.0f.
 */
func NewVec3Zero() Vec3 {
	return Vec3{0.0, 0.0, 0.0}
}

// NewVec3FromMgl converts a mathgl vector.
func NewVec3FromMgl(v mgl32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Mgl returns the vector as a mathgl vector, the layout renderers expect.
func (v Vec3) Mgl() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Elements returns the components in x, y, z order.
func (v Vec3) Elements() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

/**
 * @brief Adds other to v and returns a copy of the result.
 */
func (v Vec3) Add(other Vec3) Vec3 {
	return NewVec3FromMgl(v.Mgl().Add(other.Mgl()))
}

/**
 * @brief Subtracts other from v and returns a copy of the result.
 */
func (v Vec3) Sub(other Vec3) Vec3 {
	return NewVec3FromMgl(v.Mgl().Sub(other.Mgl()))
}

/**
 * @brief Multiplies all elements of v by scalar and returns a copy of the result.
 */
func (v Vec3) MulScalar(scalar float32) Vec3 {
	return NewVec3FromMgl(v.Mgl().Mul(scalar))
}

/**
 * @brief Returns the length of the provided vector.
 */
func (v Vec3) Length() float32 {
	return v.Mgl().Len()
}

/**
 * @brief Returns a normalized copy of the supplied vector. A zero-length
 * vector is returned unchanged.
 */
func (v Vec3) Normalized() Vec3 {
	if v.Length() == 0 {
		return v
	}
	return NewVec3FromMgl(v.Mgl().Normalize())
}

/**
 * @brief Returns the dot product between the provided vectors.
 */
func (v Vec3) Dot(other Vec3) float32 {
	return v.Mgl().Dot(other.Mgl())
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return NewVec3FromMgl(v.Mgl().Cross(other.Mgl()))
}

/**
 * @brief Compares all elements of v and other and ensures the difference
 * is less than tolerance.
 *
 * @param other The second vector.
 * @param tolerance The difference tolerance. Typically K_FLOAT_EPSILON or similar.
 * @return True if within tolerance; otherwise false.
 */
func (v Vec3) Compare(other Vec3, tolerance float32) bool {
	return v.Mgl().ApproxEqualThreshold(other.Mgl(), tolerance)
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{Min(v.X, other.X), Min(v.Y, other.Y), Min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{Max(v.X, other.X), Max(v.Y, other.Y), Max(v.Z, other.Z)}
}
