package vrd

// Point is a position or a direction in world space.
type Point struct {
	X, Y, Z float32
}

// Quaternion is a rotation.
type Quaternion struct {
	X, Y, Z, W float32
}

// Transform is a translation followed by a rotation.
type Transform struct {
	Translation Point
	Rotation    Quaternion
}

// StringPair is a static entity parameter written with the entity definition.
type StringPair struct {
	Key   string
	Value string
}

// IdentityQuaternion returns the no-rotation quaternion.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// IdentityTransform returns the transform written in place of an absent one:
// no translation and no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: Quaternion{W: 1}}
}

// Pt is shorthand for &Point{x, y, z}.
func Pt(x, y, z float32) *Point {
	return &Point{X: x, Y: y, Z: z}
}

// At returns a transform with the given translation and no rotation.
func At(x, y, z float32) *Transform {
	return &Transform{Translation: Point{X: x, Y: y, Z: z}, Rotation: IdentityQuaternion()}
}
