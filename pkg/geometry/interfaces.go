package geometry

import "github.com/df07/go-csg-raytracer/pkg/core"

// Bounded is implemented by primitives with a finite extent
type Bounded interface {
	BoundingBox() core.AABB
}

// Validator is implemented by primitives that can check their own parameters
type Validator interface {
	Validate() error
}

var (
	_ core.Primitive = (*Sphere)(nil)
	_ core.Primitive = (*Plane)(nil)
	_ core.Primitive = (*Box)(nil)
	_ core.Primitive = (*Cylinder)(nil)
	_ core.Primitive = (*SDFSolid)(nil)

	_ core.Parented = (*Sphere)(nil)
	_ Bounded       = (*Box)(nil)
	_ Validator     = (*Cylinder)(nil)
)
