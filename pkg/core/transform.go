package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrSingularTransformation is returned for matrices that cannot be inverted
var ErrSingularTransformation = errors.New("transformation is not invertible")

// Transformation is an invertible affine map. The inverse is kept alongside the
// matrix so normals and world-to-local lookups never re-invert.
type Transformation struct {
	m   mgl64.Mat4
	inv mgl64.Mat4
}

// Identity returns the identity transformation
func Identity() Transformation {
	return Transformation{m: mgl64.Ident4(), inv: mgl64.Ident4()}
}

// Translation returns a transformation moving everything by offset
func Translation(offset Vec3) Transformation {
	return Transformation{
		m:   mgl64.Translate3D(offset.X, offset.Y, offset.Z),
		inv: mgl64.Translate3D(-offset.X, -offset.Y, -offset.Z),
	}
}

// UniformScaling scales about the origin by factor, which must be non-zero
func UniformScaling(factor float64) (Transformation, error) {
	return Scaling(NewVec3(factor, factor, factor))
}

// Scaling scales about the origin by the components of factors
func Scaling(factors Vec3) (Transformation, error) {
	if factors.X == 0 || factors.Y == 0 || factors.Z == 0 {
		return Transformation{}, errors.Wrapf(ErrSingularTransformation, "scaling by %v", factors)
	}
	return Transformation{
		m:   mgl64.Scale3D(factors.X, factors.Y, factors.Z),
		inv: mgl64.Scale3D(1/factors.X, 1/factors.Y, 1/factors.Z),
	}, nil
}

// Rotation rotates by angle radians about axis through the origin
func Rotation(axis Vec3, angle float64) Transformation {
	a := mgl64.Vec3{axis.X, axis.Y, axis.Z}.Normalize()
	return Transformation{
		m:   mgl64.HomogRotate3D(angle, a),
		inv: mgl64.HomogRotate3D(-angle, a),
	}
}

// FromMatrix wraps an arbitrary affine matrix
func FromMatrix(m mgl64.Mat4) (Transformation, error) {
	if math.Abs(m.Det()) < 1e-12 {
		return Transformation{}, errors.Wrap(ErrSingularTransformation, "from matrix")
	}
	return Transformation{m: m, inv: m.Inv()}, nil
}

// Matrix returns the underlying matrix
func (t Transformation) Matrix() mgl64.Mat4 {
	return t.m
}

// Then returns the transformation that applies t first and next second
func (t Transformation) Then(next Transformation) Transformation {
	return Transformation{
		m:   next.m.Mul4(t.m),
		inv: t.inv.Mul4(next.inv),
	}
}

// Inverse returns the inverse transformation
func (t Transformation) Inverse() Transformation {
	return Transformation{m: t.inv, inv: t.m}
}

// IsIdentity reports whether t is (numerically) the identity
func (t Transformation) IsIdentity() bool {
	return t.m.ApproxEqualThreshold(mgl64.Ident4(), 1e-12)
}

// Point maps a position
func (t Transformation) Point(p Vec3) Vec3 {
	return fromMgl(mgl64.TransformCoordinate(toMgl(p), t.m))
}

// Direction maps a displacement; translation does not apply
func (t Transformation) Direction(d Vec3) Vec3 {
	r := t.m.Mul4x1(mgl64.Vec4{d.X, d.Y, d.Z, 0})
	return NewVec3(r[0], r[1], r[2])
}

// Normal maps a surface normal with the inverse transpose and renormalises it
func (t Transformation) Normal(n Vec3) Vec3 {
	r := t.inv.Transpose().Mul4x1(mgl64.Vec4{n.X, n.Y, n.Z, 0})
	return NewVec3(r[0], r[1], r[2]).Normalize()
}

// ScaleFactor returns the geometric mean of the axis scalings, which is the
// exact length scale for similarity transformations
func (t Transformation) ScaleFactor() float64 {
	return math.Cbrt(math.Abs(t.m.Mat3().Det()))
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}
