package script

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// Camera is the view requested by a (camera ...) form
type Camera struct {
	From core.Vec3
	At   core.Vec3
	Up   core.Vec3
	VFov float64 // Vertical field of view in degrees
}

// builder collects the scene settings made while a script runs
type builder struct {
	root   core.SceneObject
	camera *Camera
	light  *core.Vec3
	title  string
}

type builtin func(a arguments) (zygo.Sexp, error)

// register installs fn under name. Hyphens in name are stored as underscores to
// match preprocessSource, and errors are prefixed with the name as written.
func register(env *zygo.Zlisp, name string, fn builtin) {
	symbol := []byte(name)
	for i, c := range symbol {
		if c == '-' {
			symbol[i] = '_'
		}
	}
	env.AddFunction(string(symbol), func(env *zygo.Zlisp, _ string, args []zygo.Sexp) (zygo.Sexp, error) {
		result, err := fn(parseArgs(args))
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, name)
		}
		return result, nil
	})
}

func (a arguments) vec3(name string, fallback core.Vec3) (core.Vec3, error) {
	v, ok := a.kw[name]
	if !ok {
		return fallback, nil
	}
	r, err := toVec3(v)
	return r, errors.Wrap(err, name)
}

func (a arguments) number(name string, fallback float64) (float64, error) {
	v, ok := a.kw[name]
	if !ok {
		return fallback, nil
	}
	r, err := toFloat64(v)
	return r, errors.Wrap(err, name)
}

// positionalOr returns positional argument i, falling back to keyword name
func (a arguments) positionalOr(i int, name string) (zygo.Sexp, bool) {
	if i < len(a.positional) {
		return a.positional[i], true
	}
	v, ok := a.kw[name]
	return v, ok
}

// primitiveOptions reads the :name and :shadow keywords shared by all primitives
func (a arguments) primitiveOptions() ([]geometry.Option, error) {
	var opts []geometry.Option
	if v, ok := a.kw["name"]; ok {
		name, err := toString(v)
		if err != nil {
			return nil, errors.Wrap(err, "name")
		}
		opts = append(opts, geometry.Named(name))
	}
	if v, ok := a.kw["shadow"]; ok {
		on, err := toSwitch(v)
		if err != nil {
			return nil, errors.Wrap(err, "shadow")
		}
		opts = append(opts, geometry.ShadowThrowing(on))
	}
	return opts, nil
}

// rename applies a :name keyword to a composite
func (a arguments) rename(o core.SceneObject) error {
	v, ok := a.kw["name"]
	if !ok {
		return nil
	}
	name, err := toString(v)
	if err != nil {
		return errors.Wrap(err, "name")
	}
	return setName(o, name)
}

func setName(o core.SceneObject, name string) error {
	n, ok := o.(interface{ SetName(string) })
	if !ok {
		return errors.Errorf("%T cannot be renamed; use :name when creating it", o)
	}
	n.SetName(name)
	return nil
}

// primitive validates p before handing it to the script
func primitive(p core.SceneObject) (zygo.Sexp, error) {
	if v, ok := p.(geometry.Validator); ok {
		if err := v.Validate(); err != nil {
			return zygo.SexpNull, err
		}
	}
	return &sexpObject{object: p}, nil
}

// registerBuiltins installs the scene forms. Sources must go through
// preprocessSource first so keywords are recognisable.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	// (vec3 1 2 3)
	register(env, "vec3", func(a arguments) (zygo.Sexp, error) {
		if len(a.positional) != 3 {
			return zygo.SexpNull, errors.Errorf("requires exactly 3 arguments, got %d", len(a.positional))
		}
		var xyz [3]float64
		for i, arg := range a.positional {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "component %d", i+1)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: core.NewVec3(xyz[0], xyz[1], xyz[2])}, nil
	})

	// (sphere :center (vec3 0 0 0) :radius 1 :name "ball" :shadow :off)
	register(env, "sphere", func(a arguments) (zygo.Sexp, error) {
		center, err := a.vec3("center", core.Vec3{})
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := a.number("radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts, err := a.primitiveOptions()
		if err != nil {
			return zygo.SexpNull, err
		}
		return primitive(geometry.NewSphere(center, radius, opts...))
	})

	// (plane :point (vec3 0 0 0) :normal (vec3 0 1 0))
	register(env, "plane", func(a arguments) (zygo.Sexp, error) {
		point, err := a.vec3("point", core.Vec3{})
		if err != nil {
			return zygo.SexpNull, err
		}
		normal, err := a.vec3("normal", core.NewVec3(0, 1, 0))
		if err != nil {
			return zygo.SexpNull, err
		}
		opts, err := a.primitiveOptions()
		if err != nil {
			return zygo.SexpNull, err
		}
		return primitive(geometry.NewPlane(point, normal, opts...))
	})

	// (box :center (vec3 0 0 0) :size (vec3 1 1 1) :rotate (vec3 0 45 0))
	// size holds half-extents; rotate is in degrees about X, Y then Z
	register(env, "box", func(a arguments) (zygo.Sexp, error) {
		center, err := a.vec3("center", core.Vec3{})
		if err != nil {
			return zygo.SexpNull, err
		}
		size, err := a.vec3("size", core.NewVec3(1, 1, 1))
		if err != nil {
			return zygo.SexpNull, err
		}
		rotate, err := a.vec3("rotate", core.Vec3{})
		if err != nil {
			return zygo.SexpNull, err
		}
		opts, err := a.primitiveOptions()
		if err != nil {
			return zygo.SexpNull, err
		}
		rotation := core.NewVec3(degrees(rotate.X), degrees(rotate.Y), degrees(rotate.Z))
		return primitive(geometry.NewBox(center, size, rotation, opts...))
	})

	// (cylinder :base (vec3 0 0 0) :top (vec3 0 1 0) :radius 0.5)
	register(env, "cylinder", func(a arguments) (zygo.Sexp, error) {
		base, err := a.vec3("base", core.Vec3{})
		if err != nil {
			return zygo.SexpNull, err
		}
		top, err := a.vec3("top", core.NewVec3(0, 1, 0))
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := a.number("radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts, err := a.primitiveOptions()
		if err != nil {
			return zygo.SexpNull, err
		}
		return primitive(geometry.NewCylinder(base, top, radius, opts...))
	})

	// (rounded-box :size (vec3 2 2 2) :round 0.2)
	// size holds full side lengths, as sdfx expects
	register(env, "rounded-box", func(a arguments) (zygo.Sexp, error) {
		size, err := a.vec3("size", core.NewVec3(2, 2, 2))
		if err != nil {
			return zygo.SexpNull, err
		}
		round, err := a.number("round", 0.1)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts, err := a.primitiveOptions()
		if err != nil {
			return zygo.SexpNull, err
		}
		solid, err := geometry.NewRoundedBox(size, round, opts...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: solid}, nil
	})

	// (rounded-cylinder :height 2 :radius 0.5 :round 0.1), along Z
	register(env, "rounded-cylinder", func(a arguments) (zygo.Sexp, error) {
		height, err := a.number("height", 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		radius, err := a.number("radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		round, err := a.number("round", 0.1)
		if err != nil {
			return zygo.SexpNull, err
		}
		opts, err := a.primitiveOptions()
		if err != nil {
			return zygo.SexpNull, err
		}
		solid, err := geometry.NewRoundedCylinder(height, radius, round, opts...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: solid}, nil
	})

	// (group a b ...) keeps every surface; (union a b ...) keeps the outer hull
	register(env, "group", func(a arguments) (zygo.Sexp, error) {
		children, err := toObjects(a.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		c, err := csg.NewContainer(children...)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := a.rename(c); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: c}, nil
	})

	register(env, "union", func(a arguments) (zygo.Sexp, error) {
		children, err := toObjects(a.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		u, err := csg.NewUnion(children...)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := a.rename(u); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: u}, nil
	})

	// (intersect a b (negative c) (hidden d) (clipped e))
	register(env, "intersect", func(a arguments) (zygo.Sexp, error) {
		var m csg.Members
		for i, arg := range a.positional {
			if err := addMember(&m, arg); err != nil {
				return zygo.SexpNull, errors.Wrapf(err, "argument %d", i+1)
			}
		}
		x, err := csg.NewFullIntersection(m)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := a.rename(x); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: x}, nil
	})

	// (subtract plus minus ...)
	register(env, "subtract", func(a arguments) (zygo.Sexp, error) {
		objects, err := toObjects(a.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(objects) == 0 {
			return zygo.SexpNull, csg.ErrMissingPlus
		}
		d, err := csg.NewDifference(objects[0], objects[1:]...)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := a.rename(d); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: d}, nil
	})

	register(env, "invert", func(a arguments) (zygo.Sexp, error) {
		o, err := single(a)
		if err != nil {
			return zygo.SexpNull, err
		}
		inv, err := csg.NewInverse(o)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: inv}, nil
	})

	roles := map[string]csg.Role{
		"negative":        csg.Negative,
		"hidden":          csg.InvisiblePositive,
		"hidden-negative": csg.InvisibleNegative,
		"clipped":         csg.Clipped,
	}
	for name, role := range roles {
		role := role
		register(env, name, func(a arguments) (zygo.Sexp, error) {
			o, err := single(a)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpMember{role: role, object: o}, nil
		})
	}

	// (translate obj (vec3 1 0 0))
	register(env, "translate", func(a arguments) (zygo.Sexp, error) {
		return transformed(a, func(arg zygo.Sexp) (core.Transformation, error) {
			offset, err := toVec3(arg)
			return core.Translation(offset), err
		}, "by")
	})

	// (scale obj 2) or (scale obj (vec3 1 2 1))
	register(env, "scale", func(a arguments) (zygo.Sexp, error) {
		return transformed(a, func(arg zygo.Sexp) (core.Transformation, error) {
			factors, err := toScale(arg)
			if err != nil {
				return core.Transformation{}, err
			}
			return core.Scaling(factors)
		}, "by")
	})

	// (rotate obj :axis (vec3 0 1 0) :degrees 90)
	register(env, "rotate", func(a arguments) (zygo.Sexp, error) {
		o, err := single(a)
		if err != nil {
			return zygo.SexpNull, err
		}
		axis, err := a.vec3("axis", core.NewVec3(0, 1, 0))
		if err != nil {
			return zygo.SexpNull, err
		}
		if axis.LengthSquared() == 0 {
			return zygo.SexpNull, errors.New("axis must be non-zero")
		}
		angle, err := a.number("degrees", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{object: o.Transform(core.Rotation(axis, degrees(angle)))}, nil
	})

	// (named "lens" obj)
	register(env, "named", func(a arguments) (zygo.Sexp, error) {
		if len(a.positional) != 2 {
			return zygo.SexpNull, errors.Errorf("requires a name and an object, got %d arguments", len(a.positional))
		}
		name, err := toString(a.positional[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := toObject(a.positional[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := setName(o, name); err != nil {
			return zygo.SexpNull, err
		}
		return a.positional[1], nil
	})

	// (scene obj) marks the root explicitly; otherwise the last value is used
	register(env, "scene", func(a arguments) (zygo.Sexp, error) {
		o, err := single(a)
		if err != nil {
			return zygo.SexpNull, err
		}
		b.root = o
		if v, ok := a.kw["title"]; ok {
			title, err := toString(v)
			if err != nil {
				return zygo.SexpNull, errors.Wrap(err, "title")
			}
			b.title = title
		}
		return a.positional[0], nil
	})

	// (camera :from (vec3 0 0 -6) :at (vec3 0 0 0) :up (vec3 0 1 0) :fov 40)
	register(env, "camera", func(a arguments) (zygo.Sexp, error) {
		c := Camera{}
		var err error
		if c.From, err = a.vec3("from", core.NewVec3(0, 0, -6)); err != nil {
			return zygo.SexpNull, err
		}
		if c.At, err = a.vec3("at", core.Vec3{}); err != nil {
			return zygo.SexpNull, err
		}
		if c.Up, err = a.vec3("up", core.NewVec3(0, 1, 0)); err != nil {
			return zygo.SexpNull, err
		}
		if c.VFov, err = a.number("fov", 40); err != nil {
			return zygo.SexpNull, err
		}
		if c.From.ApproxEqual(c.At, core.Epsilon) {
			return zygo.SexpNull, errors.New("from and at coincide")
		}
		if !(c.VFov > 0 && c.VFov < 180) {
			return zygo.SexpNull, errors.Errorf("fov %g must be between 0 and 180 degrees", c.VFov)
		}
		b.camera = &c
		return zygo.SexpNull, nil
	})

	// (light :direction (vec3 -1 -1 1)), the direction light travels
	register(env, "light", func(a arguments) (zygo.Sexp, error) {
		arg, ok := a.positionalOr(0, "direction")
		if !ok {
			return zygo.SexpNull, errors.New("requires a direction")
		}
		direction, err := toVec3(arg)
		if err != nil {
			return zygo.SexpNull, errors.Wrap(err, "direction")
		}
		if direction.LengthSquared() == 0 {
			return zygo.SexpNull, errors.New("direction must be non-zero")
		}
		direction = direction.Normalize()
		b.light = &direction
		return zygo.SexpNull, nil
	})
}

// single returns the one object argument of a unary form
func single(a arguments) (core.SceneObject, error) {
	if len(a.positional) == 0 {
		return nil, errors.New("requires an object argument")
	}
	return toObject(a.positional[0])
}

// transformed applies the transformation built from the second argument (or
// the keyword key) to the first
func transformed(a arguments, build func(zygo.Sexp) (core.Transformation, error), key string) (zygo.Sexp, error) {
	o, err := single(a)
	if err != nil {
		return zygo.SexpNull, err
	}
	arg, ok := a.positionalOr(1, key)
	if !ok {
		return zygo.SexpNull, errors.New("requires an amount")
	}
	t, err := build(arg)
	if err != nil {
		return zygo.SexpNull, err
	}
	return &sexpObject{object: o.Transform(t)}, nil
}

// addMember sorts one intersect argument into its role
func addMember(m *csg.Members, arg zygo.Sexp) error {
	if member, ok := arg.(*sexpMember); ok {
		switch member.role {
		case csg.Negative:
			m.Negative = append(m.Negative, member.object)
		case csg.InvisiblePositive:
			m.InvisiblePositive = append(m.InvisiblePositive, member.object)
		case csg.InvisibleNegative:
			m.InvisibleNegative = append(m.InvisibleNegative, member.object)
		case csg.Clipped:
			m.Clipped = append(m.Clipped, member.object)
		default:
			m.Positive = append(m.Positive, member.object)
		}
		return nil
	}
	items, err := listItems(arg)
	if err != nil {
		return err
	}
	if items != nil {
		for _, item := range items {
			if err := addMember(m, item); err != nil {
				return err
			}
		}
		return nil
	}
	o, err := toObject(arg)
	if err != nil {
		return err
	}
	m.Positive = append(m.Positive, o)
	return nil
}
