package script

import (
	"fmt"
	"math"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/pkg/errors"
)

// sexpVec3 carries a vector between builtins
type sexpVec3 struct {
	vec core.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpObject carries a scene object between builtins
type sexpObject struct {
	object core.SceneObject
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	if n, ok := o.object.(csg.Named); ok {
		return fmt.Sprintf("(object %q)", n.Name())
	}
	return fmt.Sprintf("(object %T)", o.object)
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// sexpMember tags an object with the role it plays inside an intersection
type sexpMember struct {
	role   csg.Role
	object core.SceneObject
}

func (m *sexpMember) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %s)", m.role, (&sexpObject{object: m.object}).SexpString(ps))
}
func (m *sexpMember) Type() *zygo.RegisteredType { return nil }

func describeSexp(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, errors.Errorf("expected number, got %s", describeSexp(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", errors.Errorf("expected string, got %s", describeSexp(s))
}

// toKeywordString accepts both :keyword and "keyword"
func toKeywordString(s zygo.Sexp) (string, error) {
	if name, ok := keyword(s); ok {
		return name, nil
	}
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", errors.Errorf("expected keyword or string, got %s", describeSexp(s))
	}
	return str.S, nil
}

// toSwitch reads an on/off flag written as :on, :off, :yes, :no, 1 or 0
func toSwitch(s zygo.Sexp) (bool, error) {
	if n, err := toFloat64(s); err == nil {
		return n != 0, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return false, errors.Wrap(err, "expected :on or :off")
	}
	switch name {
	case "on", "yes", "true":
		return true, nil
	case "off", "no", "false":
		return false, nil
	}
	return false, errors.Errorf("invalid switch %q, expected on or off", name)
}

func toVec3(s zygo.Sexp) (core.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return core.Vec3{}, errors.Errorf("expected vec3, got %s", describeSexp(s))
}

// toScale accepts a single factor or a per-axis vec3
func toScale(s zygo.Sexp) (core.Vec3, error) {
	if f, err := toFloat64(s); err == nil {
		return core.NewVec3(f, f, f), nil
	}
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return core.Vec3{}, errors.Errorf("expected number or vec3, got %s", describeSexp(s))
}

func toObject(s zygo.Sexp) (core.SceneObject, error) {
	if o, ok := s.(*sexpObject); ok {
		return o.object, nil
	}
	if _, ok := s.(*sexpMember); ok {
		return nil, errors.Errorf("role wrapper %s only works inside intersect", s.SexpString(nil))
	}
	return nil, errors.Errorf("expected scene object, got %s", describeSexp(s))
}

// toObjects flattens arguments that are objects or lists of objects
func toObjects(args []zygo.Sexp) ([]core.SceneObject, error) {
	var objects []core.SceneObject
	for i, arg := range args {
		items, err := listItems(arg)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []zygo.Sexp{arg}
		}
		for _, item := range items {
			o, err := toObject(item)
			if err != nil {
				return nil, errors.Wrapf(err, "argument %d", i+1)
			}
			objects = append(objects, o)
		}
	}
	return objects, nil
}

// listItems returns the elements of a list or array argument, or nil for
// anything else
func listItems(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	}
	return nil, nil
}

func degrees(d float64) float64 {
	return d * math.Pi / 180
}
