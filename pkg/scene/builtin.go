package scene

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/pkg/errors"
)

// ErrUnknownScene is returned when no scene has the requested ID
var ErrUnknownScene = errors.New("unknown scene")

const builtinGroup = "Built-in Scenes"

type builtinScene struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var builtinScenes = []builtinScene{
	{builtinInfo("default", "Default Scene", "Union, lens and crescent side by side on a ground plane"), NewDefaultScene},
	{builtinInfo("union", "Union", "Two overlapping spheres merged into one solid"), NewUnionScene},
	{builtinInfo("lens", "Lens", "Intersection of two spheres"), NewLensScene},
	{builtinInfo("crescent", "Crescent", "A sphere with a bite taken out of it"), NewCrescentScene},
	{builtinInfo("container", "Container", "Overlapping spheres grouped without boolean filtering"), NewContainerScene},
	{builtinInfo("dice", "Dice", "Rounded cube with pips drilled by negative members"), NewDiceScene},
	{builtinInfo("cutaway", "Cutaway", "Hollow sphere opened by an invisible plane"), NewCutawayScene},
	{builtinInfo("rounded", "Rounded Solids", "Signed distance solids carved by an analytic sphere"), NewRoundedScene},
}

func builtinInfo(id, name, description string) SceneInfo {
	return SceneInfo{
		ID:          id,
		Name:        name,
		DisplayName: name,
		Description: description,
		Group:       builtinGroup,
		Type:        "builtin",
	}
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	infos := make([]SceneInfo, len(builtinScenes))
	for i, b := range builtinScenes {
		infos[i] = b.info
	}
	return infos
}

// NewBuiltinScene builds the built-in scene with the given ID
func NewBuiltinScene(id string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == id {
			return b.build()
		}
	}
	return nil, errors.Wrapf(ErrUnknownScene, "builtin %q", id)
}

// withGround puts object on an infinite ground plane one unit below the origin
func withGround(name string, object core.SceneObject) (*Scene, error) {
	ground := geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), geometry.Named("ground"))
	root, err := csg.NewContainer(object, ground)
	if err != nil {
		return nil, err
	}
	root.SetName(name)
	return New(name, root), nil
}

func unionOfSpheres(x float64) (*csg.Union, error) {
	u, err := csg.NewUnion(
		geometry.NewSphere(core.NewVec3(x-0.5, 0, 0), 0.8, geometry.Named("left")),
		geometry.NewSphere(core.NewVec3(x+0.5, 0, 0), 0.8, geometry.Named("right")),
	)
	if err != nil {
		return nil, err
	}
	u.SetName("union")
	return u, nil
}

func lens(x float64) (*csg.Intersection, error) {
	l, err := csg.NewIntersection(
		geometry.NewSphere(core.NewVec3(x-0.5, 0, 0), 1, geometry.Named("left")),
		geometry.NewSphere(core.NewVec3(x+0.5, 0, 0), 1, geometry.Named("right")),
	)
	if err != nil {
		return nil, err
	}
	l.SetName("lens")
	return l, nil
}

func crescent(x float64) (*csg.Difference, error) {
	d, err := csg.NewDifference(
		geometry.NewSphere(core.NewVec3(x, 0, 0), 1, geometry.Named("body")),
		geometry.NewSphere(core.NewVec3(x+0.6, 0.2, -0.5), 0.9, geometry.Named("bite")),
	)
	if err != nil {
		return nil, err
	}
	d.SetName("crescent")
	return d, nil
}

// NewDefaultScene shows the three boolean operations side by side
func NewDefaultScene() (*Scene, error) {
	u, err := unionOfSpheres(-3)
	if err != nil {
		return nil, err
	}
	l, err := lens(0)
	if err != nil {
		return nil, err
	}
	c, err := crescent(3)
	if err != nil {
		return nil, err
	}
	row, err := csg.NewContainer(u, l, c)
	if err != nil {
		return nil, err
	}
	row.SetName("row")

	s, err := withGround("default", row)
	if err != nil {
		return nil, err
	}
	s.CameraConfig = MergeCameraConfig(s.CameraConfig, CameraConfig{
		Center: core.NewVec3(0, 3, -9),
		VFov:   45,
	})
	return s, nil
}

// NewUnionScene shows two spheres merged without the inner surfaces
func NewUnionScene() (*Scene, error) {
	u, err := unionOfSpheres(0)
	if err != nil {
		return nil, err
	}
	return withGround("union", u)
}

// NewLensScene shows the intersection of two spheres
func NewLensScene() (*Scene, error) {
	l, err := lens(0)
	if err != nil {
		return nil, err
	}
	return withGround("lens", l)
}

// NewCrescentScene shows a difference whose carved surface faces the camera
func NewCrescentScene() (*Scene, error) {
	c, err := crescent(0)
	if err != nil {
		return nil, err
	}
	return withGround("crescent", c)
}

// NewContainerScene groups two overlapping spheres. The smaller one pokes out
// of the larger; unlike a union, shadow and camera rays see both surfaces.
func NewContainerScene() (*Scene, error) {
	inner, err := csg.NewContainer(
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, geometry.Named("big")),
		geometry.NewSphere(core.NewVec3(0.9, 0.4, -0.6), 0.5, geometry.Named("small")),
	)
	if err != nil {
		return nil, err
	}
	inner.SetName("pair")
	return withGround("container", inner)
}

// NewDiceScene builds a die: a cube rounded by a sphere, with pips drilled by
// negative spheres whose inner faces stay visible
func NewDiceScene() (*Scene, error) {
	cube := geometry.NewAxisAlignedBox(core.Vec3{}, core.NewVec3(1, 1, 1), geometry.Named("cube"))
	rounding := geometry.NewSphere(core.Vec3{}, 1.45, geometry.Named("rounding"))

	var pips []core.SceneObject
	for _, c := range []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(-1, 0.4, 0.4), core.NewVec3(-1, -0.4, -0.4),
		core.NewVec3(0.4, 1, 0.4), core.NewVec3(0, 1, 0), core.NewVec3(-0.4, 1, -0.4),
	} {
		pips = append(pips, geometry.NewSphere(c, 0.18, geometry.Named("pip")))
	}

	die, err := csg.NewFullIntersection(csg.Members{
		Positive: []core.SceneObject{cube, rounding},
		Negative: pips,
	})
	if err != nil {
		return nil, err
	}
	die.SetName("die")

	turned := die.Transform(core.Rotation(core.NewVec3(0, 1, 0), 0.5))
	s, err := withGround("dice", turned)
	if err != nil {
		return nil, err
	}
	s.CameraConfig.Center = core.NewVec3(-2, 3, -6)
	return s, nil
}

// NewCutawayScene opens a hollow sphere with an invisible half-space, so the
// camera looks into the cavity at the yolk inside
func NewCutawayScene() (*Scene, error) {
	outer := geometry.NewSphere(core.Vec3{}, 1, geometry.Named("outer"))
	hollow := geometry.NewSphere(core.Vec3{}, 0.9, geometry.Named("hollow"))
	cut := geometry.NewPlane(core.NewVec3(0, 0.3, 0), core.NewVec3(0, 1, -1), geometry.Named("cut"))

	shell, err := csg.NewFullIntersection(csg.Members{
		Positive:          []core.SceneObject{outer},
		Negative:          []core.SceneObject{hollow},
		InvisiblePositive: []core.SceneObject{cut},
	})
	if err != nil {
		return nil, err
	}
	shell.SetName("shell")

	egg, err := csg.NewContainer(shell, geometry.NewSphere(core.NewVec3(0, -0.35, 0), 0.5, geometry.Named("yolk")))
	if err != nil {
		return nil, err
	}
	egg.SetName("egg")
	return withGround("cutaway", egg)
}

// NewRoundedScene carves signed distance solids from the sdfx library with an
// analytic sphere, showing that both kinds of primitive mix in one graph
func NewRoundedScene() (*Scene, error) {
	box, err := geometry.NewRoundedBox(core.NewVec3(2, 2, 2), 0.3, geometry.Named("rounded-box"))
	if err != nil {
		return nil, err
	}
	cylinder, err := geometry.NewRoundedCylinder(3, 0.4, 0.1, geometry.Named("rounded-cylinder"))
	if err != nil {
		return nil, err
	}
	// Lay the cylinder along X, through the box
	rod := cylinder.Transform(core.Rotation(core.NewVec3(0, 1, 0), 1.5707963267948966))

	block, err := csg.NewUnion(box, rod)
	if err != nil {
		return nil, err
	}
	block.SetName("block")

	carved, err := csg.NewDifference(block,
		geometry.NewSphere(core.NewVec3(0, 1, -1), 0.8, geometry.Named("scoop")))
	if err != nil {
		return nil, err
	}
	carved.SetName("carved")
	return withGround("rounded", carved)
}
