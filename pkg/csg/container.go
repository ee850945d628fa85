package csg

import (
	"github.com/df07/go-csg-raytracer/pkg/core"
)

// Container groups scene objects without boolean filtering: a ray query returns
// the nearest hit among the visible children, even a surface that lies inside
// another child. InsideObject still behaves like a union.
type Container struct {
	label
	group
	core.ParentLink
}

// NewContainer creates a container holding the given visible children
func NewContainer(children ...core.SceneObject) (*Container, error) {
	c := &Container{label: label{name: "container"}}
	c.owner = c
	for _, child := range children {
		if err := c.Add(child); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) closest(ray core.Ray, avoid core.SceneObject, shadow bool) core.RayIntersection {
	ray, avoid = avoidSelf(c, ray, avoid)

	best := core.NoIntersection
	for i, child := range c.children {
		if !c.visible[i] {
			continue
		}
		var hit core.RayIntersection
		if shadow {
			hit = child.ClosestShadowIntersectionAvoidingOrigin(ray, avoid)
		} else {
			hit = child.ClosestIntersectionAvoidingOrigin(ray, avoid)
		}
		if hit.Closer(best, ray.Origin) {
			best = hit
		}
	}
	return best
}

func (c *Container) ClosestIntersection(ray core.Ray) core.RayIntersection {
	return c.closest(ray, nil, false)
}

func (c *Container) ClosestIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return c.closest(ray, avoid, false)
}

func (c *Container) ClosestShadowIntersection(ray core.Ray) core.RayIntersection {
	return c.closest(ray, nil, true)
}

func (c *Container) ClosestShadowIntersectionAvoidingOrigin(ray core.Ray, avoid core.SceneObject) core.RayIntersection {
	return c.closest(ray, avoid, true)
}

// NextIntersection continues the ray from the previous hit, stepping off the
// surface that was hit
func (c *Container) NextIntersection(ray core.Ray, avoid core.SceneObject, previous core.RayIntersection) core.RayIntersection {
	ray, avoid = continueAfter(ray, avoid, previous)
	return c.closest(ray, avoid, false)
}

// Transform returns a new container with every child transformed
func (c *Container) Transform(t core.Transformation) core.SceneObject {
	out := &Container{label: c.label}
	out.owner = out
	out.fill(&c.group, t)
	return out
}
