package csg

import (
	"fmt"
	"strings"

	"github.com/df07/go-csg-raytracer/pkg/core"
)

// Composite is implemented by every node that owns child scene objects.
// Traversal helpers in this package are written against it rather than against
// concrete node types.
type Composite interface {
	core.SceneObject
	Children() []core.SceneObject
}

// Editable is implemented by composites whose children can be removed after
// construction
type Editable interface {
	Composite
	Remove(child core.SceneObject) bool
}

// Named is implemented by scene objects that carry a display name
type Named interface {
	Name() string
}

// Walk visits root and its descendants depth first. Returning false from visit
// skips the children of the visited node.
func Walk(root core.SceneObject, visit func(core.SceneObject) bool) {
	if root == nil || !visit(root) {
		return
	}
	if c, ok := root.(Composite); ok {
		for _, child := range c.Children() {
			Walk(child, visit)
		}
	}
}

// Find returns the first node under root, in depth-first order, that matches
func Find(root core.SceneObject, match func(core.SceneObject) bool) core.SceneObject {
	var found core.SceneObject
	Walk(root, func(o core.SceneObject) bool {
		if found != nil {
			return false
		}
		if match(o) {
			found = o
			return false
		}
		return true
	})
	return found
}

// FindByName returns the first node under root with the given name
func FindByName(root core.SceneObject, name string) core.SceneObject {
	return Find(root, func(o core.SceneObject) bool {
		n, ok := o.(Named)
		return ok && n.Name() == name
	})
}

// Contains reports whether target is root or one of its descendants
func Contains(root, target core.SceneObject) bool {
	return Find(root, func(o core.SceneObject) bool { return o == target }) != nil
}

// CountNodes returns the number of nodes in the graph under root, root included.
// Nodes reachable along several paths are counted once per path.
func CountNodes(root core.SceneObject) int {
	count := 0
	Walk(root, func(core.SceneObject) bool {
		count++
		return true
	})
	return count
}

// RemoveAll removes target from every editable composite under root and returns
// the number of removals. Composites that cannot lose members (Difference,
// Inverse) are left alone.
func RemoveAll(root, target core.SceneObject) int {
	removed := 0
	Walk(root, func(o core.SceneObject) bool {
		if e, ok := o.(Editable); ok {
			for e.Remove(target) {
				removed++
			}
		}
		return true
	})
	return removed
}

// Path returns the chain of parents from the outermost composite down to o,
// following the back-references recorded when o was attached
func Path(o core.SceneObject) []core.SceneObject {
	var path []core.SceneObject
	for node := o; node != nil; {
		path = append(path, node)
		p, ok := node.(core.Parented)
		if !ok {
			break
		}
		node = p.Parent()
		if node == o {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathString formats Path(o) as slash separated names, e.g. "scene/lens/left"
func PathString(o core.SceneObject) string {
	var parts []string
	for _, node := range Path(o) {
		parts = append(parts, describe(node))
	}
	return strings.Join(parts, "/")
}

func describe(o core.SceneObject) string {
	if n, ok := o.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", o)
}
