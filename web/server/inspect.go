package server

import (
	"net/http"
	"strconv"

	"github.com/df07/go-csg-raytracer/pkg/core"
	"github.com/df07/go-csg-raytracer/pkg/csg"
	"github.com/df07/go-csg-raytracer/pkg/geometry"
	"github.com/df07/go-csg-raytracer/pkg/renderer"
	"github.com/df07/go-csg-raytracer/pkg/scene"
)

// maxCrossings bounds how many surfaces an inspection reports
const maxCrossings = 32

// Crossing is one surface the inspection ray passes through
type Crossing struct {
	Distance      float64    `json:"distance"`
	Point         [3]float64 `json:"point"`
	Primitive     string     `json:"primitive"`
	Path          string     `json:"path"` // Slash separated names from the root down
	Entering      bool       `json:"entering"`
	ThrowsShadows bool       `json:"throwsShadows"`
}

// InspectResponse describes what the ray through a pixel hits
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Path         string                 `json:"path"`
	InShadow     bool                   `json:"inShadow"`
	Properties   map[string]interface{} `json:"properties"`
	Crossings    []Crossing             `json:"crossings"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// primitiveOf looks through inverted views to the primitive that was hit
func primitiveOf(o core.SceneObject) core.SceneObject {
	for {
		u, ok := o.(core.Unwrapper)
		if !ok {
			return o
		}
		o = u.Unwrap()
	}
}

// extractGeometryInfo describes a primitive's parameters
func extractGeometryInfo(o core.SceneObject) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := primitiveOf(o).(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = vec(geom.Point)
		properties["normal"] = vec(geom.Normal)
		return "plane", properties

	case *geometry.Box:
		properties["center"] = vec(geom.Center)
		properties["halfSize"] = vec(geom.Size)
		return "box", properties

	case *geometry.Cylinder:
		properties["baseCenter"] = vec(geom.BaseCenter)
		properties["topCenter"] = vec(geom.TopCenter)
		properties["radius"] = geom.Radius
		return "cylinder", properties

	case *geometry.SDFSolid:
		bbox := geom.BoundingBox()
		properties["boundingBox"] = map[string]interface{}{
			"min": vec(bbox.Min),
			"max": vec(bbox.Max),
		}
		return "sdf", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the ray through the center of a pixel
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResponse {
	camera := renderer.NewCamera(sceneObj.CameraConfig, float64(width)/float64(height))
	s := (float64(pixelX) + 0.5) / float64(width)
	t := 1 - (float64(pixelY)+0.5)/float64(height)
	ray := camera.GetRay(s, t)

	root := sceneObj.Root
	hit := root.ClosestIntersection(ray)
	if !hit.Exists() {
		return InspectResponse{Hit: false}
	}

	normal, frontFace := hit.FaceNormal(ray)
	geometryType, properties := extractGeometryInfo(hit.Object)
	if n, ok := primitiveOf(hit.Object).(csg.Named); ok {
		properties["name"] = n.Name()
	}

	toLight := sceneObj.Light.Negate().Normalize()
	inShadow := normal.Dot(toLight) <= 0 ||
		root.ClosestShadowIntersectionAvoidingOrigin(core.NewRay(hit.Position, toLight), hit.Object).Exists()

	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		Point:        vec(hit.Position),
		Normal:       vec(normal),
		Distance:     hit.Time,
		FrontFace:    frontFace,
		Path:         csg.PathString(primitiveOf(hit.Object)),
		InShadow:     inShadow,
		Properties:   properties,
	}

	// Every boundary of the final solid along the ray, nearest first
	for h := hit; h.Exists() && len(response.Crossings) < maxCrossings; h = root.NextIntersection(ray, nil, h) {
		_, front := h.FaceNormal(ray)
		name := ""
		if n, ok := primitiveOf(h.Object).(csg.Named); ok {
			name = n.Name()
		}
		response.Crossings = append(response.Crossings, Crossing{
			Distance:      h.Time,
			Point:         vec(h.Position),
			Primitive:     name,
			Path:          csg.PathString(primitiveOf(h.Object)),
			Entering:      front,
			ThrowsShadows: h.ShadowThrowing(),
		})
	}
	return response
}

// handleInspect reports what lies under a pixel of a render
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY))
}
