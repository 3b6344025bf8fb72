package physics2d

import (
	"errors"
	"fmt"
)

// CircleMeshID is the reserved mesh id denoting a circle shape; circles have
// no vertex list and use the global Radius constant, scaled per body.
const CircleMeshID = 1000

// Radius is the global circle radius; a circle body's true radius is
// Radius * body.Scale.
const Radius float32 = 10.0

var (
	ErrEmptyPolygon     = errors.New("physics2d: mesh has no vertices")
	ErrTooFewVertices   = errors.New("physics2d: polygon needs at least 3 vertices")
	ErrNonConvexPolygon = errors.New("physics2d: polygon is not convex")
	ErrClockwiseWinding = errors.New("physics2d: polygon vertices are not counter-clockwise")
	ErrUnknownMesh      = errors.New("physics2d: mesh id not registered")
	ErrReservedMeshID   = errors.New("physics2d: mesh id 1000 is reserved for circles")
)

// Mesh is an immutable convex polygon: vertices in CCW order, recentered so
// their centroid sits at the origin, plus one outward unit normal per edge.
// Normals[i] is the outward normal of the edge from Points[i] to
// Points[(i+1)%n].
type Mesh struct {
	Points  []Vec2
	Normals []Vec2
}

// Registry is a process-wide, append-only table mapping small integer ids to
// Meshes. It is safe to share across many Worlds; §9's Design Notes call for
// an immutable registry built once, before any World exists, rather than
// mutable global state threaded implicitly through every call — Registry is
// that explicit handle, passed by reference into narrowphase code.
type Registry struct {
	meshes []Mesh
}

// NewRegistry returns an empty mesh registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register validates and stores a CCW convex polygon, returning its id.
// The polygon is recentered so its vertex centroid is the origin before
// normals are computed, satisfying the "every mesh sums to zero" invariant.
func (r *Registry) Register(points []Vec2) (int, error) {
	if len(points) == 0 {
		return -1, ErrEmptyPolygon
	}
	if len(points) < 3 {
		return -1, ErrTooFewVertices
	}

	centroid := Vec2{}
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1.0 / float32(len(points)))

	centered := make([]Vec2, len(points))
	for i, p := range points {
		centered[i] = p.Sub(centroid)
	}

	if err := validateCCWConvex(centered); err != nil {
		return -1, err
	}

	normals := computeNormals(centered)

	id := len(r.meshes)
	r.meshes = append(r.meshes, Mesh{Points: centered, Normals: normals})
	return id, nil
}

// Get returns the mesh for id, or an error if id is unregistered or the
// reserved circle id.
func (r *Registry) Get(id int) (Mesh, error) {
	if id == CircleMeshID {
		return Mesh{}, ErrReservedMeshID
	}
	if id < 0 || id >= len(r.meshes) {
		return Mesh{}, fmt.Errorf("%w: %d", ErrUnknownMesh, id)
	}
	return r.meshes[id], nil
}

// Valid reports whether id refers to a registered polygon or the reserved
// circle id.
func (r *Registry) Valid(id int) bool {
	return id == CircleMeshID || (id >= 0 && id < len(r.meshes))
}

func computeNormals(points []Vec2) []Vec2 {
	n := len(points)
	normals := make([]Vec2, n)
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		edge := p2.Sub(p1)
		// Outward normal for CCW winding: rotate the edge -90 degrees.
		normals[i] = Vec2{edge.Y, -edge.X}.Normalized()
	}
	return normals
}

// validateCCWConvex rejects non-convex polygons and clockwise winding.
// Convexity and winding are both witnessed by the sign of consecutive edge
// cross products: a CCW convex polygon has every cross product >= 0.
func validateCCWConvex(points []Vec2) error {
	n := len(points)
	sawPositive := false
	sawNegative := false

	for i := 0; i < n; i++ {
		p0 := points[i]
		p1 := points[(i+1)%n]
		p2 := points[(i+2)%n]
		edge1 := p1.Sub(p0)
		edge2 := p2.Sub(p1)
		cross := Cross(edge1, edge2)
		if cross > 1e-6 {
			sawPositive = true
		} else if cross < -1e-6 {
			sawNegative = true
		}
	}

	if sawPositive && sawNegative {
		return ErrNonConvexPolygon
	}
	if sawNegative && !sawPositive {
		return ErrClockwiseWinding
	}
	return nil
}
