package physics2d

import "errors"

// Construction-time validation errors (§7). Mesh-registration errors live in
// mesh.go alongside the registry that raises them.
var (
	ErrInvalidMass = errors.New("physics2d: dynamic body mass must be > 0")
	ErrInvalidMoI  = errors.New("physics2d: dynamic body moment of inertia must be > 0")
)
