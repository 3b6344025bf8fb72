package harness

import (
	"fmt"
	"math"
	"math/rand"

	quadphys "github.com/0x5844/quadphys"
)

// RegisterStandardMeshes registers the starter mesh set against reg and
// returns a name-to-id map for scripted scene authoring. worldWidth and
// worldHeight size the two boundary-wall meshes.
func RegisterStandardMeshes(reg *quadphys.Registry, worldWidth, worldHeight float32) (map[string]int, error) {
	ids := make(map[string]int, 7)

	specs := []struct {
		name   string
		points []quadphys.Vec2
	}{
		{"box", []quadphys.Vec2{
			quadphys.V(-10, -10), quadphys.V(10, -10), quadphys.V(10, 10), quadphys.V(-10, 10),
		}},
		{"triangle", []quadphys.Vec2{
			quadphys.V(0, -10), quadphys.V(10, 10), quadphys.V(-10, 10),
		}},
		{"rock", []quadphys.Vec2{
			quadphys.V(-20, -20), quadphys.V(-6, -20), quadphys.V(16, -10), quadphys.V(20, 15),
			quadphys.V(12, 20), quadphys.V(-16, 20), quadphys.V(-20, 16),
		}},
		{"ramp", []quadphys.Vec2{
			quadphys.V(-40, 0), quadphys.V(40, 20), quadphys.V(-40, 20),
		}},
		{"trapezoid", []quadphys.Vec2{
			quadphys.V(-10, -10), quadphys.V(10, -10), quadphys.V(20, 10), quadphys.V(-20, 10),
		}},
		{"floor_wall", []quadphys.Vec2{
			quadphys.V(-(worldWidth-100)/2, -20), quadphys.V((worldWidth-100)/2, -20),
			quadphys.V((worldWidth-100)/2, 20), quadphys.V(-(worldWidth-100)/2, 20),
		}},
		{"side_wall", []quadphys.Vec2{
			quadphys.V(-20, -(worldHeight-100)/2), quadphys.V(20, -(worldHeight-100)/2),
			quadphys.V(20, (worldHeight-100)/2), quadphys.V(-20, (worldHeight-100)/2),
		}},
	}

	for _, s := range specs {
		id, err := reg.Register(s.points)
		if err != nil {
			return nil, fmt.Errorf("register mesh %q: %w", s.name, err)
		}
		ids[s.name] = id
	}

	return ids, nil
}

// GenerateScene dispatches to one of the named scene generators, the way the
// original CLI's -scene-type flag did.
func GenerateScene(world *quadphys.World, meshes map[string]int, sceneType string, bodyCount int) error {
	switch sceneType {
	case "default", "":
		return generateDefaultScene(world, meshes, bodyCount)
	case "pyramid":
		return generatePyramidScene(world, meshes, bodyCount)
	case "rain":
		return generateRainScene(world, meshes, bodyCount)
	case "container":
		return generateContainerScene(world, meshes, bodyCount)
	case "pendulum":
		return generatePendulumScene(world, meshes, bodyCount)
	case "mixed":
		return generateMixedScene(world, meshes, bodyCount)
	default:
		return fmt.Errorf("unknown scene type %q", sceneType)
	}
}

func generateDefaultScene(world *quadphys.World, meshes map[string]int, bodyCount int) error {
	if _, err := world.AddStaticBody(quadphys.V(0, -50), meshes["floor_wall"], 1, 0, 0.3); err != nil {
		return err
	}
	for i := 0; i < bodyCount; i++ {
		x := (rand.Float32() - 0.5) * 150
		y := rand.Float32()*50 + 50
		if rand.Float32() < 0.6 {
			if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, quadphys.CircleMeshID, 5, 8, 1, 0, 0.5); err != nil {
				return err
			}
		} else {
			if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, meshes["box"], 6, 12, 1, 0, 0.4); err != nil {
				return err
			}
		}
	}
	return nil
}

func generatePyramidScene(world *quadphys.World, meshes map[string]int, bodyCount int) error {
	if _, err := world.AddStaticBody(quadphys.V(0, -50), meshes["floor_wall"], 1, 0, 0.3); err != nil {
		return err
	}
	rows := int(math.Sqrt(float64(bodyCount)))
	if rows < 1 {
		rows = 1
	}
	spacing := float32(22)
	placed := 0
	for row := 0; row < rows && placed < bodyCount; row++ {
		count := rows - row
		startX := -float32(count-1) * spacing / 2
		y := float32(row)*spacing - 30
		for i := 0; i < count && placed < bodyCount; i++ {
			x := startX + float32(i)*spacing
			if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, meshes["box"], 6, 12, 1, 0, 0.1); err != nil {
				return err
			}
			placed++
		}
	}
	return nil
}

func generateRainScene(world *quadphys.World, meshes map[string]int, bodyCount int) error {
	if _, err := world.AddStaticBody(quadphys.V(0, -50), meshes["floor_wall"], 1, 0, 0.3); err != nil {
		return err
	}
	for i := 0; i < bodyCount; i++ {
		x := (rand.Float32() - 0.5) * 200
		y := rand.Float32()*300 + 100
		meshID := meshes["triangle"]
		if rand.Float32() < 0.5 {
			meshID = quadphys.CircleMeshID
		}
		if _, err := world.AddBody(quadphys.V(x, y), quadphys.V(0, -20), meshID, 4, 6, 1, rand.Float32()*6.28, 0.6); err != nil {
			return err
		}
	}
	return nil
}

func generateContainerScene(world *quadphys.World, meshes map[string]int, bodyCount int) error {
	if _, err := world.AddStaticBody(quadphys.V(0, -50), meshes["floor_wall"], 1, 0, 0.3); err != nil {
		return err
	}
	if _, err := world.AddStaticBody(quadphys.V(-90, 0), meshes["side_wall"], 1, 0, 0.3); err != nil {
		return err
	}
	if _, err := world.AddStaticBody(quadphys.V(90, 0), meshes["side_wall"], 1, 0, 0.3); err != nil {
		return err
	}
	for i := 0; i < bodyCount; i++ {
		x := (rand.Float32() - 0.5) * 150
		y := rand.Float32()*100 + 20
		if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, meshes["rock"], 7, 14, 1, 0, 0.5); err != nil {
			return err
		}
	}
	return nil
}

func generatePendulumScene(world *quadphys.World, meshes map[string]int, bodyCount int) error {
	if bodyCount < 1 {
		bodyCount = 1
	}
	for i := 0; i < bodyCount; i++ {
		x := float32(i)*30 - float32(bodyCount)*15
		id, err := world.AddBody(quadphys.V(x, 60), quadphys.Vec2{}, quadphys.CircleMeshID, 5, 8, 1, 0, 0.9)
		if err != nil {
			return err
		}
		world.ApplyForce(id, quadphys.V((rand.Float32()-0.5)*400, 0))
	}
	return nil
}

func generateMixedScene(world *quadphys.World, meshes map[string]int, bodyCount int) error {
	if _, err := world.AddStaticBody(quadphys.V(-75, -50), meshes["floor_wall"], 0.5, 0, 0.3); err != nil {
		return err
	}
	if _, err := world.AddStaticBody(quadphys.V(75, -50), meshes["floor_wall"], 0.5, 0, 0.3); err != nil {
		return err
	}
	for i := 0; i < 5; i++ {
		x := (rand.Float32() - 0.5) * 150
		y := float32(i)*15 - 20
		if _, err := world.AddStaticBody(quadphys.V(x, y), meshes["ramp"], 0.7, 0, 0.3); err != nil {
			return err
		}
	}
	for i := 0; i < bodyCount; i++ {
		x := (rand.Float32() - 0.5) * 200
		y := rand.Float32()*100 + 50
		switch rand.Intn(3) {
		case 0:
			if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, quadphys.CircleMeshID, 4, 6, 1, 0, 0.7); err != nil {
				return err
			}
		case 1:
			if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, meshes["box"], 6, 12, 1, 0, 0.5); err != nil {
				return err
			}
		case 2:
			if _, err := world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, meshes["trapezoid"], 6, 12, 1, 0, 0.6); err != nil {
				return err
			}
		}
	}
	return nil
}
