package harness

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	quadphys "github.com/0x5844/quadphys"
)

// ScriptEngine wraps a single gopher-lua VM exposing a narrow "sim" table
// that scene scripts use to author a world without a mouse or a renderer.
// Single-goroutine access only, the same discipline the game-server
// scripting engine documents for its VM.
type ScriptEngine struct {
	vm     *lua.LState
	world  *quadphys.World
	meshes map[string]int
	log    *zap.Logger

	spawnQueue []spawnRequest
}

type spawnRequest struct {
	meshName string
	rate     int
	count    int
	fired    int
}

// NewScriptEngine creates a Lua VM and installs the sim API against world.
func NewScriptEngine(world *quadphys.World, meshes map[string]int, log *zap.Logger) *ScriptEngine {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	e := &ScriptEngine{vm: vm, world: world, meshes: meshes, log: log}
	e.installAPI()
	return e
}

func (e *ScriptEngine) installAPI() {
	sim := e.vm.NewTable()
	e.vm.SetGlobal("sim", sim)
	e.vm.SetField(sim, "add_circle", e.vm.NewFunction(e.luaAddCircle))
	e.vm.SetField(sim, "add_mesh_body", e.vm.NewFunction(e.luaAddMeshBody))
	e.vm.SetField(sim, "add_static_mesh", e.vm.NewFunction(e.luaAddStaticMesh))
	e.vm.SetField(sim, "spawn_stream", e.vm.NewFunction(e.luaSpawnStream))
}

// RunFile executes a Lua scene script.
func (e *ScriptEngine) RunFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("run scene script %s: %w", path, err)
	}
	return nil
}

// Close releases the underlying VM.
func (e *ScriptEngine) Close() {
	e.vm.Close()
}

func (e *ScriptEngine) luaAddCircle(L *lua.LState) int {
	x := float32(L.CheckNumber(1))
	y := float32(L.CheckNumber(2))
	mass := float32(L.CheckNumber(3))
	moi := float32(L.CheckNumber(4))

	id, err := e.world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, quadphys.CircleMeshID, mass, moi, 1, 0, 0.5)
	if err != nil {
		L.RaiseError("add_circle: %v", err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (e *ScriptEngine) luaAddMeshBody(L *lua.LState) int {
	name := L.CheckString(1)
	x := float32(L.CheckNumber(2))
	y := float32(L.CheckNumber(3))
	mass := float32(L.CheckNumber(4))
	moi := float32(L.CheckNumber(5))

	meshID, ok := e.meshes[name]
	if !ok {
		L.RaiseError("add_mesh_body: unknown mesh %q", name)
		return 0
	}
	id, err := e.world.AddBody(quadphys.V(x, y), quadphys.Vec2{}, meshID, mass, moi, 1, 0, 0.5)
	if err != nil {
		L.RaiseError("add_mesh_body: %v", err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (e *ScriptEngine) luaAddStaticMesh(L *lua.LState) int {
	name := L.CheckString(1)
	x := float32(L.CheckNumber(2))
	y := float32(L.CheckNumber(3))

	meshID, ok := e.meshes[name]
	if !ok {
		L.RaiseError("add_static_mesh: unknown mesh %q", name)
		return 0
	}
	id, err := e.world.AddStaticBody(quadphys.V(x, y), meshID, 1, 0, 0.3)
	if err != nil {
		L.RaiseError("add_static_mesh: %v", err)
		return 0
	}
	L.Push(lua.LNumber(id))
	return 1
}

// luaSpawnStream generalizes the debug frontend's throttled mouse-hold
// repeat-spawn into a scriptable cadence: rate is steps between spawns.
func (e *ScriptEngine) luaSpawnStream(L *lua.LState) int {
	name := L.CheckString(1)
	rate := L.CheckInt(2)
	count := L.CheckInt(3)
	e.spawnQueue = append(e.spawnQueue, spawnRequest{meshName: name, rate: rate, count: count})
	return 0
}

// TickSpawns advances every queued spawn_stream request by one simulation
// step, spawning at pos when its cadence fires. Returns the number of bodies
// spawned this tick.
func (e *ScriptEngine) TickSpawns(step int, pos quadphys.Vec2) int {
	spawned := 0
	for i := range e.spawnQueue {
		s := &e.spawnQueue[i]
		if s.fired >= s.count {
			continue
		}
		if s.rate <= 0 || step%s.rate != 0 {
			continue
		}
		meshID, ok := e.meshes[s.meshName]
		if !ok && s.meshName != "circle" {
			continue
		}
		if s.meshName == "circle" {
			meshID = quadphys.CircleMeshID
		}
		if _, err := e.world.AddBody(pos, quadphys.Vec2{}, meshID, 4, 6, 1, 0, 0.5); err != nil {
			e.log.Warn("spawn_stream failed", zap.String("mesh", s.meshName), zap.Error(err))
			continue
		}
		s.fired++
		spawned++
	}
	return spawned
}
