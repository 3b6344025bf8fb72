package physics2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveSeparatesApproachingCircles(t *testing.T) {
	a := newBody(V(0, 0), V(5, 0), CircleMeshID, 1, 1, 1, 0, 0.5, ActiveDynamic)
	b := newBody(V(15, 0), V(-5, 0), CircleMeshID, 1, 1, 1, 0, 0.5, ActiveDynamic)

	res := CollisionResult{
		Count:   1,
		Normal:  V(1, 0),
		Depth:   5,
		Contact: [2]Vec2{V(10, 0)},
	}

	preVN := Dot(b.Velocity.Sub(a.Velocity), res.Normal)
	Resolve(&a, &b, res, DefaultCorrFactor, DefaultSlop)
	postVN := Dot(b.Velocity.Sub(a.Velocity), res.Normal)

	assert.Less(t, preVN, float32(0))
	assert.Greater(t, postVN, preVN)
}

func TestResolveConservesMomentumEqualMasses(t *testing.T) {
	a := newBody(V(0, 0), V(5, 0), CircleMeshID, 1, 1, 1, 0, 1.0, ActiveDynamic)
	b := newBody(V(15, 0), V(-5, 0), CircleMeshID, 1, 1, 1, 0, 1.0, ActiveDynamic)

	res := CollisionResult{Count: 1, Normal: V(1, 0), Depth: 5, Contact: [2]Vec2{V(10, 0)}}

	preMomentum := a.Velocity.Scale(1 / a.InvMass).Add(b.Velocity.Scale(1 / b.InvMass))
	Resolve(&a, &b, res, 0, 0) // corrFactor 0 isolates the velocity response
	postMomentum := a.Velocity.Scale(1 / a.InvMass).Add(b.Velocity.Scale(1 / b.InvMass))

	assert.InDelta(t, preMomentum.X, postMomentum.X, 1e-3)
	assert.InDelta(t, preMomentum.Y, postMomentum.Y, 1e-3)
}

func TestResolveStaticBodyNeverMoves(t *testing.T) {
	static := newBody(V(0, 0), Vec2{}, CircleMeshID, 0, 0, 1, 0, 0.3, ActiveStatic)
	dyn := newBody(V(15, 0), V(-5, 0), CircleMeshID, 1, 1, 1, 0, 0.3, ActiveDynamic)

	res := CollisionResult{Count: 1, Normal: V(1, 0), Depth: 5, Contact: [2]Vec2{V(10, 0)}}
	Resolve(&static, &dyn, res, DefaultCorrFactor, DefaultSlop)

	assert.Equal(t, Vec2{}, static.Velocity)
	assert.Equal(t, Vec2{}, static.Correction)
	assert.Equal(t, float32(0), static.Omega)
}

func TestResolveNoImpulseWhenSeparating(t *testing.T) {
	a := newBody(V(0, 0), V(-5, 0), CircleMeshID, 1, 1, 1, 0, 0.5, ActiveDynamic)
	b := newBody(V(15, 0), V(5, 0), CircleMeshID, 1, 1, 1, 0, 0.5, ActiveDynamic)

	res := CollisionResult{Count: 1, Normal: V(1, 0), Depth: 5, Contact: [2]Vec2{V(10, 0)}}
	Resolve(&a, &b, res, 0, 0)

	assert.Equal(t, float32(-5), a.Velocity.X)
	assert.Equal(t, float32(5), b.Velocity.X)
}
