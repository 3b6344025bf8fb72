package physics2d

import "math"

// DefaultCorrFactor and DefaultSlop are the Baumgarte correction tunables
// from §4.5, overridable via Config.
const (
	DefaultCorrFactor = 0.40
	DefaultSlop       = 0.05
)

// Resolve applies positional correction and, for each contact point in res,
// a sequential normal + Coulomb-friction impulse. corrFactor and slop
// parameterize the Baumgarte correction (§4.5); pass DefaultCorrFactor and
// DefaultSlop for the spec defaults.
//
// Positional correction is accumulated into a.Correction/b.Correction
// rather than applied to Position directly, so several contacts touching
// the same body in one step compose without order-dependent overshoot;
// World.ApplyCorrections flushes the accumulator once per step.
func Resolve(a, b *Body, res CollisionResult, corrFactor, slop float32) {
	invMassSum := a.InvMass + b.InvMass
	if invMassSum > 0 {
		corr := res.Normal.Scale(corrFactor * maxf(res.Depth-slop, 0) / invMassSum)
		a.Correction = a.Correction.Sub(corr.Scale(a.InvMass))
		b.Correction = b.Correction.Add(corr.Scale(b.InvMass))
	}

	e := minf(a.Restitution, b.Restitution)
	mus := float32(math.Sqrt(float64(a.SFriction * b.SFriction)))
	muk := float32(math.Sqrt(float64(a.KFriction * b.KFriction)))

	for i := 0; i < res.Count; i++ {
		contact := res.Contact[i]
		r1 := contact.Sub(a.Position)
		r2 := contact.Sub(b.Position)

		v1 := a.Velocity.Add(r1.Perp().Scale(a.Omega))
		v2 := b.Velocity.Add(r2.Perp().Scale(b.Omega))

		vRel := v2.Sub(v1)
		vN := Dot(vRel, res.Normal)
		if vN >= 0 {
			continue
		}

		c1 := Cross(r1, res.Normal)
		c2 := Cross(r2, res.Normal)
		denom := invMassSum + a.InvMoI*c1*c1 + b.InvMoI*c2*c2
		if denom == 0 {
			continue
		}

		j := -(1 + e) * vN / denom

		tangent := res.Normal.Perp()
		vT := Dot(vRel, tangent)

		t1 := Cross(r1, tangent)
		t2 := Cross(r2, tangent)
		tDenom := invMassSum + a.InvMoI*t1*t1 + b.InvMoI*t2*t2

		var jt float32
		if tDenom != 0 {
			jt = -vT / tDenom
		}

		// Substitutes the kinetic coefficient once the static limit is
		// exceeded, rather than clamping to +/- j*mus.
		if jt > j*mus {
			jt = j * muk
		} else if jt < -j*mus {
			jt = -j * muk
		}

		impulse := res.Normal.Scale(j).Add(tangent.Scale(jt))

		a.Velocity = a.Velocity.Sub(impulse.Scale(a.InvMass))
		b.Velocity = b.Velocity.Add(impulse.Scale(b.InvMass))
		a.Omega -= a.InvMoI * Cross(r1, impulse)
		b.Omega += b.InvMoI * Cross(r2, impulse)
	}
}
