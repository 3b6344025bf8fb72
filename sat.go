package physics2d

import "math"

// PerformSAT dispatches circle/circle, circle/polygon, or polygon/polygon
// SAT by mesh id and returns a manifold whose Normal always points from A to
// B (flipped after dispatch if the raw result points the other way).
func PerformSAT(reg *Registry, a, b *Body) CollisionResult {
	var res CollisionResult

	switch {
	case a.MeshID == CircleMeshID && b.MeshID == CircleMeshID:
		res = circleCircle(a, b)
	case a.MeshID == CircleMeshID:
		res = circlePoly(reg, b, a)
	case b.MeshID == CircleMeshID:
		res = circlePoly(reg, a, b)
	default:
		res = polyPoly(reg, a, b)
	}

	if res.Count == 0 {
		return res
	}

	if Dot(b.Position.Sub(a.Position), res.Normal) < 0 {
		res.Normal = res.Normal.Neg()
	}
	return res
}

func circleCircle(a, b *Body) CollisionResult {
	d := b.Position.Sub(a.Position)
	rsum := Radius * (a.Scale + b.Scale)
	if d.LenSq() > rsum*rsum {
		return CollisionResult{}
	}

	dist := d.Len()
	normal := d.Normalized()
	depth := rsum - dist

	return CollisionResult{
		Count:  1,
		Normal: normal,
		Depth:  depth,
		Contact: [2]Vec2{
			a.Position.Add(normal.Scale(Radius * a.Scale)),
		},
	}
}

// circlePoly tests a polygon (poly) against a circle (circ) and returns a
// manifold whose Normal is the winning axis as found: an outward polygon
// normal for group 1, a circle-center-to-vertex direction for group 2
// (PerformSAT orients it afterwards). Two axis groups are searched:
// rotated polygon-edge normals (group 1) and vertex-to-center directions
// (group 2). Overlap in group 1 is measured max(poly)-min(circle); group 2
// is measured max(circle)-min(poly) — this asymmetric measure is
// intentional (see §9's Ambiguities note) and must not be "fixed" to a
// symmetric min/max form.
//
// poly.Transformed must already be current (World.calculateAABB fills it
// serially before either parallel phase runs) — SAT runs concurrently across
// worker goroutines during the narrowphase and must only read Body state.
func circlePoly(reg *Registry, poly, circ *Body) CollisionResult {
	mesh, err := reg.Get(poly.MeshID)
	if err != nil {
		return CollisionResult{}
	}

	minOverlap := float32(math.Inf(1))
	var normal Vec2
	group := 0

	for _, n := range mesh.Normals {
		rn := Rotate(n, poly.CosTheta, poly.SinTheta)
		_, max1 := poly.projectOntoAxis(rn)
		center := Dot(circ.Position, rn)
		min2 := center - Radius*circ.Scale

		overlap := max1 - min2
		if overlap <= 0 {
			return CollisionResult{}
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = rn
			group = 1
		}
	}

	for _, tp := range poly.Transformed {
		axis := tp.Sub(circ.Position).Normalized()
		min1, _ := poly.projectOntoAxis(axis)
		center := Dot(circ.Position, axis)
		max2 := center + Radius*circ.Scale

		overlap := max2 - min1
		if overlap <= 0 {
			return CollisionResult{}
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = axis
			group = 2
		}
	}

	res := CollisionResult{Count: 1, Normal: normal, Depth: minOverlap}
	if group == 1 {
		res.Contact[0] = circ.Position.Sub(normal.Scale(Radius * circ.Scale))
	} else {
		res.Contact[0] = circ.Position.Add(normal.Scale(Radius * circ.Scale))
	}
	return res
}

func clipSegment(pts []Vec2, n Vec2, c float32) []Vec2 {
	a, b := pts[0], pts[1]
	dA := Dot(a, n) - c
	dB := Dot(b, n) - c

	out := make([]Vec2, 0, 2)
	if dA >= 0 {
		out = append(out, a)
	}
	if dA*dB < 0 {
		t := dA / (dA - dB)
		out = append(out, a.Add(b.Sub(a).Scale(t)))
	}
	if dB >= 0 {
		out = append(out, b)
	}
	return out
}

// polyPoly runs two SAT passes (A's edge normals, then B's), then generates
// a manifold by clipping the incident edge of the non-reference body against
// the reference edge's side planes (Sutherland-Hodgman for a single
// half-space, applied twice).
//
// a.Transformed/b.Transformed must already be current (World.calculateAABB
// fills them serially before either parallel phase runs) — SAT runs
// concurrently across worker goroutines during the narrowphase and must
// only read Body state.
func polyPoly(reg *Registry, a, b *Body) CollisionResult {
	meshA, err := reg.Get(a.MeshID)
	if err != nil {
		return CollisionResult{}
	}
	meshB, err := reg.Get(b.MeshID)
	if err != nil {
		return CollisionResult{}
	}

	minOverlap := float32(math.Inf(1))
	var normal Vec2
	var refOwner int // 1 == a is reference, 2 == b is reference
	var rid int

	for i, n := range meshA.Normals {
		rn := Rotate(n, a.CosTheta, a.SinTheta)
		_, max1 := a.projectOntoAxis(rn)
		min2, _ := b.projectOntoAxis(rn)
		overlap := max1 - min2
		if overlap <= 0 {
			return CollisionResult{}
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = rn
			refOwner = 1
			rid = i
		}
	}

	for i, n := range meshB.Normals {
		rn := Rotate(n, b.CosTheta, b.SinTheta)
		_, max2 := b.projectOntoAxis(rn)
		min1, _ := a.projectOntoAxis(rn)
		overlap := max2 - min1
		if overlap <= 0 {
			return CollisionResult{}
		}
		if overlap < minOverlap {
			minOverlap = overlap
			normal = rn
			refOwner = 2
			rid = i
		}
	}

	var r1, r2, i1, i2 Vec2

	if refOwner == 1 {
		n1 := len(a.Transformed)
		r1 = a.Transformed[rid]
		r2 = a.Transformed[(rid+1)%n1]

		iid := mostAntiParallelEdge(meshB.Normals, b.CosTheta, b.SinTheta, normal)
		n2 := len(b.Transformed)
		i1 = b.Transformed[iid]
		i2 = b.Transformed[(iid+1)%n2]
	} else {
		n2 := len(b.Transformed)
		r1 = b.Transformed[rid]
		r2 = b.Transformed[(rid+1)%n2]

		iid := mostAntiParallelEdge(meshA.Normals, a.CosTheta, a.SinTheta, normal)
		n1 := len(a.Transformed)
		i1 = a.Transformed[iid]
		i2 = a.Transformed[(iid+1)%n1]
	}

	tangent := normal.Perp()
	pts := []Vec2{i1, i2}
	pts = clipTwoPoints(pts, tangent, Dot(tangent, r1))
	pts = clipTwoPoints(pts, tangent.Neg(), -Dot(tangent, r2))

	rd := Dot(r1, normal)
	res := CollisionResult{Normal: normal, Depth: minOverlap}
	for _, p := range pts {
		depth := rd - Dot(p, normal)
		if depth > 0 && res.Count < 2 {
			res.Contact[res.Count] = p
			res.Count++
		}
	}
	return res
}

// clipTwoPoints clips a 0-or-2-point segment; once the list drops below two
// points there is nothing left to clip against a second half-space.
func clipTwoPoints(pts []Vec2, n Vec2, c float32) []Vec2 {
	if len(pts) < 2 {
		return pts
	}
	return clipSegment(pts, n, c)
}

func mostAntiParallelEdge(normals []Vec2, ct, st float32, axis Vec2) int {
	best := float32(math.Inf(1))
	bestI := 0
	for i, n := range normals {
		rn := Rotate(n, ct, st)
		d := Dot(axis, rn)
		if d < best {
			best = d
			bestI = i
		}
	}
	return bestI
}
