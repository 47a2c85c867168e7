package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis aligned box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// Inflate grows the box by r on every side.
func (b AABB) Inflate(r float64) AABB {
	d := mgl64.Vec3{r, r, r}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// SegmentAABB intersects the segment from -> to with b using the slab
// method. It returns the entry fraction in [0,1]. A start point inside the
// box hits at 0. A zero length segment is a point test.
func SegmentAABB(from, to mgl64.Vec3, b AABB) (float64, bool) {
	d := to.Sub(from)
	tmin, tmax := 0.0, 1.0
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < 1e-12 {
			if from[i] < b.Min[i] || from[i] > b.Max[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[i]
		t1 := (b.Min[i] - from[i]) * inv
		t2 := (b.Max[i] - from[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	return tmin, true
}

// Lerp interpolates between a and b.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// DistanceSq is the squared distance between a and b.
func DistanceSq(a, b mgl64.Vec3) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// ApplyFriction scales the horizontal part of v by friction and snaps tiny
// remainders to zero. The vertical part is left alone.
func ApplyFriction(v mgl64.Vec3, friction float64) mgl64.Vec3 {
	out := mgl64.Vec3{v.X() * friction, v.Y(), v.Z() * friction}
	if math.Abs(out.X()) < 1e-4 {
		out[0] = 0
	}
	if math.Abs(out.Z()) < 1e-4 {
		out[2] = 0
	}
	return out
}
