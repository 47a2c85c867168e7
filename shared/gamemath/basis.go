// Package gamemath holds the pure vector math shared by the simulation:
// aim bases, trajectory functions and segment tests. Nothing here touches
// the ECS or the spatial hash.
package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world vertical
var Up = mgl64.Vec3{0, 1, 0}

// Basis is an orthonormal frame built from an aim direction.
type Basis struct {
	Forward mgl64.Vec3
	Right   mgl64.Vec3
	Up      mgl64.Vec3
}

// Direction returns the unit aim vector for yaw and pitch in radians.
// Yaw 0 faces +Z and positive pitch looks up.
func Direction(yaw, pitch float64) mgl64.Vec3 {
	cp := math.Cos(pitch)
	return mgl64.Vec3{math.Sin(yaw) * cp, math.Sin(pitch), math.Cos(yaw) * cp}
}

// FlatDirection returns the horizontal unit vector for yaw.
func FlatDirection(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// YawPitch inverts Direction. A zero vector yields zero angles.
func YawPitch(dir mgl64.Vec3) (yaw, pitch float64) {
	l := dir.Len()
	if l == 0 {
		return 0, 0
	}
	return math.Atan2(dir.X(), dir.Z()), math.Asin(mgl64.Clamp(dir.Y()/l, -1, 1))
}

// NewBasis builds a frame whose Forward is dir. Straight up or down aims
// fall back to a +X right vector.
func NewBasis(dir mgl64.Vec3) Basis {
	f := SafeNormalize(dir)
	if f == (mgl64.Vec3{}) {
		f = mgl64.Vec3{0, 0, 1}
	}
	r := Up.Cross(f)
	if r.Len() < 1e-9 {
		r = mgl64.Vec3{1, 0, 0}
	}
	r = r.Normalize()
	return Basis{Forward: f, Right: r, Up: f.Cross(r)}
}

// Apply maps a local (right, up, forward) vector into world space.
func (b Basis) Apply(local mgl64.Vec3) mgl64.Vec3 {
	return b.Right.Mul(local.X()).Add(b.Up.Mul(local.Y())).Add(b.Forward.Mul(local.Z()))
}

// SafeNormalize is Normalize that returns the zero vector instead of NaNs.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}
