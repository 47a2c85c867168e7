package gamemath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Trajectory is a pair of pure functions of elapsed time. Position is the
// offset from the launch origin.
type Trajectory struct {
	Position func(t float64) mgl64.Vec3
	Velocity func(t float64) mgl64.Vec3
}

// Ballistic returns the parabola of an item thrown along flatDir at speed.
// pitch is clamped to +/-maxPitch so a near vertical aim still has a usable
// forward component. damper scales how quickly gravity wins over the throw.
func Ballistic(flatDir mgl64.Vec3, pitch, maxPitch, speed, damper float64) Trajectory {
	phi := mgl64.Clamp(pitch, -maxPitch, maxPitch)
	fwd := speed * math.Cos(phi)
	up := speed * math.Sin(phi)
	g := speed / damper
	flat := SafeNormalize(Flatten(flatDir))

	return Trajectory{
		Position: func(t float64) mgl64.Vec3 {
			return flat.Mul(fwd * t).Add(Up.Mul(up*t - g*t*t))
		},
		Velocity: func(t float64) mgl64.Vec3 {
			return flat.Mul(fwd).Add(Up.Mul(up - 2*g*t))
		},
	}
}

// Bezier returns a cubic curve through local control points mapped into
// basis and scaled by scale. The curve starts at the origin when the first
// control point is zero. Past t=1 the polynomial keeps extrapolating.
func Bezier(basis Basis, ctrl [4]mgl64.Vec3, scale float64) Trajectory {
	var p [4]mgl64.Vec3
	for i, c := range ctrl {
		p[i] = basis.Apply(c).Mul(scale)
	}
	return Trajectory{
		Position: func(t float64) mgl64.Vec3 {
			return BezierPoint(t, p)
		},
		Velocity: func(t float64) mgl64.Vec3 {
			return BezierDerivative(t, p)
		},
	}
}

// BezierPoint evaluates the cubic Bezier through p at t.
func BezierPoint(t float64, p [4]mgl64.Vec3) mgl64.Vec3 {
	u := 1 - t
	return p[0].Mul(u * u * u).
		Add(p[1].Mul(3 * u * u * t)).
		Add(p[2].Mul(3 * u * t * t)).
		Add(p[3].Mul(t * t * t))
}

// BezierDerivative is d/dt of the cubic Bezier through p.
func BezierDerivative(t float64, p [4]mgl64.Vec3) mgl64.Vec3 {
	u := 1 - t
	a := p[1].Sub(p[0]).Mul(3 * u * u)
	b := p[2].Sub(p[1]).Mul(6 * u * t)
	c := p[3].Sub(p[2]).Mul(3 * t * t)
	return a.Add(b).Add(c)
}

// Stationary returns a trajectory pinned at the origin.
func Stationary() Trajectory {
	return Trajectory{
		Position: func(float64) mgl64.Vec3 { return mgl64.Vec3{} },
		Velocity: func(float64) mgl64.Vec3 { return mgl64.Vec3{} },
	}
}
