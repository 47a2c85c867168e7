package blade

import (
	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// glide eases the proxy from a fixed start toward a target that may move
type glide struct {
	from  mgl64.Vec3
	to    func() mgl64.Vec3
	tween *gween.Tween
}

func newGlide(from mgl64.Vec3, to func() mgl64.Vec3, seconds float32) *glide {
	return &glide{from: from, to: to, tween: gween.New(0, 1, seconds, ease.OutQuad)}
}

// step advances dt seconds and returns the new position and whether the
// glide arrived
func (g *glide) step(dt float32) (mgl64.Vec3, bool) {
	t, done := g.tween.Update(dt)
	if done {
		t = 1
	}
	return gamemath.Lerp(g.from, g.to(), float64(t)), done
}

// settleDetector reports when a position has stopped changing after an
// initial settle window
type settleDetector struct {
	ticks int
	still int
	last  mgl64.Vec3
	seen  bool
}

func (d *settleDetector) reset() {
	*d = settleDetector{}
}

func (d *settleDetector) observe(pos mgl64.Vec3, cfg config.BladeConfig) bool {
	d.ticks++
	if d.ticks <= cfg.SettleTicks {
		return false
	}
	if !d.seen {
		d.last, d.seen = pos, true
		return false
	}
	if pos.Sub(d.last).Len() < cfg.StationaryEps {
		d.still++
	} else {
		d.still = 0
	}
	d.last = pos
	return d.still >= cfg.StationaryTicks
}
