package projectile

// Bundle decides how a projectile launches and what each outcome does.
// The default is Thrown. Handlers run on the tick the outcome is found.
type Bundle interface {
	// OnSpawn runs once when the proxy first exists
	OnSpawn(p *Projectile)
	// Launch installs origin and trajectory via SetTrajectory
	Launch(p *Projectile, speed float64)
	OnHit(p *Projectile)
	OnGrounded(p *Projectile)
	OnCatch(p *Projectile)
	// OnEnd runs after any outcome handler if the projectile survived it
	OnEnd(p *Projectile)
	// DisposeNaturally drops the item form and removes the projectile
	DisposeNaturally(p *Projectile)
}
