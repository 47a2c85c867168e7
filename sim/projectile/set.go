package projectile

// Set owns the projectiles in flight or at rest and prunes them once
// disposed
type Set struct {
	items []*Projectile
}

func (s *Set) Add(p *Projectile) {
	s.items = append(s.items, p)
}

// Tick advances every projectile in insertion order
func (s *Set) Tick() {
	live := s.items[:0]
	for _, p := range s.items {
		p.Tick()
		if !p.Disposed() {
			live = append(live, p)
		}
	}
	for i := len(live); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = live
}

func (s *Set) Len() int {
	return len(s.items)
}

// Each visits every live projectile
func (s *Set) Each(fn func(p *Projectile)) {
	for _, p := range s.items {
		if !p.Disposed() {
			fn(p)
		}
	}
}

// DisposeAll removes every projectile from the world
func (s *Set) DisposeAll() {
	for _, p := range s.items {
		p.Dispose()
	}
	s.items = nil
}
