// Package leveldata provides TMX arena parsing for the simulation host.
// It has no dependencies on donburi or resolv, pure data only.
package leveldata

// Arena holds the static geometry and spawn points parsed from a TMX map.
// Tile coordinates map to world X/Z with one tile per world unit.
type Arena struct {
	Solids []SolidBox
	Spawns []SpawnPoint
	Width  int // world units along X
	Depth  int // world units along Z
}

// SolidBox is a static column of geometry.
type SolidBox struct {
	ID               int
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
	Material         string
}

// SpawnPoint is an actor spawn location.
type SpawnPoint struct {
	X, Y, Z float64
	Index   int
}
