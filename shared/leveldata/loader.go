package leveldata

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/lafriks/go-tiled"
)

const (
	solidLayer  = "solid"
	spawnGroup  = "spawn"
	floorHeight = 1.0
)

// LoadArena parses a TMX file into arena geometry. It takes an fs.FS so
// callers can pass embed.FS, os.DirFS or an fstest.MapFS.
//
// Every tile in the "solid" layer becomes a column rising from y=0. The
// column height is the tileset tile's int "height" property, defaulting to
// 1. Objects in the "spawn" group become spawn points lifted by their int
// "elevation" property.
func LoadArena(fsys fs.FS, tmxPath string) (*Arena, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if levelMap.TileWidth <= 0 || levelMap.TileHeight <= 0 {
		return nil, fmt.Errorf("load TMX %s: invalid tile size %dx%d", tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	arena := &Arena{
		Width: levelMap.Width,
		Depth: levelMap.Height,
	}

	for _, layer := range levelMap.Layers {
		if layer.Name != solidLayer {
			continue
		}
		for z := 0; z < levelMap.Height; z++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[z*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}

				height := floorHeight
				var material string
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					if h := tilesetTile.Properties.GetInt("height"); h > 0 {
						height = float64(h)
					}
					material = tilesetTile.Properties.GetString("material")
				}

				arena.Solids = append(arena.Solids, SolidBox{
					ID:       len(arena.Solids) + 1,
					MinX:     float64(x),
					MinZ:     float64(z),
					MaxX:     float64(x + 1),
					MaxY:     height,
					MaxZ:     float64(z + 1),
					Material: material,
				})
			}
		}
		break
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, og := range levelMap.ObjectGroups {
		if og.Name != spawnGroup {
			continue
		}
		for i, o := range og.Objects {
			arena.Spawns = append(arena.Spawns, SpawnPoint{
				X:     o.X / tileW,
				Y:     float64(o.Properties.GetInt("elevation")),
				Z:     o.Y / tileH,
				Index: i,
			})
		}
	}

	// Sort spawns by X then Z for consistent assignment
	sort.SliceStable(arena.Spawns, func(i, j int) bool {
		a, b := arena.Spawns[i], arena.Spawns[j]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})

	return arena, nil
}

// Flat returns an open arena with only a floor slab below y=0 and a single
// spawn in the middle. Used when no map is configured.
func Flat(size int) *Arena {
	s := float64(size)
	return &Arena{
		Width: size,
		Depth: size,
		Solids: []SolidBox{{
			ID:   1,
			MinX: 0, MinY: -floorHeight, MinZ: 0,
			MaxX: s, MaxY: 0, MaxZ: s,
			Material: "floor",
		}},
		Spawns: []SpawnPoint{{X: s / 2, Z: s / 2}},
	}
}
