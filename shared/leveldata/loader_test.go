package leveldata

import (
	"testing"
	"testing/fstest"
)

const arenaTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="4" height="3" tilewidth="16" tileheight="16" infinite="0" nextlayerid="3" nextobjectid="3">
 <tileset firstgid="1" name="blocks" tilewidth="16" tileheight="16" tilecount="2" columns="2">
  <tile id="1">
   <properties>
    <property name="height" type="int" value="3"/>
    <property name="material" value="stone"/>
   </properties>
  </tile>
 </tileset>
 <layer id="1" name="solid" width="4" height="3">
  <data encoding="csv">
1,0,0,2,
0,0,0,0,
0,0,0,1
</data>
 </layer>
 <objectgroup id="2" name="spawn">
  <object id="1" x="32" y="16">
   <properties>
    <property name="elevation" type="int" value="2"/>
   </properties>
  </object>
  <object id="2" x="16" y="32"/>
 </objectgroup>
</map>
`

func TestLoadArena(t *testing.T) {
	fsys := fstest.MapFS{
		"arenas/pit.tmx": &fstest.MapFile{Data: []byte(arenaTMX)},
	}

	arena, err := LoadArena(fsys, "arenas/pit.tmx")
	if err != nil {
		t.Fatalf("LoadArena: %v", err)
	}

	if arena.Width != 4 || arena.Depth != 3 {
		t.Errorf("size = %dx%d, want 4x3", arena.Width, arena.Depth)
	}
	if len(arena.Solids) != 3 {
		t.Fatalf("got %d solids, want 3", len(arena.Solids))
	}

	first := arena.Solids[0]
	if first.MinX != 0 || first.MinZ != 0 || first.MaxY != 1 {
		t.Errorf("first solid = %+v, want unit column at origin", first)
	}
	tall := arena.Solids[1]
	if tall.MinX != 3 || tall.MaxY != 3 || tall.Material != "stone" {
		t.Errorf("second solid = %+v, want stone column of height 3 at x=3", tall)
	}

	if len(arena.Spawns) != 2 {
		t.Fatalf("got %d spawns, want 2", len(arena.Spawns))
	}
	if s := arena.Spawns[0]; s.X != 1 || s.Z != 2 {
		t.Errorf("first spawn = %+v, want (1, 2)", s)
	}
	if s := arena.Spawns[1]; s.X != 2 || s.Y != 2 || s.Z != 1 {
		t.Errorf("second spawn = %+v, want (2, 2, 1)", s)
	}
}

func TestLoadArenaMissingFile(t *testing.T) {
	if _, err := LoadArena(fstest.MapFS{}, "nope.tmx"); err == nil {
		t.Error("expected error for missing map")
	}
}

func TestFlat(t *testing.T) {
	a := Flat(32)
	if len(a.Solids) != 1 || a.Solids[0].MaxY != 0 {
		t.Errorf("Flat solids = %+v", a.Solids)
	}
	if len(a.Spawns) != 1 || a.Spawns[0].X != 16 {
		t.Errorf("Flat spawns = %+v", a.Spawns)
	}
}
