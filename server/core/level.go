package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/automoto/shadeblade/shared/leveldata"
)

// LoadArena reads the TMX map at path. An empty path gives the flat
// default arena.
func LoadArena(path string) (*leveldata.Arena, error) {
	if path == "" {
		log.Println("[server] No arena map given, using flat floor")
		return nil, nil
	}
	arena, err := leveldata.LoadArena(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load arena: %w", err)
	}
	return arena, nil
}
