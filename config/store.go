package config

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata"
)

const tunablesKey = "tunables"

// Store persists tunable overrides between server runs
type Store struct {
	m *gdata.Manager
}

// OpenStore opens the gdata-backed store for appName
func OpenStore(appName string) (*Store, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{m: m}, nil
}

// Load overlays saved tunables onto c. A missing save leaves c untouched.
func (s *Store) Load(c *Config) error {
	data, err := s.m.LoadItem(tunablesKey)
	if err != nil {
		log.Printf("[config] Warning: could not load tunables: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse tunables: %w", err)
	}
	return nil
}

// Save writes c as the new override set
func (s *Store) Save(c *Config) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode tunables: %w", err)
	}
	if err := s.m.SaveItem(tunablesKey, data); err != nil {
		return fmt.Errorf("save tunables: %w", err)
	}
	return nil
}
