package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/server/core"
	"github.com/automoto/shadeblade/shared/protocol"
)

func main() {
	store, err := config.OpenStore(config.Default().Server.AppName)
	if err != nil {
		log.Printf("[config] Warning: tunables store unavailable: %v", err)
	}
	cfg, err := config.Load(store)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	port := flag.Uint("port", cfg.Server.Port, "Server port")
	tickRate := flag.Int("tickrate", cfg.Server.TickRate, "Server tick rate (updates per second)")
	arenaPath := flag.String("arena", cfg.Server.Arena, "Arena TMX map (empty = flat floor)")
	name := flag.String("name", cfg.Server.Name, "Server display name")
	version := flag.String("version", cfg.Server.Version, "Required client version (empty = accept any)")
	saveTunables := flag.Bool("save-tunables", false, "Persist the effective tunables before starting")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.TickRate = *tickRate
	cfg.Server.Arena = *arenaPath
	cfg.Server.Name = *name
	cfg.Server.Version = *version

	if *saveTunables {
		if store == nil {
			log.Println("[config] Warning: no store, tunables not saved")
		} else if err := store.Save(cfg); err != nil {
			log.Printf("[config] Warning: %v", err)
		} else {
			log.Println("[config] Tunables saved")
		}
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arena, err := core.LoadArena(cfg.Server.Arena)
	if err != nil {
		log.Fatalf("Failed to load arena: %v", err)
	}

	server := core.NewServer(cfg, arena)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		server.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting shadeblade server %q on port %d (tick rate: %d/s, version: %s)",
		cfg.Server.Name, cfg.Server.Port, cfg.Server.TickRate, cfg.Server.Version)
	if err := server.Start(cfg.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
