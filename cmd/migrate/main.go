package main

import (
	"github.com/uk1619/freshwala-api/internal/config" // Custom import path (Config)
	"github.com/uk1619/freshwala-api/internal/db"     // Custom import path (Database)
)

// Main entry point for migration
func main() {
	cfg := config.LoadConfig() // Load configuration
	db.Migrate(cfg.DSN())      // Run schema migration
}
