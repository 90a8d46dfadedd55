package main

import (
	"log"
	"os"

	"github.com/taskmaster/planner/cmd/api/commands"
)

// @title Planner API
// @version 1.0
// @description Personal schedule manager with recurring events, templates and analytics

// @host localhost:3001
// @BasePath /api

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
