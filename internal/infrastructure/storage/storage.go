// Package storage opens the JSON data files and the repositories built on
// them.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskmaster/planner/internal/adapters/repository"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/ports"
)

// Storage holds the repositories backed by the data directory.
type Storage struct {
	Schedules *repository.ScheduleRepositoryImpl
	Templates *repository.TemplateRepositoryImpl

	schedulesFile *repository.JSONFile[entities.Schedule]
	templatesFile *repository.JSONFile[entities.ScheduleTemplate]
	config        config.StorageConfig
}

// New creates the data directory if needed and loads both files. Templates
// are seeded on first run.
func New(cfg config.StorageConfig) (*Storage, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", cfg.DataDir, err)
	}

	schedulesFile := repository.NewJSONFile[entities.Schedule](cfg.SchedulesPath())
	templatesFile := repository.NewJSONFile[entities.ScheduleTemplate](cfg.TemplatesPath())

	schedules, err := repository.NewScheduleRepository(schedulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open schedules: %w", err)
	}

	templates, err := repository.NewTemplateRepository(templatesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	return &Storage{
		Schedules:     schedules,
		Templates:     templates,
		schedulesFile: schedulesFile,
		templatesFile: templatesFile,
		config:        cfg,
	}, nil
}

// HealthCheck verifies the data directory still exists and accepts writes.
func (s *Storage) HealthCheck() error {
	info, err := os.Stat(s.config.DataDir)
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage health check failed: %s is not a directory", s.config.DataDir)
	}

	f, err := os.CreateTemp(s.config.DataDir, ".healthcheck-*")
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Info reports the state of both data files.
func (s *Storage) Info() map[string]interface{} {
	info := map[string]interface{}{
		"data_dir": filepath.Clean(s.config.DataDir),
	}
	for name, stats := range map[string]func() (ports.StoreStats, error){
		"schedules": s.schedulesFile.Stats,
		"templates": s.templatesFile.Stats,
	} {
		st, err := stats()
		if err != nil {
			info[name] = map[string]string{"error": err.Error()}
			continue
		}
		info[name] = st
	}
	return info
}
