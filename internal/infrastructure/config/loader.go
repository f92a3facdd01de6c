package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Settings *SettingsConfig
	Entities *EntitiesConfig
	Waves    *WavesConfig
}

// Loader loads game configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

func (l *Loader) readJSON(path string, v any) error {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// LoadSettings loads game.json
func (l *Loader) LoadSettings() (*SettingsConfig, error) {
	var cfg SettingsConfig
	if err := l.readJSON("game.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadEntities loads entities.json
func (l *Loader) LoadEntities() (*EntitiesConfig, error) {
	var cfg EntitiesConfig
	if err := l.readJSON("entities.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWaves loads waves.json
func (l *Loader) LoadWaves() (*WavesConfig, error) {
	var cfg WavesConfig
	if err := l.readJSON("waves.json", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStage loads a stage JSON file
func (l *Loader) LoadStage(name string) (*StageConfig, error) {
	var cfg StageConfig
	if err := l.readJSON("stages/"+name+".json", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load stage %s: %w", name, err)
	}
	return &cfg, nil
}

// LoadAll loads and validates the base configurations (settings, entities, waves)
func (l *Loader) LoadAll() (*GameConfig, error) {
	settings, err := l.LoadSettings()
	if err != nil {
		return nil, err
	}

	entities, err := l.LoadEntities()
	if err != nil {
		return nil, err
	}

	waves, err := l.LoadWaves()
	if err != nil {
		return nil, err
	}

	cfg := &GameConfig{
		Settings: settings,
		Entities: entities,
		Waves:    waves,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
