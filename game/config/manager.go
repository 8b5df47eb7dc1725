package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Extensions lists the layout file extensions in lookup order
var Extensions = []string{".json", ".yaml", ".yml"}

// Info describes an available layout
type Info struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	DelayMS     int    `json:"celebration_delay_ms"`
	BuiltIn     bool   `json:"built_in,omitempty"`
}

// Manager handles layout loading and caching
type Manager struct {
	configDir     string
	defaultConfig *Layout
	configs       map[string]*Layout
	mu            sync.RWMutex
}

// NewManager creates a layout manager reading from configDir. An empty
// configDir serves the built-in reference layout only.
func NewManager(configDir string) (*Manager, error) {
	if configDir != "" {
		if _, err := os.Stat(configDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("config directory does not exist: %s", configDir)
		}
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*Layout),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// Dir returns the layouts directory
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a layout by name. The name may carry its extension.
func (m *Manager) LoadConfig(name string) (*Layout, error) {
	id := configID(name)

	m.mu.RLock()
	if layout, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return layout, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if layout, exists := m.configs[id]; exists {
		return layout, nil
	}

	layout, err := m.readLayout(name)
	if errors.Is(err, ErrConfigNotFound) && id == ReferenceName {
		layout, err = Reference(), nil
	}
	if err != nil {
		return nil, err
	}

	m.configs[id] = layout
	return layout, nil
}

// readLayout reads and validates a layout file from the config directory
func (m *Manager) readLayout(name string) (*Layout, error) {
	if m.configDir == "" {
		return nil, ErrConfigNotFound
	}

	path, ok := m.findFile(name)
	if !ok {
		return nil, ErrConfigNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	layout, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// findFile resolves a layout name to a file path
func (m *Manager) findFile(name string) (string, bool) {
	if name == "" || filepath.Base(name) != name {
		return "", false
	}

	candidates := []string{name}
	if !hasLayoutExt(name) {
		candidates = candidates[:0]
		for _, ext := range Extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, filename := range candidates {
		path := filepath.Join(m.configDir, filename)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// ListConfigs returns information about all available layouts
func (m *Manager) ListConfigs() ([]*Info, error) {
	var configs []*Info
	seen := make(map[string]bool)

	if m.configDir != "" {
		entries, err := os.ReadDir(m.configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !hasLayoutExt(entry.Name()) {
				continue
			}

			id := configID(entry.Name())
			if seen[id] {
				continue
			}

			layout, err := m.LoadConfig(entry.Name())
			if err != nil {
				// Skip invalid layouts
				continue
			}

			seen[id] = true
			configs = append(configs, newInfo(entry.Name(), id, layout, false))
		}
	}

	if !seen[ReferenceName] {
		configs = append(configs, newInfo("", ReferenceName, Reference(), true))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default layout
func (m *Manager) GetDefault() *Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default layout by name
func (m *Manager) SetDefault(name string) error {
	layout, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = layout
	return nil
}

// RefreshCache drops cached layouts and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*Layout)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig uses reference from the directory or the built-in copy.
// An invalid reference file is an error.
func (m *Manager) loadDefaultConfig() error {
	layout, err := m.LoadConfig(ReferenceName)
	if err != nil {
		if errors.Is(err, ErrInvalidConfig) {
			return err
		}
		layout = Reference()
	}

	m.mu.Lock()
	m.defaultConfig = layout
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a layout and writes it to the config directory
func (m *Manager) SaveConfig(name string, layout *Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}
	if m.configDir == "" {
		return fmt.Errorf("no config directory configured")
	}

	filename := filepath.Base(name)
	if !hasLayoutExt(filename) {
		filename += ".json"
	}

	data, err := Encode(filename, layout)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[configID(filename)] = layout
	m.mu.Unlock()

	return nil
}

func newInfo(filename, id string, layout *Layout, builtIn bool) *Info {
	info := &Info{
		Filename:    filename,
		ConfigID:    id,
		Name:        layout.Name,
		Description: layout.Description,
		DelayMS:     int(layout.CelebrationDelay().Milliseconds()),
		BuiltIn:     builtIn,
		Height:      len(layout.Grid),
	}
	if len(layout.Grid) > 0 {
		info.Width = len(layout.Grid[0])
	}
	return info
}

func hasLayoutExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// configID strips the layout extension from a file name
func configID(name string) string {
	if hasLayoutExt(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
