package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kartikeysingh210/Captain-veggie/game/engine"
	"github.com/kartikeysingh210/Captain-veggie/game/service"
)

var (
	// ErrConfigNotFound is the service sentinel so callers above the
	// service can match it without importing this package.
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// DefaultLayoutName is tried first when choosing the default layout
const DefaultLayoutName = "classic"

// supportedExtensions lists layout file formats in lookup order
var supportedExtensions = []string{".csv", ".json"}

// Manager handles layout loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// Dir returns the directory layouts are read from
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a layout by name. The name may carry a .csv or .json
// extension; without one, name.csv is tried before name.json.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	id := configID(name)

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	path, err := m.resolvePath(name)
	if err != nil {
		return nil, err
	}

	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m.configs[id] = config
	return config, nil
}

// resolvePath finds the file backing a layout name
func (m *Manager) resolvePath(name string) (string, error) {
	if hasSupportedExtension(name) {
		path := filepath.Join(m.configDir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return "", ErrConfigNotFound
			}
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
		return path, nil
	}

	for _, ext := range supportedExtensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrConfigNotFound
}

// LoadFile reads and validates a single layout file
func LoadFile(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config *engine.GameConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		config, err = ParseCSV(data)
		if err != nil {
			return nil, err
		}
		config.Name = configID(filepath.Base(path))
	case ".json":
		config = &engine.GameConfig{}
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
		}
		if config.Name == "" {
			config.Name = configID(filepath.Base(path))
		}
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", ErrInvalidConfig, filepath.Ext(path))
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return config, nil
}

// ListConfigs returns information about all valid layouts in the directory
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !hasSupportedExtension(entry.Name()) {
			continue
		}

		id := configID(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			// Skip invalid configs
			continue
		}
		seen[id] = true

		configs = append(configs, NewConfigInfo(entry.Name(), config))
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// NewConfigInfo summarises a layout for listings
func NewConfigInfo(filename string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    configID(filename), // This is the identifier to use for session creation
		Name:        config.Name,
		Description: config.Description,
		Rows:        config.Rows,
		Cols:        config.Cols,
		VeggieCount: config.VeggieTotal(),
		RabbitCount: config.RabbitTotal(),
		Catalog:     config.Veggies,
	}
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops cached layouts and picks the default again
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig prefers classic, then the first valid layout, then the
// built-in one
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultLayoutName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			config = engine.DefaultConfig()
		} else {
			config, err = m.LoadConfig(configs[0].Filename)
			if err != nil {
				config = engine.DefaultConfig()
			}
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig writes a layout as JSON
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := checkConfigName(name); err != nil {
		return err
	}

	id := configID(name)
	configPath := filepath.Join(m.configDir, id+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	return nil
}

// checkConfigName rejects names that would resolve outside the config
// directory
func checkConfigName(name string) error {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") || filepath.Base(name) != name {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}
	return nil
}

func configID(name string) string {
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

func hasSupportedExtension(name string) bool {
	return configID(name) != name
}
