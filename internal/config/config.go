// Package config loads zcode's single JSON configuration file, watches
// it for changes via mtime polling, and republishes updates through a
// small typed notifier.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Load when the config file doesn't exist
// yet; callers should fall back to Default().
var ErrNotFound = errors.New("config: file not found")

// KeyBinding is one entry of the keybindings section: a key sequence
// string (in the same vim-bracket notation internal/input/key.Parse
// accepts) bound to a named command.
type KeyBinding struct {
	Key     string `json:"key"`
	Command string `json:"command"`
}

// LSPServer configures how a language server is launched for a
// language id.
type LSPServer struct {
	Command                string         `json:"command"`
	Args                   []string       `json:"args,omitempty"`
	InitializationOptions  map[string]any `json:"initialization_options,omitempty"`
}

// LSPSection holds per-language server configuration.
type LSPSection struct {
	Servers map[string]LSPServer `json:"servers"`
}

// Config is the parsed shape of config.json. Theme is left as raw JSON
// (a name string or a map of hex colors): its contents are opaque to
// the core editor and interpreted entirely by the renderer.
type Config struct {
	Keybindings []KeyBinding    `json:"keybindings"`
	Theme       json.RawMessage `json:"theme,omitempty"`
	LSP         LSPSection      `json:"lsp"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Keybindings: nil,
		LSP:         LSPSection{Servers: map[string]LSPServer{}},
	}
}

// Path returns the platform-appropriate config file path,
// $UserConfigDir/zcode/config.json.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "zcode", "config.json"), nil
}

// Load reads and parses the config file at path. A missing file
// returns ErrNotFound rather than a wrapped os error, so callers can
// branch on it directly with errors.Is.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	if cfg.LSP.Servers == nil {
		cfg.LSP.Servers = map[string]LSPServer{}
	}
	return cfg, nil
}

// validate checks the minimal shape guarantees the rest of the editor
// relies on: every keybinding names both a key and a command, and every
// configured server has a command to run.
func validate(cfg *Config) error {
	for i, kb := range cfg.Keybindings {
		if kb.Key == "" {
			return fmt.Errorf("keybindings[%d]: missing key", i)
		}
		if kb.Command == "" {
			return fmt.Errorf("keybindings[%d]: missing command", i)
		}
	}
	for name, srv := range cfg.LSP.Servers {
		if srv.Command == "" {
			return fmt.Errorf("lsp.servers[%s]: missing command", name)
		}
	}
	return nil
}

// Manager owns the live configuration: the last successfully loaded
// Config, a Watcher polling its source file, and a Notifier that
// republishes each reload.
type Manager struct {
	mu      sync.RWMutex
	current *Config
	path    string

	watcher  *Watcher
	notifier *Notifier
}

// NewManager loads path (falling back to Default on ErrNotFound) and
// returns a Manager ready to Start watching for further changes.
func NewManager(path string) (*Manager, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		cfg = Default()
	}

	m := &Manager{
		current:  cfg,
		path:     path,
		notifier: NewNotifier(),
	}
	m.watcher = NewWatcher(path, m.reload)
	return m, nil
}

// Current returns the most recently loaded configuration.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Notifier returns the Notifier that publishes config changes.
func (m *Manager) Notifier() *Notifier {
	return m.notifier
}

// Start begins polling the config file for changes.
func (m *Manager) Start() {
	m.watcher.Start()
}

// Stop stops polling and releases the watcher's goroutine.
func (m *Manager) Stop() {
	m.watcher.Stop()
}

// reload is the watcher's change handler: it re-parses the file and,
// on success, swaps in the new config and publishes a Reload change. A
// parse failure is published as an error change instead of silently
// keeping (or silently replacing) the last-good config, so a caller
// subscribed to the notifier can surface it to the user.
func (m *Manager) reload(Event) {
	cfg, err := Load(m.path)
	if err != nil {
		m.notifier.Publish(Change{Type: ChangeError, Err: err})
		return
	}

	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()

	m.notifier.Publish(Change{Type: ChangeReload, Config: cfg})
}
