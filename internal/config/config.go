// internal/config/config.go

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smartPaste/internal/apperr"
)

const (
	DefaultConfigFileName = "config.json"
	DefaultConfigDir      = ".smartpaste"
	DefaultFilePerms      = 0600
	DefaultLogsDir        = "logs"
)

// Config to pełna konfiguracja smartPaste, trzymana w
// ~/.smartpaste/config.json. Po wczytaniu jest tylko do odczytu —
// wszystkie współbieżne ścieżki czytają ją bez blokad.
type Config struct {
	Enabled   bool `json:"enabled"`
	DebugMode bool `json:"debug_mode"`

	// Katalogi przejściowe na artefakty ze schowka.
	LocalTempDir  string `json:"local_temp_dir"`
	RemoteTempDir string `json:"remote_temp_dir"`

	MaxFileSizeMB        int `json:"max_file_size_mb"`
	CleanupIntervalHours int `json:"cleanup_interval_hours"`

	// Lista aplikacji terminalowych, w których przechwytujemy wklejanie.
	TerminalApps    []string `json:"terminal_apps"`
	PasteCooldownMS int      `json:"paste_cooldown_ms"`

	SSHTimeoutSeconds int `json:"ssh_timeout_seconds"`
	SCPRetryCount     int `json:"scp_retry_count"`
}

// DefaultConfig zwraca konfigurację z wartościami domyślnymi.
func DefaultConfig() *Config {
	return &Config{
		Enabled:              true,
		DebugMode:            false,
		LocalTempDir:         filepath.Join(os.TempDir(), "smart_paste"),
		RemoteTempDir:        "/tmp",
		MaxFileSizeMB:        100,
		CleanupIntervalHours: 24,
		TerminalApps:         []string{"Terminal", "iTerm2", "iTerm", "Hyper", "Alacritty", "Wezterm", "Warp"},
		PasteCooldownMS:      500,
		SSHTimeoutSeconds:    10,
		SCPRetryCount:        3,
	}
}

// PasteCooldown zwraca okno czasowe między zaakceptowanymi wyzwoleniami.
func (c *Config) PasteCooldown() time.Duration {
	return time.Duration(c.PasteCooldownMS) * time.Millisecond
}

// SSHTimeout zwraca limit czasu na handshake połączenia SSH.
func (c *Config) SSHTimeout() time.Duration {
	return time.Duration(c.SSHTimeoutSeconds) * time.Second
}

// MaxFileSizeBytes zwraca limit rozmiaru obrazu w bajtach.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// CleanupMaxAge zwraca maksymalny wiek pliku w katalogu przejściowym.
func (c *Config) CleanupMaxAge() time.Duration {
	return time.Duration(c.CleanupIntervalHours) * time.Hour
}

// Validate sprawdza spójność wartości konfiguracji.
func (c *Config) Validate() error {
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive, got %d", c.MaxFileSizeMB)
	}
	if c.PasteCooldownMS < 0 {
		return fmt.Errorf("paste_cooldown_ms must not be negative, got %d", c.PasteCooldownMS)
	}
	if c.SSHTimeoutSeconds <= 0 {
		return fmt.Errorf("ssh_timeout_seconds must be positive, got %d", c.SSHTimeoutSeconds)
	}
	if c.SCPRetryCount < 0 {
		return fmt.Errorf("scp_retry_count must not be negative, got %d", c.SCPRetryCount)
	}
	if len(c.TerminalApps) == 0 {
		return errors.New("terminal_apps must not be empty")
	}
	if c.LocalTempDir == "" {
		return errors.New("local_temp_dir must not be empty")
	}
	if c.RemoteTempDir == "" {
		return errors.New("remote_temp_dir must not be empty")
	}
	return nil
}

// Manager wczytuje i zapisuje konfigurację.
type Manager struct {
	configPath string
	config     *Config
}

// NewManager tworzy nowego menedżera konfiguracji.
func NewManager(configPath string) *Manager {
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err == nil {
			configPath = defaultPath
		} else {
			// Fallback do bieżącego katalogu jeśli nie można uzyskać ścieżki domowej
			configPath = DefaultConfigFileName
		}
	}

	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}
}

// Load wczytuje konfigurację z pliku. Brak pliku nie jest błędem —
// zapisywana jest wtedy konfiguracja domyślna.
func (m *Manager) Load() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.config = DefaultConfig()
			return m.Save()
		}
		return fmt.Errorf("failed to read config file: %v", err)
	}

	// Start od wartości domyślnych, żeby brakujące pola nie zostały zerowe
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return apperr.New(apperr.ConfigError, "failed to parse config file", err)
	}
	m.config = cfg

	return m.config.Validate()
}

// Save zapisuje konfigurację do pliku.
func (m *Manager) Save() error {
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := json.MarshalIndent(m.config, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(m.configPath, data, DefaultFilePerms); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Config zwraca aktualną konfigurację.
func (m *Manager) Config() *Config {
	return m.config
}

// ConfigPath zwraca ścieżkę pliku konfiguracyjnego.
func (m *Manager) ConfigPath() string {
	return m.configPath
}

// LogsDir zwraca katalog na pliki logów, tworząc go w razie potrzeby.
func (m *Manager) LogsDir() (string, error) {
	dir := filepath.Join(filepath.Dir(m.configPath), DefaultLogsDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create logs directory: %v", err)
	}
	return dir, nil
}

// GetDefaultConfigPath zwraca domyślną ścieżkę pliku konfiguracyjnego.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %v", err)
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory: %v", err)
	}

	return filepath.Join(configDir, DefaultConfigFileName), nil
}
