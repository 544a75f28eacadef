/*
Package config manages TOML config for tagjump.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/tagjump/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/juju/errors"
)

// FileName is the config file looked up in the config directory.
const FileName = "tagjump.toml"

// Config holds the entire config structure
type Config struct {
	Tagger TaggerConfig `toml:"tagger"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// TaggerConfig controls tag generation and shortening.
type TaggerConfig struct {
	Keys        string `toml:"keys"`
	ShortenTags bool   `toml:"shorten_tags"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxSessions int `toml:"max_sessions"`
	MaxQueryLen int `toml:"max_query_len"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	ViewLines   int  `toml:"view_lines"`
	ShowOffsets bool `toml:"show_offsets"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Tagger: TaggerConfig{
			Keys:        "asdfghjklqwertyuiopzxcvbnm",
			ShortenTags: true,
		},
		Server: ServerConfig{
			MaxSessions: 16,
			MaxQueryLen: 120,
		},
		CLI: CliConfig{
			ViewLines:   20,
			ShowOffsets: false,
		},
	}
}

// Validate clamps out of range values back to their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Tagger.Keys == "" {
		log.Warnf("Empty tag keys, using %q", def.Tagger.Keys)
		c.Tagger.Keys = def.Tagger.Keys
	}
	if c.Server.MaxSessions < 1 {
		c.Server.MaxSessions = def.Server.MaxSessions
	}
	if c.Server.MaxQueryLen < 1 {
		c.Server.MaxQueryLen = def.Server.MaxQueryLen
	}
	if c.CLI.ViewLines < 1 {
		c.CLI.ViewLines = def.CLI.ViewLines
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. The platform config dir (XDG_CONFIG_HOME, ~/.config or APPDATA)
// 2. ~/.config/tagjump when the executable cannot be located
// 3. Current executable dir
func GetConfigDir() (string, error) {
	if pr, err := utils.NewPathResolver(); err == nil {
		path, err := pr.GetConfigPath(FileName)
		if err != nil {
			return "", errors.Annotate(err, "config: no usable config directory")
		}
		return filepath.Dir(path), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "tagjump")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		return "", errors.Annotate(err, "config: no usable config directory")
	}
	return execDir, nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path in the config dir
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	configDir, err := GetConfigDir()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	defaultPath := filepath.Join(configDir, FileName)
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file, recovering whatever sections parse
// when the file as a whole does not decode.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse keeps every recognised key of a loosely valid file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "tagger"); ok {
		extractTaggerConfig(section, &config.Tagger)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.Validate()
	return config, nil
}

func extractTaggerConfig(data map[string]any, tagger *TaggerConfig) {
	if val, ok := utils.ExtractString(data, "keys"); ok {
		tagger.Keys = val
	}
	if val, ok := utils.ExtractBool(data, "shorten_tags"); ok {
		tagger.ShortenTags = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_sessions"); ok {
		server.MaxSessions = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "view_lines"); ok {
		cli.ViewLines = val
	}
	if val, ok := utils.ExtractBool(data, "show_offsets"); ok {
		cli.ShowOffsets = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	if err := utils.SaveTOMLFile(config, configPath); err != nil {
		return errors.Annotatef(err, "config: save %s", configPath)
	}
	return nil
}
