package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"
	"github.com/spf13/viper"
)

// ConfigFile is the name of the project file looked for in a project's
// root directory.
const ConfigFile = "livejava.toml"

type Config struct {
	SourcePaths []string `toml:"source_paths"`
	Classpath   []string `toml:"classpath"`
	JDK         string   `toml:"jdk"`
	Exclude     Exclude  `toml:"exclude"`
	Watch       Watch    `toml:"watch"`
	Metrics     Metrics  `toml:"metrics"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

type Metrics struct {
	Listen string `toml:"listen"`
}

// DefaultConfig is the configuration of a project without a project
// file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 300 * time.Millisecond
	}
	if len(c.SourcePaths) == 0 {
		c.SourcePaths = []string{"."}
	}
	if len(c.Exclude.Dirs) == 0 {
		c.Exclude.Dirs = []string{".*", "target", "build", "out"}
	}
}

// Load reads a project file. Relative source and class paths are taken
// relative to the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	cfg.setDefaults()

	dir := filepath.Dir(path)
	for i, p := range cfg.SourcePaths {
		cfg.SourcePaths[i] = absolute(dir, p)
	}
	for i, p := range cfg.Classpath {
		cfg.Classpath[i] = absolute(dir, p)
	}
	if cfg.JDK != "" {
		cfg.JDK = absolute(dir, cfg.JDK)
	}
	return &cfg, nil
}

// LoadDir reads the project file of dir, or returns the default
// configuration rooted at dir when there is none.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
		for i, p := range cfg.SourcePaths {
			cfg.SourcePaths[i] = absolute(dir, p)
		}
		return cfg, nil
	}
	return cfg, err
}

func absolute(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// Matcher decides which directories and files a scan skips. Patterns
// match base names.
type Matcher struct {
	dirs  []glob.Glob
	files []glob.Glob
}

func (c *Config) Matcher() (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range c.Exclude.Dirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude dir %q: %w", pattern, err)
		}
		m.dirs = append(m.dirs, g)
	}
	for _, pattern := range c.Exclude.Files {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude file %q: %w", pattern, err)
		}
		m.files = append(m.files, g)
	}
	return m, nil
}

func (m *Matcher) ExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range m.dirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// ExcludeFile reports whether a file is skipped: anything but Java
// source, and files matching an exclude pattern.
func (m *Matcher) ExcludeFile(path string) bool {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".java") {
		return true
	}
	for _, g := range m.files {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Settings are per user defaults for the command line tool.
type Settings struct {
	JDK       string
	Verbosity int
	Format    string
}

// LoadSettings reads the settings file at path, if it exists, with
// LIVEJAVA_ environment variables taking precedence. An empty path
// means settings.yaml in the user's config directory.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("format", "text")
	v.SetDefault("verbosity", 0)
	v.SetEnvPrefix("LIVEJAVA")
	v.AutomaticEnv()

	if path == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, "livejava", "settings.yaml")
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	return &Settings{
		JDK:       v.GetString("jdk"),
		Verbosity: v.GetInt("verbosity"),
		Format:    v.GetString("format"),
	}, nil
}
