package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the base configuration directory name.
	DefaultBaseDir = ".genstudio"
	// DefaultConfigFile is the default configuration filename.
	DefaultConfigFile = "config.yaml"

	// APIKeyEnv is the environment variable consulted when the active
	// context has no key.
	APIKeyEnv = "GEMINI_API_KEY"
)

// Config is the on-disk CLI configuration.
type Config struct {
	// CurrentContext is the name of the currently active context.
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts maps context name to context configuration.
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context is a single named API configuration.
type Context struct {
	// Name is the context name.
	Name string `yaml:"name"`

	// APIKey authenticates requests.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the API base URL.
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout is the request timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// Model overrides the default chat model.
	Model string `yaml:"model,omitempty"`

	// Voice is the default voice for speech and live audio.
	Voice string `yaml:"voice,omitempty"`

	// Extra stores additional per-context settings.
	Extra map[string]string `yaml:"extra,omitempty"`
}

// LoadConfig loads or creates the configuration at the default path.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath("")
}

// LoadConfigWithPath loads configuration from a custom path. An empty
// path uses ~/.genstudio/config.yaml.
func LoadConfigWithPath(customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, DefaultBaseDir, DefaultConfigFile)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{
		Contexts:   make(map[string]*Context),
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Save()
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	cfg.configPath = configPath
	return cfg, nil
}

// Save writes the configuration to disk.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string {
	return c.configPath
}

// AddContext adds or replaces a context and persists the change.
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	c.Contexts[name] = ctx
	if c.CurrentContext == "" {
		c.CurrentContext = name
	}
	return c.Save()
}

// DeleteContext removes a context.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext sets the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

// GetContext returns a specific context.
func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// ResolveContext returns the context by name, or the current context
// when name is empty. With no contexts configured at all it falls back
// to an unnamed context driven by the GEMINI_API_KEY environment
// variable.
func (c *Config) ResolveContext(name string) (*Context, error) {
	if name != "" {
		return c.GetContext(name)
	}
	if c.CurrentContext != "" {
		return c.GetContext(c.CurrentContext)
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		return &Context{APIKey: key}, nil
	}
	return nil, fmt.Errorf("no context configured; run \"genstudio config add-context\" or set %s", APIKeyEnv)
}

// ResolveAPIKey returns the context's key, falling back to the
// environment.
func (ctx *Context) ResolveAPIKey() (string, error) {
	if ctx.APIKey != "" {
		return ctx.APIKey, nil
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("context %q has no API key and %s is unset", ctx.Name, APIKeyEnv)
}

// ListContexts returns all context names.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	return names
}

// GetExtra returns an extra value for the context.
func (ctx *Context) GetExtra(key string) string {
	if ctx.Extra == nil {
		return ""
	}
	return ctx.Extra[key]
}

// SetExtra sets an extra value for the context.
func (ctx *Context) SetExtra(key, value string) {
	if ctx.Extra == nil {
		ctx.Extra = make(map[string]string)
	}
	ctx.Extra[key] = value
}

// MaskAPIKey masks the API key for display.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
