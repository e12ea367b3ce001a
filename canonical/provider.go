package canonical

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted during provider resolution.
const (
	// EnvProvider names the registered provider to use when neither an
	// explicit option nor a config file selects one.
	EnvProvider = "RECONCILE_RDF_CANONICALIZER"
	// EnvConfig points at a YAML config file, consulted when no explicit
	// config path is given.
	EnvConfig = "RECONCILE_CANON_CONFIG"
)

// Provider is an external RDF canonicalization implementation. Canonicalize
// returns N-Quads-like output for the requested algorithm.
type Provider interface {
	Canonicalize(doc any, algorithm string) (string, error)
}

var (
	providersMu sync.RWMutex
	providers   = make(map[string]Provider)
)

// Register makes a provider selectable by name. Registering an existing
// name replaces the previous provider.
func Register(name string, p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = p
}

func lookup(name string) (Provider, bool) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	p, ok := providers[name]
	return p, ok
}

// Config selects a canonicalization provider from a YAML file.
type Config struct {
	// Provider is the registered provider name. Empty means none.
	Provider string `yaml:"provider"`
}

// LoadConfig reads a provider config file. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// resolveProvider picks the provider for a call: explicit option, then
// config file, then environment, then none. A name that resolves to no
// registered provider counts as none; the caller falls back.
func resolveProvider(o Options) (Provider, string) {
	if o.Provider != nil {
		return o.Provider, o.ProviderName
	}

	configPath := o.ConfigPath
	if configPath == "" {
		configPath = os.Getenv(EnvConfig)
	}
	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		switch {
		case err != nil:
			o.Logger.Debug("canonicalization config unreadable", zap.String("path", configPath), zap.Error(err))
		case cfg.Provider != "":
			if p, ok := lookup(cfg.Provider); ok {
				return p, cfg.Provider
			}
			o.Logger.Debug("configured canonicalization provider not registered", zap.String("provider", cfg.Provider))
		}
	}

	if name := os.Getenv(EnvProvider); name != "" {
		if p, ok := lookup(name); ok {
			return p, name
		}
		o.Logger.Debug("canonicalization provider from environment not registered", zap.String("provider", name))
	}
	return nil, ""
}
