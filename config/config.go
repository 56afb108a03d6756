package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/kbukum/appkit/errors"
)

// Config is the loaded configuration document. It is safe for concurrent
// reads. Set exists for tests; components never mutate the document.
type Config struct {
	mu sync.RWMutex
	v  *viper.Viper
}

// New returns an empty document.
func New() *Config {
	return &Config{v: viper.New()}
}

// FromMap builds a document from nested settings.
func FromMap(settings map[string]interface{}) *Config {
	c := New()
	_ = c.v.MergeConfigMap(settings)
	return c
}

func fromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// IsSet reports whether key has a value.
func (c *Config) IsSet(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.IsSet(key)
}

// Get returns the raw value for key.
func (c *Config) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.Get(key)
}

// GetString returns the value for key as a string.
func (c *Config) GetString(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetString(key)
}

// GetInt returns the value for key as an int.
func (c *Config) GetInt(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetInt(key)
}

// GetBool returns the value for key as a bool.
func (c *Config) GetBool(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.GetBool(key)
}

// AllSettings returns every setting as a nested map, with environment
// overrides applied.
func (c *Config) AllSettings() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v.AllSettings()
}

// Unmarshal decodes the whole document into out.
func (c *Config) Unmarshal(out interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.v.Unmarshal(out); err != nil {
		return errors.InvalidConfig("", err)
	}
	return nil
}

// Section decodes the named section into out. Dotted names address nested
// sections ("kafka.producer"). A missing section is a CONFIG_SECTION_MISSING
// error.
func (c *Config) Section(name string, out interface{}) error {
	found, err := c.SectionOrDefault(name, out)
	if err != nil {
		return err
	}
	if !found {
		return errors.ConfigSectionMissing(name)
	}
	return nil
}

// SectionOrDefault decodes the named section into out when present and
// leaves out untouched otherwise. It reports whether the section existed.
func (c *Config) SectionOrDefault(name string, out interface{}) (bool, error) {
	sub, ok := c.subSettings(name)
	if !ok {
		return false, nil
	}
	v := viper.New()
	if err := v.MergeConfigMap(sub); err != nil {
		return true, errors.InvalidConfig(name, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return true, errors.InvalidConfig(name, err)
	}
	return true, nil
}

// Sub returns the named section as its own document. A missing section
// yields an empty document.
func (c *Config) Sub(name string) *Config {
	sub, ok := c.subSettings(name)
	if !ok {
		return New()
	}
	return FromMap(sub)
}

// Set overrides a single key. It is meant for tests.
func (c *Config) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v.Set(key, value)
}

// subSettings walks AllSettings rather than calling viper.Sub so that
// environment overrides of nested keys are kept.
func (c *Config) subSettings(name string) (map[string]interface{}, bool) {
	cur := c.AllSettings()
	for _, part := range strings.Split(strings.ToLower(name), ".") {
		next, ok := cur[part]
		if !ok {
			return nil, false
		}
		m, ok := next.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur = m
	}
	return cur, true
}
