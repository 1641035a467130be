package mdt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file-based configuration of an MDT process.
type Config struct {
	Endpoint        string           `yaml:"endpoint"`
	ResourceName    string           `yaml:"resource_name"`
	Listen          string           `yaml:"listen"`
	BasePath        string           `yaml:"base_path"`
	HostChannelURL  string           `yaml:"host_channel_url"`
	ChartTheme      string           `yaml:"chart_theme"`
	LogEnv          string           `yaml:"log_env"`
	SettleDelay     time.Duration    `yaml:"settle_delay"`
	WatchdogDelay   time.Duration    `yaml:"watchdog_delay"`
	NotificationTTL time.Duration    `yaml:"notification_ttl"`
	Session         *Session         `yaml:"session,omitempty"`
	Pages           []PageDefinition `yaml:"pages,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		ResourceName:    "qb-mdt",
		Listen:          ":8080",
		BasePath:        "/mdt",
		LogEnv:          "local",
		SettleDelay:     DefaultSettleDelay,
		WatchdogDelay:   DefaultWatchdogDelay,
		NotificationTTL: DefaultNotificationTTL,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("mdt: read config %s: %w", path, err)
	}
	cfg, err := DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("mdt: config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes YAML over the defaults. Unknown keys are rejected.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("mdt: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that would break the controller.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HostEndpoint()) == "" {
		errs = append(errs, errors.New("mdt: endpoint or resource_name is required"))
	}
	if c.SettleDelay < 0 || c.WatchdogDelay < 0 || c.NotificationTTL < 0 {
		errs = append(errs, errors.New("mdt: delays must not be negative"))
	}
	for i, page := range c.Pages {
		if NormalizePage(page.ID) == "" {
			errs = append(errs, fmt.Errorf("mdt: pages[%d] has no id", i))
		}
	}
	return errors.Join(errs...)
}

// HostEndpoint resolves the host request endpoint. Without an explicit
// endpoint the resource name maps to the host runtime's callback origin.
func (c Config) HostEndpoint() string {
	if endpoint := strings.TrimSpace(c.Endpoint); endpoint != "" {
		return strings.TrimRight(endpoint, "/")
	}
	if name := strings.TrimSpace(c.ResourceName); name != "" {
		return "https://" + name
	}
	return ""
}

// Apply copies the configured values into controller options.
func (c Config) Apply(opts Options) Options {
	opts.SettleDelay = c.SettleDelay
	opts.WatchdogDelay = c.WatchdogDelay
	opts.NotificationTTL = c.NotificationTTL
	if c.Session != nil {
		session := *c.Session
		opts.Session = &session
	}
	opts.Pages = append(opts.Pages, c.Pages...)
	return opts
}
