package model

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultListen          = ":8124"
	DefaultAutomationsPath = AutomationPath
	DefaultLogLevel        = "info"
	DefaultToHueFormula    = "x * 254 / max"
	DefaultToUnityFormula  = "x * max / 254"
)

// HueConfig controls the Hue light projection of ECALight groups.
type HueConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Discovery bool   `yaml:"discovery" json:"discovery"`
	LocalIP   string `yaml:"local_ip" json:"local_ip"`

	// Conversion formulas (Hue bri <-> ECALight intensity); x is the input, max the light's maxIntensity
	ToHueFormula   string `yaml:"to_hue_formula,omitempty" json:"to_hue_formula,omitempty"`
	ToUnityFormula string `yaml:"to_unity_formula,omitempty" json:"to_unity_formula,omitempty"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// VirtualObjectPair is one registration entry sent by the simulation.
type VirtualObjectPair struct {
	ECAScript  string         `yaml:"eca_script" json:"eca_script"`
	GameObject string         `yaml:"game_object" json:"game_object"`
	UnityID    string         `yaml:"unity_id" json:"unity_id"`
	Attributes map[string]any `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

type Config struct {
	ServerUnityURL   string `yaml:"server_unity_url" json:"server_unity_url"`
	ServerUnityToken string `yaml:"server_unity_token,omitempty" json:"server_unity_token,omitempty"`

	HassURL   string `yaml:"hass_url,omitempty" json:"hass_url,omitempty"`
	HassToken string `yaml:"hass_token,omitempty" json:"hass_token,omitempty"`

	Listen                string        `yaml:"listen,omitempty" json:"listen,omitempty"`
	AutomationsPath       string        `yaml:"automations_path,omitempty" json:"automations_path,omitempty"`
	WatchAutomations      bool          `yaml:"watch_automations,omitempty" json:"watch_automations,omitempty"`
	LogLevel              string        `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	FailedUpdateRetention time.Duration `yaml:"failed_update_retention,omitempty" json:"failed_update_retention,omitempty"`

	UnityEntities []VirtualObjectPair `yaml:"unity_entities,omitempty" json:"unity_entities,omitempty"`

	Hue HueConfig `yaml:"hue" json:"hue"`
	MCP MCPConfig `yaml:"mcp" json:"mcp"`
}

func (c *Config) ApplyDefaults() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.AutomationsPath == "" {
		c.AutomationsPath = DefaultAutomationsPath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.FailedUpdateRetention <= 0 {
		c.FailedUpdateRetention = TimestampMinUpdate
	}
	if c.Hue.ToHueFormula == "" {
		c.Hue.ToHueFormula = DefaultToHueFormula
	}
	if c.Hue.ToUnityFormula == "" {
		c.Hue.ToUnityFormula = DefaultToUnityFormula
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerUnityURL == "" {
		errs = append(errs, &ValidationError{Field: "server_unity_url", Reason: "is required"})
	} else if err := validateURL(c.ServerUnityURL); err != nil {
		errs = append(errs, &ValidationError{Field: "server_unity_url", Reason: err.Error()})
	}
	if c.HassURL != "" {
		if err := validateURL(c.HassURL); err != nil {
			errs = append(errs, &ValidationError{Field: "hass_url", Reason: err.Error()})
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, &ValidationError{Field: "log_level", Reason: fmt.Sprintf("unknown level %q", c.LogLevel)})
	}
	for i, p := range c.UnityEntities {
		if p.ECAScript == "" || p.GameObject == "" {
			errs = append(errs, &ValidationError{
				Field:  fmt.Sprintf("unity_entities[%d]", i),
				Reason: "eca_script and game_object are required",
			})
		}
	}
	return errors.Join(errs...)
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is missing")
	}
	return nil
}
