package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"eud4xr-bridge/internal/domain/model"
)

// Environment variables that override file values.
const (
	EnvConfigPath = "CONFIG_PATH"
	EnvHassURL    = "HASS_URL"
	EnvHassToken  = "HASS_TOKEN"
	EnvLocalIP    = "LOCAL_IP"
	EnvUnityURL   = "UNITY_URL"
	EnvUnityToken = "UNITY_TOKEN"
)

type YAMLConfigRepository struct {
	filepath string
	getenv   func(string) string
	mu       sync.RWMutex
}

func NewYAMLConfigRepository(filepath string) *YAMLConfigRepository {
	return &YAMLConfigRepository{filepath: filepath, getenv: os.Getenv}
}

// Get reads the file, applies environment overrides and defaults. A missing
// file yields a config built from the environment alone.
func (r *YAMLConfigRepository) Get(ctx context.Context) (*model.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg := &model.Config{}
	data, err := os.ReadFile(r.filepath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if cfg, err = decodeConfig(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", r.filepath, err)
		}
	}
	r.applyEnv(cfg)
	cfg.ApplyDefaults()
	return cfg, nil
}

func (r *YAMLConfigRepository) Save(ctx context.Context, config *model.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return writeFileAtomic(r.filepath, data)
}

func decodeConfig(data []byte) (*model.Config, error) {
	cfg := &model.Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

func (r *YAMLConfigRepository) applyEnv(cfg *model.Config) {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvHassURL, &cfg.HassURL},
		{EnvHassToken, &cfg.HassToken},
		{EnvLocalIP, &cfg.Hue.LocalIP},
		{EnvUnityURL, &cfg.ServerUnityURL},
		{EnvUnityToken, &cfg.ServerUnityToken},
	}
	for _, o := range overrides {
		if v := r.getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}
