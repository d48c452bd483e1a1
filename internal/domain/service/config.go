package service

import (
	"context"
	"fmt"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/ports"
)

type ConfigService struct {
	repo ports.ConfigRepository
	host ports.HostPort
}

func NewConfigService(repo ports.ConfigRepository, host ports.HostPort) *ConfigService {
	return &ConfigService{
		repo: repo,
		host: host,
	}
}

func (s *ConfigService) GetConfig(ctx context.Context) (*model.Config, error) {
	return s.repo.Get(ctx)
}

// UpdateConfig validates and stores cfg, then points the host client at the
// new Home Assistant endpoint.
func (s *ConfigService) UpdateConfig(ctx context.Context, cfg *model.Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	s.host.Configure(cfg.HassURL, cfg.HassToken)
	return nil
}
