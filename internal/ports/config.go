package ports

import (
	"context"

	"eud4xr-bridge/internal/domain/model"
)

type ConfigRepository interface {
	Get(ctx context.Context) (*model.Config, error)
	Save(ctx context.Context, config *model.Config) error
}

// AutomationRepository stores the host's rule file as a whole.
type AutomationRepository interface {
	Load(ctx context.Context) ([]map[string]any, error)
	Save(ctx context.Context, rules []map[string]any) error
}
