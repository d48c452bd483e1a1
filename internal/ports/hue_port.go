package ports

import (
	"context"

	"eud4xr-bridge/internal/domain/hue"
	"eud4xr-bridge/internal/domain/model"
)

type HuePort interface {
	Devices(ctx context.Context) []*model.Device
	Device(ctx context.Context, id string) (*model.Device, hue.Metadata, error)
	UpdateDeviceState(ctx context.Context, id string, change hue.StateChange) error
}
