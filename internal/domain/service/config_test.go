package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eud4xr-bridge/internal/domain/model"
)

type MockConfigRepo struct {
	mock.Mock
}

func (m *MockConfigRepo) Get(ctx context.Context) (*model.Config, error) {
	args := m.Called(ctx)
	return args.Get(0).(*model.Config), args.Error(1)
}

func (m *MockConfigRepo) Save(ctx context.Context, cfg *model.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func TestConfigService_UpdateConfig(t *testing.T) {
	repo := new(MockConfigRepo)
	host := new(MockHost)
	cfg := &model.Config{ServerUnityURL: "http://unity:8000", HassURL: "http://ha:8123", HassToken: "t"}
	repo.On("Save", mock.Anything, cfg).Return(nil)
	host.On("Configure", "http://ha:8123", "t").Return()

	s := NewConfigService(repo, host)
	require.NoError(t, s.UpdateConfig(context.Background(), cfg))
	assert.Equal(t, model.DefaultListen, cfg.Listen)

	repo.AssertExpectations(t)
	host.AssertExpectations(t)
}

func TestConfigService_UpdateConfigInvalid(t *testing.T) {
	repo := new(MockConfigRepo)
	host := new(MockHost)

	s := NewConfigService(repo, host)
	err := s.UpdateConfig(context.Background(), &model.Config{ServerUnityURL: "ftp://unity"})
	assert.ErrorIs(t, err, model.ErrValidation)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
