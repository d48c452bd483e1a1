package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/hue"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/recency"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/domain/translator"
	"eud4xr-bridge/internal/observe"
	"eud4xr-bridge/internal/ports"
)

const sendTimeout = 10 * time.Second

// BridgeService owns the bridge state: the entity store, recency trackers and
// the failed-update queue live behind mu. Outbound sends run on background
// goroutines; Wait blocks until they finish.
type BridgeService struct {
	sim   ports.SimulationPort
	host  ports.HostPort
	rules ports.AutomationRepository

	log       *zap.Logger
	metrics   *observe.Metrics
	now       func() time.Time
	retention time.Duration
	hue       *hue.Factory

	mu       sync.Mutex
	registry *registry.Registry
	store    *entity.Store
	resolver *translator.Resolver
	recency  *recency.Set
	failed   []failedUpdate

	// serializes read-modify-write of the rule file
	rulesMu sync.Mutex

	wg sync.WaitGroup
}

type Option func(*BridgeService)

func WithLogger(l *zap.Logger) Option {
	return func(s *BridgeService) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *observe.Metrics) Option {
	return func(s *BridgeService) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *BridgeService) { s.now = now }
}

// WithRetention sets how long an unroutable update is kept for replay.
func WithRetention(d time.Duration) Option {
	return func(s *BridgeService) {
		if d > 0 {
			s.retention = d
		}
	}
}

func WithRegistry(r *registry.Registry) Option {
	return func(s *BridgeService) { s.registry = r }
}

func WithHueFormulas(toHue, toUnity string) Option {
	return func(s *BridgeService) { s.hue = hue.NewFactory(toHue, toUnity) }
}

func NewBridgeService(sim ports.SimulationPort, host ports.HostPort, rules ports.AutomationRepository, opts ...Option) *BridgeService {
	s := &BridgeService{
		sim:       sim,
		host:      host,
		rules:     rules,
		log:       zap.NewNop(),
		metrics:   observe.Noop(),
		now:       time.Now,
		retention: model.TimestampMinUpdate,
		registry:  registry.Default(),
		store:     entity.NewStore(),
		recency:   recency.NewSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hue == nil {
		s.hue = hue.NewFactory(model.DefaultToHueFormula, model.DefaultToUnityFormula)
	}
	s.resolver = translator.NewResolver(s.store)
	return s
}

// Wait blocks until every background send has completed.
func (s *BridgeService) Wait() {
	s.wg.Wait()
}

// async runs fn on its own goroutine with a bounded context, logging failures.
func (s *BridgeService) async(target string, fn func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.metrics.RecordOutbound(ctx, target, "error")
			s.log.Error("outbound send failed", zap.String("target", target), zap.Error(err))
			return
		}
		s.metrics.RecordOutbound(ctx, target, "ok")
	}()
}
