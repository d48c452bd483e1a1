package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/model"
)

// AddVirtualObjects registers or refreshes one entity per pair. Pairs naming
// an unknown script are skipped. Every registration replays the failed queue.
func (s *BridgeService) AddVirtualObjects(ctx context.Context, pairs []model.VirtualObjectPair) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range pairs {
		if p.GameObject == "" {
			return 0, &model.ValidationError{Field: fmt.Sprintf("pairs[%d].game_object", i), Reason: "is required"}
		}
	}

	registered := 0
	for _, p := range pairs {
		typ, ok := s.registry.Type(p.ECAScript)
		if !ok {
			s.log.Warn("unknown eca script, skipping", zap.String("eca_script", p.ECAScript), zap.String("game_object", p.GameObject))
			continue
		}
		e, created := s.store.Upsert(typ, p)
		registered++
		s.log.Info("virtual object registered",
			zap.String("entity_id", e.ID),
			zap.String("group", e.Group),
			zap.Bool("created", created),
		)
		s.replayFailed(ctx)
	}
	if registered > 0 {
		s.registry.Invalidate()
	}
	return registered, nil
}
