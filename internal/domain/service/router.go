package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"eud4xr-bridge/internal/domain/entity"
	"eud4xr-bridge/internal/domain/model"
)

type failedUpdate struct {
	update   model.InboundUpdate
	received time.Time
}

// ReceiveUpdate routes one inbound update. Updates for objects that are not
// registered yet are queued and replayed on later registrations.
func (s *BridgeService) ReceiveUpdate(ctx context.Context, in model.InboundUpdate) (model.UpdateOutcome, error) {
	if in.Update == nil {
		s.metrics.RecordUpdate(ctx, string(model.OutcomeRejected))
		return model.OutcomeRejected, &model.ValidationError{Field: "content", Reason: "is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.route(in, false)
	if outcome == model.OutcomeQueued {
		s.failed = append(s.failed, failedUpdate{update: in, received: s.now()})
		s.metrics.AddFailed(ctx, 1)
		s.log.Error("no entity for update, queued for replay",
			zap.String("unity_id", in.Update.TargetID()),
			zap.Int("queued", len(s.failed)),
		)
	}
	s.metrics.RecordUpdate(ctx, string(outcome))
	return outcome, nil
}

// route applies in and reports the outcome; OutcomeQueued means nothing could
// take it. Callers hold mu.
func (s *BridgeService) route(in model.InboundUpdate, retry bool) model.UpdateOutcome {
	switch u := in.Update.(type) {
	case model.AttributeUpdate:
		return s.applyAttribute(u, in.Timestamp, retry)
	case model.ActionEvent:
		return s.handleEvent(u)
	}
	return model.OutcomeRejected
}

func (s *BridgeService) candidates(unityID string) []*entity.Entity {
	group := model.GroupOf(unityID)
	if suffix := model.TypeSuffixOf(unityID); suffix != "" {
		if e, ok := s.store.ByType(group, suffix); ok {
			return []*entity.Entity{e}
		}
	}
	return s.store.Group(group)
}

func (s *BridgeService) applyAttribute(u model.AttributeUpdate, ts float64, retry bool) model.UpdateOutcome {
	for _, e := range s.candidates(u.UnityID) {
		prop, ok := e.Type.Property(u.Attribute)
		if !ok {
			continue
		}
		if !e.SetAttribute(u.Attribute, u.NewValue, ts) {
			s.log.Warn("stale update ignored",
				zap.String("entity_id", e.ID),
				zap.String("attribute", u.Attribute),
				zap.Float64("timestamp", ts),
				zap.Float64("last", e.LastUpdates[u.Attribute]),
			)
			return model.OutcomeStale
		}
		if prop.Tracker != "" {
			if b, err := model.ParseECABoolean(u.NewValue); err == nil && b.Truthy() {
				s.recency.Touch(prop.Tracker, e.Group)
			}
		}
		s.log.Debug("attribute updated", zap.String("entity_id", e.ID), zap.String("attribute", u.Attribute))
		if retry {
			return model.OutcomeReplayed
		}
		return model.OutcomeApplied
	}
	return model.OutcomeQueued
}

// handleEvent forwards an action the simulation performed to the host as an
// eud4xr event.
func (s *BridgeService) handleEvent(ev model.ActionEvent) model.UpdateOutcome {
	members := s.candidates(ev.UnityID)
	if len(members) == 0 {
		return model.OutcomeQueued
	}
	target := members[0]
	for _, e := range members {
		if e.Type.DeclaresVerb(ev.Verb) {
			target = e
			break
		}
	}
	data := map[string]any{
		"verb":    strings.ToLower(ev.Verb),
		"subject": target.Group,
	}
	if ev.Variable != "" {
		data["variable"] = strings.ToLower(ev.Variable)
	}
	if ev.Modifier != "" {
		data["modifier"] = strings.ToLower(ev.Modifier)
	}
	param := ev.Value
	if model.IsEmpty(param) {
		param = ev.Obj
	}
	if !model.IsEmpty(param) {
		if ev.Variable != "" && ev.Modifier != "" {
			data["value"] = param
		} else {
			data["obj"] = param
		}
	}
	s.log.Info("simulation action", zap.String("entity_id", target.ID), zap.String("verb", ev.Verb))
	s.fireEvent(model.EventAction, data)
	return model.OutcomeHandled
}

func (s *BridgeService) fireEvent(eventType string, data map[string]any) {
	if s.host == nil || !s.host.IsConfigured() {
		return
	}
	s.async("host", func(ctx context.Context) error {
		return s.host.FireEvent(ctx, eventType, data)
	})
}

// replayFailed retries queued updates, dropping those older than the
// retention window. Callers hold mu.
func (s *BridgeService) replayFailed(ctx context.Context) {
	if len(s.failed) == 0 {
		return
	}
	now := s.now()
	kept := s.failed[:0]
	for _, f := range s.failed {
		if now.Sub(f.received) > s.retention {
			s.metrics.RecordUpdate(ctx, string(model.OutcomeExpired))
			s.log.Info("failed update expired", zap.String("unity_id", f.update.Update.TargetID()))
			continue
		}
		outcome := s.route(f.update, true)
		if outcome == model.OutcomeQueued {
			kept = append(kept, f)
			continue
		}
		s.metrics.RecordUpdate(ctx, string(outcome))
		s.log.Info("failed update replayed", zap.String("unity_id", f.update.Update.TargetID()), zap.String("outcome", string(outcome)))
	}
	s.metrics.AddFailed(ctx, int64(len(kept)-len(s.failed)))
	clear(s.failed[len(kept):])
	s.failed = kept
}

// FailedUpdates reports the queue depth.
func (s *BridgeService) FailedUpdates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.failed)
}
