package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/translator"
)

// Automations reads the rule file and translates every rule back to its
// natural-language dict. Rules that cannot be read are skipped.
func (s *BridgeService) Automations(ctx context.Context) ([]map[string]any, error) {
	rules, err := s.rules.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		a, err := translator.AutomationFromYAML(s.resolver, rule)
		if err != nil {
			s.log.Warn("skipping unreadable automation", zap.Any("id", rule["id"]), zap.Error(err))
			continue
		}
		out = append(out, a.ToDict())
	}
	return out, nil
}

func (s *BridgeService) Automation(ctx context.Context, id string) (map[string]any, error) {
	all, err := s.Automations(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range all {
		if a["id"] == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("automation %q: %w", id, model.ErrNotFound)
}

// UpsertAutomations translates natural-language automations to host rules and
// merges them into the rule file by id. Actions that cannot be resolved are
// written as eud4xr events and logged.
func (s *BridgeService) UpsertAutomations(ctx context.Context, automations []map[string]any) ([]string, error) {
	rendered := make([]map[string]any, 0, len(automations))
	s.mu.Lock()
	for i, d := range automations {
		a, err := translator.AutomationFromDict(d)
		if err != nil {
			s.mu.Unlock()
			return nil, fmt.Errorf("automation %d: %w", i, err)
		}
		rule, fallbacks, err := a.ToYAML(s.resolver)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		for _, f := range fallbacks {
			s.log.Warn("action written as event step", zap.String("automation", a.ID), zap.Error(f))
		}
		rendered = append(rendered, rule)
	}
	s.mu.Unlock()
	return s.writeRules(ctx, rendered)
}

// UpsertAutomationYAML merges rules given as YAML documents. Nothing is
// written when any document fails to parse.
func (s *BridgeService) UpsertAutomationYAML(ctx context.Context, docs []string) ([]string, error) {
	rules := make([]map[string]any, 0, len(docs))
	for i, doc := range docs {
		var rule map[string]any
		if err := yaml.Unmarshal([]byte(doc), &rule); err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", model.ErrPersistence, i, err)
		}
		if rule == nil {
			return nil, &model.ValidationError{Field: fmt.Sprintf("data[%d]", i), Reason: "is empty"}
		}
		if id, _ := rule["id"].(string); id == "" {
			rule["id"] = uuid.NewString()
		}
		rules = append(rules, rule)
	}
	return s.writeRules(ctx, rules)
}

func (s *BridgeService) RemoveAutomation(ctx context.Context, id string) error {
	s.rulesMu.Lock()
	defer s.rulesMu.Unlock()

	rules, err := s.rules.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	before := len(rules)
	rules = slices.DeleteFunc(rules, func(r map[string]any) bool { return ruleID(r) == id })
	if len(rules) == before {
		return fmt.Errorf("automation %q: %w", id, model.ErrNotFound)
	}
	if err := s.save(ctx, rules); err != nil {
		return err
	}
	s.log.Info("automation removed", zap.String("id", id))
	return nil
}

// writeRules replaces rules with matching ids and appends the rest.
func (s *BridgeService) writeRules(ctx context.Context, updates []map[string]any) ([]string, error) {
	s.rulesMu.Lock()
	defer s.rulesMu.Unlock()

	rules, err := s.rules.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		id := ruleID(u)
		ids = append(ids, id)
		if i := slices.IndexFunc(rules, func(r map[string]any) bool { return ruleID(r) == id }); i >= 0 {
			rules[i] = u
			continue
		}
		rules = append(rules, u)
	}
	if err := s.save(ctx, rules); err != nil {
		return nil, err
	}
	s.log.Info("automations written", zap.Strings("ids", ids))
	return ids, nil
}

// save writes the rule file, then asks the host to reload and pushes the new
// list to the simulation. Callers hold rulesMu.
func (s *BridgeService) save(ctx context.Context, rules []map[string]any) error {
	if err := s.rules.Save(ctx, rules); err != nil {
		s.metrics.RecordAutomationWrite(ctx, "error")
		return fmt.Errorf("%w: %w", model.ErrPersistence, err)
	}
	s.metrics.RecordAutomationWrite(ctx, "ok")
	if s.host != nil && s.host.IsConfigured() {
		s.async("host", func(ctx context.Context) error {
			return s.host.ReloadAutomations(ctx)
		})
	}
	s.async("unity", s.NotifyAutomations)
	return nil
}

// NotifyAutomations sends the current automation list to the simulation.
func (s *BridgeService) NotifyAutomations(ctx context.Context) error {
	all, err := s.Automations(ctx)
	if err != nil {
		return err
	}
	return s.sim.NotifyAutomations(ctx, all)
}

func ruleID(r map[string]any) string {
	id, _ := r["id"].(string)
	return id
}
