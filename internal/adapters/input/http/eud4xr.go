package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"eud4xr-bridge/internal/domain/model"
)

func (s *Server) handleListAutomations(w http.ResponseWriter, r *http.Request) {
	list, err := s.bridge.Automations(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetAutomation(w http.ResponseWriter, r *http.Request) {
	a, err := s.bridge.Automation(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleUpsertAutomations accepts one automation dict or a list of them.
func (s *Server) handleUpsertAutomations(w http.ResponseWriter, r *http.Request) {
	var body any
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	var automations []map[string]any
	switch t := body.(type) {
	case map[string]any:
		automations = append(automations, t)
	case []any:
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				s.writeError(w, r, &model.ValidationError{Field: "body", Reason: "automations must be objects"})
				return
			}
			automations = append(automations, m)
		}
	default:
		s.writeError(w, r, &model.ValidationError{Field: "body", Reason: "expected an automation or a list"})
		return
	}
	ids, err := s.bridge.UpsertAutomations(r.Context(), automations)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids})
}

func (s *Server) handleDeleteAutomation(w http.ResponseWriter, r *http.Request) {
	if err := s.bridge.RemoveAutomation(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.Capabilities(r.Context(), queryBool(r, "all")))
}

func (s *Server) handleContextObjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.bridge.ContextObjects(r.Context()))
}

// handleVirtualObjects filters by names from the POST body, a JSON list or
// {"names": [...]}, or from repeated ?name= parameters.
func (s *Server) handleVirtualObjects(w http.ResponseWriter, r *http.Request) {
	names := r.URL.Query()["name"]
	if r.Method == http.MethodPost && r.ContentLength != 0 {
		var body any
		if err := decodeBody(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
		if m, ok := body.(map[string]any); ok {
			body = m["names"]
		}
		if list, ok := body.([]any); ok {
			for _, item := range list {
				if name, ok := item.(string); ok {
					names = append(names, name)
				}
			}
		}
	}
	writeJSON(w, http.StatusOK, s.bridge.VirtualObjects(r.Context(), queryBool(r, "only_objects"), names))
}

func (s *Server) handleCloseObjects(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeError(w, r, &model.ValidationError{Field: "name", Reason: "is required"})
		return
	}
	objects, err := s.bridge.CloseObjects(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, objects)
}

func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if r.ContentLength != 0 {
		if err := decodeBody(r, &data); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if err := s.bridge.CallService(r.Context(), r.PathValue("service"), data); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeBody(r, &raw); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := model.ParseInbound(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	outcome, err := s.bridge.ReceiveUpdate(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome)})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.config.GetConfig(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	masked := *cfg
	masked.HassToken = mask(masked.HassToken)
	masked.ServerUnityToken = mask(masked.ServerUnityToken)
	writeJSON(w, http.StatusOK, masked)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg model.Config
	if err := decodeBody(r, &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	// masked secrets sent back unchanged keep their stored value
	if cfg.HassToken == maskedSecret || cfg.ServerUnityToken == maskedSecret {
		current, err := s.config.GetConfig(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if cfg.HassToken == maskedSecret {
			cfg.HassToken = current.HassToken
		}
		if cfg.ServerUnityToken == maskedSecret {
			cfg.ServerUnityToken = current.ServerUnityToken
		}
	}
	if err := s.config.UpdateConfig(r.Context(), &cfg); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

const maskedSecret = "********"

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return maskedSecret
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
