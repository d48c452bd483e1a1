package http

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/amimof/huego"

	"eud4xr-bridge/internal/domain/hue"
	"eud4xr-bridge/internal/domain/model"
)

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" ?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
<specVersion>
<major>1</major>
<minor>0</minor>
</specVersion>
<URLBase>http://%s:%d/</URLBase>
<device>
<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
<friendlyName>eud4xr bridge (%s)</friendlyName>
<manufacturer>Royal Philips Electronics</manufacturer>
<manufacturerURL>http://www.philips.com</manufacturerURL>
<modelDescription>Philips hue Personal Wireless Lighting</modelDescription>
<modelName>Philips hue bridge 2012</modelName>
<modelNumber>929000226503</modelNumber>
<modelURL>http://www.meethue.com</modelURL>
<serialNumber>001788102201</serialNumber>
<UDN>uuid:2f402f80-da50-11e1-9b23-001788102201</UDN>
</device>
</root>`, s.ip, s.port, s.ip)
}

// handleAPI routes /api/{user}/lights[/{id}[/state]]; any username is accepted.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if r.Method == http.MethodPost && (path == "" || path == "/") {
		s.handleRegister(w, r)
		return
	}
	if parts[0] == "" || parts[0] == model.Domain {
		http.NotFound(w, r)
		return
	}

	subPath := parts[1:]
	if len(subPath) == 0 {
		s.handleFullState(w, r)
		return
	}

	switch subPath[0] {
	case "lights":
		switch {
		case len(subPath) == 1:
			s.handleGetLights(w, r)
		case len(subPath) == 2:
			s.handleGetLight(w, r, subPath[1])
		case len(subPath) == 3 && subPath[2] == "state":
			s.handleSetLightState(w, r, subPath[1])
		default:
			http.NotFound(w, r)
		}
	default:
		writeJSON(w, http.StatusOK, map[string]any{})
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `[{"success":{"username": "admin"}}]`)
}

func (s *Server) lights(r *http.Request) (map[string]*huego.Light, error) {
	lights := make(map[string]*huego.Light)
	for _, d := range s.hue.Devices(r.Context()) {
		_, meta, err := s.hue.Device(r.Context(), d.ID)
		if err != nil {
			return nil, err
		}
		lights[d.ID] = hue.Light(d.ID, d.Name, d.State, meta)
	}
	return lights, nil
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	lights, err := s.lights(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"lights": lights,
		"groups": map[string]any{},
		"config": map[string]any{
			"name":       "Philips hue",
			"swversion":  "01003542",
			"apiversion": "1.11.0",
			"mac":        "00:17:88:10:22:01",
			"bridgeid":   "001788FFFE102201",
			"modelid":    "BSB001",
		},
	})
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	lights, err := s.lights(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lights)
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request, id string) {
	d, meta, err := s.hue.Device(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, hue.Light(d.ID, d.Name, d.State, meta))
}

func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var change hue.StateChange
	if on, ok := raw["on"].(bool); ok {
		change.On = &on
	}
	if v, ok := raw["bri"].(float64); ok {
		bri := uint8(math.Max(0, math.Min(254, math.Round(v))))
		change.Bri = &bri
	}
	if err := s.hue.UpdateDeviceState(r.Context(), id, change); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := []map[string]any{}
	for k, v := range raw {
		resp = append(resp, map[string]any{
			"success": map[string]any{
				fmt.Sprintf("/lights/%s/state/%s", id, k): v,
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
