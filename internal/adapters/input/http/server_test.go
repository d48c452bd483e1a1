package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amimof/huego"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"eud4xr-bridge/internal/domain/hue"
	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/ports"
)

func newTestServer(t *testing.T, bridge *MockBridge, hp *MockHue) *httptest.Server {
	t.Helper()
	opts := []Option{WithLogger(zaptest.NewLogger(t))}
	if hp != nil {
		opts = append(opts, WithHue(hp, "10.0.0.2", 80))
	}
	srv := httptest.NewServer(NewServer(bridge, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf strings.Builder
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func TestServer_Automations(t *testing.T) {
	bridge := new(MockBridge)
	srv := newTestServer(t, bridge, nil)
	list := []map[string]any{{"id": "rule-1"}}
	bridge.On("Automations", mock.Anything).Return(list, nil)
	bridge.On("Automation", mock.Anything, "missing").Return(nil, model.ErrNotFound)
	bridge.On("UpsertAutomations", mock.Anything, []map[string]any{{"id": "a"}, {"id": "b"}}).Return([]string{"a", "b"}, nil)
	bridge.On("RemoveAutomation", mock.Anything, "a").Return(nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/eud4xr/automations", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":"rule-1"}]`, string(body))

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/eud4xr/automations/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, http.MethodPost, srv.URL+"/api/eud4xr/automations", `[{"id":"a"},{"id":"b"}]`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ids":["a","b"]}`, string(body))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/eud4xr/automations", `"nope"`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/api/eud4xr/automations/a", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	bridge.AssertExpectations(t)
}

func TestServer_Views(t *testing.T) {
	bridge := new(MockBridge)
	srv := newTestServer(t, bridge, nil)
	bridge.On("Capabilities", mock.Anything, true).Return([]registry.CapabilitySummary{{Name: "ECADoor"}})
	bridge.On("ContextObjects", mock.Anything).Return(map[string][]string{"framed": {"lamp1"}})
	bridge.On("VirtualObjects", mock.Anything, true, []string{"lamp1"}).Return([]any{"lamp1"})
	bridge.On("CloseObjects", mock.Anything, "lamp1").Return([]ports.CloseObject{{Name: "door1", Distance: 0.5}}, nil)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/eud4xr/list_eca_capabilities?all=true", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var caps []map[string]any
	require.NoError(t, json.Unmarshal(body, &caps))
	assert.Equal(t, "ECADoor", caps[0]["name"])

	_, body = do(t, http.MethodGet, srv.URL+"/api/eud4xr/context_objects", "")
	assert.JSONEq(t, `{"framed":["lamp1"]}`, string(body))

	_, body = do(t, http.MethodPost, srv.URL+"/api/eud4xr/virtual_objects?only_objects=true", `{"names":["lamp1"]}`)
	assert.JSONEq(t, `["lamp1"]`, string(body))

	_, body = do(t, http.MethodGet, srv.URL+"/api/eud4xr/find_close_objects?name=lamp1", "")
	assert.JSONEq(t, `[{"name":"door1","distance":0.5}]`, string(body))

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/eud4xr/find_close_objects", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bridge.AssertExpectations(t)
}

func TestServer_Services(t *testing.T) {
	bridge := new(MockBridge)
	srv := newTestServer(t, bridge, nil)
	bridge.On("CallService", mock.Anything, "turns", map[string]any{"entity_id": "sensor.lamp1_ecalight", "newStatus": "on"}).Return(nil)
	bridge.On("CallService", mock.Anything, "flies", map[string]any{}).
		Return(&model.NotSupportedError{Subject: "bob", Verb: "flies"})
	bridge.On("CallService", mock.Anything, "broken", map[string]any{}).Return(errors.New("boom"))

	resp, _ := do(t, http.MethodPost, srv.URL+"/api/eud4xr/services/turns", `{"entity_id":"sensor.lamp1_ecalight","newStatus":"on"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/eud4xr/services/flies", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "not supported")

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/eud4xr/services/broken", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	bridge.AssertExpectations(t)
}

func TestServer_Update(t *testing.T) {
	bridge := new(MockBridge)
	srv := newTestServer(t, bridge, nil)
	bridge.On("ReceiveUpdate", mock.Anything, model.InboundUpdate{
		Update:    model.AttributeUpdate{UnityID: "lamp1@ECALight", Attribute: "intensity", NewValue: 80.0},
		Timestamp: 5,
	}).Return(model.OutcomeApplied, nil)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/eud4xr/updates",
		`{"content":{"unity_id":"lamp1@ECALight","attribute":"intensity","new_value":80},"timestamp":5}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"outcome":"applied"}`, string(body))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/eud4xr/updates", `{"content":{"unity_id":"lamp1"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Stream(t *testing.T) {
	bridge := new(MockBridge)
	srv := newTestServer(t, bridge, nil)
	bridge.On("ReceiveUpdate", mock.Anything, mock.Anything).Return(model.OutcomeQueued, nil).Once()

	ctx := context.Background()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/eud4xr/stream"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	require.NoError(t, conn.Write(ctx, websocket.MessageText,
		[]byte(`{"content":{"unity_id":"ghost","attribute":"on","new_value":"on"},"timestamp":1}`)))
	var ack streamAck
	require.NoError(t, wsjson.Read(ctx, conn, &ack))
	assert.Equal(t, "queued", ack.Outcome)

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(`not json`)))
	ack = streamAck{}
	require.NoError(t, wsjson.Read(ctx, conn, &ack))
	assert.NotEmpty(t, ack.Error)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, ""))
	bridge.AssertExpectations(t)
}

func TestServer_HueLights(t *testing.T) {
	bridge := new(MockBridge)
	hp := new(MockHue)
	srv := newTestServer(t, bridge, hp)
	meta := hue.Metadata{Type: "Dimmable light", ModelID: "LWB010", ManufacturerName: "Philips"}
	dev := &model.Device{ID: "lamp1", Name: "lamp1", EntityID: "sensor.lamp1_ecalight", State: &huego.State{On: true, Bri: 25}}
	hp.On("Devices", mock.Anything).Return([]*model.Device{dev})
	hp.On("Device", mock.Anything, "lamp1").Return(dev, meta, nil)
	on := false
	hp.On("UpdateDeviceState", mock.Anything, "lamp1", hue.StateChange{On: &on}).Return(nil)

	resp, body := do(t, http.MethodPost, srv.URL+"/api", `{"devicetype":"echo"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "admin")

	_, body = do(t, http.MethodGet, srv.URL+"/api/admin/lights", "")
	var lights map[string]huego.Light
	require.NoError(t, json.Unmarshal(body, &lights))
	require.Contains(t, lights, "lamp1")
	assert.Equal(t, "Dimmable light", lights["lamp1"].Type)
	assert.Equal(t, uint8(25), lights["lamp1"].State.Bri)

	resp, body = do(t, http.MethodPut, srv.URL+"/api/admin/lights/lamp1/state", `{"on":false}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"success":{"/lights/lamp1/state/on":false}}]`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/description.xml", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "http://10.0.0.2:80/")

	hp.AssertExpectations(t)
}
