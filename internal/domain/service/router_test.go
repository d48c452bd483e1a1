package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eud4xr-bridge/internal/domain/model"
)

func TestBridgeService_AddVirtualObjects(t *testing.T) {
	h := newHarness(t, false)

	n, err := h.svc.AddVirtualObjects(context.Background(), []model.VirtualObjectPair{
		{ECAScript: "ECALight", GameObject: "lamp1@ECALight"},
		{ECAScript: "NoSuchScript", GameObject: "ghost@NoSuchScript"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []any{"lamp1"}, h.svc.VirtualObjects(context.Background(), true, nil))

	_, err = h.svc.AddVirtualObjects(context.Background(), []model.VirtualObjectPair{{ECAScript: "ECALight"}})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestBridgeService_ReceiveUpdate_TimestampGate(t *testing.T) {
	h := newHarness(t, false)
	h.register(t, "lamp1@ECALight")

	assert.Equal(t, model.OutcomeApplied, h.receive(t, "lamp1@ECALight", "intensity", 20.0, 5))
	assert.Equal(t, model.OutcomeStale, h.receive(t, "lamp1@ECALight", "intensity", 30.0, 5))
	assert.Equal(t, 20.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))

	assert.Equal(t, model.OutcomeApplied, h.receive(t, "lamp1", "intensity", 40.0, 10))
	assert.Equal(t, model.OutcomeStale, h.receive(t, "lamp1", "intensity", 50.0, 7))
	assert.Equal(t, 40.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))

	// the gate is per attribute
	assert.Equal(t, model.OutcomeApplied, h.receive(t, "lamp1", "on", "off", 1))
}

func TestBridgeService_ReRegistrationKeepsTimestamps(t *testing.T) {
	h := newHarness(t, false)
	h.register(t, "lamp1@ECALight")
	assert.Equal(t, model.OutcomeApplied, h.receive(t, "lamp1", "intensity", 80.0, 100))

	_, err := h.svc.AddVirtualObjects(context.Background(), []model.VirtualObjectPair{
		{ECAScript: "ECALight", GameObject: "lamp1@ECALight", UnityID: "lamp1-v2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 80.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))
	assert.Equal(t, 100.0, h.attribute(t, "sensor.lamp1_ecalight", "maxIntensity"))

	assert.Equal(t, model.OutcomeStale, h.receive(t, "lamp1", "intensity", 5.0, 50))
	assert.Equal(t, 80.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))

	h.register(t, "lamp1@ECALight")
	assert.Equal(t, 10.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))
	assert.Equal(t, model.OutcomeStale, h.receive(t, "lamp1", "intensity", 5.0, 50))
	assert.Len(t, h.svc.VirtualObjects(context.Background(), true, nil), 1)
}

func TestBridgeService_AddVirtualObjects_InvalidBatchIsAtomic(t *testing.T) {
	h := newHarness(t, false)

	n, err := h.svc.AddVirtualObjects(context.Background(), []model.VirtualObjectPair{
		{ECAScript: "ECALight", GameObject: "lamp1@ECALight"},
		{ECAScript: "ECALight"},
	})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Zero(t, n)
	assert.Empty(t, h.svc.VirtualObjects(context.Background(), true, nil))
}

func TestBridgeService_ReceiveUpdate_Rejected(t *testing.T) {
	h := newHarness(t, false)
	outcome, err := h.svc.ReceiveUpdate(context.Background(), model.InboundUpdate{Timestamp: 1})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Equal(t, model.OutcomeRejected, outcome)
}

func TestBridgeService_FailedQueueReplay(t *testing.T) {
	h := newHarness(t, false)

	assert.Equal(t, model.OutcomeQueued, h.receive(t, "lamp1@ECALight", "intensity", 80.0, 3))
	assert.Equal(t, 1, h.svc.FailedUpdates())

	h.clock.Advance(10 * time.Second)
	h.register(t, "lamp1@ECALight")

	assert.Equal(t, 0, h.svc.FailedUpdates())
	assert.Equal(t, 80.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))
}

func TestBridgeService_FailedQueueExpiry(t *testing.T) {
	h := newHarness(t, false)

	h.receive(t, "lamp1@ECALight", "intensity", 80.0, 3)
	h.clock.Advance(model.TimestampMinUpdate + time.Second)
	h.register(t, "lamp1@ECALight")

	assert.Equal(t, 0, h.svc.FailedUpdates())
	assert.Equal(t, 10.0, h.attribute(t, "sensor.lamp1_ecalight", "intensity"))
}

func TestBridgeService_FailedQueueKeepsUnroutable(t *testing.T) {
	h := newHarness(t, false)

	h.receive(t, "ghost@ECALight", "intensity", 80.0, 3)
	h.register(t, "lamp1@ECALight")
	assert.Equal(t, 1, h.svc.FailedUpdates())
}

func TestBridgeService_ReceiveUpdate_ActionEvent(t *testing.T) {
	h := newHarness(t, true)
	h.register(t, "door1@ECAObject", "door1@ECADoor")
	h.host.On("FireEvent", mock.Anything, model.EventAction, map[string]any{
		"verb":    "opens",
		"subject": "door1",
	}).Return(nil).Once()

	outcome, err := h.svc.ReceiveUpdate(context.Background(), model.InboundUpdate{
		Update:    model.ActionEvent{UnityID: "door1", Verb: "opens"},
		Timestamp: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeHandled, outcome)

	h.svc.Wait()
	h.host.AssertExpectations(t)
}

func TestBridgeService_ReceiveUpdate_ActionEventWithValue(t *testing.T) {
	h := newHarness(t, true)
	h.register(t, "lamp1@ECALight")
	h.host.On("FireEvent", mock.Anything, model.EventAction, map[string]any{
		"verb":     "sets",
		"subject":  "lamp1",
		"variable": "intensity",
		"modifier": "to",
		"value":    55.0,
	}).Return(nil).Once()

	_, err := h.svc.ReceiveUpdate(context.Background(), model.InboundUpdate{
		Update:    model.ActionEvent{UnityID: "lamp1@ECALight", Verb: "sets", Variable: "Intensity", Modifier: "to", Value: 55.0},
		Timestamp: 1,
	})
	require.NoError(t, err)

	h.svc.Wait()
	h.host.AssertExpectations(t)
}

func TestBridgeService_Trackers(t *testing.T) {
	h := newHarness(t, false)
	h.register(t, "lamp1@ECAObject", "door1@ECAObject")

	h.receive(t, "lamp1", "isInsideCamera", "true", 1)
	h.receive(t, "door1", "isInsideCamera", "false", 1)

	framed := h.svc.ContextObjects(context.Background())[model.TrackerFramed]
	assert.Equal(t, []string{"lamp1"}, framed)
}
