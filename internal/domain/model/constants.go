package model

import "time"

const (
	Domain         = "eud4xr"
	AutomationPath = "automations.yaml"

	// Simulation endpoints
	APINotifyUpdate      = "/api/external_updates/"
	APINotifyAutomations = "/api/automations/"

	// Failed updates older than this are dropped instead of replayed.
	TimestampMinUpdate = 30 * time.Second

	// Capacity of each recency tracker.
	MaxLength = 15
)

// Service names on the bridge service bus.
const (
	ServiceSendUpdateToUnity   = "send_update_to_server_unity"
	ServiceAddVirtualObject    = "add_virtual_object"
	ServiceReceiveUpdate       = "receive_update_from_unity"
	ServiceAddUpdateAutomation = "add_update_automation"
	ServiceRemoveAutomation    = "remove_automation"
)

// Host event types.
const (
	EventAction              = Domain
	EventEntityRegistered    = Domain + "_entity_registered"
	EventAutomationsReloaded = "automation_reloaded"
)

// Recency tracker names.
const (
	TrackerFramed     = "framed"
	TrackerPointed    = "pointed"
	TrackerInteracted = "interacted"
)
