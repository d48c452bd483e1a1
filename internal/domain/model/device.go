package model

import "github.com/amimof/huego"

// Device is a Hue-visible projection of one ECALight group.
type Device struct {
	ID       string // Hue identifier, the group name
	Name     string
	EntityID string // backing ECALight entity
	State    *huego.State
}
