package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"eud4xr-bridge/internal/domain/model"
	"eud4xr-bridge/internal/domain/registry"
	"eud4xr-bridge/internal/domain/translator"
	"eud4xr-bridge/internal/ports"
)

type ListCapabilitiesInput struct {
	All bool `json:"all,omitempty" jsonschema:"describe every known type instead of only the registered ones"`
}

type ContextObjectsInput struct{}

type ListVirtualObjectsInput struct {
	OnlyObjects bool     `json:"only_objects,omitempty" jsonschema:"return names only"`
	Names       []string `json:"names,omitempty" jsonschema:"restrict to these object names"`
}

type FindCloseObjectsInput struct {
	Name string `json:"name" jsonschema:"reference object name"`
}

type PerformActionInput struct {
	Subject  string `json:"subject" jsonschema:"object performing the action"`
	Verb     string `json:"verb" jsonschema:"action verb, e.g. turns or sets"`
	Obj      any    `json:"obj,omitempty" jsonschema:"direct object or parameter"`
	Variable string `json:"variable,omitempty" jsonschema:"property the action changes"`
	Modifier string `json:"modifier,omitempty" jsonschema:"preposition such as to or by"`
	Value    any    `json:"value,omitempty" jsonschema:"value for variable actions"`
}

type CapabilitiesOutput struct {
	Capabilities []registry.CapabilitySummary `json:"capabilities"`
}

type ContextObjectsOutput struct {
	Framed     []string `json:"framed"`
	Pointed    []string `json:"pointed"`
	Interacted []string `json:"interacted"`
}

type VirtualObjectsOutput struct {
	Objects []any `json:"objects"`
}

type CloseObjectsOutput struct {
	Objects []ports.CloseObject `json:"objects"`
}

type PerformActionOutput struct {
	Status string `json:"status"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_eca_capabilities",
		Description: "Describe the virtual object types, their properties and the actions they accept",
	}, s.handleListCapabilities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "context_objects",
		Description: "Objects recently framed by the camera, pointed at or interacted with",
	}, s.handleContextObjects)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_virtual_objects",
		Description: "List registered virtual objects with their component state",
	}, s.handleListVirtualObjects)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "find_close_objects",
		Description: "Objects near a reference object, nearest first",
	}, s.handleFindCloseObjects)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "perform_action",
		Description: "Make an object perform an action, e.g. lamp1 turns on",
	}, s.handlePerformAction)
}

func (s *Server) handleListCapabilities(ctx context.Context, req *sdk.CallToolRequest, input ListCapabilitiesInput) (*sdk.CallToolResult, CapabilitiesOutput, error) {
	return nil, CapabilitiesOutput{Capabilities: s.bridge.Capabilities(ctx, input.All)}, nil
}

func (s *Server) handleContextObjects(ctx context.Context, req *sdk.CallToolRequest, input ContextObjectsInput) (*sdk.CallToolResult, ContextObjectsOutput, error) {
	snap := s.bridge.ContextObjects(ctx)
	return nil, ContextObjectsOutput{
		Framed:     nonNil(snap[model.TrackerFramed]),
		Pointed:    nonNil(snap[model.TrackerPointed]),
		Interacted: nonNil(snap[model.TrackerInteracted]),
	}, nil
}

func (s *Server) handleListVirtualObjects(ctx context.Context, req *sdk.CallToolRequest, input ListVirtualObjectsInput) (*sdk.CallToolResult, VirtualObjectsOutput, error) {
	return nil, VirtualObjectsOutput{Objects: s.bridge.VirtualObjects(ctx, input.OnlyObjects, input.Names)}, nil
}

func (s *Server) handleFindCloseObjects(ctx context.Context, req *sdk.CallToolRequest, input FindCloseObjectsInput) (*sdk.CallToolResult, CloseObjectsOutput, error) {
	if input.Name == "" {
		return nil, CloseObjectsOutput{}, fmt.Errorf("name is required")
	}
	objects, err := s.bridge.CloseObjects(ctx, input.Name)
	if err != nil {
		return nil, CloseObjectsOutput{}, err
	}
	return nil, CloseObjectsOutput{Objects: objects}, nil
}

func (s *Server) handlePerformAction(ctx context.Context, req *sdk.CallToolRequest, input PerformActionInput) (*sdk.CallToolResult, PerformActionOutput, error) {
	a := &translator.Action{
		Subject:  input.Subject,
		Verb:     input.Verb,
		Variable: input.Variable,
		Modifier: input.Modifier,
		Obj:      input.Obj,
		Value:    input.Value,
	}
	if err := s.bridge.PerformAction(ctx, a); err != nil {
		return nil, PerformActionOutput{}, err
	}
	return nil, PerformActionOutput{Status: "sent"}, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
