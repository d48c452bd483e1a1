// Package mcp exposes the bridge to language-model clients as MCP tools.
package mcp

import (
	"net/http"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"eud4xr-bridge/internal/ports"
)

type Server struct {
	bridge ports.BridgePort
	mcp    *sdk.Server
}

func NewServer(bridge ports.BridgePort, version string) *Server {
	s := &Server{
		bridge: bridge,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "eud4xr-bridge",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Handler serves the tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server { return s.mcp }, nil)
}
