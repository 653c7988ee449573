// Package mcp exposes the record store to Model Context Protocol clients
// as an alternative front end over the same store and persistence pair
// the line protocol uses.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"kindred/internal/snapshot"
	"kindred/internal/store"
)

type Server struct {
	store *store.Store
	snaps *snapshot.Manager
	mcp   *sdk.Server
}

// NewServer wraps the store in an MCP server. snaps may be nil to disable
// persistence.
func NewServer(st *store.Store, snaps *snapshot.Manager, version string) *Server {
	s := &Server{
		store: st,
		snaps: snaps,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "kindred",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
