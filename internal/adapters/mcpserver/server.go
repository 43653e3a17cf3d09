// Package mcpserver exposes the bottleneck engine as Model Context Protocol
// tools, over streamable HTTP or stdio.
package mcpserver

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/bottleneck/internal/version"
	"github.com/okian/bottleneck/pkg/logger"
)

// Server owns the MCP server and its HTTP handler.
type Server struct {
	srv     *mcp.Server
	handler http.Handler
	logger  logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds the MCP server and registers every tool against deps.
func New(deps Dependencies, opts ...Option) *Server {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("mcp")
	}

	impl := &mcp.Implementation{Name: "bottleneck", Version: version.Short()}
	s.srv = mcp.NewServer(impl, nil)
	Register(s.srv, deps, s.logger)

	s.handler = mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.srv }, nil)
	return s
}

// MCP returns the underlying server, e.g. to connect custom transports.
func (s *Server) MCP() *mcp.Server { return s.srv }

// Mount serves the streamable HTTP transport at path.
func (s *Server) Mount(ctx context.Context, mux *http.ServeMux, path string) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(path, s.handler)
	s.logger.Info(ctx, "mcp endpoint mounted", logger.String("path", path))
}

// Run serves a single session over transport, e.g. &mcp.StdioTransport{},
// until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.srv.Run(ctx, transport)
}
