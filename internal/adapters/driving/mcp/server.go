package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vitae-cli/internal/core/ports/driving"
	"github.com/custodia-labs/vitae-cli/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for vitae.
// Builds touched by tools stay open as sessions until Close.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu       sync.Mutex
	sessions map[string]driving.Session
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "vitae",
		Version: Version,
	}

	s := &Server{
		ports:    ports,
		server:   mcp.NewServer(impl, nil),
		sessions: make(map[string]driving.Session),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close(context.Background()) //nolint:errcheck
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	defer s.Close(context.Background()) //nolint:errcheck

	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close flushes and closes every open session.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[string]driving.Session)
	s.mu.Unlock()

	var errs []error
	for id, sess := range open {
		if err := sess.Close(ctx); err != nil {
			logger.Error("mcp: closing build %s: %v", id, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// session returns the open session for buildID, opening it on first use.
func (s *Server) session(ctx context.Context, buildID string) (driving.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[buildID]; ok {
		return sess, nil
	}
	sess, err := s.ports.Sessions.Open(ctx, buildID)
	if err != nil {
		return nil, err
	}
	s.sessions[buildID] = sess
	return sess, nil
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
