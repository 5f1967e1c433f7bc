package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for vitae resources.
	uriScheme = "vitae://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "builds",
		Name:        "builds",
		Description: "List of saved resume builds",
		MIMEType:    "application/json",
	}, s.handleBuildsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Available resume templates",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "builds/{buildId}",
		Name:        "build",
		Description: "A resume build as JSON",
		MIMEType:    "application/json",
	}, s.handleBuildResource)
}

// handleBuildsResource returns the build library.
func (s *Server) handleBuildsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	_, builds, err := s.handleListBuilds(ctx, nil, ListBuildsInput{})
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	return jsonResource(req.Params.URI, builds.Builds)
}

// handleTemplatesResource returns the template catalog.
func (s *Server) handleTemplatesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.templates().Templates)
}

// handleBuildResource returns one build.
func (s *Server) handleBuildResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	buildID := extractBuildID(req.Params.URI)
	if buildID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.document(ctx, buildID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting build: %w", err)
	}
	return jsonResource(req.Params.URI, toBuildOutput(buildID, doc))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractBuildID extracts the build ID from a URI like vitae://builds/{buildId}.
func extractBuildID(uri string) string {
	const prefix = uriScheme + "builds/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
