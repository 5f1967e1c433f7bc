package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleBuildsResource(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{Title: "Listed"})

	result, err := server.handleBuildsResource(ctx, readRequest("vitae://builds"))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var builds []BuildSummaryOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &builds))
	require.Len(t, builds, 1)
	assert.Equal(t, id, builds[0].BuildID)
	assert.Equal(t, "Listed", builds[0].Title)
}

func TestServer_handleBuildResource(t *testing.T) {
	ctx := context.Background()
	server, _ := newTestServer(t)
	id := createBuild(t, server, CreateBuildInput{Title: "Single"})

	result, err := server.handleBuildResource(ctx, readRequest("vitae://builds/"+id))
	require.NoError(t, err)

	var build BuildOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &build))
	assert.Equal(t, "Single", build.Title)

	t.Run("unknown build", func(t *testing.T) {
		_, err := server.handleBuildResource(ctx, readRequest("vitae://builds/missing"))
		assert.Error(t, err)
	})

	t.Run("malformed uri", func(t *testing.T) {
		_, err := server.handleBuildResource(ctx, readRequest("vitae://other/"+id))
		assert.Error(t, err)
	})
}

func TestServer_handleTemplatesResource(t *testing.T) {
	server, _ := newTestServer(t)

	result, err := server.handleTemplatesResource(context.Background(), readRequest("vitae://templates"))
	require.NoError(t, err)

	var tmpls []TemplateOutput
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &tmpls))
	assert.Len(t, tmpls, 3)
}

func TestExtractBuildID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"vitae://builds/abc", "abc"},
		{"vitae://builds/abc/extra", ""},
		{"vitae://templates", ""},
		{"other://builds/abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBuildID(tt.uri))
		})
	}
}
