package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/vitae-cli/internal/core/domain"
	"github.com/custodia-labs/vitae-cli/internal/core/ports/driven"
)

// Ensure FileSource implements the interface.
var _ driven.SeedSource = (*FileSource)(nil)

// FileSource reads a seed from a single file.
type FileSource struct {
	path string
}

// NewFileSource creates a source for path. The format is chosen by
// extension: .yaml and .yml are YAML, everything else is JSON.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Location returns the file path.
func (s *FileSource) Location() string {
	return s.path
}

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) (*domain.SeedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("seed %s: %w", s.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Decode(data, isYAML(s.path))
}

// Decode parses seed content.
func Decode(data []byte, asYAML bool) (*domain.SeedResume, error) {
	var raw map[string]any
	var err error
	if asYAML {
		err = yaml.Unmarshal(data, &raw)
	} else {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode seed: %v", domain.ErrInvalidInput, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: seed is empty", domain.ErrInvalidInput)
	}

	seed := &domain.SeedResume{}
	seed.Title, _ = raw["title"].(string)
	seed.Template, _ = raw["template"].(string)

	if sections, ok := raw["sections"].(map[string]any); ok {
		seed.Sections = sections
		return seed, nil
	}
	seed.Sections = make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "title" || k == "template" {
			continue
		}
		seed.Sections[k] = v
	}
	return seed, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
