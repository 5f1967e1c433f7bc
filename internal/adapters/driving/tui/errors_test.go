package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	assert.EqualError(t, ErrMissingLibraryService, "tui: library service is required")
	assert.EqualError(t, ErrMissingSessionService, "tui: session service is required")
	assert.NotErrorIs(t, ErrMissingLibraryService, ErrMissingSessionService)
}
