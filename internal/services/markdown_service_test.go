package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMarkdownService(t *testing.T) *MarkdownService {
	t.Helper()
	svc := NewMarkdownService()
	require.NoError(t, svc.Initialize())
	return svc
}

func TestMarkdownService_Name(t *testing.T) {
	assert.Equal(t, "markdown", NewMarkdownService().Name())
}

func TestMarkdownService_NotInitialized(t *testing.T) {
	svc := NewMarkdownService()
	_, err := svc.Render("# hello")
	assert.ErrorContains(t, err, "not initialized")
}

func TestMarkdownService_Render(t *testing.T) {
	svc := newTestMarkdownService(t)

	rendered, err := svc.Render("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, rendered, "Title")
	assert.Contains(t, rendered, "bold")
}

func TestMarkdownService_RenderEmpty(t *testing.T) {
	svc := newTestMarkdownService(t)

	_, err := svc.Render("   \n  ")
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestMarkdownService_RenderWithStyle(t *testing.T) {
	svc := newTestMarkdownService(t)

	rendered, err := svc.RenderWithStyle("plain text", "notty")
	require.NoError(t, err)
	assert.Contains(t, rendered, "plain text")
}

func TestMarkdownService_SetWordWrap(t *testing.T) {
	svc := newTestMarkdownService(t)

	assert.NoError(t, svc.SetWordWrap(120))
	assert.ErrorContains(t, svc.SetWordWrap(0), "must be positive")
}
