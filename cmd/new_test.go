package cmd

import (
	"testing"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalFrontMatter(t *testing.T) {
	doc, err := marshalFrontMatter(content.Matter{
		Title: "A New Post",
		Date:  "2025-08-29",
		Draft: true,
	})
	require.NoError(t, err)

	out := string(doc)
	assert.Contains(t, out, "---\n")
	assert.Contains(t, out, "title: A New Post\n")
	assert.Contains(t, out, "date: ")
	assert.Contains(t, out, "2025-08-29")
	assert.Contains(t, out, "draft: true\n")
	// Optional empty fields stay out of the scaffold.
	assert.NotContains(t, out, "image:")
	assert.NotContains(t, out, "tags:")
}
